package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/OpenBar-api/internal/domain"
	"github.com/jhoicas/OpenBar-api/internal/domain/entity"
	"github.com/jhoicas/OpenBar-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, username, password_hash, first_name, name, role_id, card_id_hash, salt_year,
	balance, group_year, phone, mail, stats_agree, last_login, created_at`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL (pool o tx).
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste un nuevo usuario con saldo inicial.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO users (username, password_hash, first_name, name, role_id, card_id_hash, salt_year,
			balance, group_year, phone, mail, stats_agree, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`,
		u.Username, u.PasswordHash, u.FirstName, u.Name, u.RoleID, u.CardIDHash, u.SaltYear,
		u.Balance, u.GroupYear, u.Phone, u.Mail, u.StatsAgree, createdAt(u.CreatedAt),
	).Scan(&u.ID)
	return wrapWrite(err, "insert user", domain.ErrNotFound)
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	return r.one(ctx, "get user", `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetForUpdate obtiene el usuario y bloquea la fila (SELECT FOR UPDATE).
func (r *UserRepo) GetForUpdate(ctx context.Context, id int64) (*entity.User, error) {
	return r.one(ctx, "get user for update", `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id)
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.one(ctx, "get user by username", `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *UserRepo) GetByMail(ctx context.Context, mail string) (*entity.User, error) {
	return r.one(ctx, "get user by mail", `SELECT `+userColumns+` FROM users WHERE mail = $1`, mail)
}

func (r *UserRepo) GetByCard(ctx context.Context, saltYear int, cardHash string) (*entity.User, error) {
	return r.one(ctx, "get user by card",
		`SELECT `+userColumns+` FROM users WHERE salt_year = $1 AND card_id_hash = $2`, saltYear, cardHash)
}

// List usuarios por id.
func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	rows, err := r.q.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var out []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Update reemplaza los datos editables; saldo y last_login tienen sus propios métodos.
func (r *UserRepo) Update(ctx context.Context, u *entity.User) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE users SET username = $2, password_hash = $3, first_name = $4, name = $5, role_id = $6,
			card_id_hash = $7, salt_year = $8, group_year = $9, phone = $10, mail = $11, stats_agree = $12
		WHERE id = $1`,
		u.ID, u.Username, u.PasswordHash, u.FirstName, u.Name, u.RoleID,
		u.CardIDHash, u.SaltYear, u.GroupYear, u.Phone, u.Mail, u.StatsAgree,
	)
	if err != nil {
		return wrapWrite(err, "update user", domain.ErrNotFound)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// UpdateBalance fija el saldo; un saldo negativo viola el CHECK y da ErrConflict.
func (r *UserRepo) UpdateBalance(ctx context.Context, id, balance int64) error {
	tag, err := r.q.Exec(ctx, `UPDATE users SET balance = $2 WHERE id = $1`, id, balance)
	if err != nil {
		return wrapWrite(err, "update balance", domain.ErrUserNotFound)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	_, err := r.q.Exec(ctx, `UPDATE users SET last_login = $2 WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("update last_login: %w", err)
	}
	return nil
}

// Delete borra el usuario; con pedidos o recargas asociados devuelve ErrConflict.
func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return wrapDelete(err, "delete user")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) one(ctx context.Context, op, query string, args ...any) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, query, args...))
	if missing, err := noRows(err); missing || err != nil {
		return nil, wrapRead(err, op)
	}
	return u, nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	err := row.Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.FirstName, &u.Name, &u.RoleID, &u.CardIDHash, &u.SaltYear,
		&u.Balance, &u.GroupYear, &u.Phone, &u.Mail, &u.StatsAgree, &u.LastLogin, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func createdAt(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}
