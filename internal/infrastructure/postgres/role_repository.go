package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/OpenBar-api/internal/domain"
	"github.com/jhoicas/OpenBar-api/internal/domain/entity"
	"github.com/jhoicas/OpenBar-api/internal/domain/repository"
)

var _ repository.RoleRepository = (*RoleRepo)(nil)

// RoleRepo implementación de RoleRepository sobre PostgreSQL (usable con pool o tx).
type RoleRepo struct {
	q Querier
}

// NewRoleRepository construye el adaptador de roles. Pasar pool o tx (Querier).
func NewRoleRepository(q Querier) *RoleRepo {
	return &RoleRepo{q: q}
}

// Create persiste un rol y asigna su ID.
func (r *RoleRepo) Create(ctx context.Context, role *entity.Role) error {
	err := r.q.QueryRow(ctx,
		`INSERT INTO roles (name, parent_id) VALUES ($1, $2) RETURNING id`,
		role.Name, role.ParentID,
	).Scan(&role.ID)
	return wrapWrite(err, "insert role", domain.ErrNotFound)
}

// GetByID obtiene un rol; (nil, nil) si no existe.
func (r *RoleRepo) GetByID(ctx context.Context, id int64) (*entity.Role, error) {
	var role entity.Role
	err := r.q.QueryRow(ctx, `SELECT id, name, parent_id FROM roles WHERE id = $1`, id).
		Scan(&role.ID, &role.Name, &role.ParentID)
	if missing, err := noRows(err); missing || err != nil {
		return nil, wrapRead(err, "get role")
	}
	return &role, nil
}

// List todos los roles por id.
func (r *RoleRepo) List(ctx context.Context) ([]*entity.Role, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, parent_id FROM roles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return collectRoles(rows)
}

// ListChildren hijos directos de parentID.
func (r *RoleRepo) ListChildren(ctx context.Context, parentID int64) ([]*entity.Role, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, parent_id FROM roles WHERE parent_id = $1 ORDER BY id`, parentID)
	if err != nil {
		return nil, fmt.Errorf("list role children: %w", err)
	}
	return collectRoles(rows)
}

// Update reemplaza nombre y padre.
func (r *RoleRepo) Update(ctx context.Context, role *entity.Role) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE roles SET name = $2, parent_id = $3 WHERE id = $1`,
		role.ID, role.Name, role.ParentID,
	)
	if err != nil {
		return wrapWrite(err, "update role", domain.ErrNotFound)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteMany borra los roles en una sola sentencia: las FK entre ellos se comprueban al final.
// Los permisos caen por ON DELETE CASCADE; un usuario con uno de los roles da ErrConflict.
func (r *RoleRepo) DeleteMany(ctx context.Context, ids []int64) error {
	_, err := r.q.Exec(ctx, `DELETE FROM roles WHERE id = ANY($1)`, ids)
	return wrapDelete(err, "delete roles")
}

// DeleteAll borra todos los roles.
func (r *RoleRepo) DeleteAll(ctx context.Context) error {
	_, err := r.q.Exec(ctx, `DELETE FROM roles`)
	return wrapDelete(err, "delete all roles")
}

func collectRoles(rows pgx.Rows) ([]*entity.Role, error) {
	defer rows.Close()
	var out []*entity.Role
	for rows.Next() {
		var role entity.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.ParentID); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		out = append(out, &role)
	}
	return out, rows.Err()
}
