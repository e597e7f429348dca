package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/OpenBar-api/internal/domain"
	"github.com/jhoicas/OpenBar-api/internal/domain/entity"
	"github.com/jhoicas/OpenBar-api/internal/domain/repository"
)

var _ repository.PermissionRepository = (*PermissionRepo)(nil)

const permissionColumns = `id, name, login_type, perm_range, role_id, user_id`

// PermissionRepo implementación de PermissionRepository sobre PostgreSQL.
type PermissionRepo struct {
	q Querier
}

// NewPermissionRepository construye el adaptador de permisos.
func NewPermissionRepository(q Querier) *PermissionRepo {
	return &PermissionRepo{q: q}
}

// AddToRole persiste un permiso de rol; duplicado (rol, nombre, tipo de login) -> ErrDuplicate.
func (r *PermissionRepo) AddToRole(ctx context.Context, perm *entity.Permission) error {
	if perm.RoleID == nil {
		return domain.ErrInvalidInput
	}
	err := r.q.QueryRow(ctx,
		`INSERT INTO permissions (name, login_type, perm_range, role_id) VALUES ($1, $2, $3, $4) RETURNING id`,
		perm.Name, int16(perm.LoginType), int16(perm.Range), *perm.RoleID,
	).Scan(&perm.ID)
	return wrapWrite(err, "insert permission", domain.ErrNotFound)
}

// ListByRole permisos de un rol.
func (r *PermissionRepo) ListByRole(ctx context.Context, roleID int64) ([]*entity.Permission, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+permissionColumns+` FROM permissions WHERE role_id = $1 ORDER BY id`, roleID)
	if err != nil {
		return nil, fmt.Errorf("list role permissions: %w", err)
	}
	return collectPermissions(rows)
}

// RemoveFromRole borra el permiso si pertenece al rol.
func (r *PermissionRepo) RemoveFromRole(ctx context.Context, roleID, permissionID int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM permissions WHERE id = $1 AND role_id = $2`, permissionID, roleID)
	if err != nil {
		return fmt.Errorf("delete permission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListGranted permisos del rol y propios del usuario para un tipo de login.
func (r *PermissionRepo) ListGranted(ctx context.Context, roleID, userID int64, loginType entity.LoginType) ([]*entity.Permission, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+permissionColumns+`
		FROM permissions
		WHERE login_type = $3 AND (role_id = $1 OR user_id = $2)
		ORDER BY id`,
		roleID, userID, int16(loginType),
	)
	if err != nil {
		return nil, fmt.Errorf("list granted permissions: %w", err)
	}
	return collectPermissions(rows)
}

func collectPermissions(rows pgx.Rows) ([]*entity.Permission, error) {
	defer rows.Close()
	var out []*entity.Permission
	for rows.Next() {
		var (
			p         entity.Permission
			loginType int16
			rng       int16
		)
		if err := rows.Scan(&p.ID, &p.Name, &loginType, &rng, &p.RoleID, &p.UserID); err != nil {
			return nil, fmt.Errorf("scan permission: %w", err)
		}
		p.LoginType = entity.LoginType(loginType)
		p.Range = entity.Range(rng)
		out = append(out, &p)
	}
	return out, rows.Err()
}
