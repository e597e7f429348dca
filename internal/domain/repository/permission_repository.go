package repository

import (
	"context"

	"github.com/jhoicas/OpenBar-api/internal/domain/entity"
)

// PermissionRepository define el puerto de persistencia para permisos de rol y de usuario.
type PermissionRepository interface {
	AddToRole(ctx context.Context, perm *entity.Permission) error
	ListByRole(ctx context.Context, roleID int64) ([]*entity.Permission, error)
	RemoveFromRole(ctx context.Context, roleID, permissionID int64) error
	// ListGranted une los permisos del rol del usuario y los propios del usuario para un tipo de login.
	ListGranted(ctx context.Context, roleID, userID int64, loginType entity.LoginType) ([]*entity.Permission, error)
}
