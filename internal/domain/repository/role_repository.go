package repository

import (
	"context"

	"github.com/jhoicas/OpenBar-api/internal/domain/entity"
)

// RoleRepository define el puerto de persistencia para Role (DIP).
type RoleRepository interface {
	Create(ctx context.Context, role *entity.Role) error
	GetByID(ctx context.Context, id int64) (*entity.Role, error)
	List(ctx context.Context) ([]*entity.Role, error)
	// ListChildren devuelve los hijos directos (relación inversa de parent).
	ListChildren(ctx context.Context, parentID int64) ([]*entity.Role, error)
	Update(ctx context.Context, role *entity.Role) error
	// DeleteMany borra los roles indicados; el llamador pasa el conjunto completo (rol + descendientes).
	DeleteMany(ctx context.Context, ids []int64) error
	DeleteAll(ctx context.Context) error
}
