package role

import (
	"context"

	"github.com/jhoicas/OpenBar-api/internal/domain/repository"
)

// TxRunner ejecuta fn en una transacción que serializa los cambios estructurales de roles
// (bloqueo consultivo en PostgreSQL, mutex en memoria). Así dos reasignaciones de padre
// concurrentes no pueden formar un ciclo entre las dos.
type TxRunner interface {
	RunRoles(ctx context.Context, fn func(roles repository.RoleRepository) error) error
}
