package repository

import (
	"context"
	"time"

	"github.com/jhoicas/OpenBar-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Los Get devuelven (nil, nil) si el usuario no existe.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	// GetForUpdate bloquea la fila del usuario hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id int64) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByMail(ctx context.Context, mail string) (*entity.User, error)
	GetByCard(ctx context.Context, saltYear int, cardHash string) (*entity.User, error)
	List(ctx context.Context, limit, offset int) ([]*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	UpdateBalance(ctx context.Context, id, balance int64) error
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
	Delete(ctx context.Context, id int64) error
}
