package repository

import (
	"context"

	"github.com/jhoicas/OpenBar-api/internal/domain/entity"
)

// CardSaltRepository define el puerto de persistencia para las sales anuales de tarjeta.
type CardSaltRepository interface {
	Get(ctx context.Context, year int) (*entity.CardSalt, error)
	// Create no falla si otro proceso creó la sal del mismo año; en ese caso no hace nada.
	Create(ctx context.Context, salt *entity.CardSalt) error
	// ListNewestFirst ordena por año descendente: los usuarios recientes se encuentran antes.
	ListNewestFirst(ctx context.Context) ([]*entity.CardSalt, error)
}
