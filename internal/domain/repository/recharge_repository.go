package repository

import (
	"context"

	"github.com/jhoicas/OpenBar-api/internal/domain/entity"
)

// RechargeRepository define el puerto de persistencia para Recharge.
type RechargeRepository interface {
	Create(ctx context.Context, recharge *entity.Recharge) error
	GetByID(ctx context.Context, id int64) (*entity.Recharge, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Recharge, error)
}
