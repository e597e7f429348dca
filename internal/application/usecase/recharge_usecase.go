package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/jhoicas/OpenBar-api/internal/application/dto"
	"github.com/jhoicas/OpenBar-api/internal/domain"
	"github.com/jhoicas/OpenBar-api/internal/domain/entity"
	"github.com/jhoicas/OpenBar-api/internal/domain/repository"
)

// RechargeTxRunner ejecuta fn en una transacción con repos de recargas y usuarios.
type RechargeTxRunner interface {
	RunRecharge(ctx context.Context, fn func(recharges repository.RechargeRepository, users repository.UserRepository) error) error
}

// RechargeUseCase recargas de saldo hechas por un barman.
type RechargeUseCase struct {
	repo repository.RechargeRepository
	tx   RechargeTxRunner
	now  func() time.Time
}

// NewRechargeUseCase construye el caso de uso.
func NewRechargeUseCase(repo repository.RechargeRepository, tx RechargeTxRunner) *RechargeUseCase {
	return &RechargeUseCase{repo: repo, tx: tx, now: time.Now}
}

// Create registra la recarga y acredita el saldo en la misma transacción, con la fila del cliente bloqueada.
func (uc *RechargeUseCase) Create(ctx context.Context, barmanID int64, in dto.CreateRechargeRequest) (*dto.RechargeResponse, error) {
	if in.Value <= 0 {
		return nil, domain.ErrInvalidInput
	}
	rc := &entity.Recharge{BarmanID: barmanID, ClientID: in.ClientID, Value: in.Value, CreatedAt: uc.now()}
	err := uc.tx.RunRecharge(ctx, func(recharges repository.RechargeRepository, users repository.UserRepository) error {
		client, err := users.GetForUpdate(ctx, in.ClientID)
		if err != nil {
			return err
		}
		if client == nil {
			return domain.ErrUserNotFound
		}
		if client.Balance > math.MaxInt64-in.Value {
			return fmt.Errorf("%w: la recarga desborda el saldo del usuario %d", domain.ErrInvalidInput, client.ID)
		}
		if err := users.UpdateBalance(ctx, client.ID, client.Balance+in.Value); err != nil {
			return err
		}
		return recharges.Create(ctx, rc)
	})
	if err != nil {
		return nil, err
	}
	return toRechargeResponse(rc), nil
}

// Get recarga por id o domain.ErrNotFound.
func (uc *RechargeUseCase) Get(ctx context.Context, id int64) (*dto.RechargeResponse, error) {
	rc, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rc == nil {
		return nil, domain.ErrNotFound
	}
	return toRechargeResponse(rc), nil
}

// List recargas paginadas, las más recientes primero.
func (uc *RechargeUseCase) List(ctx context.Context, page dto.PageRequest) ([]dto.RechargeResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RechargeResponse, 0, len(list))
	for _, rc := range list {
		out = append(out, *toRechargeResponse(rc))
	}
	return out, nil
}

func toRechargeResponse(rc *entity.Recharge) *dto.RechargeResponse {
	return &dto.RechargeResponse{
		ID:        rc.ID,
		BarmanID:  rc.BarmanID,
		ClientID:  rc.ClientID,
		Value:     rc.Value,
		CreatedAt: rc.CreatedAt,
	}
}
