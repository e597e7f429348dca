package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/OpenBar-api/internal/domain"
	"github.com/jhoicas/OpenBar-api/internal/domain/entity"
	"github.com/jhoicas/OpenBar-api/internal/domain/repository"
)

var _ repository.RechargeRepository = (*RechargeRepo)(nil)

// RechargeRepo recargas sobre PostgreSQL (pool o tx).
type RechargeRepo struct {
	q Querier
}

func NewRechargeRepository(q Querier) *RechargeRepo {
	return &RechargeRepo{q: q}
}

func (r *RechargeRepo) Create(ctx context.Context, rc *entity.Recharge) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO recharges (barman_id, client_id, value, created_at)
		VALUES ($1, $2, $3, $4) RETURNING id`,
		rc.BarmanID, rc.ClientID, rc.Value, createdAt(rc.CreatedAt),
	).Scan(&rc.ID)
	return wrapWrite(err, "insert recharge", domain.ErrUserNotFound)
}

func (r *RechargeRepo) GetByID(ctx context.Context, id int64) (*entity.Recharge, error) {
	var rc entity.Recharge
	err := r.q.QueryRow(ctx,
		`SELECT id, barman_id, client_id, value, created_at FROM recharges WHERE id = $1`, id,
	).Scan(&rc.ID, &rc.BarmanID, &rc.ClientID, &rc.Value, &rc.CreatedAt)
	if missing, err := noRows(err); missing || err != nil {
		return nil, wrapRead(err, "get recharge")
	}
	return &rc, nil
}

// List las más recientes primero.
func (r *RechargeRepo) List(ctx context.Context, limit, offset int) ([]*entity.Recharge, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, barman_id, client_id, value, created_at
		FROM recharges ORDER BY id DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list recharges: %w", err)
	}
	defer rows.Close()
	var out []*entity.Recharge
	for rows.Next() {
		var rc entity.Recharge
		if err := rows.Scan(&rc.ID, &rc.BarmanID, &rc.ClientID, &rc.Value, &rc.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan recharge: %w", err)
		}
		out = append(out, &rc)
	}
	return out, rows.Err()
}
