package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/OpenBar-api/internal/domain"
	"github.com/jhoicas/OpenBar-api/internal/domain/entity"
	"github.com/jhoicas/OpenBar-api/internal/domain/repository"
)

var _ repository.RechargeRepository = (*RechargeRepo)(nil)

// RechargeRepo recargas en memoria.
type RechargeRepo struct {
	s  *Store
	tx bool
}

func (r *RechargeRepo) Create(ctx context.Context, rc *entity.Recharge) error {
	return r.s.withWrite(ctx, r.tx, func(s *snapshot) error {
		if _, ok := s.users[rc.ClientID]; !ok {
			return domain.ErrUserNotFound
		}
		if _, ok := s.users[rc.BarmanID]; !ok {
			return domain.ErrUserNotFound
		}
		if rc.Value <= 0 {
			return domain.ErrInvalidInput
		}
		rc.ID = s.nextID("recharges")
		s.recharges[rc.ID] = *rc
		return nil
	})
}

func (r *RechargeRepo) GetByID(_ context.Context, id int64) (*entity.Recharge, error) {
	var out *entity.Recharge
	r.s.withRead(func(s *snapshot) {
		if rc, ok := s.recharges[id]; ok {
			out = &rc
		}
	})
	return out, nil
}

func (r *RechargeRepo) List(_ context.Context, limit, offset int) ([]*entity.Recharge, error) {
	var out []*entity.Recharge
	r.s.withRead(func(s *snapshot) {
		for _, rc := range s.recharges {
			rc := rc
			out = append(out, &rc)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return page(out, limit, offset), nil
}
