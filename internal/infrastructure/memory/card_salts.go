package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/OpenBar-api/internal/domain/entity"
	"github.com/jhoicas/OpenBar-api/internal/domain/repository"
)

var _ repository.CardSaltRepository = (*CardSaltRepo)(nil)

// CardSaltRepo sales de tarjeta en memoria.
type CardSaltRepo struct {
	s *Store
}

func (r *CardSaltRepo) Get(_ context.Context, year int) (*entity.CardSalt, error) {
	var out *entity.CardSalt
	r.s.withRead(func(s *snapshot) {
		if salt, ok := s.salts[year]; ok {
			out = &salt
		}
	})
	return out, nil
}

func (r *CardSaltRepo) Create(ctx context.Context, salt *entity.CardSalt) error {
	return r.s.withWrite(ctx, false, func(s *snapshot) error {
		if _, exists := s.salts[salt.Year]; !exists {
			s.salts[salt.Year] = *salt
		}
		return nil
	})
}

func (r *CardSaltRepo) ListNewestFirst(_ context.Context) ([]*entity.CardSalt, error) {
	var out []*entity.CardSalt
	r.s.withRead(func(s *snapshot) {
		for _, salt := range s.salts {
			salt := salt
			out = append(out, &salt)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Year > out[j].Year })
	return out, nil
}
