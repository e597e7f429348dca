package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/OpenBar-api/internal/domain/entity"
	"github.com/jhoicas/OpenBar-api/internal/domain/repository"
)

var _ repository.CardSaltRepository = (*CardSaltRepo)(nil)

// CardSaltRepo sales anuales de tarjeta.
type CardSaltRepo struct {
	q Querier
}

func NewCardSaltRepository(q Querier) *CardSaltRepo {
	return &CardSaltRepo{q: q}
}

func (r *CardSaltRepo) Get(ctx context.Context, year int) (*entity.CardSalt, error) {
	var s entity.CardSalt
	err := r.q.QueryRow(ctx, `SELECT year, salt FROM card_salts WHERE year = $1`, year).Scan(&s.Year, &s.Salt)
	if missing, err := noRows(err); missing || err != nil {
		return nil, wrapRead(err, "get card salt")
	}
	return &s, nil
}

// Create inserta la sal salvo que otro proceso ya haya creado la del mismo año.
func (r *CardSaltRepo) Create(ctx context.Context, s *entity.CardSalt) error {
	_, err := r.q.Exec(ctx, `INSERT INTO card_salts (year, salt) VALUES ($1, $2) ON CONFLICT (year) DO NOTHING`, s.Year, s.Salt)
	if err != nil {
		return fmt.Errorf("insert card salt: %w", err)
	}
	return nil
}

func (r *CardSaltRepo) ListNewestFirst(ctx context.Context) ([]*entity.CardSalt, error) {
	rows, err := r.q.Query(ctx, `SELECT year, salt FROM card_salts ORDER BY year DESC`)
	if err != nil {
		return nil, fmt.Errorf("list card salts: %w", err)
	}
	defer rows.Close()
	var out []*entity.CardSalt
	for rows.Next() {
		var s entity.CardSalt
		if err := rows.Scan(&s.Year, &s.Salt); err != nil {
			return nil, fmt.Errorf("scan card salt: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}
