package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/OpenBar-api/internal/domain/entity"
	"github.com/jhoicas/OpenBar-api/internal/domain/repository"
	"github.com/jhoicas/OpenBar-api/pkg/cardid"
)

// CardIndex hashea y busca tarjetas con la sal anual.
// Compartido por usuarios (alta, búsqueda) y auth (login con tarjeta).
type CardIndex struct {
	salts repository.CardSaltRepository
	users repository.UserRepository
	now   func() time.Time
}

// NewCardIndex construye el índice de tarjetas.
func NewCardIndex(salts repository.CardSaltRepository, users repository.UserRepository) *CardIndex {
	return &CardIndex{salts: salts, users: users, now: time.Now}
}

// HashCurrent hashea cardID con la sal del año en curso (creándola si no existe).
func (c *CardIndex) HashCurrent(ctx context.Context, cardID string) (hash string, year int, err error) {
	year = c.now().Year()
	salt, err := c.saltFor(ctx, year)
	if err != nil {
		return "", 0, err
	}
	hash, err = cardid.Hash(cardID, salt.Salt)
	if err != nil {
		return "", 0, err
	}
	return hash, year, nil
}

// Find busca el usuario de la tarjeta probando las sales de la más reciente a la más antigua.
// Devuelve (nil, nil) si ninguna coincide.
func (c *CardIndex) Find(ctx context.Context, cardID string) (*entity.User, error) {
	salts, err := c.salts.ListNewestFirst(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range salts {
		h, err := cardid.Hash(cardID, s.Salt)
		if err != nil {
			return nil, err
		}
		u, err := c.users.GetByCard(ctx, s.Year, h)
		if err != nil {
			return nil, err
		}
		if u != nil {
			return u, nil
		}
	}
	return nil, nil
}

func (c *CardIndex) saltFor(ctx context.Context, year int) (*entity.CardSalt, error) {
	s, err := c.salts.Get(ctx, year)
	if err != nil {
		return nil, err
	}
	if s != nil {
		return s, nil
	}
	raw, err := cardid.NewSalt()
	if err != nil {
		return nil, fmt.Errorf("generar sal: %w", err)
	}
	if err := c.salts.Create(ctx, &entity.CardSalt{Year: year, Salt: raw}); err != nil {
		return nil, err
	}
	// Otro proceso pudo crearla a la vez: se relee la que quedó guardada.
	s, err = c.salts.Get(ctx, year)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("sal del año %d no encontrada tras crearla", year)
	}
	return s, nil
}
