package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/OpenBar-api/internal/domain"
	"github.com/jhoicas/OpenBar-api/internal/domain/entity"
	"github.com/jhoicas/OpenBar-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo usuarios en memoria.
type UserRepo struct {
	s  *Store
	tx bool
}

func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	return r.s.withWrite(ctx, r.tx, func(s *snapshot) error {
		if err := checkUserConstraints(s, user); err != nil {
			return err
		}
		user.ID = s.nextID("users")
		s.users[user.ID] = *user
		return nil
	})
}

func (r *UserRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.ID == id }), nil
}

// GetForUpdate igual que GetByID: en memoria las transacciones ya son exclusivas.
func (r *UserRepo) GetForUpdate(ctx context.Context, id int64) (*entity.User, error) {
	return r.GetByID(ctx, id)
}

func (r *UserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.Username != nil && *u.Username == username }), nil
}

func (r *UserRepo) GetByMail(_ context.Context, mail string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.Mail != nil && *u.Mail == mail }), nil
}

func (r *UserRepo) GetByCard(_ context.Context, saltYear int, cardHash string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.SaltYear == saltYear && u.CardIDHash == cardHash }), nil
}

func (r *UserRepo) List(_ context.Context, limit, offset int) ([]*entity.User, error) {
	var out []*entity.User
	r.s.withRead(func(s *snapshot) {
		for _, u := range s.users {
			u := u
			out = append(out, &u)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, limit, offset), nil
}

// Update no toca el saldo: solo cambia con UpdateBalance.
func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	return r.s.withWrite(ctx, r.tx, func(s *snapshot) error {
		cur, ok := s.users[user.ID]
		if !ok {
			return domain.ErrUserNotFound
		}
		if err := checkUserConstraints(s, user); err != nil {
			return err
		}
		next := *user
		next.Balance = cur.Balance
		next.LastLogin = cur.LastLogin
		next.CreatedAt = cur.CreatedAt
		s.users[user.ID] = next
		return nil
	})
}

func (r *UserRepo) UpdateBalance(ctx context.Context, id, balance int64) error {
	return r.s.withWrite(ctx, r.tx, func(s *snapshot) error {
		u, ok := s.users[id]
		if !ok {
			return domain.ErrUserNotFound
		}
		if balance < 0 {
			return domain.ErrConflict
		}
		u.Balance = balance
		s.users[id] = u
		return nil
	})
}

func (r *UserRepo) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	return r.s.withWrite(ctx, r.tx, func(s *snapshot) error {
		u, ok := s.users[id]
		if !ok {
			return domain.ErrUserNotFound
		}
		u.LastLogin = &at
		s.users[id] = u
		return nil
	})
}

// Delete falla con ErrConflict si el usuario tiene pedidos o recargas.
func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	return r.s.withWrite(ctx, r.tx, func(s *snapshot) error {
		if _, ok := s.users[id]; !ok {
			return domain.ErrUserNotFound
		}
		for _, o := range s.orders {
			if o.ClientID == id || (o.BarmanID != nil && *o.BarmanID == id) {
				return domain.ErrConflict
			}
		}
		for _, rc := range s.recharges {
			if rc.ClientID == id || rc.BarmanID == id {
				return domain.ErrConflict
			}
		}
		delete(s.users, id)
		for pid, p := range s.perms {
			if p.UserID != nil && *p.UserID == id {
				delete(s.perms, pid)
			}
		}
		return nil
	})
}

func (r *UserRepo) find(match func(entity.User) bool) *entity.User {
	var out *entity.User
	r.s.withRead(func(s *snapshot) {
		for _, u := range s.users {
			if match(u) {
				u := u
				out = &u
				return
			}
		}
	})
	return out
}

// checkUserConstraints replica las restricciones de la tabla users.
func checkUserConstraints(s *snapshot, user *entity.User) error {
	if _, ok := s.roles[user.RoleID]; !ok {
		return domain.ErrNotFound
	}
	for _, other := range s.users {
		if other.ID == user.ID {
			continue
		}
		if user.Username != nil && other.Username != nil && *user.Username == *other.Username {
			return domain.ErrDuplicate
		}
		if user.Mail != nil && other.Mail != nil && *user.Mail == *other.Mail {
			return domain.ErrDuplicate
		}
		if user.CardIDHash != "" && other.SaltYear == user.SaltYear && other.CardIDHash == user.CardIDHash {
			return domain.ErrDuplicate
		}
	}
	return nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
