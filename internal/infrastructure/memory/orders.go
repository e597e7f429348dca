package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/OpenBar-api/internal/domain"
	"github.com/jhoicas/OpenBar-api/internal/domain/entity"
	"github.com/jhoicas/OpenBar-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo pedidos y líneas en memoria.
type OrderRepo struct {
	s  *Store
	tx bool
}

func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	return r.s.withWrite(ctx, r.tx, func(s *snapshot) error {
		if _, ok := s.users[o.ClientID]; !ok {
			return domain.ErrUserNotFound
		}
		if o.Status == entity.OrderStatusInBasket {
			for _, other := range s.orders {
				if other.ClientID == o.ClientID && other.Status == entity.OrderStatusInBasket {
					return domain.ErrDuplicate
				}
			}
		}
		o.ID = s.nextID("orders")
		s.orders[o.ID] = *o
		return nil
	})
}

func (r *OrderRepo) GetByID(_ context.Context, id int64) (*entity.Order, error) {
	var out *entity.Order
	r.s.withRead(func(s *snapshot) {
		if o, ok := s.orders[id]; ok {
			out = &o
		}
	})
	return out, nil
}

// GetForUpdate igual que GetByID: en memoria las transacciones ya son exclusivas.
func (r *OrderRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *OrderRepo) FindBasket(_ context.Context, clientID int64) (*entity.Order, error) {
	var out *entity.Order
	r.s.withRead(func(s *snapshot) {
		for _, o := range s.orders {
			if o.ClientID == clientID && o.Status == entity.OrderStatusInBasket {
				o := o
				out = &o
				return
			}
		}
	})
	return out, nil
}

func (r *OrderRepo) Update(ctx context.Context, o *entity.Order) error {
	return r.s.withWrite(ctx, r.tx, func(s *snapshot) error {
		if _, ok := s.orders[o.ID]; !ok {
			return domain.ErrNotFound
		}
		s.orders[o.ID] = *o
		return nil
	})
}

// List los más recientes primero.
func (r *OrderRepo) List(_ context.Context, filter repository.OrderFilter, limit, offset int) ([]*entity.Order, error) {
	var out []*entity.Order
	r.s.withRead(func(s *snapshot) {
		for _, o := range s.orders {
			if filter.ExcludeBaskets && o.Status == entity.OrderStatusInBasket {
				continue
			}
			if filter.ClientID != nil && o.ClientID != *filter.ClientID {
				continue
			}
			o := o
			out = append(out, &o)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return page(out, limit, offset), nil
}

func (r *OrderRepo) ListItems(_ context.Context, orderID int64) ([]*entity.OrderLineItem, error) {
	var out []*entity.OrderLineItem
	r.s.withRead(func(s *snapshot) {
		for _, it := range s.items[orderID] {
			it := it
			out = append(out, &it)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

func (r *OrderRepo) UpsertItem(ctx context.Context, item *entity.OrderLineItem) error {
	return r.s.withWrite(ctx, r.tx, func(s *snapshot) error {
		if _, ok := s.orders[item.OrderID]; !ok {
			return domain.ErrNotFound
		}
		lines, ok := s.items[item.OrderID]
		if !ok {
			lines = map[int64]entity.OrderLineItem{}
			s.items[item.OrderID] = lines
		}
		lines[item.ProductID] = *item
		return nil
	})
}

func (r *OrderRepo) DeleteItem(ctx context.Context, orderID, productID int64) error {
	return r.s.withWrite(ctx, r.tx, func(s *snapshot) error {
		delete(s.items[orderID], productID)
		return nil
	})
}

func (r *OrderRepo) DeleteItems(ctx context.Context, orderID int64) error {
	return r.s.withWrite(ctx, r.tx, func(s *snapshot) error {
		delete(s.items, orderID)
		return nil
	})
}
