package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/OpenBar-api/internal/domain"
	"github.com/jhoicas/OpenBar-api/internal/domain/entity"
	"github.com/jhoicas/OpenBar-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

const orderColumns = `id, client_id, barman_id, status, created_at, validated_at, ended_at`

// OrderRepo pedidos y líneas de pedido sobre PostgreSQL (pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador de persistencia para pedidos.
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create inserta el pedido. Una segunda cesta del mismo cliente viola uq_orders_basket (ErrDuplicate).
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO orders (client_id, barman_id, status, created_at, validated_at, ended_at)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		o.ClientID, o.BarmanID, int16(o.Status), createdAt(o.CreatedAt), o.ValidatedAt, o.EndedAt,
	).Scan(&o.ID)
	return wrapWrite(err, "insert order", domain.ErrUserNotFound)
}

func (r *OrderRepo) GetByID(ctx context.Context, id int64) (*entity.Order, error) {
	return r.one(ctx, "get order", `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila del pedido (SELECT FOR UPDATE).
func (r *OrderRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Order, error) {
	return r.one(ctx, "get order for update", `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
}

func (r *OrderRepo) FindBasket(ctx context.Context, clientID int64) (*entity.Order, error) {
	return r.one(ctx, "find basket",
		`SELECT `+orderColumns+` FROM orders WHERE client_id = $1 AND status = $2`,
		clientID, int16(entity.OrderStatusInBasket))
}

func (r *OrderRepo) Update(ctx context.Context, o *entity.Order) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE orders SET barman_id = $2, status = $3, validated_at = $4, ended_at = $5
		WHERE id = $1`,
		o.ID, o.BarmanID, int16(o.Status), o.ValidatedAt, o.EndedAt,
	)
	if err != nil {
		return wrapWrite(err, "update order", domain.ErrUserNotFound)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List los más recientes primero.
func (r *OrderRepo) List(ctx context.Context, filter repository.OrderFilter, limit, offset int) ([]*entity.Order, error) {
	var (
		where []string
		args  []any
	)
	if filter.ExcludeBaskets {
		args = append(args, int16(entity.OrderStatusInBasket))
		where = append(where, fmt.Sprintf("status <> $%d", len(args)))
	}
	if filter.ClientID != nil {
		args = append(args, *filter.ClientID)
		where = append(where, fmt.Sprintf("client_id = $%d", len(args)))
	}
	query := `SELECT ` + orderColumns + ` FROM orders`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(` ORDER BY id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var out []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *OrderRepo) ListItems(ctx context.Context, orderID int64) ([]*entity.OrderLineItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT order_id, product_id, quantity, unit_price
		FROM order_items WHERE order_id = $1 ORDER BY product_id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	var out []*entity.OrderLineItem
	for rows.Next() {
		var it entity.OrderLineItem
		if err := rows.Scan(&it.OrderID, &it.ProductID, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		out = append(out, &it)
	}
	return out, rows.Err()
}

// UpsertItem inserta o sobrescribe la línea (order_id, product_id).
func (r *OrderRepo) UpsertItem(ctx context.Context, it *entity.OrderLineItem) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO order_items (order_id, product_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (order_id, product_id) DO UPDATE
		SET quantity = EXCLUDED.quantity, unit_price = EXCLUDED.unit_price`,
		it.OrderID, it.ProductID, it.Quantity, it.UnitPrice,
	)
	return wrapWrite(err, "upsert order item", domain.ErrNotFound)
}

func (r *OrderRepo) DeleteItem(ctx context.Context, orderID, productID int64) error {
	_, err := r.q.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1 AND product_id = $2`, orderID, productID)
	if err != nil {
		return fmt.Errorf("delete order item: %w", err)
	}
	return nil
}

func (r *OrderRepo) DeleteItems(ctx context.Context, orderID int64) error {
	_, err := r.q.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, orderID)
	if err != nil {
		return fmt.Errorf("delete order items: %w", err)
	}
	return nil
}

func (r *OrderRepo) one(ctx context.Context, op, query string, args ...any) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, query, args...))
	if missing, err := noRows(err); missing || err != nil {
		return nil, wrapRead(err, op)
	}
	return o, nil
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var (
		o      entity.Order
		status int16
	)
	if err := row.Scan(&o.ID, &o.ClientID, &o.BarmanID, &status, &o.CreatedAt, &o.ValidatedAt, &o.EndedAt); err != nil {
		return nil, err
	}
	o.Status = entity.OrderStatus(status)
	return &o, nil
}
