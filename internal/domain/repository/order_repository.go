package repository

import (
	"context"

	"github.com/jhoicas/OpenBar-api/internal/domain/entity"
)

// OrderFilter filtros de listado de pedidos.
type OrderFilter struct {
	ExcludeBaskets bool   // solo pedidos completos (sin cestas)
	ClientID       *int64 // nil = todos los clientes
}

// OrderRepository define el puerto de persistencia para Order y sus líneas.
// Los Get/Find devuelven (nil, nil) si no hay fila.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id int64) (*entity.Order, error)
	// GetForUpdate bloquea la fila del pedido hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id int64) (*entity.Order, error)
	// FindBasket devuelve el pedido InBasket del cliente.
	FindBasket(ctx context.Context, clientID int64) (*entity.Order, error)
	Update(ctx context.Context, order *entity.Order) error
	List(ctx context.Context, filter OrderFilter, limit, offset int) ([]*entity.Order, error)

	ListItems(ctx context.Context, orderID int64) ([]*entity.OrderLineItem, error)
	// UpsertItem inserta la línea o sobrescribe cantidad y precio si ya existe.
	UpsertItem(ctx context.Context, item *entity.OrderLineItem) error
	DeleteItem(ctx context.Context, orderID, productID int64) error
	DeleteItems(ctx context.Context, orderID int64) error
}
