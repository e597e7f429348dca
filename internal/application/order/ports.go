package order

import (
	"context"
	"time"

	"github.com/jhoicas/OpenBar-api/internal/domain/entity"
	"github.com/jhoicas/OpenBar-api/internal/domain/repository"
)

// TxRunner ejecuta fn en una transacción con repos de pedidos y usuarios atados a ella.
// Dentro de fn los bloqueos se toman siempre en el mismo orden: fila del cliente, luego fila del pedido.
type TxRunner interface {
	RunOrder(ctx context.Context, fn func(orders repository.OrderRepository, users repository.UserRepository) error) error
}

// Tipos de evento publicados tras cada transición confirmada.
const (
	EventValidated = "order.validated"
	EventCancelled = "order.cancelled"
	EventFinished  = "order.finished"
)

// Event transición de un pedido ya confirmada en la base de datos.
type Event struct {
	Type     string    `json:"type"`
	OrderID  int64     `json:"order_id"`
	ClientID int64     `json:"client_id"`
	BarmanID *int64    `json:"barman_id,omitempty"`
	Status   string    `json:"status"`
	Total    int64     `json:"total"`
	Refund   int64     `json:"refund,omitempty"`
	At       time.Time `json:"at"`
}

// EventPublisher publica eventos de pedidos (Kafka o log).
type EventPublisher interface {
	Publish(ctx context.Context, evt Event) error
}

// ReceiptGenerator genera el PDF del ticket de un pedido.
type ReceiptGenerator interface {
	Generate(order *entity.Order, client *entity.User, items []*entity.OrderLineItem) ([]byte, error)
}
