package entity

import (
	"math"
	"time"
)

// OrderStatus estado de un pedido. Los valores numéricos son los persistidos.
type OrderStatus int

const (
	OrderStatusInBasket OrderStatus = iota
	OrderStatusValidated
	OrderStatusFinished
	OrderStatusCancelled
)

func (s OrderStatus) String() string {
	switch s {
	case OrderStatusInBasket:
		return "InBasket"
	case OrderStatusValidated:
		return "Validated"
	case OrderStatusFinished:
		return "Finished"
	case OrderStatusCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// IsTerminal informa si no hay transición posible desde el estado.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusFinished || s == OrderStatusCancelled
}

// Order pedido de un cliente. Mientras está InBasket es la cesta del cliente.
type Order struct {
	ID          int64
	ClientID    int64
	BarmanID    *int64 // nil hasta que un barman lo termina o cancela
	Status      OrderStatus
	CreatedAt   time.Time
	ValidatedAt *time.Time
	EndedAt     *time.Time
}

// OrderLineItem línea de pedido, única por (OrderID, ProductID).
// UnitPrice en la unidad monetaria mínima (céntimos).
type OrderLineItem struct {
	OrderID   int64
	ProductID int64
	Quantity  int64
	UnitPrice int64
}

// Subtotal precio unitario por cantidad. ok es false si algún factor es negativo
// o el producto no cabe en int64.
func (i *OrderLineItem) Subtotal() (sub int64, ok bool) {
	if i.Quantity < 0 || i.UnitPrice < 0 {
		return 0, false
	}
	if i.Quantity != 0 && i.UnitPrice > math.MaxInt64/i.Quantity {
		return 0, false
	}
	return i.UnitPrice * i.Quantity, true
}
