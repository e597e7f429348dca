// Package lifecycle implementa la máquina de estados de un pedido (servicio de dominio).
//
//	InBasket ──Validate──► Validated ──Finish──► Finished
//	    │                      │
//	    └───────Cancel─────────┴──────────────► Cancelled
//
// Las funciones mutan las entidades en memoria; la persistencia atómica
// del pedido y del saldo es responsabilidad del caso de uso.
package lifecycle

import (
	"fmt"
	"math"
	"time"

	"github.com/jhoicas/OpenBar-api/internal/domain"
	"github.com/jhoicas/OpenBar-api/internal/domain/entity"
)

// ComputeTotal suma precio unitario por cantidad de cada línea.
// Una línea o un total que no cabe en int64 devuelve domain.ErrInvalidQuantity, nunca un valor truncado.
func ComputeTotal(items []*entity.OrderLineItem) (int64, error) {
	var total int64
	for _, it := range items {
		sub, ok := it.Subtotal()
		if !ok || total > math.MaxInt64-sub {
			return 0, fmt.Errorf("%w: el total del pedido %d desborda (producto %d)",
				domain.ErrInvalidQuantity, it.OrderID, it.ProductID)
		}
		total += sub
	}
	return total, nil
}

// CheckEditable solo la cesta admite cambios de líneas.
func CheckEditable(o *entity.Order) error {
	if o.Status != entity.OrderStatusInBasket {
		return stateErr(domain.ErrOrderNotEditable, o)
	}
	return nil
}

// CheckQuantity rechaza cantidades negativas; cero significa quitar la línea.
func CheckQuantity(o *entity.Order, quantity int64) error {
	if quantity < 0 {
		return stateErr(domain.ErrInvalidQuantity, o)
	}
	return nil
}

// Validate debita total del saldo del cliente y pasa el pedido a Validated.
// Si falla no modifica ni el pedido ni el cliente.
func Validate(o *entity.Order, client *entity.User, total int64, now time.Time) error {
	if o.Status != entity.OrderStatusInBasket {
		return stateErr(domain.ErrWrongState, o)
	}
	if total < 0 {
		return stateErr(domain.ErrInvalidQuantity, o)
	}
	if client.Balance < total {
		return stateErr(domain.ErrInsufficientFunds, o)
	}
	client.Balance -= total
	o.Status = entity.OrderStatusValidated
	o.ValidatedAt = &now
	return nil
}

// Cancel cancela el pedido y devuelve el importe reembolsado al cliente.
// Solo se reembolsa un pedido Validated: la cesta nunca se debitó.
func Cancel(o *entity.Order, client *entity.User, total, barmanID int64, now time.Time) (int64, error) {
	if err := checkNotTerminal(o); err != nil {
		return 0, err
	}
	var refund int64
	if o.Status == entity.OrderStatusValidated {
		refund = total
		if refund < 0 || client.Balance > math.MaxInt64-refund {
			return 0, fmt.Errorf("%w: el reembolso del pedido %d desborda el saldo", domain.ErrConflict, o.ID)
		}
		client.Balance += refund
	}
	o.Status = entity.OrderStatusCancelled
	o.EndedAt = &now
	o.BarmanID = &barmanID
	return refund, nil
}

// Finish cierra un pedido validado. El dinero ya se debitó al validar.
func Finish(o *entity.Order, barmanID int64, now time.Time) error {
	if err := checkNotTerminal(o); err != nil {
		return err
	}
	if o.Status != entity.OrderStatusValidated {
		return stateErr(domain.ErrNotReady, o)
	}
	o.Status = entity.OrderStatusFinished
	o.EndedAt = &now
	o.BarmanID = &barmanID
	return nil
}

func checkNotTerminal(o *entity.Order) error {
	switch o.Status {
	case entity.OrderStatusFinished:
		return stateErr(domain.ErrAlreadyFinished, o)
	case entity.OrderStatusCancelled:
		return stateErr(domain.ErrAlreadyCancelled, o)
	}
	return nil
}

func stateErr(kind error, o *entity.Order) error {
	return &domain.StateError{Err: kind, OrderID: o.ID, Status: o.Status.String()}
}
