package order

import (
	"context"
	"time"

	"github.com/jhoicas/OpenBar-api/internal/application/dto"
	"github.com/jhoicas/OpenBar-api/internal/domain"
	"github.com/jhoicas/OpenBar-api/internal/domain/entity"
	"github.com/jhoicas/OpenBar-api/internal/domain/lifecycle"
	"github.com/jhoicas/OpenBar-api/internal/domain/repository"
	"github.com/jhoicas/OpenBar-api/pkg/logger"
)

// UseCase orquesta el ciclo de vida de los pedidos: cesta, validación con débito,
// cancelación con reembolso y cierre. Las reglas de estado viven en domain/lifecycle.
type UseCase struct {
	orders   repository.OrderRepository
	users    repository.UserRepository
	tx       TxRunner
	events   EventPublisher
	receipts ReceiptGenerator
	log      *logger.Logger
	now      func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	orders repository.OrderRepository,
	users repository.UserRepository,
	tx TxRunner,
	events EventPublisher,
	receipts ReceiptGenerator,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		orders:   orders,
		users:    users,
		tx:       tx,
		events:   events,
		receipts: receipts,
		log:      log.Component("orders"),
		now:      time.Now,
	}
}

// ─── Cesta ──────────────────────────────────────────────────────────────────

// GetOrCreateBasket devuelve la cesta del cliente, creándola si no existe.
// La fila del cliente queda bloqueada durante la búsqueda para que dos llamadas
// concurrentes no creen dos cestas.
func (uc *UseCase) GetOrCreateBasket(ctx context.Context, clientID int64) (*dto.OrderResponse, error) {
	var basket *entity.Order
	var items []*entity.OrderLineItem
	err := uc.tx.RunOrder(ctx, func(orders repository.OrderRepository, users repository.UserRepository) error {
		if _, err := lockClient(ctx, users, clientID); err != nil {
			return err
		}
		var err error
		if basket, err = uc.findOrCreateBasket(ctx, orders, clientID); err != nil {
			return err
		}
		items, err = orders.ListItems(ctx, basket.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(basket, items)
}

// SetItemQuantity fija la cantidad de un producto en un pedido en cesta.
// quantity 0 quita la línea; negativa devuelve ErrInvalidQuantity.
func (uc *UseCase) SetItemQuantity(ctx context.Context, orderID, productID, quantity, unitPrice int64) error {
	return uc.tx.RunOrder(ctx, func(orders repository.OrderRepository, _ repository.UserRepository) error {
		o, err := lockOrder(ctx, orders, orderID)
		if err != nil {
			return err
		}
		return setItem(ctx, orders, o, productID, quantity, unitPrice)
	})
}

// SetBasketItem como SetItemQuantity sobre la cesta del cliente, que se crea si hace falta.
func (uc *UseCase) SetBasketItem(ctx context.Context, clientID, productID, quantity, unitPrice int64) (*dto.OrderResponse, error) {
	var basket *entity.Order
	var items []*entity.OrderLineItem
	err := uc.tx.RunOrder(ctx, func(orders repository.OrderRepository, users repository.UserRepository) error {
		if _, err := lockClient(ctx, users, clientID); err != nil {
			return err
		}
		b, err := uc.findOrCreateBasket(ctx, orders, clientID)
		if err != nil {
			return err
		}
		if basket, err = lockOrder(ctx, orders, b.ID); err != nil {
			return err
		}
		if err := setItem(ctx, orders, basket, productID, quantity, unitPrice); err != nil {
			return err
		}
		items, err = orders.ListItems(ctx, basket.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(basket, items)
}

// BasketItems líneas de la cesta del cliente; vacío si no tiene cesta.
func (uc *UseCase) BasketItems(ctx context.Context, clientID int64) ([]dto.OrderItemResponse, error) {
	basket, err := uc.orders.FindBasket(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if basket == nil {
		return []dto.OrderItemResponse{}, nil
	}
	items, err := uc.orders.ListItems(ctx, basket.ID)
	if err != nil {
		return nil, err
	}
	return toItemResponses(items)
}

// EmptyBasket quita todas las líneas de la cesta; el pedido en cesta se conserva.
func (uc *UseCase) EmptyBasket(ctx context.Context, clientID int64) error {
	return uc.tx.RunOrder(ctx, func(orders repository.OrderRepository, users repository.UserRepository) error {
		if _, err := lockClient(ctx, users, clientID); err != nil {
			return err
		}
		b, err := orders.FindBasket(ctx, clientID)
		if err != nil || b == nil {
			return err
		}
		o, err := lockOrder(ctx, orders, b.ID)
		if err != nil {
			return err
		}
		if err := lifecycle.CheckEditable(o); err != nil {
			return err
		}
		return orders.DeleteItems(ctx, o.ID)
	})
}

// ─── Transiciones ───────────────────────────────────────────────────────────

// ComputeTotal suma de precio por cantidad de las líneas del pedido.
func (uc *UseCase) ComputeTotal(ctx context.Context, orderID int64) (int64, error) {
	o, err := uc.orders.GetByID(ctx, orderID)
	if err != nil {
		return 0, err
	}
	if o == nil {
		return 0, domain.ErrNotFound
	}
	items, err := uc.orders.ListItems(ctx, orderID)
	if err != nil {
		return 0, err
	}
	return lifecycle.ComputeTotal(items)
}

// Validate debita el total del saldo del cliente y pasa el pedido a Validated, todo en una transacción.
func (uc *UseCase) Validate(ctx context.Context, orderID int64) (*dto.OrderResponse, error) {
	clientID, err := uc.clientOf(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return uc.validate(ctx, clientID, func(orders repository.OrderRepository) (int64, error) {
		return orderID, nil
	})
}

// ValidateBasket valida la cesta actual del cliente.
func (uc *UseCase) ValidateBasket(ctx context.Context, clientID int64) (*dto.OrderResponse, error) {
	return uc.validate(ctx, clientID, func(orders repository.OrderRepository) (int64, error) {
		b, err := orders.FindBasket(ctx, clientID)
		if err != nil {
			return 0, err
		}
		if b == nil {
			return 0, domain.ErrNotFound
		}
		return b.ID, nil
	})
}

func (uc *UseCase) validate(ctx context.Context, clientID int64, pick func(repository.OrderRepository) (int64, error)) (*dto.OrderResponse, error) {
	var o *entity.Order
	var items []*entity.OrderLineItem
	var total int64
	err := uc.tx.RunOrder(ctx, func(orders repository.OrderRepository, users repository.UserRepository) error {
		client, err := lockClient(ctx, users, clientID)
		if err != nil {
			return err
		}
		orderID, err := pick(orders)
		if err != nil {
			return err
		}
		if o, err = lockOrder(ctx, orders, orderID); err != nil {
			return err
		}
		if o.ClientID != clientID {
			// El pedido cambió de cliente entre la lectura y el bloqueo: no debería pasar.
			return domain.ErrConflict
		}
		if items, err = orders.ListItems(ctx, o.ID); err != nil {
			return err
		}
		if total, err = lifecycle.ComputeTotal(items); err != nil {
			return err
		}
		if err := lifecycle.Validate(o, client, total, uc.now()); err != nil {
			return err
		}
		if err := users.UpdateBalance(ctx, client.ID, client.Balance); err != nil {
			return err
		}
		return orders.Update(ctx, o)
	})
	if err != nil {
		return nil, err
	}
	uc.publish(ctx, Event{Type: EventValidated, Total: total}, o)
	return toOrderResponse(o, items)
}

// Cancel cancela el pedido; si estaba Validated reembolsa el total al cliente.
func (uc *UseCase) Cancel(ctx context.Context, orderID, barmanID int64) (*dto.OrderResponse, error) {
	clientID, err := uc.clientOf(ctx, orderID)
	if err != nil {
		return nil, err
	}
	var o *entity.Order
	var items []*entity.OrderLineItem
	var total, refund int64
	err = uc.tx.RunOrder(ctx, func(orders repository.OrderRepository, users repository.UserRepository) error {
		client, err := lockClient(ctx, users, clientID)
		if err != nil {
			return err
		}
		if o, err = lockOrder(ctx, orders, orderID); err != nil {
			return err
		}
		if items, err = orders.ListItems(ctx, o.ID); err != nil {
			return err
		}
		if total, err = lifecycle.ComputeTotal(items); err != nil {
			return err
		}
		if refund, err = lifecycle.Cancel(o, client, total, barmanID, uc.now()); err != nil {
			return err
		}
		if refund > 0 {
			if err := users.UpdateBalance(ctx, client.ID, client.Balance); err != nil {
				return err
			}
		}
		return orders.Update(ctx, o)
	})
	if err != nil {
		return nil, err
	}
	uc.publish(ctx, Event{Type: EventCancelled, Total: total, Refund: refund}, o)
	return toOrderResponse(o, items)
}

// Finish cierra un pedido validado. No mueve saldo, solo bloquea la fila del pedido.
func (uc *UseCase) Finish(ctx context.Context, orderID, barmanID int64) (*dto.OrderResponse, error) {
	var o *entity.Order
	var items []*entity.OrderLineItem
	err := uc.tx.RunOrder(ctx, func(orders repository.OrderRepository, _ repository.UserRepository) error {
		var err error
		if o, err = lockOrder(ctx, orders, orderID); err != nil {
			return err
		}
		if err := lifecycle.Finish(o, barmanID, uc.now()); err != nil {
			return err
		}
		if items, err = orders.ListItems(ctx, o.ID); err != nil {
			return err
		}
		return orders.Update(ctx, o)
	})
	if err != nil {
		return nil, err
	}
	resp, err := toOrderResponse(o, items)
	if err != nil {
		return nil, err
	}
	uc.publish(ctx, Event{Type: EventFinished, Total: resp.Total}, o)
	return resp, nil
}

// ─── Consultas ──────────────────────────────────────────────────────────────

// Get pedido con sus líneas.
func (uc *UseCase) Get(ctx context.Context, orderID int64) (*dto.OrderResponse, error) {
	o, err := uc.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.orders.ListItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(o, items)
}

// Items líneas de un pedido.
func (uc *UseCase) Items(ctx context.Context, orderID int64) ([]dto.OrderItemResponse, error) {
	o, err := uc.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return o.Items, nil
}

// List pedidos paginados. completeOnly excluye las cestas; clientID nil lista todos los clientes.
func (uc *UseCase) List(ctx context.Context, completeOnly bool, clientID *int64, page dto.PageRequest) (*dto.OrderListResponse, error) {
	page.DefaultPage()
	orders, err := uc.orders.List(ctx, repository.OrderFilter{ExcludeBaskets: completeOnly, ClientID: clientID}, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.OrderListResponse{
		Items: make([]dto.OrderResponse, 0, len(orders)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Count: len(orders)},
	}
	for _, o := range orders {
		items, err := uc.orders.ListItems(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		resp, err := toOrderResponse(o, items)
		if err != nil {
			return nil, err
		}
		out.Items = append(out.Items, *resp)
	}
	return out, nil
}

// Receipt PDF del ticket. Solo pedidos Validated o Finished tienen ticket.
func (uc *UseCase) Receipt(ctx context.Context, orderID int64) ([]byte, error) {
	o, err := uc.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	if o.Status != entity.OrderStatusValidated && o.Status != entity.OrderStatusFinished {
		return nil, &domain.StateError{Err: domain.ErrWrongState, OrderID: o.ID, Status: o.Status.String()}
	}
	client, err := uc.users.GetByID(ctx, o.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrUserNotFound
	}
	items, err := uc.orders.ListItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return uc.receipts.Generate(o, client, items)
}

// ─── Helpers ────────────────────────────────────────────────────────────────

// clientOf lee sin bloqueo el cliente del pedido: hace falta para bloquear primero al cliente.
func (uc *UseCase) clientOf(ctx context.Context, orderID int64) (int64, error) {
	o, err := uc.orders.GetByID(ctx, orderID)
	if err != nil {
		return 0, err
	}
	if o == nil {
		return 0, domain.ErrNotFound
	}
	return o.ClientID, nil
}

func (uc *UseCase) findOrCreateBasket(ctx context.Context, orders repository.OrderRepository, clientID int64) (*entity.Order, error) {
	b, err := orders.FindBasket(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if b != nil {
		return b, nil
	}
	b = &entity.Order{ClientID: clientID, Status: entity.OrderStatusInBasket, CreatedAt: uc.now()}
	if err := orders.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// publish nunca falla: el pedido ya está confirmado.
func (uc *UseCase) publish(ctx context.Context, evt Event, o *entity.Order) {
	evt.OrderID = o.ID
	evt.ClientID = o.ClientID
	evt.BarmanID = o.BarmanID
	evt.Status = o.Status.String()
	evt.At = uc.now()
	if err := uc.events.Publish(ctx, evt); err != nil {
		uc.log.Warn().Err(err).Str("event", evt.Type).Int64("order_id", o.ID).Msg("no se pudo publicar el evento")
	}
}

func lockClient(ctx context.Context, users repository.UserRepository, clientID int64) (*entity.User, error) {
	u, err := users.GetForUpdate(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func lockOrder(ctx context.Context, orders repository.OrderRepository, orderID int64) (*entity.Order, error) {
	o, err := orders.GetForUpdate(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

func setItem(ctx context.Context, orders repository.OrderRepository, o *entity.Order, productID, quantity, unitPrice int64) error {
	if err := lifecycle.CheckEditable(o); err != nil {
		return err
	}
	if err := lifecycle.CheckQuantity(o, quantity); err != nil {
		return err
	}
	if unitPrice < 0 || productID <= 0 {
		return domain.ErrInvalidInput
	}
	if quantity == 0 {
		return orders.DeleteItem(ctx, o.ID, productID)
	}
	line := &entity.OrderLineItem{OrderID: o.ID, ProductID: productID, Quantity: quantity, UnitPrice: unitPrice}
	// El total con la línea nueva debe caber en int64 antes de escribir nada.
	items, err := orders.ListItems(ctx, o.ID)
	if err != nil {
		return err
	}
	next := []*entity.OrderLineItem{line}
	for _, it := range items {
		if it.ProductID != productID {
			next = append(next, it)
		}
	}
	if _, err := lifecycle.ComputeTotal(next); err != nil {
		return err
	}
	return orders.UpsertItem(ctx, line)
}

func toItemResponses(items []*entity.OrderLineItem) ([]dto.OrderItemResponse, error) {
	if _, err := lifecycle.ComputeTotal(items); err != nil {
		return nil, err
	}
	out := make([]dto.OrderItemResponse, 0, len(items))
	for _, it := range items {
		sub, _ := it.Subtotal() // ComputeTotal ya comprobó cada línea
		out = append(out, dto.OrderItemResponse{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  sub,
		})
	}
	return out, nil
}

func toOrderResponse(o *entity.Order, items []*entity.OrderLineItem) (*dto.OrderResponse, error) {
	total, err := lifecycle.ComputeTotal(items)
	if err != nil {
		return nil, err
	}
	lines, err := toItemResponses(items)
	if err != nil {
		return nil, err
	}
	return &dto.OrderResponse{
		ID:          o.ID,
		ClientID:    o.ClientID,
		BarmanID:    o.BarmanID,
		Status:      o.Status.String(),
		Total:       total,
		Items:       lines,
		CreatedAt:   o.CreatedAt,
		ValidatedAt: o.ValidatedAt,
		EndedAt:     o.EndedAt,
	}, nil
}
