package order_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/jhoicas/OpenBar-api/internal/application/order"
	"github.com/jhoicas/OpenBar-api/internal/domain"
	"github.com/jhoicas/OpenBar-api/internal/domain/entity"
	"github.com/jhoicas/OpenBar-api/internal/infrastructure/memory"
	"github.com/jhoicas/OpenBar-api/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─── Fakes ──────────────────────────────────────────────────────────────────

type recordingPublisher struct {
	mu     sync.Mutex
	events []order.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, evt order.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fakeReceipts struct{}

func (fakeReceipts) Generate(o *entity.Order, _ *entity.User, items []*entity.OrderLineItem) ([]byte, error) {
	return []byte("%PDF-fake"), nil
}

type fixture struct {
	store  *memory.Store
	uc     *order.UseCase
	events *recordingPublisher
	client *entity.User
	barman *entity.User
}

func newFixture(t *testing.T, balance int64) *fixture {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()
	role := &entity.Role{Name: "cliente"}
	require.NoError(t, s.Roles().Create(ctx, role))

	client := &entity.User{FirstName: "Ana", Name: "Pérez", RoleID: role.ID}
	require.NoError(t, s.Users().Create(ctx, client))
	require.NoError(t, s.Users().UpdateBalance(ctx, client.ID, balance))
	barman := &entity.User{FirstName: "Luis", Name: "Barra", RoleID: role.ID}
	require.NoError(t, s.Users().Create(ctx, barman))

	events := &recordingPublisher{}
	uc := order.NewUseCase(s.Orders(), s.Users(), s, events, fakeReceipts{}, logger.Nop())
	return &fixture{store: s, uc: uc, events: events, client: client, barman: barman}
}

func (f *fixture) balance(t *testing.T) int64 {
	t.Helper()
	u, err := f.store.Users().GetByID(context.Background(), f.client.ID)
	require.NoError(t, err)
	return u.Balance
}

// basketWithTotal crea la cesta con una línea de 3 x 100 = 300.
func (f *fixture) basketWithTotal(t *testing.T) int64 {
	t.Helper()
	b, err := f.uc.SetBasketItem(context.Background(), f.client.ID, 1, 3, 100)
	require.NoError(t, err)
	require.Equal(t, int64(300), b.Total)
	return b.ID
}

// ─── Cesta ──────────────────────────────────────────────────────────────────

func TestGetOrCreateBasket_Idempotente(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	a, err := f.uc.GetOrCreateBasket(ctx, f.client.ID)
	require.NoError(t, err)
	b, err := f.uc.GetOrCreateBasket(ctx, f.client.ID)
	require.NoError(t, err)

	assert.Equal(t, a.ID, b.ID)
	assert.Equal(t, "InBasket", a.Status)
}

func TestGetOrCreateBasket_Concurrente_UnaSolaCesta(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	var wg sync.WaitGroup
	ids := make([]int64, 8)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b, err := f.uc.GetOrCreateBasket(ctx, f.client.ID)
			if assert.NoError(t, err) {
				ids[i] = b.ID
			}
		}(i)
	}
	wg.Wait()
	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
}

func TestGetOrCreateBasket_ClienteInexistente(t *testing.T) {
	f := newFixture(t, 0)
	_, err := f.uc.GetOrCreateBasket(context.Background(), 999)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestSetItemQuantity_UpsertYBorrado(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	id := f.basketWithTotal(t)

	require.NoError(t, f.uc.SetItemQuantity(ctx, id, 1, 5, 100))
	require.NoError(t, f.uc.SetItemQuantity(ctx, id, 2, 1, 250))
	total, err := f.uc.ComputeTotal(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(750), total)

	require.NoError(t, f.uc.SetItemQuantity(ctx, id, 1, 0, 100))
	items, err := f.uc.Items(ctx, id)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(2), items[0].ProductID)
}

func TestSetItemQuantity_Negativa(t *testing.T) {
	f := newFixture(t, 0)
	id := f.basketWithTotal(t)

	err := f.uc.SetItemQuantity(context.Background(), id, 1, -1, 100)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

// Una línea cuyo total no cabe en int64 no puede acabar acreditando saldo al validar.
func TestSetBasketItem_TotalDesbordado_Rechazado(t *testing.T) {
	f := newFixture(t, 100)
	ctx := context.Background()

	_, err := f.uc.SetBasketItem(ctx, f.client.ID, 1, 1<<62, 3)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	items, err := f.uc.BasketItems(ctx, f.client.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	// La transacción fallida tampoco deja la cesta creada.
	_, err = f.uc.ValidateBasket(ctx, f.client.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, int64(100), f.balance(t))
}

func TestSetItemQuantity_SumaDesbordada_Rechazada(t *testing.T) {
	f := newFixture(t, 100)
	ctx := context.Background()
	id := f.basketWithTotal(t)

	err := f.uc.SetItemQuantity(ctx, id, 2, 1, math.MaxInt64-100)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	total, err := f.uc.ComputeTotal(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(300), total)

	// Sustituir la línea existente no cuenta dos veces su importe.
	require.NoError(t, f.uc.SetItemQuantity(ctx, id, 1, 1, math.MaxInt64))
	total, err = f.uc.ComputeTotal(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), total)

	_, err = f.uc.Validate(ctx, id)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.Equal(t, int64(100), f.balance(t))
}

func TestSetItemQuantity_PedidoValidado_NoEditable(t *testing.T) {
	f := newFixture(t, 1000)
	ctx := context.Background()
	id := f.basketWithTotal(t)
	_, err := f.uc.Validate(ctx, id)
	require.NoError(t, err)

	err = f.uc.SetItemQuantity(ctx, id, 1, 1, 100)
	assert.ErrorIs(t, err, domain.ErrOrderNotEditable)
}

func TestEmptyBasket_ConservaLaCesta(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	id := f.basketWithTotal(t)

	require.NoError(t, f.uc.EmptyBasket(ctx, f.client.ID))

	items, err := f.uc.BasketItems(ctx, f.client.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	b, err := f.uc.GetOrCreateBasket(ctx, f.client.ID)
	require.NoError(t, err)
	assert.Equal(t, id, b.ID)
}

func TestBasketItems_SinCesta_Vacio(t *testing.T) {
	f := newFixture(t, 0)
	items, err := f.uc.BasketItems(context.Background(), f.client.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

// ─── Transiciones ───────────────────────────────────────────────────────────

func TestValidateCancel_RestauraSaldo(t *testing.T) {
	f := newFixture(t, 500)
	ctx := context.Background()
	id := f.basketWithTotal(t)

	o, err := f.uc.Validate(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Validated", o.Status)
	assert.NotNil(t, o.ValidatedAt)
	assert.Equal(t, int64(200), f.balance(t))

	o, err = f.uc.Cancel(ctx, id, f.barman.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cancelled", o.Status)
	require.NotNil(t, o.BarmanID)
	assert.Equal(t, f.barman.ID, *o.BarmanID)
	assert.Equal(t, int64(500), f.balance(t))

	assert.Equal(t, []string{order.EventValidated, order.EventCancelled}, f.events.types())
	assert.Equal(t, int64(300), f.events.events[1].Refund)
}

func TestValidate_SaldoInsuficiente_SinEfecto(t *testing.T) {
	f := newFixture(t, 100)
	ctx := context.Background()
	id := f.basketWithTotal(t)

	_, err := f.uc.Validate(ctx, id)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	var stateErr *domain.StateError
	require.True(t, errors.As(err, &stateErr))
	assert.Equal(t, id, stateErr.OrderID)

	assert.Equal(t, int64(100), f.balance(t))
	o, err := f.uc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "InBasket", o.Status)
	assert.Empty(t, f.events.types())
}

func TestValidate_Concurrente_SoloUnaGana(t *testing.T) {
	f := newFixture(t, 1000)
	ctx := context.Background()
	id := f.basketWithTotal(t)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.uc.Validate(ctx, id)
		}(i)
	}
	wg.Wait()

	ok, wrong := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrWrongState):
			wrong++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, wrong)
	assert.Equal(t, int64(700), f.balance(t))
}

func TestValidateBasket(t *testing.T) {
	f := newFixture(t, 300)
	ctx := context.Background()

	_, err := f.uc.ValidateBasket(ctx, f.client.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	id := f.basketWithTotal(t)
	o, err := f.uc.ValidateBasket(ctx, f.client.ID)
	require.NoError(t, err)
	assert.Equal(t, id, o.ID)
	assert.Equal(t, int64(0), f.balance(t))

	// la siguiente cesta es un pedido nuevo
	b, err := f.uc.GetOrCreateBasket(ctx, f.client.ID)
	require.NoError(t, err)
	assert.NotEqual(t, id, b.ID)
}

func TestFinish_SoloDesdeValidated(t *testing.T) {
	f := newFixture(t, 1000)
	ctx := context.Background()
	id := f.basketWithTotal(t)

	_, err := f.uc.Finish(ctx, id, f.barman.ID)
	assert.ErrorIs(t, err, domain.ErrNotReady)

	_, err = f.uc.Validate(ctx, id)
	require.NoError(t, err)
	o, err := f.uc.Finish(ctx, id, f.barman.ID)
	require.NoError(t, err)
	assert.Equal(t, "Finished", o.Status)
	assert.NotNil(t, o.EndedAt)
	assert.Equal(t, int64(700), f.balance(t), "terminar no mueve saldo")

	_, err = f.uc.Finish(ctx, id, f.barman.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyFinished)
	_, err = f.uc.Cancel(ctx, id, f.barman.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyFinished)
}

func TestCancel_Cesta_SinReembolso(t *testing.T) {
	f := newFixture(t, 50)
	ctx := context.Background()
	id := f.basketWithTotal(t)

	_, err := f.uc.Cancel(ctx, id, f.barman.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(50), f.balance(t))

	_, err = f.uc.Cancel(ctx, id, f.barman.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyCancelled)
	_, err = f.uc.Finish(ctx, id, f.barman.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyCancelled)
	_, err = f.uc.Validate(ctx, id)
	assert.ErrorIs(t, err, domain.ErrWrongState)
}

func TestPublicacionFallida_NoRompeLaTransicion(t *testing.T) {
	f := newFixture(t, 1000)
	f.events.err = errors.New("kafka caído")
	id := f.basketWithTotal(t)

	o, err := f.uc.Validate(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Validated", o.Status)
	assert.Equal(t, int64(700), f.balance(t))
}

func TestTransiciones_PedidoInexistente(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	_, err := f.uc.Validate(ctx, 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.uc.Cancel(ctx, 42, f.barman.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.uc.Finish(ctx, 42, f.barman.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ─── Consultas ──────────────────────────────────────────────────────────────

func TestList_CompleteOnlyExcluyeCestas(t *testing.T) {
	f := newFixture(t, 1000)
	ctx := context.Background()
	id := f.basketWithTotal(t)
	_, err := f.uc.Validate(ctx, id)
	require.NoError(t, err)
	_, err = f.uc.GetOrCreateBasket(ctx, f.client.ID)
	require.NoError(t, err)

	all, err := f.uc.List(ctx, false, nil, dtoPage())
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)

	complete, err := f.uc.List(ctx, true, &f.client.ID, dtoPage())
	require.NoError(t, err)
	require.Len(t, complete.Items, 1)
	assert.Equal(t, id, complete.Items[0].ID)
	assert.Equal(t, int64(300), complete.Items[0].Total)
}

func TestReceipt_SoloValidadoOTerminado(t *testing.T) {
	f := newFixture(t, 1000)
	ctx := context.Background()
	id := f.basketWithTotal(t)

	_, err := f.uc.Receipt(ctx, id)
	assert.ErrorIs(t, err, domain.ErrWrongState)

	_, err = f.uc.Validate(ctx, id)
	require.NoError(t, err)
	pdf, err := f.uc.Receipt(ctx, id)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
}
