package event

import (
	"context"
	"testing"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newStartedBus(t *testing.T) *InMemoryEventBus {
	t.Helper()
	bus := NewInMemoryEventBus(zap.NewNop())
	require.NoError(t, bus.Start(context.Background()))
	t.Cleanup(func() {
		_ = bus.Stop(context.Background())
	})
	return bus
}

func TestInMemoryEventBus_PublishToSubscribedType(t *testing.T) {
	bus := newStartedBus(t)
	handler := &countingHandler{types: []string{"sales.invoice.posted"}}
	bus.Subscribe(handler)

	matching := shared.NewBaseDomainEvent("sales.invoice.posted", "SalesInvoice", uuid.New())
	other := shared.NewBaseDomainEvent("purchasing.goods_receipt.posted", "GoodsReceipt", uuid.New())

	require.NoError(t, bus.Publish(context.Background(), &matching))
	require.NoError(t, bus.Publish(context.Background(), &other))

	assert.Equal(t, 1, handler.calls)
}

func TestInMemoryEventBus_ExplicitTypesOverrideHandler(t *testing.T) {
	bus := newStartedBus(t)
	handler := &countingHandler{types: []string{"sales.invoice.posted"}}
	bus.Subscribe(handler, "inventory.stock_adjustment.recorded")

	invoice := shared.NewBaseDomainEvent("sales.invoice.posted", "SalesInvoice", uuid.New())
	adjustment := shared.NewBaseDomainEvent("inventory.stock_adjustment.recorded", "StockAdjustment", uuid.New())

	require.NoError(t, bus.Publish(context.Background(), &invoice, &adjustment))

	assert.Equal(t, 1, handler.calls)
}

func TestInMemoryEventBus_WildcardHandler(t *testing.T) {
	bus := newStartedBus(t)
	handler := &countingHandler{}
	bus.Subscribe(handler)

	a := shared.NewBaseDomainEvent("sales.invoice.posted", "SalesInvoice", uuid.New())
	b := shared.NewBaseDomainEvent("accounting.journal_entry.posted", "JournalEntry", uuid.New())

	require.NoError(t, bus.Publish(context.Background(), &a, &b))

	assert.Equal(t, 2, handler.calls)
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := newStartedBus(t)
	handler := &countingHandler{types: []string{"sales.invoice.posted"}}
	bus.Subscribe(handler)
	bus.Unsubscribe(handler)

	event := shared.NewBaseDomainEvent("sales.invoice.posted", "SalesInvoice", uuid.New())
	require.NoError(t, bus.Publish(context.Background(), &event))

	assert.Zero(t, handler.calls)
}

func TestInMemoryEventBus_HandlerErrorDoesNotStopOthers(t *testing.T) {
	bus := newStartedBus(t)
	failing := &countingHandler{types: []string{"sales.invoice.posted"}, err: assert.AnError}
	succeeding := &countingHandler{types: []string{"sales.invoice.posted"}}
	bus.Subscribe(failing)
	bus.Subscribe(succeeding)

	event := shared.NewBaseDomainEvent("sales.invoice.posted", "SalesInvoice", uuid.New())
	require.NoError(t, bus.Publish(context.Background(), &event))

	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, succeeding.calls)
}

type panickingHandler struct{}

func (h *panickingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	panic("boom")
}

func (h *panickingHandler) EventTypes() []string {
	return nil
}

func TestInMemoryEventBus_HandlerPanicRecovered(t *testing.T) {
	bus := newStartedBus(t)
	bus.Subscribe(&panickingHandler{})
	after := &countingHandler{}
	bus.Subscribe(after)

	event := shared.NewBaseDomainEvent("sales.invoice.posted", "SalesInvoice", uuid.New())

	assert.NotPanics(t, func() {
		require.NoError(t, bus.Publish(context.Background(), &event))
	})
	assert.Equal(t, 1, after.calls)
}

func TestHandlerRegistry(t *testing.T) {
	registry := NewHandlerRegistry()
	typed := &countingHandler{}
	wildcard := &countingHandler{}

	registry.Register(typed, "a", "b")
	registry.Register(wildcard)

	assert.Len(t, registry.GetHandlers("a"), 2)
	assert.Len(t, registry.GetHandlers("b"), 2)
	assert.Len(t, registry.GetHandlers("c"), 1)

	registry.Unregister(typed)
	assert.Len(t, registry.GetHandlers("a"), 1)

	registry.Unregister(wildcard)
	assert.Empty(t, registry.GetHandlers("a"))
}
