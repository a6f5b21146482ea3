package event_test

import (
	"context"
	"encoding/json"
	"store/db"
	"store/entities"
	"store/inventory"
	"store/message/command"
	"store/message/event"
	"store/orders"
	"store/payment"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type handlerFixture struct {
	handler event.Handler
	ledger  *inventory.Ledger
	archive *db.EventRepositoryMock
	pubSub  *gochannel.GoChannel
}

func newHandlerFixture(t *testing.T) handlerFixture {
	t.Helper()

	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 16},
		watermill.NopLogger{},
	)
	t.Cleanup(func() {
		_ = pubSub.Close()
	})

	eventBus := event.NewBus(pubSub)
	commandBus := command.NewCommandBus(pubSub)

	ledger := inventory.NewLedger(db.NewInventoryRepositoryMock(), eventBus)
	processor := inventory.NewProcessor(ledger, db.NewProcessedCommandsMock())
	authorizer := payment.NewAuthorizer(db.NewPaymentRepositoryMock(), eventBus)
	coordinator := orders.NewCoordinator(
		db.NewOrderRepositoryMock(eventBus),
		db.NewProductRepositoryMock(eventBus),
		eventBus,
		commandBus,
	)
	archive := db.NewEventRepositoryMock()

	return handlerFixture{
		handler: event.NewHandler(processor, authorizer, coordinator, archive, eventBus),
		ledger:  ledger,
		archive: archive,
		pubSub:  pubSub,
	}
}

func orderCreated(orderID string, totalCents int64, items []entities.OrderItem) *entities.OrderCreated {
	return &entities.OrderCreated{
		Header:     entities.NewEventHeaderWithIdempotencyKey(orderID),
		OrderID:    orderID,
		TotalPrice: entities.Money{Amount: totalCents, Currency: "EUR"},
		Items:      items,
	}
}

func TestReserveStock(t *testing.T) {
	ctx := context.Background()
	f := newHandlerFixture(t)

	require.NoError(t, f.ledger.Onboard(ctx, "product-1", 10))

	messages, err := f.pubSub.Subscribe(ctx, "internal-events.svc-store.OrderStockReserved")
	require.NoError(t, err)

	err = f.handler.ReserveStock(ctx, orderCreated("order-1", 1000, []entities.OrderItem{
		{ProductID: "product-1", Quantity: 2},
	}))
	require.NoError(t, err)

	select {
	case msg := <-messages:
		var reserved entities.OrderStockReserved
		require.NoError(t, json.Unmarshal(msg.Payload, &reserved))
		assert.Equal(t, "order-1", reserved.OrderID)
		msg.Ack()
	case <-time.After(time.Second):
		t.Fatal("no OrderStockReserved event published")
	}

	quantity, err := f.ledger.CurrentQuantity(ctx, "product-1")
	require.NoError(t, err)
	assert.Equal(t, 8, quantity)
}

// A redelivered OrderCreated must not decrement the stock a second time.
func TestReserveStockRedelivery(t *testing.T) {
	ctx := context.Background()
	f := newHandlerFixture(t)

	require.NoError(t, f.ledger.Onboard(ctx, "product-1", 10))

	created := orderCreated("order-1", 1000, []entities.OrderItem{
		{ProductID: "product-1", Quantity: 2},
	})
	require.NoError(t, f.handler.ReserveStock(ctx, created))
	require.NoError(t, f.handler.ReserveStock(ctx, created))

	quantity, err := f.ledger.CurrentQuantity(ctx, "product-1")
	require.NoError(t, err)
	assert.Equal(t, 8, quantity)
}

// An order may list the same product on two lines; both must be reserved,
// not collapsed into one.
func TestReserveStockDuplicateProductLines(t *testing.T) {
	ctx := context.Background()
	f := newHandlerFixture(t)

	require.NoError(t, f.ledger.Onboard(ctx, "product-1", 10))

	err := f.handler.ReserveStock(ctx, orderCreated("order-1", 2500, []entities.OrderItem{
		{ProductID: "product-1", Quantity: 2},
		{ProductID: "product-1", Quantity: 3},
	}))
	require.NoError(t, err)

	quantity, err := f.ledger.CurrentQuantity(ctx, "product-1")
	require.NoError(t, err)
	assert.Equal(t, 5, quantity)
}

// When a later line is rejected, stock already decremented for the earlier
// lines must be returned; a redelivery must not credit it a second time.
func TestReserveStockReleasesEarlierLinesOnFailure(t *testing.T) {
	ctx := context.Background()
	f := newHandlerFixture(t)

	require.NoError(t, f.ledger.Onboard(ctx, "product-1", 10))
	require.NoError(t, f.ledger.Onboard(ctx, "product-2", 1))

	created := orderCreated("order-1", 3500, []entities.OrderItem{
		{ProductID: "product-1", Quantity: 2},
		{ProductID: "product-2", Quantity: 5},
	})

	messages, err := f.pubSub.Subscribe(ctx, "internal-events.svc-store.OrderStockReservationFailed")
	require.NoError(t, err)

	require.NoError(t, f.handler.ReserveStock(ctx, created))

	select {
	case msg := <-messages:
		msg.Ack()
	case <-time.After(time.Second):
		t.Fatal("no OrderStockReservationFailed event published")
	}

	quantity, err := f.ledger.CurrentQuantity(ctx, "product-1")
	require.NoError(t, err)
	assert.Equal(t, 10, quantity)

	quantity, err = f.ledger.CurrentQuantity(ctx, "product-2")
	require.NoError(t, err)
	assert.Equal(t, 1, quantity)

	require.NoError(t, f.handler.ReserveStock(ctx, created))

	quantity, err = f.ledger.CurrentQuantity(ctx, "product-1")
	require.NoError(t, err)
	assert.Equal(t, 10, quantity)
}

func TestReserveStockInsufficient(t *testing.T) {
	ctx := context.Background()
	f := newHandlerFixture(t)

	require.NoError(t, f.ledger.Onboard(ctx, "product-1", 1))

	messages, err := f.pubSub.Subscribe(ctx, "internal-events.svc-store.OrderStockReservationFailed")
	require.NoError(t, err)

	// A business rejection is acked, not retried: the handler reports
	// failure downstream and returns nil.
	err = f.handler.ReserveStock(ctx, orderCreated("order-1", 1000, []entities.OrderItem{
		{ProductID: "product-1", Quantity: 5},
	}))
	require.NoError(t, err)

	select {
	case msg := <-messages:
		var failed entities.OrderStockReservationFailed
		require.NoError(t, json.Unmarshal(msg.Payload, &failed))
		assert.Equal(t, "order-1", failed.OrderID)
		assert.NotEmpty(t, failed.Reason)
		msg.Ack()
	case <-time.After(time.Second):
		t.Fatal("no OrderStockReservationFailed event published")
	}

	quantity, err := f.ledger.CurrentQuantity(ctx, "product-1")
	require.NoError(t, err)
	assert.Equal(t, 1, quantity)
}

func TestAuthorizePaymentDeclinesInvalidAmount(t *testing.T) {
	ctx := context.Background()
	f := newHandlerFixture(t)

	messages, err := f.pubSub.Subscribe(ctx, "internal-events.svc-store.OrderPaymentDeclined")
	require.NoError(t, err)

	err = f.handler.AuthorizePayment(ctx, orderCreated("order-1", 0, []entities.OrderItem{
		{ProductID: "product-1", Quantity: 1},
	}))
	require.NoError(t, err)

	select {
	case msg := <-messages:
		var declined entities.OrderPaymentDeclined
		require.NoError(t, json.Unmarshal(msg.Payload, &declined))
		assert.Equal(t, "order-1", declined.OrderID)
		msg.Ack()
	case <-time.After(time.Second):
		t.Fatal("no OrderPaymentDeclined event published")
	}
}

func TestArchiveDeduplicatesByEventID(t *testing.T) {
	ctx := context.Background()
	f := newHandlerFixture(t)

	created := orderCreated("order-1", 1000, []entities.OrderItem{
		{ProductID: "product-1", Quantity: 1},
	})

	require.NoError(t, f.handler.ArchiveOrderCreated(ctx, created))
	require.NoError(t, f.handler.ArchiveOrderCreated(ctx, created))

	archived := f.archive.All()
	require.Len(t, archived, 1)
	assert.Equal(t, "OrderCreated", archived[0].EventName)
	assert.Equal(t, created.Header.ID, archived[0].EventID)

	var roundTripped entities.OrderCreated
	require.NoError(t, json.Unmarshal(archived[0].Payload, &roundTripped))
	assert.Equal(t, "order-1", roundTripped.OrderID)
}
