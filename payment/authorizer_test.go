package payment_test

import (
	"context"
	"store/db"
	"store/entities"
	"store/message/event"
	"store/payment"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEventBus(t *testing.T) (*cqrs.EventBus, *gochannel.GoChannel) {
	t.Helper()

	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 16},
		watermill.NopLogger{},
	)
	t.Cleanup(func() {
		_ = pubSub.Close()
	})

	return event.NewBus(pubSub), pubSub
}

func TestAuthorize(t *testing.T) {
	ctx := context.Background()
	eventBus, pubSub := newTestEventBus(t)
	repo := db.NewPaymentRepositoryMock()
	authorizer := payment.NewAuthorizer(repo, eventBus)

	messages, err := pubSub.Subscribe(ctx, "internal-events.svc-store.OrderPaymentAuthorized")
	require.NoError(t, err)

	record, err := authorizer.Authorize(ctx, "order-1", entities.Money{Amount: 1500, Currency: "EUR"})
	require.NoError(t, err)
	assert.NotEmpty(t, record.PaymentID)
	assert.Equal(t, "order-1", record.OrderID)
	assert.Equal(t, entities.PaymentStatusAuthorized, record.Status)

	select {
	case msg := <-messages:
		msg.Ack()
	case <-time.After(time.Second):
		t.Fatal("no OrderPaymentAuthorized event published")
	}

	stored, err := repo.ByOrderID(ctx, "order-1")
	require.NoError(t, err)
	assert.Equal(t, record.PaymentID, stored.PaymentID)
}

// The transport is at-least-once: a second authorization for the same order
// returns the original record instead of creating another one.
func TestAuthorizeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	eventBus, _ := newTestEventBus(t)
	authorizer := payment.NewAuthorizer(db.NewPaymentRepositoryMock(), eventBus)

	first, err := authorizer.Authorize(ctx, "order-1", entities.Money{Amount: 1500, Currency: "EUR"})
	require.NoError(t, err)

	second, err := authorizer.Authorize(ctx, "order-1", entities.Money{Amount: 1500, Currency: "EUR"})
	require.NoError(t, err)

	assert.Equal(t, first.PaymentID, second.PaymentID)
	assert.Equal(t, first.AuthorizedAt, second.AuthorizedAt)
}

func TestAuthorizeInvalidAmount(t *testing.T) {
	ctx := context.Background()
	eventBus, _ := newTestEventBus(t)
	repo := db.NewPaymentRepositoryMock()
	authorizer := payment.NewAuthorizer(repo, eventBus)

	_, err := authorizer.Authorize(ctx, "order-1", entities.Money{Amount: 0, Currency: "EUR"})
	require.ErrorIs(t, err, payment.ErrInvalidAmount)

	_, err = authorizer.Authorize(ctx, "order-2", entities.Money{Amount: -500, Currency: "EUR"})
	require.ErrorIs(t, err, payment.ErrInvalidAmount)

	// No record is written for a rejected amount.
	_, err = repo.ByOrderID(ctx, "order-1")
	assert.ErrorIs(t, err, payment.ErrNotFound)
}
