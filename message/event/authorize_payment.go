package event

import (
	"context"
	"errors"
	"fmt"
	"store/entities"
	"store/metrics"
	"store/payment"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
)

// AuthorizePayment reacts to OrderCreated independently of the inventory
// handler; the two fan out concurrently from the same event.
func (h Handler) AuthorizePayment(ctx context.Context, event *entities.OrderCreated) error {
	log.FromContext(ctx).WithField("order_id", event.OrderID).Info("Authorizing payment for order")

	_, err := h.authorizer.Authorize(ctx, event.OrderID, event.TotalPrice)
	if errors.Is(err, payment.ErrInvalidAmount) {
		metrics.PaymentsDeclined.Inc()
		return h.eventBus.Publish(ctx, entities.OrderPaymentDeclined{
			Header:  entities.NewEventHeaderWithIdempotencyKey(event.OrderID),
			OrderID: event.OrderID,
			Reason:  err.Error(),
		})
	}
	if err != nil {
		return fmt.Errorf("could not authorize payment for order %s: %w", event.OrderID, err)
	}

	metrics.PaymentsAuthorized.Inc()
	return nil
}
