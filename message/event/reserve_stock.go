package event

import (
	"context"
	"errors"
	"fmt"
	"store/entities"
	"store/inventory"
	"store/metrics"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
)

const orderServiceActor = "svc-store-orders"

// ReserveStock decreases stock for every line item of a freshly created
// order. The command idempotency key includes the line index, so a
// redelivered OrderCreated cannot double-decrement and an order listing the
// same product on two lines reserves both.
func (h Handler) ReserveStock(ctx context.Context, event *entities.OrderCreated) error {
	log.FromContext(ctx).WithField("order_id", event.OrderID).Info("Reserving stock for order")

	for i, item := range event.Items {
		_, err := h.processor.DecreaseStock(ctx, entities.DecreaseStock{
			Header:    entities.NewEventHeaderWithIdempotencyKey(lineKey(event.OrderID, i, item.ProductID)),
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			ActorID:   orderServiceActor,
			ActorRole: entities.RoleSystem,
			Note:      "order " + event.OrderID,
		})

		switch {
		case errors.Is(err, inventory.ErrInsufficientStock), errors.Is(err, inventory.ErrNotFound):
			// Business rejection: don't retry, let the coordinator fail
			// the order instead.
			metrics.StockCommandsRejected.Inc()

			if releaseErr := h.releaseLines(ctx, event, i); releaseErr != nil {
				return releaseErr
			}

			return h.eventBus.Publish(ctx, entities.OrderStockReservationFailed{
				Header:  entities.NewEventHeaderWithIdempotencyKey(event.OrderID),
				OrderID: event.OrderID,
				Reason:  err.Error(),
			})
		case err != nil:
			return fmt.Errorf("could not decrease stock for product %s: %w", item.ProductID, err)
		}

		metrics.StockCommandsApplied.WithLabelValues("DecreaseStock").Inc()
	}

	return h.eventBus.Publish(ctx, entities.OrderStockReserved{
		Header:  entities.NewEventHeaderWithIdempotencyKey(event.OrderID),
		OrderID: event.OrderID,
	})
}

// releaseLines returns stock decremented for the lines before failedLine, so
// a partially reserved order never leaks stock. The release keys are derived
// from the reservation keys, so a redelivery cannot double-credit.
func (h Handler) releaseLines(ctx context.Context, event *entities.OrderCreated, failedLine int) error {
	for i := 0; i < failedLine; i++ {
		item := event.Items[i]

		_, err := h.processor.UpdateStock(ctx, entities.UpdateStock{
			Header:    entities.NewEventHeaderWithIdempotencyKey(lineKey(event.OrderID, i, item.ProductID) + "/release"),
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
		if err != nil {
			return fmt.Errorf("could not release stock for product %s: %w", item.ProductID, err)
		}
	}

	return nil
}

func lineKey(orderID string, line int, productID string) string {
	return fmt.Sprintf("%s/%d/%s", orderID, line, productID)
}
