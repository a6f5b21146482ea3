package command

import (
	"context"
	"errors"
	"fmt"
	"store/entities"
	"store/inventory"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
)

// DecreaseStock handles the async command intake. Business rejections are
// logged and acked - redelivering them cannot change the outcome.
func (h Handler) DecreaseStock(ctx context.Context, cmd *entities.DecreaseStock) error {
	view, err := h.processor.DecreaseStock(ctx, *cmd)
	if errors.Is(err, inventory.ErrForbidden) ||
		errors.Is(err, inventory.ErrNotFound) ||
		errors.Is(err, inventory.ErrInsufficientStock) {
		log.FromContext(ctx).
			WithField("product_id", cmd.ProductID).
			WithField("actor_id", cmd.ActorID).
			WithError(err).
			Warn("Stock decrease rejected")
		return nil
	}
	if err != nil {
		return fmt.Errorf("could not decrease stock: %w", err)
	}

	log.FromContext(ctx).
		WithField("product_id", view.ProductID).
		WithField("quantity", view.Quantity).
		Info("Stock decreased")
	return nil
}
