package command

import (
	"context"
	"errors"
	"fmt"
	"store/entities"
	"store/inventory"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
)

func (h Handler) UpdateStock(ctx context.Context, cmd *entities.UpdateStock) error {
	view, err := h.processor.UpdateStock(ctx, *cmd)
	if errors.Is(err, inventory.ErrNotFound) {
		log.FromContext(ctx).
			WithField("product_id", cmd.ProductID).
			WithError(err).
			Warn("Stock update rejected")
		return nil
	}
	if err != nil {
		return fmt.Errorf("could not update stock: %w", err)
	}

	log.FromContext(ctx).
		WithField("product_id", view.ProductID).
		WithField("quantity", view.Quantity).
		Info("Stock updated")
	return nil
}
