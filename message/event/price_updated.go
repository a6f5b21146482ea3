package event

import (
	"context"
	"store/entities"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
)

// RepriceOrders recomputes cached totals of pending orders when the catalog
// changes a price. Completed orders are left alone.
func (h Handler) RepriceOrders(ctx context.Context, event *entities.ProductPriceUpdated) error {
	log.FromContext(ctx).
		WithField("product_id", event.ProductID).
		Info("Repricing pending orders after price update")

	return h.coordinator.OnProductPriceUpdated(ctx, event.ProductID)
}
