package event

import (
	"context"
	"encoding/json"
	"fmt"
	"store/entities"
)

// Data-lake handlers: every public event is appended to the events archive,
// keyed by event id so redeliveries collapse into one row.

func (h Handler) ArchiveOrderCreated(ctx context.Context, event *entities.OrderCreated) error {
	return h.archiveEvent(ctx, event.Header, "OrderCreated", event)
}

func (h Handler) ArchiveProductPriceUpdated(ctx context.Context, event *entities.ProductPriceUpdated) error {
	return h.archiveEvent(ctx, event.Header, "ProductPriceUpdated", event)
}

func (h Handler) ArchiveStockUpdated(ctx context.Context, event *entities.StockUpdated) error {
	return h.archiveEvent(ctx, event.Header, "StockUpdated", event)
}

func (h Handler) ArchiveOrderStatusChanged(ctx context.Context, event *entities.OrderStatusChanged) error {
	return h.archiveEvent(ctx, event.Header, "OrderStatusChanged", event)
}

func (h Handler) archiveEvent(ctx context.Context, header entities.EventHeader, name string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("could not marshal %s for archiving: %w", name, err)
	}

	return h.archive.Create(ctx, entities.Event{
		Header:    header,
		EventID:   header.ID,
		EventName: name,
		Payload:   payload,
	})
}
