package command

import (
	"context"
	"store/entities"
)

// StockProcessor is implemented by inventory.Processor.
type StockProcessor interface {
	DecreaseStock(ctx context.Context, cmd entities.DecreaseStock) (entities.InventoryItemView, error)
	UpdateStock(ctx context.Context, cmd entities.UpdateStock) (entities.InventoryItemView, error)
}

type Handler struct {
	processor StockProcessor
}

func NewHandler(processor StockProcessor) Handler {
	if processor == nil {
		panic("processor is required")
	}
	return Handler{
		processor: processor,
	}
}
