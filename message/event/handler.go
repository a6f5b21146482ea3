package event

import (
	"context"
	"store/entities"
	"time"

	"github.com/ThreeDotsLabs/watermill/components/cqrs"
)

// StockProcessor applies stock mutation commands; implemented by
// inventory.Processor.
type StockProcessor interface {
	DecreaseStock(ctx context.Context, cmd entities.DecreaseStock) (entities.InventoryItemView, error)
	UpdateStock(ctx context.Context, cmd entities.UpdateStock) (entities.InventoryItemView, error)
}

// PaymentAuthorizer records authorization decisions; implemented by
// payment.Authorizer.
type PaymentAuthorizer interface {
	Authorize(ctx context.Context, orderID string, amount entities.Money) (entities.PaymentRecord, error)
}

// OrderCoordinator advances the per-order state machine; implemented by
// orders.Coordinator.
type OrderCoordinator interface {
	OnStockReserved(ctx context.Context, orderID string, reservedAt time.Time) error
	OnStockReservationFailed(ctx context.Context, orderID string, reason string) error
	OnPaymentAuthorized(ctx context.Context, orderID string, authorizedAt time.Time) error
	OnPaymentDeclined(ctx context.Context, orderID string, reason string) error
	OnProductPriceUpdated(ctx context.Context, productID string) error
}

type EventArchive interface {
	Create(ctx context.Context, event entities.Event) error
}

type Handler struct {
	processor   StockProcessor
	authorizer  PaymentAuthorizer
	coordinator OrderCoordinator
	archive     EventArchive
	eventBus    *cqrs.EventBus
}

func NewHandler(
	processor StockProcessor,
	authorizer PaymentAuthorizer,
	coordinator OrderCoordinator,
	archive EventArchive,
	eventBus *cqrs.EventBus,
) Handler {
	if processor == nil {
		panic("missing processor")
	}
	if authorizer == nil {
		panic("missing authorizer")
	}
	if coordinator == nil {
		panic("missing coordinator")
	}
	if archive == nil {
		panic("missing archive")
	}
	if eventBus == nil {
		panic("missing eventBus")
	}
	return Handler{
		processor:   processor,
		authorizer:  authorizer,
		coordinator: coordinator,
		archive:     archive,
		eventBus:    eventBus,
	}
}
