package inventory

import (
	"context"
	"errors"
	"fmt"
	"store/entities"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
)

var (
	// ErrInsufficientStock is a business rejection, not a transient
	// failure - callers must not retry it.
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrNotFound          = errors.New("product not found")
	ErrForbidden         = errors.New("actor is not allowed to adjust stock")
	// ErrVersionConflict means another writer won the compare-and-swap;
	// the ledger retries it internally.
	ErrVersionConflict = errors.New("inventory item version conflict")
)

const casMaxRetries = 10

// Repository is the narrow persistence contract the ledger needs. The
// Postgres implementation lives in db, the in-memory one backs the tests.
type Repository interface {
	Item(ctx context.Context, productID string) (entities.InventoryItem, error)
	Upsert(ctx context.Context, item entities.InventoryItem) error
	// CompareAndSwap writes newQuantity only if the stored version still
	// matches item.Version, and returns ErrVersionConflict otherwise.
	CompareAndSwap(ctx context.Context, item entities.InventoryItem, newQuantity int) error
}

// Ledger serializes stock mutations per product with an optimistic
// concurrency loop. Cross-product applies never contend.
type Ledger struct {
	repo     Repository
	eventBus *cqrs.EventBus
}

func NewLedger(repo Repository, eventBus *cqrs.EventBus) *Ledger {
	if repo == nil {
		panic("repo is required")
	}
	if eventBus == nil {
		panic("eventBus is required")
	}
	return &Ledger{
		repo:     repo,
		eventBus: eventBus,
	}
}

func (l *Ledger) CurrentQuantity(ctx context.Context, productID string) (int, error) {
	item, err := l.repo.Item(ctx, productID)
	if err != nil {
		return 0, err
	}
	return item.Quantity, nil
}

// Apply atomically adds delta to the product's quantity and returns the new
// quantity. A delta that would drive the quantity below zero is rejected
// with ErrInsufficientStock and nothing is written.
func (l *Ledger) Apply(ctx context.Context, productID string, delta int) (int, error) {
	for attempt := 0; attempt < casMaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		item, err := l.repo.Item(ctx, productID)
		if err != nil {
			return 0, err
		}

		newQuantity := item.Quantity + delta
		if newQuantity < 0 {
			return 0, fmt.Errorf("applying %d to product %s with quantity %d: %w",
				delta, productID, item.Quantity, ErrInsufficientStock)
		}

		err = l.repo.CompareAndSwap(ctx, item, newQuantity)
		if errors.Is(err, ErrVersionConflict) {
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("could not apply stock delta: %w", err)
		}

		err = l.eventBus.Publish(ctx, entities.StockUpdated{
			Header:    entities.NewEventHeader(),
			ProductID: productID,
			Delta:     delta,
		})
		if err != nil {
			// The mutation is committed; the event is best-effort here and
			// redelivery of the triggering message republishes it.
			log.FromContext(ctx).WithField("product_id", productID).
				WithError(err).Error("Could not publish StockUpdated")
		}

		return newQuantity, nil
	}

	return 0, fmt.Errorf("applying %d to product %s: %w", delta, productID, ErrVersionConflict)
}

// Onboard registers a product's stock record. Quantity must not be negative.
func (l *Ledger) Onboard(ctx context.Context, productID string, quantity int) error {
	if quantity < 0 {
		return fmt.Errorf("onboarding product %s with quantity %d: %w",
			productID, quantity, ErrInsufficientStock)
	}

	return l.repo.Upsert(ctx, entities.InventoryItem{
		ProductID: productID,
		Quantity:  quantity,
	})
}
