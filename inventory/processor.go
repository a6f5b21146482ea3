package inventory

import (
	"context"
	"errors"
	"fmt"
	"store/entities"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
)

// ProcessedCommands stores one result per idempotency key so redelivered
// commands short-circuit instead of touching the ledger twice.
type ProcessedCommands interface {
	Find(ctx context.Context, dedupKey string) (entities.StockCommandResult, bool, error)
	Record(ctx context.Context, result entities.StockCommandResult) error
}

// Processor validates and applies stock mutation commands against the
// ledger. It is the only component allowed to mutate inventory.
type Processor struct {
	ledger    *Ledger
	processed ProcessedCommands
}

func NewProcessor(ledger *Ledger, processed ProcessedCommands) *Processor {
	if ledger == nil {
		panic("ledger is required")
	}
	if processed == nil {
		panic("processed commands store is required")
	}
	return &Processor{
		ledger:    ledger,
		processed: processed,
	}
}

// DecreaseStock removes cmd.Quantity units of the product. The actor must
// hold a role permitted to adjust stock; a product that was never onboarded
// is ErrNotFound, not an implicit zero-quantity record.
func (p *Processor) DecreaseStock(ctx context.Context, cmd entities.DecreaseStock) (entities.InventoryItemView, error) {
	if !roleMayAdjustStock(cmd.ActorRole) {
		return entities.InventoryItemView{}, fmt.Errorf(
			"actor %s with role %s: %w", cmd.ActorID, cmd.ActorRole, ErrForbidden)
	}
	if cmd.Quantity <= 0 {
		return entities.InventoryItemView{}, fmt.Errorf("quantity must be positive, got %d", cmd.Quantity)
	}

	if view, prior, err := p.priorResult(ctx, cmd.Header.IdempotencyKey); err != nil {
		return entities.InventoryItemView{}, err
	} else if prior != nil {
		log.FromContext(ctx).
			WithField("dedup_key", cmd.Header.IdempotencyKey).
			Info("Duplicate stock command, returning prior result")
		return view, *prior
	}

	newQuantity, err := p.ledger.Apply(ctx, cmd.ProductID, -cmd.Quantity)
	if errors.Is(err, ErrInsufficientStock) {
		// Business rejections are recorded too: the redelivered command
		// must observe the same outcome, not a second evaluation.
		if recordErr := p.recordResult(ctx, entities.StockCommandResult{
			DedupKey:  cmd.Header.IdempotencyKey,
			ProductID: cmd.ProductID,
			Rejected:  true,
		}); recordErr != nil {
			return entities.InventoryItemView{}, recordErr
		}
		return entities.InventoryItemView{}, err
	}
	if err != nil {
		return entities.InventoryItemView{}, err
	}

	err = p.recordResult(ctx, entities.StockCommandResult{
		DedupKey:  cmd.Header.IdempotencyKey,
		ProductID: cmd.ProductID,
		Quantity:  newQuantity,
	})
	if err != nil {
		return entities.InventoryItemView{}, err
	}

	return entities.InventoryItemView{
		ProductID: cmd.ProductID,
		Quantity:  newQuantity,
	}, nil
}

// UpdateStock restocks the product by cmd.Quantity units.
func (p *Processor) UpdateStock(ctx context.Context, cmd entities.UpdateStock) (entities.InventoryItemView, error) {
	if cmd.Quantity <= 0 {
		return entities.InventoryItemView{}, fmt.Errorf("quantity must be positive, got %d", cmd.Quantity)
	}

	if view, prior, err := p.priorResult(ctx, cmd.Header.IdempotencyKey); err != nil {
		return entities.InventoryItemView{}, err
	} else if prior != nil {
		return view, *prior
	}

	newQuantity, err := p.ledger.Apply(ctx, cmd.ProductID, cmd.Quantity)
	if err != nil {
		return entities.InventoryItemView{}, err
	}

	err = p.recordResult(ctx, entities.StockCommandResult{
		DedupKey:  cmd.Header.IdempotencyKey,
		ProductID: cmd.ProductID,
		Quantity:  newQuantity,
	})
	if err != nil {
		return entities.InventoryItemView{}, err
	}

	return entities.InventoryItemView{
		ProductID: cmd.ProductID,
		Quantity:  newQuantity,
	}, nil
}

// priorResult reports a previously computed outcome for the key. The inner
// *error is nil when no prior result exists; a non-nil pointer carries the
// original outcome (nil error for success, the business rejection otherwise).
func (p *Processor) priorResult(ctx context.Context, dedupKey string) (entities.InventoryItemView, *error, error) {
	if dedupKey == "" {
		return entities.InventoryItemView{}, nil, nil
	}

	result, found, err := p.processed.Find(ctx, dedupKey)
	if err != nil {
		return entities.InventoryItemView{}, nil, fmt.Errorf("could not look up processed command: %w", err)
	}
	if !found {
		return entities.InventoryItemView{}, nil, nil
	}

	if result.Rejected {
		outcome := error(fmt.Errorf("product %s: %w", result.ProductID, ErrInsufficientStock))
		return entities.InventoryItemView{}, &outcome, nil
	}

	var outcome error
	return entities.InventoryItemView{
		ProductID: result.ProductID,
		Quantity:  result.Quantity,
	}, &outcome, nil
}

func (p *Processor) recordResult(ctx context.Context, result entities.StockCommandResult) error {
	if result.DedupKey == "" {
		return nil
	}
	if err := p.processed.Record(ctx, result); err != nil {
		return fmt.Errorf("could not record processed command: %w", err)
	}
	return nil
}

func roleMayAdjustStock(role entities.ActorRole) bool {
	return role == entities.RoleSystem || role == entities.RoleStaff
}
