package payment

import (
	"context"
	"errors"
	"fmt"
	"store/entities"
	"time"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/google/uuid"
)

var (
	// ErrInvalidAmount rejects non-positive amounts; no record is created.
	ErrInvalidAmount = errors.New("payment amount must be positive")
	// ErrAlreadyExists is returned by repositories when another record
	// holds the order id; the authorizer resolves it by returning the
	// existing record.
	ErrAlreadyExists = errors.New("payment record already exists")
	ErrNotFound      = errors.New("payment record not found")
)

type Repository interface {
	Create(ctx context.Context, record entities.PaymentRecord) error
	ByOrderID(ctx context.Context, orderID string) (entities.PaymentRecord, error)
}

// Authorizer issues simulated payment authorization decisions. There is no
// real settlement: any positive amount is authorized.
type Authorizer struct {
	repo     Repository
	eventBus *cqrs.EventBus
}

func NewAuthorizer(repo Repository, eventBus *cqrs.EventBus) *Authorizer {
	if repo == nil {
		panic("repo is required")
	}
	if eventBus == nil {
		panic("eventBus is required")
	}
	return &Authorizer{
		repo:     repo,
		eventBus: eventBus,
	}
}

// Authorize records an authorization decision for the order. The event
// transport is at-least-once, so a repeated call for an order that already
// holds a terminal record returns that record unchanged.
func (a *Authorizer) Authorize(ctx context.Context, orderID string, amount entities.Money) (entities.PaymentRecord, error) {
	if existing, err := a.repo.ByOrderID(ctx, orderID); err == nil {
		log.FromContext(ctx).WithField("order_id", orderID).
			Info("Payment already recorded, returning existing record")
		return existing, nil
	} else if !errors.Is(err, ErrNotFound) {
		return entities.PaymentRecord{}, fmt.Errorf("could not look up payment: %w", err)
	}

	if !amount.IsPositive() {
		return entities.PaymentRecord{}, fmt.Errorf(
			"authorizing order %s for %d %s: %w", orderID, amount.Amount, amount.Currency, ErrInvalidAmount)
	}

	record := entities.PaymentRecord{
		PaymentID:    uuid.NewString(),
		OrderID:      orderID,
		Amount:       amount,
		Status:       entities.PaymentStatusAuthorized,
		AuthorizedAt: time.Now().UTC(),
	}

	err := a.repo.Create(ctx, record)
	if errors.Is(err, ErrAlreadyExists) {
		// Lost the race with a concurrent delivery of the same order.
		return a.repo.ByOrderID(ctx, orderID)
	}
	if err != nil {
		return entities.PaymentRecord{}, fmt.Errorf("could not store payment record: %w", err)
	}

	err = a.eventBus.Publish(ctx, entities.OrderPaymentAuthorized{
		Header:    entities.NewEventHeaderWithIdempotencyKey(orderID),
		OrderID:   orderID,
		PaymentID: record.PaymentID,
	})
	if err != nil {
		return entities.PaymentRecord{}, fmt.Errorf("could not publish OrderPaymentAuthorized: %w", err)
	}

	return record, nil
}
