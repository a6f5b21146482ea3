package orders

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
	ErrNotFound     = errors.New("order not found")
	ErrOrderIsEmpty = errors.New("order must contain at least one item")
	// ErrAlreadyCompleted rejects cancellation of a fulfilled order.
	ErrAlreadyCompleted = errors.New("order is already completed")
)

// Repository persists orders. Create must durably record the order and
// publish OrderCreated as one unit (transactional outbox in Postgres).
type Repository interface {
	Create(ctx context.Context, order entities.Order) error
	ByID(ctx context.Context, orderID string) (entities.Order, error)
	UpdateByID(
		ctx context.Context,
		orderID string,
		updateFn func(order entities.Order) (entities.Order, error),
	) (entities.Order, error)
	// PendingByProduct lists non-terminal orders containing the product.
	PendingByProduct(ctx context.Context, productID string) ([]entities.Order, error)
}

type ProductRepository interface {
	ByID(ctx context.Context, productID string) (entities.Product, error)
}

// Coordinator owns the per-order state machine. Order status is mutated
// here and nowhere else; inventory and payment only publish confirmations.
type Coordinator struct {
	repo        Repository
	productRepo ProductRepository
	eventBus    *cqrs.EventBus
	commandBus  *cqrs.CommandBus
}

func NewCoordinator(
	repo Repository,
	productRepo ProductRepository,
	eventBus *cqrs.EventBus,
	commandBus *cqrs.CommandBus,
) *Coordinator {
	if repo == nil {
		panic("repo is required")
	}
	if productRepo == nil {
		panic("productRepo is required")
	}
	if eventBus == nil {
		panic("eventBus is required")
	}
	if commandBus == nil {
		panic("commandBus is required")
	}
	return &Coordinator{
		repo:        repo,
		productRepo: productRepo,
		eventBus:    eventBus,
		commandBus:  commandBus,
	}
}

func (c *Coordinator) CreateOrder(ctx context.Context, customerEmail string, items []entities.OrderItem) (entities.OrderCreateResponse, error) {
	if len(items) == 0 {
		return entities.OrderCreateResponse{}, ErrOrderIsEmpty
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return entities.OrderCreateResponse{}, fmt.Errorf(
				"product %s: quantity must be positive, got %d", item.ProductID, item.Quantity)
		}
	}

	total, err := c.totalPrice(ctx, items)
	if err != nil {
		return entities.OrderCreateResponse{}, err
	}

	order := entities.Order{
		OrderID:       uuid.NewString(),
		CustomerEmail: customerEmail,
		Items:         items,
		TotalPrice:    total,
		Status:        entities.OrderStatusCreated,
	}

	if err := c.repo.Create(ctx, order); err != nil {
		return entities.OrderCreateResponse{}, fmt.Errorf("could not create order: %w", err)
	}

	return entities.OrderCreateResponse{OrderID: order.OrderID}, nil
}

func (c *Coordinator) OrderByID(ctx context.Context, orderID string) (entities.Order, error) {
	return c.repo.ByID(ctx, orderID)
}

// OnStockReserved records the inventory confirmation and advances the
// order. Re-delivery sets the same flag again and changes nothing.
func (c *Coordinator) OnStockReserved(ctx context.Context, orderID string, reservedAt time.Time) error {
	return c.advance(ctx, orderID, func(order entities.Order) (entities.Order, error) {
		if order.StockReservedAt == nil {
			order.StockReservedAt = &reservedAt
		}
		return order, nil
	})
}

// OnStockReservationFailed moves the order to Failed. Payment confirmations
// arriving later for this order are ignored.
func (c *Coordinator) OnStockReservationFailed(ctx context.Context, orderID string, reason string) error {
	return c.advance(ctx, orderID, func(order entities.Order) (entities.Order, error) {
		if order.Status.IsTerminal() {
			return order, nil
		}
		order.Status = entities.OrderStatusFailed
		order.FailureReason = reason
		return order, nil
	})
}

func (c *Coordinator) OnPaymentAuthorized(ctx context.Context, orderID string, authorizedAt time.Time) error {
	return c.advance(ctx, orderID, func(order entities.Order) (entities.Order, error) {
		if order.Status == entities.OrderStatusFailed || order.Status == entities.OrderStatusCancelled {
			log.FromContext(ctx).WithField("order_id", orderID).
				Info("Ignoring payment authorization for a failed order")
			return order, nil
		}
		if order.PaymentAuthorizedAt == nil {
			order.PaymentAuthorizedAt = &authorizedAt
		}
		return order, nil
	})
}

func (c *Coordinator) OnPaymentDeclined(ctx context.Context, orderID string, reason string) error {
	return c.advance(ctx, orderID, func(order entities.Order) (entities.Order, error) {
		if order.Status.IsTerminal() {
			return order, nil
		}
		order.Status = entities.OrderStatusFailed
		order.FailureReason = reason
		return order, nil
	})
}

// OnProductPriceUpdated reprices the cached totals of non-terminal orders
// containing the product. Completed orders are never retroactively repriced.
func (c *Coordinator) OnProductPriceUpdated(ctx context.Context, productID string) error {
	pending, err := c.repo.PendingByProduct(ctx, productID)
	if err != nil {
		return fmt.Errorf("could not list pending orders for product %s: %w", productID, err)
	}

	for _, pendingOrder := range pending {
		_, err := c.repo.UpdateByID(ctx, pendingOrder.OrderID, func(order entities.Order) (entities.Order, error) {
			if order.Status.IsTerminal() {
				return order, nil
			}
			total, err := c.totalPrice(ctx, order.Items)
			if err != nil {
				return entities.Order{}, err
			}
			order.TotalPrice = total
			return order, nil
		})
		if err != nil {
			return fmt.Errorf("could not reprice order %s: %w", pendingOrder.OrderID, err)
		}
	}

	return nil
}

// CancelOrder cancels a not-yet-completed order and restocks any reserved
// items through UpdateStock commands.
func (c *Coordinator) CancelOrder(ctx context.Context, orderID string) error {
	var restock bool
	var items []entities.OrderItem

	updated, err := c.repo.UpdateByID(ctx, orderID, func(order entities.Order) (entities.Order, error) {
		if order.Status == entities.OrderStatusCompleted {
			return entities.Order{}, ErrAlreadyCompleted
		}
		if order.Status == entities.OrderStatusCancelled {
			return order, nil
		}
		restock = order.StockReservedAt != nil
		items = order.Items
		order.Status = entities.OrderStatusCancelled
		return order, nil
	})
	if err != nil {
		return err
	}

	if restock {
		for _, item := range items {
			err := c.commandBus.Send(ctx, entities.UpdateStock{
				Header:    entities.NewEventHeaderWithIdempotencyKey(orderID + "/" + item.ProductID + "/cancel"),
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
			})
			if err != nil {
				return fmt.Errorf("could not send restock command: %w", err)
			}
		}
	}

	return c.publishStatus(ctx, updated.OrderID, updated.Status)
}

// advance applies updateFn, derives the resulting status and publishes an
// OrderStatusChanged per transition the order went through.
func (c *Coordinator) advance(
	ctx context.Context,
	orderID string,
	updateFn func(order entities.Order) (entities.Order, error),
) error {
	var transitions []entities.OrderStatus

	_, err := c.repo.UpdateByID(ctx, orderID, func(order entities.Order) (entities.Order, error) {
		before := order.Status

		order, err := updateFn(order)
		if err != nil {
			return entities.Order{}, err
		}

		order.Status = deriveStatus(order)
		transitions = statusPath(before, order.Status)

		return order, nil
	})
	if err != nil {
		return err
	}

	for _, status := range transitions {
		if err := c.publishStatus(ctx, orderID, status); err != nil {
			return err
		}
	}

	return nil
}

func (c *Coordinator) publishStatus(ctx context.Context, orderID string, status entities.OrderStatus) error {
	err := c.eventBus.Publish(ctx, entities.OrderStatusChanged{
		Header:    entities.NewEventHeaderWithIdempotencyKey(orderID + "/" + string(status)),
		OrderID:   orderID,
		NewStatus: status,
	})
	if err != nil {
		return fmt.Errorf("could not publish OrderStatusChanged: %w", err)
	}
	return nil
}

func (c *Coordinator) totalPrice(ctx context.Context, items []entities.OrderItem) (entities.Money, error) {
	var total entities.Money

	for i, item := range items {
		product, err := c.productRepo.ByID(ctx, item.ProductID)
		if err != nil {
			return entities.Money{}, fmt.Errorf("could not get product %s: %w", item.ProductID, err)
		}

		linePrice := product.Price.MultiplyBy(item.Quantity)
		if i == 0 {
			total = linePrice
			continue
		}

		total, err = total.Add(linePrice)
		if err != nil {
			return entities.Money{}, err
		}
	}

	return total, nil
}

// deriveStatus maps the confirmation flags onto the linear machine
// Created -> StockReserved -> PaymentAuthorized -> Completed. Terminal
// states are never left. A payment confirmation arriving before the stock
// one leaves the order in Created until inventory confirms.
func deriveStatus(order entities.Order) entities.OrderStatus {
	if order.Status.IsTerminal() {
		return order.Status
	}

	switch {
	case order.StockReservedAt != nil && order.PaymentAuthorizedAt != nil:
		return entities.OrderStatusCompleted
	case order.StockReservedAt != nil:
		return entities.OrderStatusStockReserved
	default:
		return entities.OrderStatusCreated
	}
}

// statusPath lists the intermediate statuses between from and to so every
// transition of the machine is observable downstream.
func statusPath(from, to entities.OrderStatus) []entities.OrderStatus {
	if from == to {
		return nil
	}
	if to != entities.OrderStatusCompleted {
		return []entities.OrderStatus{to}
	}

	var path []entities.OrderStatus
	if from == entities.OrderStatusCreated {
		path = append(path, entities.OrderStatusStockReserved)
	}
	path = append(path, entities.OrderStatusPaymentAuthorized, entities.OrderStatusCompleted)
	return path
}
