package db

import (
	"context"
	"fmt"
	"store/entities"
	"store/orders"
	"sync"

	"github.com/ThreeDotsLabs/watermill/components/cqrs"
)

// OrderRepositoryMock mirrors the Postgres repository including its
// publish-on-create contract, so the coordinator behaves identically in
// tests.
type OrderRepositoryMock struct {
	lock     sync.Mutex
	orders   map[string]entities.Order
	eventBus *cqrs.EventBus
}

func NewOrderRepositoryMock(eventBus *cqrs.EventBus) *OrderRepositoryMock {
	return &OrderRepositoryMock{
		orders:   map[string]entities.Order{},
		eventBus: eventBus,
	}
}

func (m *OrderRepositoryMock) Create(ctx context.Context, order entities.Order) error {
	m.lock.Lock()
	m.orders[order.OrderID] = order
	m.lock.Unlock()

	return m.eventBus.Publish(ctx, entities.OrderCreated{
		Header:     entities.NewEventHeaderWithIdempotencyKey(order.OrderID),
		OrderID:    order.OrderID,
		TotalPrice: order.TotalPrice,
		Items:      order.Items,
	})
}

func (m *OrderRepositoryMock) ByID(ctx context.Context, orderID string) (entities.Order, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	order, ok := m.orders[orderID]
	if !ok {
		return entities.Order{}, fmt.Errorf("order %s: %w", orderID, orders.ErrNotFound)
	}
	return order, nil
}

func (m *OrderRepositoryMock) UpdateByID(
	ctx context.Context,
	orderID string,
	updateFn func(order entities.Order) (entities.Order, error),
) (entities.Order, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	order, ok := m.orders[orderID]
	if !ok {
		return entities.Order{}, fmt.Errorf("order %s: %w", orderID, orders.ErrNotFound)
	}

	updated, err := updateFn(order)
	if err != nil {
		return entities.Order{}, err
	}

	m.orders[orderID] = updated
	return updated, nil
}

func (m *OrderRepositoryMock) PendingByProduct(ctx context.Context, productID string) ([]entities.Order, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	var result []entities.Order
	for _, order := range m.orders {
		if order.Status.IsTerminal() {
			continue
		}
		if order.ContainsProduct(productID) {
			result = append(result, order)
		}
	}
	return result, nil
}
