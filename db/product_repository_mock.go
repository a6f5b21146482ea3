package db

import (
	"context"
	"fmt"
	"store/entities"
	"sync"

	"github.com/ThreeDotsLabs/watermill/components/cqrs"
)

type ProductRepositoryMock struct {
	lock     sync.Mutex
	products map[string]entities.Product
	eventBus *cqrs.EventBus
}

func NewProductRepositoryMock(eventBus *cqrs.EventBus) *ProductRepositoryMock {
	return &ProductRepositoryMock{
		products: map[string]entities.Product{},
		eventBus: eventBus,
	}
}

func (m *ProductRepositoryMock) Create(ctx context.Context, product entities.Product) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if _, ok := m.products[product.ProductID]; ok {
		return nil
	}
	m.products[product.ProductID] = product
	return nil
}

func (m *ProductRepositoryMock) ByID(ctx context.Context, productID string) (entities.Product, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	product, ok := m.products[productID]
	if !ok {
		return entities.Product{}, fmt.Errorf("product %s: %w", productID, ErrProductNotFound)
	}
	return product, nil
}

func (m *ProductRepositoryMock) UpdatePrice(ctx context.Context, productID string, newPrice entities.Money) error {
	m.lock.Lock()

	product, ok := m.products[productID]
	if !ok {
		m.lock.Unlock()
		return fmt.Errorf("product %s: %w", productID, ErrProductNotFound)
	}

	oldPrice := product.Price
	product.Price = newPrice
	m.products[productID] = product
	m.lock.Unlock()

	return m.eventBus.Publish(ctx, entities.ProductPriceUpdated{
		Header:    entities.NewEventHeader(),
		ProductID: productID,
		OldPrice:  oldPrice,
		NewPrice:  newPrice,
	})
}
