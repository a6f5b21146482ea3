package db

import (
	"context"
	"fmt"
	"store/entities"
	"store/inventory"
	"sync"
)

type InventoryRepositoryMock struct {
	lock  sync.Mutex
	items map[string]entities.InventoryItem
}

func NewInventoryRepositoryMock() *InventoryRepositoryMock {
	return &InventoryRepositoryMock{
		items: map[string]entities.InventoryItem{},
	}
}

func (m *InventoryRepositoryMock) Item(ctx context.Context, productID string) (entities.InventoryItem, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	item, ok := m.items[productID]
	if !ok {
		return entities.InventoryItem{}, fmt.Errorf("product %s: %w", productID, inventory.ErrNotFound)
	}
	return item, nil
}

func (m *InventoryRepositoryMock) Upsert(ctx context.Context, item entities.InventoryItem) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if existing, ok := m.items[item.ProductID]; ok {
		item.Version = existing.Version + 1
	}
	m.items[item.ProductID] = item
	return nil
}

func (m *InventoryRepositoryMock) CompareAndSwap(ctx context.Context, item entities.InventoryItem, newQuantity int) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	existing, ok := m.items[item.ProductID]
	if !ok {
		return fmt.Errorf("product %s: %w", item.ProductID, inventory.ErrNotFound)
	}
	if existing.Version != item.Version {
		return fmt.Errorf("product %s at version %d: %w", item.ProductID, item.Version, inventory.ErrVersionConflict)
	}

	existing.Quantity = newQuantity
	existing.Version++
	m.items[item.ProductID] = existing
	return nil
}

type ProcessedCommandsMock struct {
	lock    sync.Mutex
	results map[string]entities.StockCommandResult
}

func NewProcessedCommandsMock() *ProcessedCommandsMock {
	return &ProcessedCommandsMock{
		results: map[string]entities.StockCommandResult{},
	}
}

func (m *ProcessedCommandsMock) Find(ctx context.Context, dedupKey string) (entities.StockCommandResult, bool, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	result, ok := m.results[dedupKey]
	return result, ok, nil
}

func (m *ProcessedCommandsMock) Record(ctx context.Context, result entities.StockCommandResult) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if _, ok := m.results[result.DedupKey]; ok {
		return nil
	}
	m.results[result.DedupKey] = result
	return nil
}
