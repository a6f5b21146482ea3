package db

import (
	"context"
	"fmt"
	"store/entities"
	"store/payment"
	"sync"
)

type PaymentRepositoryMock struct {
	lock     sync.Mutex
	payments map[string]entities.PaymentRecord
}

func NewPaymentRepositoryMock() *PaymentRepositoryMock {
	return &PaymentRepositoryMock{
		payments: map[string]entities.PaymentRecord{},
	}
}

func (m *PaymentRepositoryMock) Create(ctx context.Context, record entities.PaymentRecord) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if _, ok := m.payments[record.OrderID]; ok {
		return fmt.Errorf("order %s: %w", record.OrderID, payment.ErrAlreadyExists)
	}
	m.payments[record.OrderID] = record
	return nil
}

func (m *PaymentRepositoryMock) ByOrderID(ctx context.Context, orderID string) (entities.PaymentRecord, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	record, ok := m.payments[orderID]
	if !ok {
		return entities.PaymentRecord{}, fmt.Errorf("order %s: %w", orderID, payment.ErrNotFound)
	}
	return record, nil
}
