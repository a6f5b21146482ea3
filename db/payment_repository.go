package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"store/entities"
	"store/payment"
)

type PaymentRepository struct {
	db *DB
}

func NewPaymentRepository(db *DB) PaymentRepository {
	if db == nil {
		panic("db is nil")
	}
	return PaymentRepository{
		db: db,
	}
}

func (r PaymentRepository) Create(ctx context.Context, record entities.PaymentRecord) error {
	_, err := r.db.Conn.ExecContext(ctx, `
		INSERT INTO
			payments (payment_id, order_id, amount, currency, status, authorized_at)
		VALUES
			($1, $2, $3, $4, $5, $6)
	`, record.PaymentID, record.OrderID, record.Amount.Amount, record.Amount.Currency,
		record.Status, record.AuthorizedAt)
	if isErrorUniqueViolation(err) {
		return fmt.Errorf("order %s: %w", record.OrderID, payment.ErrAlreadyExists)
	}
	if err != nil {
		return fmt.Errorf("could not insert payment record: %w", err)
	}

	return nil
}

func (r PaymentRepository) ByOrderID(ctx context.Context, orderID string) (entities.PaymentRecord, error) {
	row := r.db.Conn.QueryRowContext(ctx, `
		SELECT payment_id, order_id, amount, currency, status, authorized_at
		FROM payments
		WHERE order_id = $1
	`, orderID)

	var record entities.PaymentRecord
	err := row.Scan(
		&record.PaymentID,
		&record.OrderID,
		&record.Amount.Amount,
		&record.Amount.Currency,
		&record.Status,
		&record.AuthorizedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.PaymentRecord{}, fmt.Errorf("order %s: %w", orderID, payment.ErrNotFound)
	}
	if err != nil {
		return entities.PaymentRecord{}, fmt.Errorf("could not get payment record: %w", err)
	}

	return record, nil
}
