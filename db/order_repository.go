package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"store/entities"
	"store/message/event"
	"store/message/outbox"
	"store/orders"

	"github.com/jmoiron/sqlx"
)

type IOrderRepository interface {
	Create(ctx context.Context, order entities.Order) error
	ByID(ctx context.Context, orderID string) (entities.Order, error)
	UpdateByID(
		ctx context.Context,
		orderID string,
		updateFn func(order entities.Order) (entities.Order, error),
	) (entities.Order, error)
	PendingByProduct(ctx context.Context, productID string) ([]entities.Order, error)
}

type OrderRepository struct {
	db *DB
}

func NewOrderRepository(db *DB) OrderRepository {
	if db == nil {
		panic("db is nil")
	}
	return OrderRepository{
		db: db,
	}
}

// Create persists the order and publishes OrderCreated through the outbox
// in the same transaction, so the event exists only if the order does.
func (r OrderRepository) Create(ctx context.Context, order entities.Order) error {
	payload, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("could not marshal order: %w", err)
	}

	return updateInTx(
		ctx,
		r.db.Conn,
		sql.LevelSerializable,
		func(ctx context.Context, tx *sqlx.Tx) error {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO orders (order_id, status, payload)
				VALUES ($1, $2, $3)
			`, order.OrderID, order.Status, payload)
			if err != nil {
				return fmt.Errorf("could not insert order: %w", err)
			}

			outboxPublisher, err := outbox.NewPublisherForDb(ctx, tx)
			if err != nil {
				return fmt.Errorf("could not create outbox publisher: %w", err)
			}

			err = event.NewBus(outboxPublisher).Publish(ctx, entities.OrderCreated{
				Header:     entities.NewEventHeaderWithIdempotencyKey(order.OrderID),
				OrderID:    order.OrderID,
				TotalPrice: order.TotalPrice,
				Items:      order.Items,
			})
			if err != nil {
				return fmt.Errorf("could not publish OrderCreated: %w", err)
			}

			return nil
		},
	)
}

func (r OrderRepository) ByID(ctx context.Context, orderID string) (entities.Order, error) {
	return r.orderByID(ctx, orderID, r.db.Conn)
}

func (r OrderRepository) UpdateByID(
	ctx context.Context,
	orderID string,
	updateFn func(order entities.Order) (entities.Order, error),
) (entities.Order, error) {
	var updated entities.Order

	for {
		err := updateInTx(
			ctx,
			r.db.Conn,
			sql.LevelSerializable,
			func(ctx context.Context, tx *sqlx.Tx) error {
				order, err := r.orderByID(ctx, orderID, tx)
				if err != nil {
					return err
				}

				updated, err = updateFn(order)
				if err != nil {
					return err
				}

				payload, err := json.Marshal(updated)
				if err != nil {
					return fmt.Errorf("could not marshal order: %w", err)
				}

				_, err = tx.ExecContext(ctx, `
					UPDATE orders SET status = $1, payload = $2 WHERE order_id = $3
				`, updated.Status, payload, orderID)
				if err != nil {
					return fmt.Errorf("could not update order: %w", err)
				}

				return nil
			},
		)
		if isErrorSerializationFailure(err) {
			continue
		}
		if err != nil {
			return entities.Order{}, err
		}

		return updated, nil
	}
}

func (r OrderRepository) PendingByProduct(ctx context.Context, productID string) ([]entities.Order, error) {
	rows, err := r.db.Conn.QueryContext(ctx, `
		SELECT payload
		FROM orders
		WHERE status NOT IN ($1, $2, $3)
		  AND payload -> 'items' @> jsonb_build_array(jsonb_build_object('product_id', $4::text))
	`, entities.OrderStatusCompleted, entities.OrderStatusCancelled, entities.OrderStatusFailed, productID)
	if err != nil {
		return nil, fmt.Errorf("could not query pending orders: %w", err)
	}
	defer rows.Close()

	var result []entities.Order
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("could not scan order payload: %w", err)
		}

		var order entities.Order
		if err := json.Unmarshal(payload, &order); err != nil {
			return nil, fmt.Errorf("could not unmarshal order: %w", err)
		}

		result = append(result, order)
	}

	return result, rows.Err()
}

type executor interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func (r OrderRepository) orderByID(ctx context.Context, orderID string, db executor) (entities.Order, error) {
	var payload []byte
	err := db.QueryRowContext(ctx, `
		SELECT payload FROM orders WHERE order_id = $1
	`, orderID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Order{}, fmt.Errorf("order %s: %w", orderID, orders.ErrNotFound)
	}
	if err != nil {
		return entities.Order{}, fmt.Errorf("could not get order: %w", err)
	}

	var order entities.Order
	if err := json.Unmarshal(payload, &order); err != nil {
		return entities.Order{}, fmt.Errorf("could not unmarshal order: %w", err)
	}

	return order, nil
}
