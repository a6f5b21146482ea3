package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"store/entities"
	"store/message/event"
	"store/message/outbox"

	"github.com/jmoiron/sqlx"
)

var ErrProductNotFound = errors.New("product not found")

type IProductRepository interface {
	Create(ctx context.Context, product entities.Product) error
	ByID(ctx context.Context, productID string) (entities.Product, error)
	UpdatePrice(ctx context.Context, productID string, newPrice entities.Money) error
}

type ProductRepository struct {
	db *DB
}

func NewProductRepository(db *DB) ProductRepository {
	if db == nil {
		panic("db is nil")
	}
	return ProductRepository{
		db: db,
	}
}

func (r ProductRepository) Create(ctx context.Context, product entities.Product) error {
	_, err := r.db.Conn.ExecContext(ctx, `
		INSERT INTO
			products (product_id, name, price_amount, price_currency)
		VALUES
			($1, $2, $3, $4)
		ON CONFLICT (product_id) DO NOTHING
	`, product.ProductID, product.Name, product.Price.Amount, product.Price.Currency)
	if err != nil {
		return fmt.Errorf("could not save product: %w", err)
	}
	return nil
}

func (r ProductRepository) ByID(ctx context.Context, productID string) (entities.Product, error) {
	var product entities.Product
	err := r.db.Conn.GetContext(ctx, &product, `
		SELECT
			product_id,
			name,
			price_amount AS "price.amount",
			price_currency AS "price.currency"
		FROM products
		WHERE product_id = $1
	`, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Product{}, fmt.Errorf("product %s: %w", productID, ErrProductNotFound)
	}
	if err != nil {
		return entities.Product{}, fmt.Errorf("could not get product: %w", err)
	}

	return product, nil
}

// UpdatePrice stores the new price and publishes ProductPriceUpdated through
// the outbox in the same transaction.
func (r ProductRepository) UpdatePrice(ctx context.Context, productID string, newPrice entities.Money) error {
	return updateInTx(
		ctx,
		r.db.Conn,
		sql.LevelSerializable,
		func(ctx context.Context, tx *sqlx.Tx) error {
			var oldPrice entities.Money
			err := tx.QueryRowContext(ctx, `
				SELECT price_amount, price_currency FROM products WHERE product_id = $1
			`, productID).Scan(&oldPrice.Amount, &oldPrice.Currency)
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("product %s: %w", productID, ErrProductNotFound)
			}
			if err != nil {
				return fmt.Errorf("could not get current price: %w", err)
			}

			_, err = tx.ExecContext(ctx, `
				UPDATE products SET price_amount = $1, price_currency = $2 WHERE product_id = $3
			`, newPrice.Amount, newPrice.Currency, productID)
			if err != nil {
				return fmt.Errorf("could not update price: %w", err)
			}

			outboxPublisher, err := outbox.NewPublisherForDb(ctx, tx)
			if err != nil {
				return fmt.Errorf("could not create outbox publisher: %w", err)
			}

			err = event.NewBus(outboxPublisher).Publish(ctx, entities.ProductPriceUpdated{
				Header:    entities.NewEventHeader(),
				ProductID: productID,
				OldPrice:  oldPrice,
				NewPrice:  newPrice,
			})
			if err != nil {
				return fmt.Errorf("could not publish ProductPriceUpdated: %w", err)
			}

			return nil
		},
	)
}
