package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"store/entities"
	"store/inventory"
)

type IInventoryRepository interface {
	Item(ctx context.Context, productID string) (entities.InventoryItem, error)
	Upsert(ctx context.Context, item entities.InventoryItem) error
	CompareAndSwap(ctx context.Context, item entities.InventoryItem, newQuantity int) error
}

type InventoryRepository struct {
	db *DB
}

func NewInventoryRepository(db *DB) InventoryRepository {
	if db == nil {
		panic("db is nil")
	}
	return InventoryRepository{
		db: db,
	}
}

func (r InventoryRepository) Item(ctx context.Context, productID string) (entities.InventoryItem, error) {
	var item entities.InventoryItem
	err := r.db.Conn.GetContext(ctx, &item, `
		SELECT product_id, quantity, version FROM inventory WHERE product_id = $1
	`, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.InventoryItem{}, fmt.Errorf("product %s: %w", productID, inventory.ErrNotFound)
	}
	if err != nil {
		return entities.InventoryItem{}, fmt.Errorf("could not get inventory item: %w", err)
	}

	return item, nil
}

func (r InventoryRepository) Upsert(ctx context.Context, item entities.InventoryItem) error {
	_, err := r.db.Conn.NamedExecContext(ctx, `
		INSERT INTO
			inventory (product_id, quantity, version)
		VALUES
			(:product_id, :quantity, 0)
		ON CONFLICT (product_id) DO UPDATE SET
			quantity = excluded.quantity,
			version = inventory.version + 1
	`, item)
	if err != nil {
		return fmt.Errorf("could not upsert inventory item: %w", err)
	}
	return nil
}

// CompareAndSwap bumps the version so concurrent writers on the same
// product serialize; the losing writer gets ErrVersionConflict and retries.
func (r InventoryRepository) CompareAndSwap(ctx context.Context, item entities.InventoryItem, newQuantity int) error {
	res, err := r.db.Conn.ExecContext(ctx, `
		UPDATE inventory
		SET quantity = $1, version = version + 1
		WHERE product_id = $2 AND version = $3
	`, newQuantity, item.ProductID, item.Version)
	if err != nil {
		return fmt.Errorf("could not update inventory item: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("product %s at version %d: %w", item.ProductID, item.Version, inventory.ErrVersionConflict)
	}

	return nil
}
