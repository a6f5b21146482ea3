package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"store/entities"
)

type ProcessedCommandsRepository struct {
	db *DB
}

func NewProcessedCommandsRepository(db *DB) ProcessedCommandsRepository {
	if db == nil {
		panic("db is nil")
	}
	return ProcessedCommandsRepository{
		db: db,
	}
}

func (r ProcessedCommandsRepository) Find(ctx context.Context, dedupKey string) (entities.StockCommandResult, bool, error) {
	var result entities.StockCommandResult
	err := r.db.Conn.GetContext(ctx, &result, `
		SELECT dedup_key, product_id, quantity, rejected
		FROM stock_command_results
		WHERE dedup_key = $1
	`, dedupKey)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.StockCommandResult{}, false, nil
	}
	if err != nil {
		return entities.StockCommandResult{}, false, fmt.Errorf("could not find processed command: %w", err)
	}

	return result, true, nil
}

func (r ProcessedCommandsRepository) Record(ctx context.Context, result entities.StockCommandResult) error {
	// First write wins; a concurrent redelivery keeps the original result.
	_, err := r.db.Conn.NamedExecContext(ctx, `
		INSERT INTO
			stock_command_results (dedup_key, product_id, quantity, rejected)
		VALUES
			(:dedup_key, :product_id, :quantity, :rejected)
		ON CONFLICT (dedup_key) DO NOTHING
	`, result)
	if err != nil {
		return fmt.Errorf("could not record processed command: %w", err)
	}
	return nil
}
