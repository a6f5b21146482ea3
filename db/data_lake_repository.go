package db

import (
	"context"
	"fmt"
	"store/entities"
)

type IEventRepository interface {
	Create(ctx context.Context, event entities.Event) error
}

// EventRepository archives every consumed event, keyed by event id so
// redeliveries collapse into one row.
type EventRepository struct {
	db *DB
}

func NewEventRepository(db *DB) EventRepository {
	if db == nil {
		panic("db is nil")
	}
	return EventRepository{
		db: db,
	}
}

func (e EventRepository) Create(ctx context.Context, event entities.Event) error {
	_, err := e.db.Conn.ExecContext(ctx, `
		INSERT INTO
			events (event_id, published_at, event_name, event_payload)
		VALUES
			($1, $2, $3, $4)
		ON CONFLICT (event_id) DO NOTHING
	`, event.EventID, event.Header.PublishedAt, event.EventName, event.Payload)
	if err != nil {
		return fmt.Errorf("could not archive event: %w", err)
	}

	return nil
}
