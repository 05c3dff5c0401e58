package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fightsync/fightsync/internal/domain/event"
)

type EventRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) GetByURL(ctx context.Context, sourceURL string) (*event.Event, error) {
	const query = `
SELECT id, source_url, name, promotion, scheduled_at, venue, location, broadcast,
       bout_count, image_url, content_hash, created_at
FROM events
WHERE source_url = $1`

	var row eventTableModel
	if err := r.db.GetContext(ctx, &row, query, sourceURL); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get event by url: %w", err)
	}

	out := row.toDomain()
	return &out, nil
}

func (r *EventRepository) GetByID(ctx context.Context, id int64) (*event.Event, error) {
	const query = `
SELECT id, source_url, name, promotion, scheduled_at, venue, location, broadcast,
       bout_count, image_url, content_hash, created_at
FROM events
WHERE id = $1`

	var row eventTableModel
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get event by id: %w", err)
	}

	out := row.toDomain()
	return &out, nil
}

func (r *EventRepository) Create(ctx context.Context, item *event.Event) error {
	const query = `
INSERT INTO events (source_url, name, promotion, scheduled_at, venue, location, broadcast,
                    bout_count, image_url, content_hash, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (source_url) DO UPDATE SET source_url = EXCLUDED.source_url
RETURNING id`

	if err := r.db.GetContext(ctx, &item.ID, query,
		item.SourceURL,
		item.Name,
		item.Promotion,
		item.ScheduledAt,
		item.Venue,
		item.Location,
		item.Broadcast,
		item.BoutCount,
		item.ImageURL,
		item.ContentHash,
		item.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	return nil
}

func (r *EventRepository) Update(ctx context.Context, item *event.Event) error {
	const query = `
UPDATE events
SET name = $2, promotion = $3, scheduled_at = $4, venue = $5, location = $6,
    broadcast = $7, bout_count = $8, image_url = $9, content_hash = $10
WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, item.ID,
		item.Name,
		item.Promotion,
		item.ScheduledAt,
		item.Venue,
		item.Location,
		item.Broadcast,
		item.BoutCount,
		item.ImageURL,
		item.ContentHash,
	); err != nil {
		return fmt.Errorf("update event: %w", err)
	}

	return nil
}

func (r *EventRepository) ListRecent(ctx context.Context, limit int) ([]event.Event, error) {
	const query = `
SELECT id, source_url, name, promotion, scheduled_at, venue, location, broadcast,
       bout_count, image_url, content_hash, created_at
FROM events
ORDER BY scheduled_at DESC NULLS LAST, id DESC
LIMIT $1`

	var rows []eventTableModel
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("list recent events: %w", err)
	}

	out := make([]event.Event, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}
