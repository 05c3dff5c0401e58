package postgres

import (
	"time"

	"github.com/fightsync/fightsync/internal/domain/event"
)

type eventTableModel struct {
	ID          int64      `db:"id"`
	SourceURL   string     `db:"source_url"`
	Name        string     `db:"name"`
	Promotion   string     `db:"promotion"`
	ScheduledAt *time.Time `db:"scheduled_at"`
	Venue       string     `db:"venue"`
	Location    string     `db:"location"`
	Broadcast   string     `db:"broadcast"`
	BoutCount   int        `db:"bout_count"`
	ImageURL    string     `db:"image_url"`
	ContentHash string     `db:"content_hash"`
	CreatedAt   time.Time  `db:"created_at"`
}

func (m eventTableModel) toDomain() event.Event {
	return event.Event{
		ID:          m.ID,
		SourceURL:   m.SourceURL,
		Name:        m.Name,
		Promotion:   m.Promotion,
		ScheduledAt: m.ScheduledAt,
		Venue:       m.Venue,
		Location:    m.Location,
		Broadcast:   m.Broadcast,
		BoutCount:   m.BoutCount,
		ImageURL:    m.ImageURL,
		ContentHash: m.ContentHash,
		CreatedAt:   m.CreatedAt,
	}
}
