package event

import "context"

// Repository describes event persistence needs from use cases.
// Lookups return (nil, nil) when no row matches.
type Repository interface {
	GetByURL(ctx context.Context, sourceURL string) (*Event, error)
	GetByID(ctx context.Context, id int64) (*Event, error)
	Create(ctx context.Context, item *Event) error
	Update(ctx context.Context, item *Event) error
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}
