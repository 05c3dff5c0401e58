package fight

import "context"

// Repository describes fight persistence needs from use cases.
// GetByPair must match both fighter orderings; it returns (nil, nil) when
// no row matches.
type Repository interface {
	ListByEvent(ctx context.Context, eventID int64) ([]Fight, error)
	GetByPair(ctx context.Context, eventID int64, pair Pair) (*Fight, error)
	Create(ctx context.Context, item *Fight) error
	Update(ctx context.Context, item *Fight) error
	Delete(ctx context.Context, id int64) error
}
