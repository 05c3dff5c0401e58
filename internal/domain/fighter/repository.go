package fighter

import (
	"context"
	"time"
)

// Repository describes fighter persistence needs from use cases.
// Lookups return (nil, nil) when no row matches. Create must be
// conflict-safe on source_url: concurrent creations for the same URL
// resolve to a single row and the winning id is written back to the model.
type Repository interface {
	GetByURL(ctx context.Context, sourceURL string) (*Fighter, error)
	GetByID(ctx context.Context, id int64) (*Fighter, error)
	Create(ctx context.Context, item *Fighter) error
	Update(ctx context.Context, item *Fighter) error
	FlagForUpdate(ctx context.Context, id int64) error
	ListNeedingUpdate(ctx context.Context, lastFightSince time.Time) ([]Fighter, error)
}
