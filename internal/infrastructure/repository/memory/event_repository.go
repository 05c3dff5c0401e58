package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/fightsync/fightsync/internal/domain/event"
)

type EventRepository struct {
	mu     sync.RWMutex
	byURL  map[string]event.Event
	nextID int64
}

func NewEventRepository() *EventRepository {
	return &EventRepository{byURL: make(map[string]event.Event), nextID: 1}
}

func (r *EventRepository) GetByURL(_ context.Context, sourceURL string) (*event.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.byURL[sourceURL]
	if !ok {
		return nil, nil
	}

	out := item
	return &out, nil
}

func (r *EventRepository) GetByID(_ context.Context, id int64) (*event.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.byURL {
		if item.ID == id {
			out := item
			return &out, nil
		}
	}

	return nil, nil
}

func (r *EventRepository) Create(_ context.Context, item *event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byURL[item.SourceURL]; ok {
		item.ID = existing.ID
		return nil
	}

	item.ID = r.nextID
	r.nextID++
	r.byURL[item.SourceURL] = *item

	return nil
}

func (r *EventRepository) Update(_ context.Context, item *event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for url, existing := range r.byURL {
		if existing.ID == item.ID {
			r.byURL[url] = *item
			return nil
		}
	}

	return nil
}

func (r *EventRepository) ListRecent(_ context.Context, limit int) ([]event.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]event.Event, 0, len(r.byURL))
	for _, item := range r.byURL {
		out = append(out, item)
	}

	sort.Slice(out, func(i, j int) bool {
		left, right := out[i].ScheduledAt, out[j].ScheduledAt
		switch {
		case left == nil && right == nil:
			return out[i].ID > out[j].ID
		case left == nil:
			return false
		case right == nil:
			return true
		case left.Equal(*right):
			return out[i].ID > out[j].ID
		default:
			return left.After(*right)
		}
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}
