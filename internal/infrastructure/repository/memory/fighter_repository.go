package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fightsync/fightsync/internal/domain/fighter"
)

type FighterRepository struct {
	mu     sync.RWMutex
	byURL  map[string]fighter.Fighter
	nextID int64
}

func NewFighterRepository() *FighterRepository {
	return &FighterRepository{byURL: make(map[string]fighter.Fighter), nextID: 1}
}

func (r *FighterRepository) GetByURL(_ context.Context, sourceURL string) (*fighter.Fighter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.byURL[sourceURL]
	if !ok {
		return nil, nil
	}

	out := item
	return &out, nil
}

func (r *FighterRepository) GetByID(_ context.Context, id int64) (*fighter.Fighter, error) {
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

// Create mirrors the conflict-safe insert of the postgres repository: a
// second insert for the same source_url adopts the winner's id.
func (r *FighterRepository) Create(_ context.Context, item *fighter.Fighter) error {
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

func (r *FighterRepository) Update(_ context.Context, item *fighter.Fighter) error {
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

func (r *FighterRepository) FlagForUpdate(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for url, existing := range r.byURL {
		if existing.ID == id {
			existing.NeedsUpdate = true
			r.byURL[url] = existing
			return nil
		}
	}

	return nil
}

func (r *FighterRepository) ListNeedingUpdate(_ context.Context, lastFightSince time.Time) ([]fighter.Fighter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]fighter.Fighter, 0)
	for _, item := range r.byURL {
		recent := item.LastFightAt != nil && !item.LastFightAt.Before(lastFightSince)
		if item.NeedsUpdate || recent {
			out = append(out, item)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}
