package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/fightsync/fightsync/internal/domain/fight"
)

type FightRepository struct {
	mu      sync.RWMutex
	byEvent map[int64][]fight.Fight
	nextID  int64
}

func NewFightRepository() *FightRepository {
	return &FightRepository{byEvent: make(map[int64][]fight.Fight), nextID: 1}
}

func (r *FightRepository) ListByEvent(_ context.Context, eventID int64) ([]fight.Fight, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.byEvent[eventID]
	out := make([]fight.Fight, 0, len(rows))
	out = append(out, rows...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].BoutOrder != out[j].BoutOrder {
			return out[i].BoutOrder < out[j].BoutOrder
		}
		return out[i].ID < out[j].ID
	})

	return out, nil
}

func (r *FightRepository) GetByPair(_ context.Context, eventID int64, pair fight.Pair) (*fight.Fight, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.byEvent[eventID] {
		if item.Pair() == pair {
			out := item
			return &out, nil
		}
	}

	return nil, nil
}

func (r *FightRepository) Create(_ context.Context, item *fight.Fight) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := r.byEvent[item.EventID]
	for _, existing := range rows {
		if existing.Pair() == item.Pair() {
			item.ID = existing.ID
			return nil
		}
	}

	item.ID = r.nextID
	r.nextID++
	r.byEvent[item.EventID] = append(rows, *item)

	return nil
}

func (r *FightRepository) Update(_ context.Context, item *fight.Fight) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := r.byEvent[item.EventID]
	for idx := range rows {
		if rows[idx].ID == item.ID {
			rows[idx] = *item
			return nil
		}
	}

	return nil
}

func (r *FightRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for eventID, rows := range r.byEvent {
		for idx := range rows {
			if rows[idx].ID == id {
				r.byEvent[eventID] = append(rows[:idx], rows[idx+1:]...)
				return nil
			}
		}
	}

	return nil
}
