package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fightsync/fightsync/internal/domain/event"
	"github.com/fightsync/fightsync/internal/domain/fight"
	"github.com/fightsync/fightsync/internal/domain/fighter"
	"github.com/fightsync/fightsync/internal/platform/dateparse"
	"github.com/fightsync/fightsync/internal/platform/logging"
)

type stubEventRepository struct {
	mu          sync.Mutex
	byURL       map[string]event.Event
	nextID      int64
	createCalls int
	updateCalls int
}

func newStubEventRepository() *stubEventRepository {
	return &stubEventRepository{byURL: make(map[string]event.Event)}
}

func (r *stubEventRepository) GetByURL(_ context.Context, sourceURL string) (*event.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if item, ok := r.byURL[sourceURL]; ok {
		clone := item
		return &clone, nil
	}
	return nil, nil
}

func (r *stubEventRepository) GetByID(_ context.Context, id int64) (*event.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.byURL {
		if item.ID == id {
			clone := item
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *stubEventRepository) Create(_ context.Context, item *event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	item.ID = r.nextID
	r.byURL[item.SourceURL] = *item
	r.createCalls++
	return nil
}

func (r *stubEventRepository) Update(_ context.Context, item *event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byURL[item.SourceURL] = *item
	r.updateCalls++
	return nil
}

func (r *stubEventRepository) ListRecent(_ context.Context, limit int) ([]event.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]event.Event, 0, len(r.byURL))
	for _, item := range r.byURL {
		out = append(out, item)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

type stubFighterRepository struct {
	mu          sync.Mutex
	byURL       map[string]fighter.Fighter
	nextID      int64
	createCalls int
	updateCalls int
	flagged     map[int64]int
	getCalls    int
}

func newStubFighterRepository() *stubFighterRepository {
	return &stubFighterRepository{
		byURL:   make(map[string]fighter.Fighter),
		flagged: make(map[int64]int),
	}
}

func (r *stubFighterRepository) GetByURL(_ context.Context, sourceURL string) (*fighter.Fighter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getCalls++
	if item, ok := r.byURL[sourceURL]; ok {
		clone := item
		return &clone, nil
	}
	return nil, nil
}

func (r *stubFighterRepository) GetByID(_ context.Context, id int64) (*fighter.Fighter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.byURL {
		if item.ID == id {
			clone := item
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *stubFighterRepository) Create(_ context.Context, item *fighter.Fighter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createCalls++
	if existing, ok := r.byURL[item.SourceURL]; ok {
		// conflict-safe upsert: the first writer wins, the caller
		// receives the winning id.
		item.ID = existing.ID
		return nil
	}
	r.nextID++
	item.ID = r.nextID
	r.byURL[item.SourceURL] = *item
	return nil
}

func (r *stubFighterRepository) Update(_ context.Context, item *fighter.Fighter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updateCalls++
	r.byURL[item.SourceURL] = *item
	return nil
}

func (r *stubFighterRepository) FlagForUpdate(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flagged[id]++
	for url, item := range r.byURL {
		if item.ID == id {
			item.NeedsUpdate = true
			r.byURL[url] = item
		}
	}
	return nil
}

func (r *stubFighterRepository) ListNeedingUpdate(_ context.Context, lastFightSince time.Time) ([]fighter.Fighter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []fighter.Fighter
	for _, item := range r.byURL {
		if item.NeedsUpdate {
			out = append(out, item)
			continue
		}
		if item.LastFightAt != nil && !item.LastFightAt.Before(lastFightSince) {
			out = append(out, item)
		}
	}
	return out, nil
}

type stubFightRepository struct {
	mu          sync.Mutex
	byEvent     map[int64][]fight.Fight
	nextID      int64
	deleteCalls int
}

func newStubFightRepository() *stubFightRepository {
	return &stubFightRepository{byEvent: make(map[int64][]fight.Fight)}
}

func (r *stubFightRepository) ListByEvent(_ context.Context, eventID int64) ([]fight.Fight, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]fight.Fight(nil), r.byEvent[eventID]...), nil
}

func (r *stubFightRepository) GetByPair(_ context.Context, eventID int64, pair fight.Pair) (*fight.Fight, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.byEvent[eventID] {
		if f.Pair() == pair {
			clone := f
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *stubFightRepository) Create(_ context.Context, item *fight.Fight) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	item.ID = r.nextID
	r.byEvent[item.EventID] = append(r.byEvent[item.EventID], *item)
	return nil
}

func (r *stubFightRepository) Update(_ context.Context, item *fight.Fight) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rows := r.byEvent[item.EventID]
	for i, f := range rows {
		if f.ID == item.ID {
			rows[i] = *item
			return nil
		}
	}
	return fmt.Errorf("fight %d not found", item.ID)
}

func (r *stubFightRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleteCalls++
	for eventID, rows := range r.byEvent {
		for i, f := range rows {
			if f.ID == id {
				r.byEvent[eventID] = append(rows[:i], rows[i+1:]...)
				return nil
			}
		}
	}
	return fmt.Errorf("fight %d not found", id)
}

type stubExtractor struct {
	mu           sync.Mutex
	listings     map[int]ScrapedListing
	events       map[string]*ScrapedEvent
	eventErrs    map[string]error
	profiles     map[string]*ScrapedProfile
	profileErrs  map[string]error
	profileCalls map[string]int
}

func newStubExtractor() *stubExtractor {
	return &stubExtractor{
		listings:     make(map[int]ScrapedListing),
		events:       make(map[string]*ScrapedEvent),
		eventErrs:    make(map[string]error),
		profiles:     make(map[string]*ScrapedProfile),
		profileErrs:  make(map[string]error),
		profileCalls: make(map[string]int),
	}
}

func (e *stubExtractor) ExtractEventListing(_ context.Context, page int) (ScrapedListing, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.listings[page], nil
}

func (e *stubExtractor) ExtractEvent(_ context.Context, eventURL string) (*ScrapedEvent, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err, ok := e.eventErrs[eventURL]; ok {
		return nil, err
	}
	if scraped, ok := e.events[eventURL]; ok {
		clone := *scraped
		return &clone, nil
	}
	return nil, fmt.Errorf("no event payload for %s", eventURL)
}

func (e *stubExtractor) ExtractFighterProfile(_ context.Context, profileURL string) (*ScrapedProfile, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profileCalls[profileURL]++
	if err, ok := e.profileErrs[profileURL]; ok {
		return nil, err
	}
	if profile, ok := e.profiles[profileURL]; ok {
		clone := *profile
		return &clone, nil
	}
	return nil, fmt.Errorf("no profile payload for %s", profileURL)
}

func (e *stubExtractor) ResolveURL(href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "http") {
		return href
	}
	return "https://www.tapology.com" + href
}

func testDateParser() *dateparse.Parser {
	return dateparse.New(logging.NewNop())
}
