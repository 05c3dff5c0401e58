package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/panjf2000/ants/v2"

	"github.com/fightsync/fightsync/internal/domain/event"
	"github.com/fightsync/fightsync/internal/platform/dateparse"
	"github.com/fightsync/fightsync/internal/platform/hashing"
	"github.com/fightsync/fightsync/internal/platform/logging"
)

type ReconcileOutcome string

const (
	OutcomeCreated     ReconcileOutcome = "created"
	OutcomeUpdated     ReconcileOutcome = "updated"
	OutcomeUnchanged   ReconcileOutcome = "unchanged"
	OutcomeFetchFailed ReconcileOutcome = "fetch_failed"
)

// ReconcileResult is the terminal state of one discovered event.
type ReconcileResult struct {
	EventURL string
	EventID  int64
	Outcome  ReconcileOutcome
	Card     CardDiff
	Message  string
}

// ReconcileReport aggregates a full sync run.
type ReconcileReport struct {
	Discovered  int
	Created     int
	Updated     int
	Unchanged   int
	FetchFailed int
	Fights      CardDiff
	WorkerCount int
	DurationMs  int64
	Results     []ReconcileResult
}

type EventReconcilerConfig struct {
	DaysOffset      int
	Workers         int
	MaxListingPages int
}

func normalizeReconcilerConfig(cfg EventReconcilerConfig) EventReconcilerConfig {
	if cfg.DaysOffset < 1 {
		cfg.DaysOffset = 7
	}
	if cfg.Workers < 1 {
		cfg.Workers = 4
	}
	if cfg.MaxListingPages < 1 {
		cfg.MaxListingPages = 30
	}
	return cfg
}

// scraped header fields that must be present before any write happens.
type scrapedEventValidation struct {
	SourceURL string `validate:"required,url"`
	Name      string `validate:"required"`
}

// EventReconcilerService drives an event page through discovery to a
// terminal outcome: created, updated, unchanged or fetch_failed. Fetch
// and payload problems are soft failures that leave storage untouched;
// storage problems surface as errors.
type EventReconcilerService struct {
	eventRepo event.Repository
	extractor EventExtractor
	cards     *FightCardService
	resolver  *FighterResolverService
	dates     *dateparse.Parser
	validate  *validator.Validate
	cfg       EventReconcilerConfig
	logger    *logging.Logger
	now       func() time.Time
}

func NewEventReconcilerService(
	eventRepo event.Repository,
	extractor EventExtractor,
	cards *FightCardService,
	resolver *FighterResolverService,
	dates *dateparse.Parser,
	cfg EventReconcilerConfig,
	logger *logging.Logger,
) *EventReconcilerService {
	if logger == nil {
		logger = logging.Default()
	}
	return &EventReconcilerService{
		eventRepo: eventRepo,
		extractor: extractor,
		cards:     cards,
		resolver:  resolver,
		dates:     dates,
		validate:  validator.New(),
		cfg:       normalizeReconcilerConfig(cfg),
		logger:    logger,
		now:       time.Now,
	}
}

// ReconcileEvent fetches one event page and reconciles the stored event
// and its fight card. The card diff runs on every outcome except
// fetch_failed, so stored cards heal even when the header hash matches.
func (s *EventReconcilerService) ReconcileEvent(ctx context.Context, eventURL string) (ReconcileResult, error) {
	ctx, span := startUsecaseSpan(ctx, "EventReconciler.ReconcileEvent")
	defer span.End()

	eventURL = strings.TrimSpace(eventURL)
	if eventURL == "" {
		return ReconcileResult{}, fmt.Errorf("%w: event url is required", ErrInvalidInput)
	}
	result := ReconcileResult{EventURL: eventURL}

	scraped, err := s.extractor.ExtractEvent(ctx, eventURL)
	if err != nil {
		s.logger.WarnContext(ctx, "event fetch failed", "url", eventURL, "error", err)
		result.Outcome = OutcomeFetchFailed
		result.Message = err.Error()
		return result, nil
	}

	if err := s.validate.Struct(scrapedEventValidation{
		SourceURL: eventURL,
		Name:      scraped.Header.Name,
	}); err != nil {
		s.logger.WarnContext(ctx, "event header failed validation", "url", eventURL, "error", err)
		result.Outcome = OutcomeFetchFailed
		result.Message = fmt.Sprintf("invalid header: %v", err)
		return result, nil
	}

	hash, err := hashing.HashJSON(scraped.Raw)
	if err != nil {
		return result, fmt.Errorf("hash event payload: %w", err)
	}

	existing, err := s.eventRepo.GetByURL(ctx, eventURL)
	if err != nil {
		return result, fmt.Errorf("get event by url: %w", err)
	}

	switch {
	case existing == nil:
		created := event.Event{
			SourceURL: eventURL,
			CreatedAt: s.now().UTC(),
		}
		s.applyHeader(&created, scraped.Header, hash)
		if err := created.Validate(); err != nil {
			return result, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if err := s.eventRepo.Create(ctx, &created); err != nil {
			return result, fmt.Errorf("create event: %w", err)
		}
		result.EventID = created.ID
		result.Outcome = OutcomeCreated
		s.logger.InfoContext(ctx, "event created", "url", eventURL, "event_id", created.ID)

	case existing.ContentHash == hash:
		result.EventID = existing.ID
		result.Outcome = OutcomeUnchanged

	default:
		s.applyHeader(existing, scraped.Header, hash)
		if err := s.eventRepo.Update(ctx, existing); err != nil {
			return result, fmt.Errorf("update event: %w", err)
		}
		result.EventID = existing.ID
		result.Outcome = OutcomeUpdated
		s.logger.InfoContext(ctx, "event updated", "url", eventURL, "event_id", existing.ID)
	}

	card, err := s.cards.Reconcile(ctx, result.EventID, scraped.Bouts)
	if err != nil {
		return result, fmt.Errorf("reconcile fight card: %w", err)
	}
	result.Card = card

	return result, nil
}

func (s *EventReconcilerService) applyHeader(item *event.Event, header ScrapedEventHeader, hash string) {
	item.Name = header.Name
	item.Promotion = header.Promotion
	if item.Promotion == "" {
		item.Promotion = "UFC"
	}
	item.ScheduledAt = s.dates.Parse(header.DateText)
	item.Venue = event.NormalizeVenue(header.Venue)
	item.Location = header.Location
	item.Broadcast = header.Broadcast
	item.BoutCount = header.BoutCount
	item.ImageURL = header.ImageURL
	item.ContentHash = hash
}

// ReconcileRecent discovers events scheduled within the configured
// window around now and reconciles them with bounded parallelism. One
// event's failure never stops the batch.
func (s *EventReconcilerService) ReconcileRecent(ctx context.Context) (ReconcileReport, error) {
	ctx, span := startUsecaseSpan(ctx, "EventReconciler.ReconcileRecent")
	defer span.End()

	start := s.now()
	s.resolver.ResetCache(ctx)

	urls, err := s.discoverEventURLs(ctx)
	if err != nil {
		return ReconcileReport{}, err
	}
	return s.reconcileDiscovered(ctx, start, urls)
}

// ReconcileUpcoming reconciles every future event on the listing with
// no forward cutoff. Live result sweeps run it repeatedly while events
// are in progress.
func (s *EventReconcilerService) ReconcileUpcoming(ctx context.Context) (ReconcileReport, error) {
	ctx, span := startUsecaseSpan(ctx, "EventReconciler.ReconcileUpcoming")
	defer span.End()

	start := s.now()
	s.resolver.ResetCache(ctx)

	urls, err := s.DiscoverUpcoming(ctx)
	if err != nil {
		return ReconcileReport{}, err
	}
	return s.reconcileDiscovered(ctx, start, urls)
}

func (s *EventReconcilerService) reconcileDiscovered(ctx context.Context, start time.Time, urls []string) (ReconcileReport, error) {
	report := ReconcileReport{
		Discovered: len(urls),
		Results:    make([]ReconcileResult, 0, len(urls)),
	}
	if len(urls) == 0 {
		report.DurationMs = time.Since(start).Milliseconds()
		return report, nil
	}

	workerCount := s.cfg.Workers
	if workerCount > len(urls) {
		workerCount = len(urls)
	}
	report.WorkerCount = workerCount

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return ReconcileReport{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	results := make(chan ReconcileResult, len(urls))

	var createdCount atomic.Int32
	var updatedCount atomic.Int32
	var unchangedCount atomic.Int32
	var failedCount atomic.Int32

	var workers sync.WaitGroup
	for _, eventURL := range urls {
		eventURL := eventURL
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			row, err := s.ReconcileEvent(ctx, eventURL)
			if err != nil {
				s.logger.ErrorContext(ctx, "event reconciliation failed", "url", eventURL, "error", err)
				row = ReconcileResult{
					EventURL: eventURL,
					Outcome:  OutcomeFetchFailed,
					Message:  err.Error(),
				}
			}

			switch row.Outcome {
			case OutcomeCreated:
				createdCount.Add(1)
			case OutcomeUpdated:
				updatedCount.Add(1)
			case OutcomeUnchanged:
				unchangedCount.Add(1)
			default:
				failedCount.Add(1)
			}

			results <- row
		}); err != nil {
			workers.Done()
			return ReconcileReport{}, fmt.Errorf("submit event to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	for row := range results {
		report.Fights.add(row.Card)
		report.Results = append(report.Results, row)
	}
	sort.SliceStable(report.Results, func(i, j int) bool {
		return report.Results[i].EventURL < report.Results[j].EventURL
	})

	report.Created = int(createdCount.Load())
	report.Updated = int(updatedCount.Load())
	report.Unchanged = int(unchangedCount.Load())
	report.FetchFailed = int(failedCount.Load())
	report.DurationMs = time.Since(start).Milliseconds()

	s.logger.InfoContext(ctx, "reconcile run finished",
		"discovered", report.Discovered,
		"created", report.Created,
		"updated", report.Updated,
		"unchanged", report.Unchanged,
		"fetch_failed", report.FetchFailed,
		"fights_created", report.Fights.Created,
		"fights_updated", report.Fights.Updated,
		"fights_removed", report.Fights.Removed,
	)
	return report, nil
}

// discoverEventURLs pages through the listing until it runs past the
// lookback edge of the window. Entries with unparseable dates are
// skipped rather than guessed at.
func (s *EventReconcilerService) discoverEventURLs(ctx context.Context) ([]string, error) {
	now := s.now().UTC()
	windowEnd := now.AddDate(0, 0, s.cfg.DaysOffset)
	return s.discoverBetween(ctx, now.AddDate(0, 0, -s.cfg.DaysOffset), &windowEnd)
}

// DiscoverUpcoming lists every event scheduled from now on. Pages run
// newest to oldest, so discovery stops once a page's newest entry is
// already in the past.
func (s *EventReconcilerService) DiscoverUpcoming(ctx context.Context) ([]string, error) {
	return s.discoverBetween(ctx, s.now().UTC(), nil)
}

// discoverBetween collects listing entries scheduled in
// [windowStart, windowEnd]; a nil windowEnd means no forward cutoff.
func (s *EventReconcilerService) discoverBetween(ctx context.Context, windowStart time.Time, windowEnd *time.Time) ([]string, error) {
	var urls []string
	seen := make(map[string]struct{})

	for page := 1; page <= s.cfg.MaxListingPages; page++ {
		listing, err := s.extractor.ExtractEventListing(ctx, page)
		if err != nil {
			if page == 1 {
				return nil, fmt.Errorf("extract event listing: %w", err)
			}
			s.logger.WarnContext(ctx, "listing page fetch failed, stopping discovery",
				"page", page,
				"error", err,
			)
			break
		}
		if len(listing.Entries) == 0 {
			break
		}

		foundInRange := false
		var latest *time.Time
		for _, entry := range listing.Entries {
			ts := s.dates.Parse(entry.DateText)
			if ts == nil {
				continue
			}
			if latest == nil || ts.After(*latest) {
				latest = ts
			}
			if ts.Before(windowStart) || (windowEnd != nil && ts.After(*windowEnd)) {
				continue
			}
			foundInRange = true
			if _, dup := seen[entry.URL]; dup {
				continue
			}
			seen[entry.URL] = struct{}{}
			urls = append(urls, entry.URL)
		}

		// Listing pages run newest to oldest. Once a page holds nothing
		// in range and its newest entry predates the window, stop.
		if !foundInRange && page > 1 && latest != nil && latest.Before(windowStart) {
			break
		}
	}

	return urls, nil
}
