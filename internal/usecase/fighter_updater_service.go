package usecase

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/fightsync/fightsync/internal/domain/fighter"
	"github.com/fightsync/fightsync/internal/platform/dateparse"
	"github.com/fightsync/fightsync/internal/platform/hashing"
	"github.com/fightsync/fightsync/internal/platform/logging"
)

// FighterUpdateReport aggregates one profile refresh run.
type FighterUpdateReport struct {
	Candidates int
	Updated    int
	Unchanged  int
	Failed     int
	DurationMs int64
}

type FighterUpdaterConfig struct {
	Workers     int
	RecencyDays int
}

func normalizeUpdaterConfig(cfg FighterUpdaterConfig) FighterUpdaterConfig {
	if cfg.Workers < 1 {
		cfg.Workers = 4
	}
	if cfg.RecencyDays < 1 {
		cfg.RecencyDays = 45
	}
	return cfg
}

// FighterUpdaterService refreshes fighter rows that are flagged for
// update or fought recently. Stubs created during card resolution get
// their full profile here; enriched rows are re-hashed and only written
// when the profile content actually changed.
type FighterUpdaterService struct {
	fighterRepo fighter.Repository
	extractor   EventExtractor
	dates       *dateparse.Parser
	cfg         FighterUpdaterConfig
	logger      *logging.Logger
	now         func() time.Time
}

func NewFighterUpdaterService(
	fighterRepo fighter.Repository,
	extractor EventExtractor,
	dates *dateparse.Parser,
	cfg FighterUpdaterConfig,
	logger *logging.Logger,
) *FighterUpdaterService {
	if logger == nil {
		logger = logging.Default()
	}
	return &FighterUpdaterService{
		fighterRepo: fighterRepo,
		extractor:   extractor,
		dates:       dates,
		cfg:         normalizeUpdaterConfig(cfg),
		logger:      logger,
		now:         time.Now,
	}
}

func (s *FighterUpdaterService) UpdateFlagged(ctx context.Context) (FighterUpdateReport, error) {
	ctx, span := startUsecaseSpan(ctx, "FighterUpdater.UpdateFlagged")
	defer span.End()

	start := s.now()
	cutoff := start.UTC().AddDate(0, 0, -s.cfg.RecencyDays)

	candidates, err := s.fighterRepo.ListNeedingUpdate(ctx, cutoff)
	if err != nil {
		return FighterUpdateReport{}, fmt.Errorf("list fighters needing update: %w", err)
	}

	report := FighterUpdateReport{Candidates: len(candidates)}
	if len(candidates) == 0 {
		report.DurationMs = time.Since(start).Milliseconds()
		return report, nil
	}

	var updatedCount atomic.Int32
	var unchangedCount atomic.Int32
	var failedCount atomic.Int32

	workers := pool.New().WithMaxGoroutines(s.cfg.Workers)
	for _, candidate := range candidates {
		candidate := candidate
		workers.Go(func() {
			switch s.refreshFighter(ctx, candidate) {
			case refreshUpdated:
				updatedCount.Add(1)
			case refreshUnchanged:
				unchangedCount.Add(1)
			default:
				failedCount.Add(1)
			}
		})
	}
	workers.Wait()

	report.Updated = int(updatedCount.Load())
	report.Unchanged = int(unchangedCount.Load())
	report.Failed = int(failedCount.Load())
	report.DurationMs = time.Since(start).Milliseconds()

	s.logger.InfoContext(ctx, "fighter update run finished",
		"candidates", report.Candidates,
		"updated", report.Updated,
		"unchanged", report.Unchanged,
		"failed", report.Failed,
	)
	return report, nil
}

type refreshStatus int

const (
	refreshFailed refreshStatus = iota
	refreshUnchanged
	refreshUpdated
)

func (s *FighterUpdaterService) refreshFighter(ctx context.Context, item fighter.Fighter) refreshStatus {
	profile, err := s.extractor.ExtractFighterProfile(ctx, item.SourceURL)
	if err != nil {
		s.logger.WarnContext(ctx, "fighter profile refresh failed",
			"url", item.SourceURL,
			"error", err,
		)
		return refreshFailed
	}

	hash, err := hashing.HashJSON(profile.Raw)
	if err != nil {
		s.logger.WarnContext(ctx, "hash fighter profile failed",
			"url", item.SourceURL,
			"error", err,
		)
		return refreshFailed
	}

	if item.ContentHash == hash && !item.NeedsUpdate {
		return refreshUnchanged
	}

	applyScrapedProfile(ctx, &item, profile, s.dates, s.logger)
	item.ContentHash = hash
	if err := s.fighterRepo.Update(ctx, &item); err != nil {
		s.logger.ErrorContext(ctx, "persist fighter update failed",
			"url", item.SourceURL,
			"error", err,
		)
		return refreshFailed
	}

	s.logger.InfoContext(ctx, "fighter updated", "url", item.SourceURL, "name", item.Name)
	return refreshUpdated
}
