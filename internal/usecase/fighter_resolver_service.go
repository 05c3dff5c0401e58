package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fightsync/fightsync/internal/domain/fighter"
	"github.com/fightsync/fightsync/internal/platform/cache"
	"github.com/fightsync/fightsync/internal/platform/dateparse"
	"github.com/fightsync/fightsync/internal/platform/hashing"
	"github.com/fightsync/fightsync/internal/platform/logging"
	"github.com/fightsync/fightsync/internal/platform/resilience"
)

type ResolutionOutcome string

const (
	ResolutionFound   ResolutionOutcome = "found"
	ResolutionCreated ResolutionOutcome = "created"
)

// Resolution reports how a fighter URL mapped to a stored row. Stub is
// set when the profile fetch failed and a minimal row was created with
// NeedsUpdate so the updater enriches it later.
type Resolution struct {
	FighterID int64
	Outcome   ResolutionOutcome
	Stub      bool
}

// FighterResolverService maps scraped fighter page URLs to stored
// fighter ids, creating rows on first sight. Same-URL resolutions are
// serialized through a singleflight and memoized for the duration of a
// sync run; the storage upsert is the last line of defense against
// concurrent duplicate creation.
type FighterResolverService struct {
	fighterRepo fighter.Repository
	extractor   EventExtractor
	dates       *dateparse.Parser
	lookup      *cache.Store
	flight      resilience.SingleFlight
	logger      *logging.Logger
	now         func() time.Time
}

func NewFighterResolverService(
	fighterRepo fighter.Repository,
	extractor EventExtractor,
	dates *dateparse.Parser,
	logger *logging.Logger,
) *FighterResolverService {
	if logger == nil {
		logger = logging.Default()
	}
	return &FighterResolverService{
		fighterRepo: fighterRepo,
		extractor:   extractor,
		dates:       dates,
		lookup:      cache.NewStore(0),
		logger:      logger,
		now:         time.Now,
	}
}

// ResetCache drops the run-scoped URL to id memoization. Callers invoke
// it at the start of each sync batch.
func (s *FighterResolverService) ResetCache(ctx context.Context) {
	s.lookup.Reset(ctx)
}

func (s *FighterResolverService) Resolve(ctx context.Context, href, name string) (Resolution, error) {
	ctx, span := startUsecaseSpan(ctx, "FighterResolver.Resolve")
	defer span.End()

	href = strings.TrimSpace(href)
	if href == "" {
		return Resolution{}, fmt.Errorf("%w: fighter url is required", ErrInvalidInput)
	}
	sourceURL := s.extractor.ResolveURL(href)

	if cached, ok := s.lookup.Get(ctx, sourceURL); ok {
		if id, ok := cached.(int64); ok {
			return Resolution{FighterID: id, Outcome: ResolutionFound}, nil
		}
	}

	out, err, _ := s.flight.Do(sourceURL, func() (any, error) {
		return s.resolve(ctx, sourceURL, name)
	})
	if err != nil {
		return Resolution{}, err
	}
	res, ok := out.(Resolution)
	if !ok {
		return Resolution{}, fmt.Errorf("unexpected resolution type %T", out)
	}
	return res, nil
}

func (s *FighterResolverService) resolve(ctx context.Context, sourceURL, name string) (Resolution, error) {
	existing, err := s.fighterRepo.GetByURL(ctx, sourceURL)
	if err != nil {
		return Resolution{}, fmt.Errorf("get fighter by url: %w", err)
	}
	if existing != nil {
		s.lookup.Set(ctx, sourceURL, existing.ID)
		return Resolution{FighterID: existing.ID, Outcome: ResolutionFound}, nil
	}

	item := &fighter.Fighter{
		SourceURL: sourceURL,
		Name:      strings.TrimSpace(name),
		CreatedAt: s.now().UTC(),
	}

	profile, err := s.extractor.ExtractFighterProfile(ctx, sourceURL)
	if err != nil {
		s.logger.WarnContext(ctx, "fighter profile fetch failed, creating stub",
			"url", sourceURL,
			"error", err,
		)
		item.NeedsUpdate = true
	} else {
		applyScrapedProfile(ctx, item, profile, s.dates, s.logger)
	}

	if err := s.fighterRepo.Create(ctx, item); err != nil {
		return Resolution{}, fmt.Errorf("create fighter: %w", err)
	}
	s.lookup.Set(ctx, sourceURL, item.ID)

	s.logger.InfoContext(ctx, "fighter created",
		"url", sourceURL,
		"name", item.Name,
		"stub", item.NeedsUpdate,
	)
	return Resolution{FighterID: item.ID, Outcome: ResolutionCreated, Stub: item.NeedsUpdate}, nil
}

// applyScrapedProfile copies a scraped profile onto a fighter row,
// normalizing records, units and placeholder markers on the way in.
func applyScrapedProfile(ctx context.Context, item *fighter.Fighter, profile *ScrapedProfile, dates *dateparse.Parser, logger *logging.Logger) {
	if name := strings.TrimSpace(profile.Name); name != "" {
		item.Name = name
	}
	item.Nickname = fighter.CleanPlaceholder(profile.Nickname)
	item.Age = parseOptionalInt(profile.AgeText)
	item.DateOfBirth = dates.Parse(profile.DateOfBirthText)
	item.HeightCm = fighter.HeightFromText(profile.HeightText)
	item.WeightClass = fighter.CleanPlaceholder(profile.WeightClass)
	item.LastWeighInKg = fighter.WeighInKilograms(profile.LastWeighInText)
	item.Born = fighter.CleanPlaceholder(profile.Born)
	item.HeadCoach = fighter.CleanPlaceholder(profile.HeadCoach)
	item.OtherCoaches = fighter.CleanPlaceholder(profile.OtherCoaches)
	item.Affiliation = fighter.CleanPlaceholder(profile.Affiliation)
	item.ProMMARecord = fighter.NormalizeRecord(profile.Record)
	item.CurrentStreak = fighter.CleanPlaceholder(profile.StreakText)
	if total, ok := fighter.TotalFights(item.ProMMARecord); ok {
		item.TotalFights = &total
	}
	if profile.ImageURL != "" {
		item.ImageURL = profile.ImageURL
	}
	item.LastFightAt = dates.Parse(profile.LastFightText)
	item.NeedsUpdate = false

	hash, err := hashing.HashJSON(profile.Raw)
	if err != nil {
		logger.WarnContext(ctx, "hash fighter profile failed", "url", item.SourceURL, "error", err)
		return
	}
	item.ContentHash = hash
}

func parseOptionalInt(text string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return nil
	}
	return &n
}
