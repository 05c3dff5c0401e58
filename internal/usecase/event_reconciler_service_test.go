package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fightsync/fightsync/internal/domain/fight"
	"github.com/fightsync/fightsync/internal/platform/logging"
)

const ufc310URL = "https://www.tapology.com/fightcenter/events/ufc-310"

type reconcilerFixture struct {
	service     *EventReconcilerService
	eventRepo   *stubEventRepository
	fightRepo   *stubFightRepository
	fighterRepo *stubFighterRepository
	extractor   *stubExtractor
}

func newReconcilerFixture(t *testing.T, cfg EventReconcilerConfig) reconcilerFixture {
	t.Helper()
	eventRepo := newStubEventRepository()
	fightRepo := newStubFightRepository()
	fighterRepo := newStubFighterRepository()
	extractor := newStubExtractor()
	dates := testDateParser()
	resolver := NewFighterResolverService(fighterRepo, extractor, dates, logging.NewNop())
	cards := NewFightCardService(fightRepo, fighterRepo, resolver, logging.NewNop())
	service := NewEventReconcilerService(eventRepo, extractor, cards, resolver, dates, cfg, logging.NewNop())
	return reconcilerFixture{
		service:     service,
		eventRepo:   eventRepo,
		fightRepo:   fightRepo,
		fighterRepo: fighterRepo,
		extractor:   extractor,
	}
}

func ufc310Payload(raw string, bouts ...ScrapedBout) *ScrapedEvent {
	return &ScrapedEvent{
		Header: ScrapedEventHeader{
			Name:      "UFC 310: Pantoja vs. Asakura",
			Promotion: "UFC",
			DateText:  "December 7, 2024",
			Venue:     "T-Mobile Arena",
			Location:  "Las Vegas, Nevada",
			Broadcast: "PPV",
			BoutCount: 2,
		},
		Bouts: bouts,
		Raw:   []byte(raw),
	}
}

func ufc310Bouts(result1, result2 string) []ScrapedBout {
	return []ScrapedBout{
		{
			Fighter1Name: "Alexandre Pantoja", Fighter1URL: "/f/pantoja",
			Fighter2Name: "Kai Asakura", Fighter2URL: "/f/asakura",
			WeightClass: "Flyweight", RoundsText: "5 x 5",
			Result1: result1, Result2: result2,
		},
	}
}

func seedBoutProfiles(extractor *stubExtractor) {
	extractor.profiles["https://www.tapology.com/f/pantoja"] = &ScrapedProfile{
		Name: "Alexandre Pantoja", Record: "28-5-0", Raw: []byte(`[{"r":"28-5-0"}]`),
	}
	extractor.profiles["https://www.tapology.com/f/asakura"] = &ScrapedProfile{
		Name: "Kai Asakura", Record: "21-5-0", Raw: []byte(`[{"r":"21-5-0"}]`),
	}
}

func TestReconcileEventCreatesEventAndCard(t *testing.T) {
	t.Parallel()

	fx := newReconcilerFixture(t, EventReconcilerConfig{})
	seedBoutProfiles(fx.extractor)
	fx.extractor.events[ufc310URL] = ufc310Payload(`[{"v":1}]`, ufc310Bouts("", "")...)

	result, err := fx.service.ReconcileEvent(context.Background(), ufc310URL)
	if err != nil {
		t.Fatalf("ReconcileEvent failed: %v", err)
	}
	if result.Outcome != OutcomeCreated {
		t.Fatalf("expected created, got %s", result.Outcome)
	}
	if result.Card.Created != 1 {
		t.Fatalf("expected one fight created, got %+v", result.Card)
	}

	stored := fx.eventRepo.byURL[ufc310URL]
	if stored.ContentHash == "" {
		t.Fatal("expected content hash on stored event")
	}
	if stored.ScheduledAt == nil || stored.ScheduledAt.UTC().Format("2006-01-02") != "2024-12-07" {
		t.Fatalf("unexpected scheduled time: %v", stored.ScheduledAt)
	}
	if len(fx.fighterRepo.byURL) != 2 {
		t.Fatalf("expected two fighters created, got %d", len(fx.fighterRepo.byURL))
	}
}

func TestReconcileEventUnchangedHashStillHealsCard(t *testing.T) {
	t.Parallel()

	fx := newReconcilerFixture(t, EventReconcilerConfig{})
	seedBoutProfiles(fx.extractor)
	fx.extractor.events[ufc310URL] = ufc310Payload(`[{"v":1}]`, ufc310Bouts("", "")...)

	if _, err := fx.service.ReconcileEvent(context.Background(), ufc310URL); err != nil {
		t.Fatalf("first run failed: %v", err)
	}

	// Someone deleted a stored fight out of band; a same-hash run must
	// recreate it.
	fx.fightRepo.byEvent[1] = nil

	result, err := fx.service.ReconcileEvent(context.Background(), ufc310URL)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if result.Outcome != OutcomeUnchanged {
		t.Fatalf("expected unchanged, got %s", result.Outcome)
	}
	if result.Card.Created != 1 {
		t.Fatalf("expected card repair to recreate the fight, got %+v", result.Card)
	}
	if fx.eventRepo.updateCalls != 0 {
		t.Fatalf("unchanged event must not be rewritten, got %d updates", fx.eventRepo.updateCalls)
	}
}

func TestReconcileEventAppliesResultUpdates(t *testing.T) {
	t.Parallel()

	fx := newReconcilerFixture(t, EventReconcilerConfig{})
	seedBoutProfiles(fx.extractor)
	fx.extractor.events[ufc310URL] = ufc310Payload(`[{"v":1}]`, ufc310Bouts("", "")...)

	if _, err := fx.service.ReconcileEvent(context.Background(), ufc310URL); err != nil {
		t.Fatalf("first run failed: %v", err)
	}

	fx.extractor.events[ufc310URL] = ufc310Payload(`[{"v":2}]`, ufc310Bouts("W", "L")...)
	result, err := fx.service.ReconcileEvent(context.Background(), ufc310URL)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if result.Outcome != OutcomeUpdated {
		t.Fatalf("expected updated, got %s", result.Outcome)
	}
	if result.Card.Updated != 1 {
		t.Fatalf("expected one fight update, got %+v", result.Card)
	}

	rows := fx.fightRepo.byEvent[1]
	if len(rows) != 1 || rows[0].Result1 != "WIN" || rows[0].Result2 != "LOSS" {
		t.Fatalf("unexpected stored results: %+v", rows)
	}
	if len(fx.fighterRepo.flagged) != 2 {
		t.Fatalf("both fighters must be flagged after results landed: %v", fx.fighterRepo.flagged)
	}
}

func TestReconcileEventFetchFailureWritesNothing(t *testing.T) {
	t.Parallel()

	fx := newReconcilerFixture(t, EventReconcilerConfig{})
	fx.extractor.eventErrs[ufc310URL] = errors.New("extractor down")

	result, err := fx.service.ReconcileEvent(context.Background(), ufc310URL)
	if err != nil {
		t.Fatalf("fetch failure must be soft: %v", err)
	}
	if result.Outcome != OutcomeFetchFailed {
		t.Fatalf("expected fetch_failed, got %s", result.Outcome)
	}
	if fx.eventRepo.createCalls != 0 || fx.eventRepo.updateCalls != 0 {
		t.Fatal("fetch failure must not touch storage")
	}
}

func TestReconcileEventRejectsHeaderWithoutName(t *testing.T) {
	t.Parallel()

	fx := newReconcilerFixture(t, EventReconcilerConfig{})
	payload := ufc310Payload(`[{"v":1}]`)
	payload.Header.Name = ""
	fx.extractor.events[ufc310URL] = payload

	result, err := fx.service.ReconcileEvent(context.Background(), ufc310URL)
	if err != nil {
		t.Fatalf("invalid header must be soft: %v", err)
	}
	if result.Outcome != OutcomeFetchFailed {
		t.Fatalf("expected fetch_failed, got %s", result.Outcome)
	}
	if fx.eventRepo.createCalls != 0 {
		t.Fatal("invalid header must not create an event")
	}
}

func TestReconcileEventRequiresURL(t *testing.T) {
	t.Parallel()

	fx := newReconcilerFixture(t, EventReconcilerConfig{})
	if _, err := fx.service.ReconcileEvent(context.Background(), " "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestReconcileRecentFiltersWindowAndAggregates(t *testing.T) {
	t.Parallel()

	fx := newReconcilerFixture(t, EventReconcilerConfig{DaysOffset: 7, Workers: 3})
	fx.service.now = func() time.Time {
		return time.Date(2025, 6, 20, 12, 0, 0, 0, time.UTC)
	}
	seedBoutProfiles(fx.extractor)

	inRangeURL := "https://www.tapology.com/fightcenter/events/ufc-fight-night"
	failingURL := "https://www.tapology.com/fightcenter/events/broken"
	fx.extractor.listings[1] = ScrapedListing{Entries: []ListedEvent{
		{URL: inRangeURL, DateText: "June 21, 2025"},
		{URL: failingURL, DateText: "June 18, 2025"},
		{URL: "https://www.tapology.com/fightcenter/events/old", DateText: "January 5, 2025"},
		{URL: "https://www.tapology.com/fightcenter/events/far", DateText: "September 1, 2025"},
		{URL: "https://www.tapology.com/fightcenter/events/undated", DateText: "tba"},
	}}

	payload := ufc310Payload(`[{"v":1}]`, ufc310Bouts("", "")...)
	payload.Header.Name = "UFC Fight Night"
	fx.extractor.events[inRangeURL] = payload
	fx.extractor.eventErrs[failingURL] = errors.New("extractor down")

	report, err := fx.service.ReconcileRecent(context.Background())
	if err != nil {
		t.Fatalf("ReconcileRecent failed: %v", err)
	}

	if report.Discovered != 2 {
		t.Fatalf("expected two discovered events, got %d", report.Discovered)
	}
	if report.Created != 1 || report.FetchFailed != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if report.Fights.Created != 1 {
		t.Fatalf("expected one fight created across the run, got %+v", report.Fights)
	}
	if len(report.Results) != 2 {
		t.Fatalf("expected two per-event results, got %d", len(report.Results))
	}
}

func TestReconcileUpcomingSweepsAllFutureEvents(t *testing.T) {
	t.Parallel()

	fx := newReconcilerFixture(t, EventReconcilerConfig{DaysOffset: 7, Workers: 2})
	fx.service.now = func() time.Time {
		return time.Date(2025, 6, 20, 12, 0, 0, 0, time.UTC)
	}
	seedBoutProfiles(fx.extractor)

	nearURL := "https://www.tapology.com/fightcenter/events/near"
	farURL := "https://www.tapology.com/fightcenter/events/far"
	fx.extractor.listings[1] = ScrapedListing{Entries: []ListedEvent{
		{URL: farURL, DateText: "September 1, 2025"},
		{URL: nearURL, DateText: "June 21, 2025"},
		{URL: "https://www.tapology.com/fightcenter/events/done", DateText: "June 18, 2025"},
	}}

	near := ufc310Payload(`[{"v":1}]`, ufc310Bouts("", "")...)
	near.Header.Name = "Near Card"
	fx.extractor.events[nearURL] = near
	far := ufc310Payload(`[{"v":2}]`)
	far.Header.Name = "Far Card"
	fx.extractor.events[farURL] = far

	report, err := fx.service.ReconcileUpcoming(context.Background())
	if err != nil {
		t.Fatalf("ReconcileUpcoming failed: %v", err)
	}

	// Past events are left alone; there is no forward cutoff.
	if report.Discovered != 2 {
		t.Fatalf("expected two upcoming events, got %d", report.Discovered)
	}
	if report.Created != 2 || report.FetchFailed != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if _, ok := fx.eventRepo.byURL[farURL]; !ok {
		t.Fatal("event beyond the recent window must still be swept")
	}
}

func TestReconcileRecentPropagatesListingFailure(t *testing.T) {
	t.Parallel()

	eventRepo := newStubEventRepository()
	fightRepo := newStubFightRepository()
	fighterRepo := newStubFighterRepository()
	extractor := &failingListingExtractor{stubExtractor: newStubExtractor()}
	dates := testDateParser()
	resolver := NewFighterResolverService(fighterRepo, extractor, dates, logging.NewNop())
	cards := NewFightCardService(fightRepo, fighterRepo, resolver, logging.NewNop())
	service := NewEventReconcilerService(eventRepo, extractor, cards, resolver, dates, EventReconcilerConfig{}, logging.NewNop())

	if _, err := service.ReconcileRecent(context.Background()); err == nil {
		t.Fatal("expected listing failure to propagate")
	}
}

type failingListingExtractor struct {
	*stubExtractor
}

func (e *failingListingExtractor) ExtractEventListing(context.Context, int) (ScrapedListing, error) {
	return ScrapedListing{}, errors.New("listing unavailable")
}

func TestReconcileEventIsIdempotentAcrossRuns(t *testing.T) {
	t.Parallel()

	fx := newReconcilerFixture(t, EventReconcilerConfig{})
	seedBoutProfiles(fx.extractor)
	fx.extractor.profiles["https://www.tapology.com/f/gane"] = &ScrapedProfile{
		Name: "Ciryl Gane", Record: "12-2-0", Raw: []byte(`[{"r":"12-2-0"}]`),
	}
	fx.extractor.profiles["https://www.tapology.com/f/prochazka"] = &ScrapedProfile{
		Name: "Jiri Prochazka", Record: "31-5-1", Raw: []byte(`[{"r":"31-5-1"}]`),
	}
	fx.extractor.profiles["https://www.tapology.com/f/aspinall"] = &ScrapedProfile{
		Name: "Tom Aspinall", Record: "15-3-0", Raw: []byte(`[{"r":"15-3-0"}]`),
	}

	mainEvent := ufc310Bouts("", "")[0]
	coMain := ScrapedBout{
		Fighter1Name: "Ciryl Gane", Fighter1URL: "/f/gane",
		Fighter2Name: "Jiri Prochazka", Fighter2URL: "/f/prochazka",
		WeightClass: "Heavyweight", RoundsText: "3 x 5",
	}
	fx.extractor.events[ufc310URL] = ufc310Payload(`[{"v":1}]`, mainEvent, coMain)

	first, err := fx.service.ReconcileEvent(context.Background(), ufc310URL)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if first.Outcome != OutcomeCreated || first.Card.Created != 2 {
		t.Fatalf("unexpected first run: %+v", first)
	}

	fightIDs := func() map[int64]fight.Pair {
		out := make(map[int64]fight.Pair)
		for _, f := range fx.fightRepo.byEvent[first.EventID] {
			out[f.ID] = f.Pair()
		}
		return out
	}
	afterFirst := fightIDs()

	second, err := fx.service.ReconcileEvent(context.Background(), ufc310URL)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if second.Outcome != OutcomeUnchanged || !second.Card.Empty() {
		t.Fatalf("identical payload must be a no-op, got %+v", second)
	}
	if fx.eventRepo.createCalls != 1 || fx.eventRepo.updateCalls != 0 {
		t.Fatalf("second run touched the event: creates=%d updates=%d",
			fx.eventRepo.createCalls, fx.eventRepo.updateCalls)
	}
	if fx.fightRepo.deleteCalls != 0 {
		t.Fatalf("second run deleted fights: %d", fx.fightRepo.deleteCalls)
	}

	// The co-main falls apart and a replacement bout lands.
	replacement := ScrapedBout{
		Fighter1Name: "Ciryl Gane", Fighter1URL: "/f/gane",
		Fighter2Name: "Tom Aspinall", Fighter2URL: "/f/aspinall",
		WeightClass: "Heavyweight", RoundsText: "3 x 5",
	}
	fx.extractor.events[ufc310URL] = ufc310Payload(`[{"v":2}]`, mainEvent, replacement)

	third, err := fx.service.ReconcileEvent(context.Background(), ufc310URL)
	if err != nil {
		t.Fatalf("third run failed: %v", err)
	}
	if third.Outcome != OutcomeUpdated {
		t.Fatalf("expected updated, got %s", third.Outcome)
	}
	if third.Card.Created != 1 || third.Card.Removed != 1 || third.Card.Updated != 0 {
		t.Fatalf("unexpected card diff: %+v", third.Card)
	}

	afterThird := fightIDs()
	if len(afterThird) != 2 {
		t.Fatalf("expected two stored fights, got %d", len(afterThird))
	}

	mainPair := fight.NewPair(
		fx.fighterRepo.byURL["https://www.tapology.com/f/pantoja"].ID,
		fx.fighterRepo.byURL["https://www.tapology.com/f/asakura"].ID,
	)
	var mainID, survivorID int64
	for id, pair := range afterFirst {
		if pair == mainPair {
			mainID = id
		}
	}
	for id, pair := range afterThird {
		if pair == mainPair {
			survivorID = id
		}
	}
	if mainID == 0 || survivorID != mainID {
		t.Fatalf("untouched main event must keep its row: before=%d after=%d", mainID, survivorID)
	}
}
