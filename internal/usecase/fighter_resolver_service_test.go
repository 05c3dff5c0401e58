package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/fightsync/fightsync/internal/domain/fighter"
	"github.com/fightsync/fightsync/internal/platform/logging"
)

const pantojaURL = "https://www.tapology.com/fightcenter/fighters/pantoja"

func pantojaProfile() *ScrapedProfile {
	return &ScrapedProfile{
		Name:            "Alexandre Pantoja",
		Nickname:        "The Cannibal",
		AgeText:         "34",
		HeightText:      `5'5" (165 cm)`,
		WeightClass:     "Flyweight",
		LastWeighInText: "125.0 lbs",
		Born:            "Rio de Janeiro, Brazil",
		HeadCoach:       "N/A",
		Record:          "28-5-0",
		StreakText:      "6 Wins",
		ImageURL:        "https://images.tapology.com/pantoja.jpg",
		Raw:             []byte(`[{"Basic Infos":[{"pro_mma_record":"28-5-0"}]}]`),
	}
}

func TestFighterResolverReturnsExistingRow(t *testing.T) {
	t.Parallel()

	repo := newStubFighterRepository()
	extractor := newStubExtractor()
	repo.byURL[pantojaURL] = fighter.Fighter{ID: 7, SourceURL: pantojaURL, Name: "Alexandre Pantoja"}

	service := NewFighterResolverService(repo, extractor, testDateParser(), logging.NewNop())
	res, err := service.Resolve(context.Background(), "/fightcenter/fighters/pantoja", "Alexandre Pantoja")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if res.Outcome != ResolutionFound || res.FighterID != 7 {
		t.Fatalf("unexpected resolution: %+v", res)
	}
	if calls := extractor.profileCalls[pantojaURL]; calls != 0 {
		t.Fatalf("existing fighter should not trigger a profile fetch, got %d calls", calls)
	}
}

func TestFighterResolverCreatesEnrichedRow(t *testing.T) {
	t.Parallel()

	repo := newStubFighterRepository()
	extractor := newStubExtractor()
	extractor.profiles[pantojaURL] = pantojaProfile()

	service := NewFighterResolverService(repo, extractor, testDateParser(), logging.NewNop())
	res, err := service.Resolve(context.Background(), "/fightcenter/fighters/pantoja", "Alexandre Pantoja")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if res.Outcome != ResolutionCreated || res.Stub {
		t.Fatalf("unexpected resolution: %+v", res)
	}

	stored := repo.byURL[pantojaURL]
	if stored.ProMMARecord != "28-5-0" {
		t.Fatalf("unexpected record: %s", stored.ProMMARecord)
	}
	if stored.TotalFights == nil || *stored.TotalFights != 33 {
		t.Fatalf("unexpected total fights: %v", stored.TotalFights)
	}
	if stored.LastWeighInKg == nil || *stored.LastWeighInKg != 56.7 {
		t.Fatalf("unexpected weigh-in kg: %v", stored.LastWeighInKg)
	}
	if stored.HeightCm != "165cm" {
		t.Fatalf("unexpected height: %s", stored.HeightCm)
	}
	if stored.HeadCoach != "" {
		t.Fatalf("placeholder coach should be cleaned, got %q", stored.HeadCoach)
	}
	if stored.Age == nil || *stored.Age != 34 {
		t.Fatalf("unexpected age: %v", stored.Age)
	}
	if stored.ContentHash == "" {
		t.Fatal("expected content hash to be set")
	}
	if stored.NeedsUpdate {
		t.Fatal("enriched fighter must not be flagged")
	}
}

func TestFighterResolverCreatesStubOnFetchFailure(t *testing.T) {
	t.Parallel()

	repo := newStubFighterRepository()
	extractor := newStubExtractor()
	extractor.profileErrs[pantojaURL] = errors.New("extractor down")

	service := NewFighterResolverService(repo, extractor, testDateParser(), logging.NewNop())
	res, err := service.Resolve(context.Background(), pantojaURL, "Alexandre Pantoja")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if res.Outcome != ResolutionCreated || !res.Stub {
		t.Fatalf("expected stub creation, got %+v", res)
	}

	stored := repo.byURL[pantojaURL]
	if !stored.NeedsUpdate {
		t.Fatal("stub must be flagged for update")
	}
	if stored.Name != "Alexandre Pantoja" {
		t.Fatalf("stub must keep the card name, got %q", stored.Name)
	}
	if !stored.IsStub() {
		t.Fatal("expected stub row")
	}
}

func TestFighterResolverRejectsEmptyURL(t *testing.T) {
	t.Parallel()

	service := NewFighterResolverService(newStubFighterRepository(), newStubExtractor(), testDateParser(), logging.NewNop())
	if _, err := service.Resolve(context.Background(), "  ", "Nobody"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestFighterResolverConcurrentSameURLCreatesOnce(t *testing.T) {
	t.Parallel()

	repo := newStubFighterRepository()
	extractor := newStubExtractor()
	extractor.profiles[pantojaURL] = pantojaProfile()

	service := NewFighterResolverService(repo, extractor, testDateParser(), logging.NewNop())

	const workers = 12
	start := make(chan struct{})
	ids := make(chan int64, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			res, err := service.Resolve(context.Background(), pantojaURL, "Alexandre Pantoja")
			if err != nil {
				t.Errorf("Resolve failed: %v", err)
				return
			}
			ids <- res.FighterID
		}()
	}
	close(start)
	wg.Wait()
	close(ids)

	var first int64
	for id := range ids {
		if first == 0 {
			first = id
		} else if id != first {
			t.Fatalf("resolutions disagree on id: %d vs %d", first, id)
		}
	}
	if len(repo.byURL) != 1 {
		t.Fatalf("expected one stored fighter, got %d", len(repo.byURL))
	}
}

func TestFighterResolverCacheSkipsRepeatLookups(t *testing.T) {
	t.Parallel()

	repo := newStubFighterRepository()
	extractor := newStubExtractor()
	repo.byURL[pantojaURL] = fighter.Fighter{ID: 3, SourceURL: pantojaURL, Name: "Alexandre Pantoja"}

	service := NewFighterResolverService(repo, extractor, testDateParser(), logging.NewNop())
	for i := 0; i < 3; i++ {
		if _, err := service.Resolve(context.Background(), pantojaURL, "Alexandre Pantoja"); err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
	}
	if repo.getCalls != 1 {
		t.Fatalf("expected one repository lookup, got %d", repo.getCalls)
	}

	service.ResetCache(context.Background())
	if _, err := service.Resolve(context.Background(), pantojaURL, "Alexandre Pantoja"); err != nil {
		t.Fatalf("Resolve after reset failed: %v", err)
	}
	if repo.getCalls != 2 {
		t.Fatalf("expected reset to force a fresh lookup, got %d calls", repo.getCalls)
	}
}
