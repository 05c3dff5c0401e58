package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fightsync/fightsync/internal/domain/fighter"
	"github.com/fightsync/fightsync/internal/platform/hashing"
	"github.com/fightsync/fightsync/internal/platform/logging"
)

func newUpdaterFixture(t *testing.T) (*FighterUpdaterService, *stubFighterRepository, *stubExtractor) {
	t.Helper()
	repo := newStubFighterRepository()
	extractor := newStubExtractor()
	service := NewFighterUpdaterService(repo, extractor, testDateParser(), FighterUpdaterConfig{Workers: 2, RecencyDays: 45}, logging.NewNop())
	return service, repo, extractor
}

func TestFighterUpdaterEnrichesStub(t *testing.T) {
	t.Parallel()

	service, repo, extractor := newUpdaterFixture(t)
	stubURL := "https://www.tapology.com/f/stub"
	repo.byURL[stubURL] = fighter.Fighter{ID: 1, SourceURL: stubURL, Name: "Stub Fighter", NeedsUpdate: true}
	repo.nextID = 1
	extractor.profiles[stubURL] = &ScrapedProfile{
		Name:   "Stub Fighter",
		Record: "10-2-0",
		Raw:    []byte(`[{"r":"10-2-0"}]`),
	}

	report, err := service.UpdateFlagged(context.Background())
	if err != nil {
		t.Fatalf("UpdateFlagged failed: %v", err)
	}
	if report.Candidates != 1 || report.Updated != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}

	stored := repo.byURL[stubURL]
	if stored.NeedsUpdate {
		t.Fatal("flag must clear after enrichment")
	}
	if stored.ProMMARecord != "10-2-0" {
		t.Fatalf("unexpected record: %s", stored.ProMMARecord)
	}
	if stored.TotalFights == nil || *stored.TotalFights != 12 {
		t.Fatalf("unexpected total fights: %v", stored.TotalFights)
	}
}

func TestFighterUpdaterSkipsUnchangedProfiles(t *testing.T) {
	t.Parallel()

	service, repo, extractor := newUpdaterFixture(t)
	url := "https://www.tapology.com/f/recent"
	raw := []byte(`[{"r":"15-3-0"}]`)
	hash, err := hashing.HashJSON(raw)
	if err != nil {
		t.Fatalf("hash fixture: %v", err)
	}

	lastFight := time.Now().UTC().AddDate(0, 0, -3)
	repo.byURL[url] = fighter.Fighter{
		ID: 1, SourceURL: url, Name: "Recent Fighter",
		ProMMARecord: "15-3-0", ContentHash: hash, LastFightAt: &lastFight,
	}
	repo.nextID = 1
	extractor.profiles[url] = &ScrapedProfile{Name: "Recent Fighter", Record: "15-3-0", Raw: raw}

	report, err := service.UpdateFlagged(context.Background())
	if err != nil {
		t.Fatalf("UpdateFlagged failed: %v", err)
	}
	if report.Candidates != 1 || report.Unchanged != 1 || report.Updated != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if repo.updateCalls != 0 {
		t.Fatalf("unchanged profile must not be rewritten, got %d updates", repo.updateCalls)
	}
}

func TestFighterUpdaterCountsFetchFailures(t *testing.T) {
	t.Parallel()

	service, repo, extractor := newUpdaterFixture(t)
	url := "https://www.tapology.com/f/broken"
	repo.byURL[url] = fighter.Fighter{ID: 1, SourceURL: url, Name: "Broken", NeedsUpdate: true}
	repo.nextID = 1
	extractor.profileErrs[url] = errors.New("extractor down")

	report, err := service.UpdateFlagged(context.Background())
	if err != nil {
		t.Fatalf("UpdateFlagged failed: %v", err)
	}
	if report.Failed != 1 || report.Updated != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if !repo.byURL[url].NeedsUpdate {
		t.Fatal("failed refresh must keep the flag")
	}
}

func TestFighterUpdaterIgnoresDormantFighters(t *testing.T) {
	t.Parallel()

	service, repo, _ := newUpdaterFixture(t)
	url := "https://www.tapology.com/f/dormant"
	lastFight := time.Now().UTC().AddDate(-2, 0, 0)
	repo.byURL[url] = fighter.Fighter{
		ID: 1, SourceURL: url, Name: "Dormant",
		ProMMARecord: "20-10-0", ContentHash: "h", LastFightAt: &lastFight,
	}
	repo.nextID = 1

	report, err := service.UpdateFlagged(context.Background())
	if err != nil {
		t.Fatalf("UpdateFlagged failed: %v", err)
	}
	if report.Candidates != 0 {
		t.Fatalf("dormant fighter must not be selected: %+v", report)
	}
}
