package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/fightsync/fightsync/internal/domain/fight"
	"github.com/fightsync/fightsync/internal/domain/fighter"
	"github.com/fightsync/fightsync/internal/platform/logging"
)

var roundsFormatRegex = regexp.MustCompile(`(\d+)\s*x\s*(\d+)`)

// CardDiff summarizes what a fight-card reconciliation changed.
type CardDiff struct {
	Created int
	Updated int
	Removed int
	Skipped int
}

func (d CardDiff) Empty() bool {
	return d.Created == 0 && d.Updated == 0 && d.Removed == 0
}

func (d *CardDiff) add(other CardDiff) {
	d.Created += other.Created
	d.Updated += other.Updated
	d.Removed += other.Removed
	d.Skipped += other.Skipped
}

// FightCardService reconciles a scraped fight card against the stored
// fights of an event. Fight identity is the unordered fighter pair, so
// a swapped corner assignment never produces a duplicate row.
type FightCardService struct {
	fightRepo   fight.Repository
	fighterRepo fighter.Repository
	resolver    *FighterResolverService
	logger      *logging.Logger
	now         func() time.Time
}

func NewFightCardService(
	fightRepo fight.Repository,
	fighterRepo fighter.Repository,
	resolver *FighterResolverService,
	logger *logging.Logger,
) *FightCardService {
	if logger == nil {
		logger = logging.Default()
	}
	return &FightCardService{
		fightRepo:   fightRepo,
		fighterRepo: fighterRepo,
		resolver:    resolver,
		logger:      logger,
		now:         time.Now,
	}
}

// Reconcile brings the stored card for eventID in line with the scraped
// bouts: new pairs are created, known pairs are updated in place, and
// stored pairs missing from the scrape are removed. Bouts whose
// fighters cannot be resolved are skipped, never fatal, and a card
// with any skipped bout keeps all of its stored fights.
func (s *FightCardService) Reconcile(ctx context.Context, eventID int64, bouts []ScrapedBout) (CardDiff, error) {
	ctx, span := startUsecaseSpan(ctx, "FightCard.Reconcile")
	defer span.End()

	if eventID <= 0 {
		return CardDiff{}, fmt.Errorf("%w: event id is required", ErrInvalidInput)
	}

	stored, err := s.fightRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return CardDiff{}, fmt.Errorf("list fights for event: %w", err)
	}
	current := make(map[fight.Pair]fight.Fight, len(stored))
	for _, f := range stored {
		current[f.Pair()] = f
	}

	diff := CardDiff{}
	seen := make(map[fight.Pair]struct{}, len(bouts))

	for _, bout := range bouts {
		res1, err := s.resolver.Resolve(ctx, bout.Fighter1URL, bout.Fighter1Name)
		if err != nil {
			s.logger.WarnContext(ctx, "skipping bout, fighter unresolved",
				"event_id", eventID,
				"fighter", bout.Fighter1Name,
				"error", err,
			)
			diff.Skipped++
			continue
		}
		res2, err := s.resolver.Resolve(ctx, bout.Fighter2URL, bout.Fighter2Name)
		if err != nil {
			s.logger.WarnContext(ctx, "skipping bout, fighter unresolved",
				"event_id", eventID,
				"fighter", bout.Fighter2Name,
				"error", err,
			)
			diff.Skipped++
			continue
		}

		pair := fight.NewPair(res1.FighterID, res2.FighterID)
		if _, dup := seen[pair]; dup {
			s.logger.WarnContext(ctx, "duplicate bout on scraped card ignored",
				"event_id", eventID,
				"fighter1_id", pair.A,
				"fighter2_id", pair.B,
			)
			continue
		}
		seen[pair] = struct{}{}

		existing, ok := current[pair]
		if !ok {
			created := s.buildFight(eventID, res1.FighterID, res2.FighterID, bout)
			if err := s.fightRepo.Create(ctx, &created); err != nil {
				return diff, fmt.Errorf("create fight: %w", err)
			}
			diff.Created++
			continue
		}

		changed, resultsChanged := s.applyBout(&existing, res1.FighterID, res2.FighterID, bout)
		if !changed {
			continue
		}
		if err := s.fightRepo.Update(ctx, &existing); err != nil {
			return diff, fmt.Errorf("update fight: %w", err)
		}
		diff.Updated++

		if resultsChanged {
			s.flagFighters(ctx, existing.Fighter1ID, existing.Fighter2ID)
		}
	}

	// A skipped bout never made it into the target set, so its stored
	// fight would look orphaned. Removing anything on a partially
	// resolved card risks deleting a fight that is still on it.
	if diff.Skipped > 0 {
		s.logger.WarnContext(ctx, "card partially resolved, keeping stored fights",
			"event_id", eventID,
			"skipped", diff.Skipped,
		)
		return diff, nil
	}

	for pair, f := range current {
		if _, ok := seen[pair]; ok {
			continue
		}
		if err := s.fightRepo.Delete(ctx, f.ID); err != nil {
			return diff, fmt.Errorf("delete fight: %w", err)
		}
		s.logger.InfoContext(ctx, "fight removed from card",
			"event_id", eventID,
			"fight_id", f.ID,
		)
		diff.Removed++
	}

	return diff, nil
}

func (s *FightCardService) buildFight(eventID, fighter1ID, fighter2ID int64, bout ScrapedBout) fight.Fight {
	rounds, minutes := parseRoundFormat(bout.RoundsText)
	return fight.Fight{
		EventID:         eventID,
		Fighter1ID:      fighter1ID,
		Fighter2ID:      fighter2ID,
		FightType:       bout.WeightClass,
		BoutOrder:       bout.BoutOrder,
		Rounds:          rounds,
		MinutesPerRound: minutes,
		FinishBy:        bout.FinishBy,
		FinishDetails:   bout.FinishDetails,
		Result1:         fight.NormalizeResult(bout.Result1),
		Result2:         fight.NormalizeResult(bout.Result2),
		CreatedAt:       s.now().UTC(),
	}
}

// applyBout folds scraped bout fields into a stored fight. Results are
// mapped per stored corner: when the stored row has the fighters in the
// opposite order from the scrape, result sides swap accordingly.
func (s *FightCardService) applyBout(stored *fight.Fight, fighter1ID, fighter2ID int64, bout ScrapedBout) (changed, resultsChanged bool) {
	result1 := fight.NormalizeResult(bout.Result1)
	result2 := fight.NormalizeResult(bout.Result2)
	if stored.Fighter1ID == fighter2ID && stored.Fighter2ID == fighter1ID {
		result1, result2 = result2, result1
	}

	if stored.Result1 != result1 || stored.Result2 != result2 {
		stored.Result1 = result1
		stored.Result2 = result2
		changed = true
		resultsChanged = true
	}
	if bout.FinishBy != "" && stored.FinishBy != bout.FinishBy {
		stored.FinishBy = bout.FinishBy
		changed = true
	}
	if bout.FinishDetails != "" && stored.FinishDetails != bout.FinishDetails {
		stored.FinishDetails = bout.FinishDetails
		changed = true
	}
	if bout.WeightClass != "" && stored.FightType != bout.WeightClass {
		stored.FightType = bout.WeightClass
		changed = true
	}
	if bout.BoutOrder > 0 && stored.BoutOrder != bout.BoutOrder {
		stored.BoutOrder = bout.BoutOrder
		changed = true
	}
	if rounds, minutes := parseRoundFormat(bout.RoundsText); rounds > 0 {
		if stored.Rounds != rounds || stored.MinutesPerRound != minutes {
			stored.Rounds = rounds
			stored.MinutesPerRound = minutes
			changed = true
		}
	}
	return changed, resultsChanged
}

// flagFighters marks both fighters of an updated fight so the profile
// updater refreshes their records. Flag failures are logged, not fatal;
// the next result change retries.
func (s *FightCardService) flagFighters(ctx context.Context, ids ...int64) {
	for _, id := range ids {
		if err := s.fighterRepo.FlagForUpdate(ctx, id); err != nil {
			s.logger.WarnContext(ctx, "flag fighter for update failed",
				"fighter_id", id,
				"error", err,
			)
		}
	}
}

// parseRoundFormat reads the "3 x 5" scheduled round format.
func parseRoundFormat(text string) (rounds, minutesPerRound int) {
	match := roundsFormatRegex.FindStringSubmatch(text)
	if match == nil {
		return 0, 0
	}
	rounds = atoiOrZero(match[1])
	minutesPerRound = atoiOrZero(match[2])
	return rounds, minutesPerRound
}

func atoiOrZero(text string) int {
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0
	}
	return n
}
