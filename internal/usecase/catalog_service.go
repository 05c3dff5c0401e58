package usecase

import (
	"context"
	"fmt"

	"github.com/fightsync/fightsync/internal/domain/event"
	"github.com/fightsync/fightsync/internal/domain/fight"
	"github.com/fightsync/fightsync/internal/domain/fighter"
	"github.com/fightsync/fightsync/internal/platform/logging"
)

const (
	defaultEventListLimit = 20
	maxEventListLimit     = 100
)

// EventCard is an event joined with its stored fight card.
type EventCard struct {
	Event  event.Event
	Fights []fight.Fight
}

// CatalogService serves read queries over reconciled events, fights and
// fighters.
type CatalogService struct {
	eventRepo   event.Repository
	fightRepo   fight.Repository
	fighterRepo fighter.Repository
	logger      *logging.Logger
}

func NewCatalogService(
	eventRepo event.Repository,
	fightRepo fight.Repository,
	fighterRepo fighter.Repository,
	logger *logging.Logger,
) *CatalogService {
	if logger == nil {
		logger = logging.Default()
	}

	return &CatalogService{
		eventRepo:   eventRepo,
		fightRepo:   fightRepo,
		fighterRepo: fighterRepo,
		logger:      logger,
	}
}

func (s *CatalogService) RecentEvents(ctx context.Context, limit int) ([]event.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogService.RecentEvents")
	defer span.End()

	if limit <= 0 {
		limit = defaultEventListLimit
	}
	if limit > maxEventListLimit {
		limit = maxEventListLimit
	}

	items, err := s.eventRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent events: %w", err)
	}

	return items, nil
}

func (s *CatalogService) EventCard(ctx context.Context, id int64) (*EventCard, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogService.EventCard")
	defer span.End()

	if id <= 0 {
		return nil, fmt.Errorf("%w: event id must be positive", ErrInvalidInput)
	}

	found, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get event %d: %w", id, err)
	}
	if found == nil {
		return nil, fmt.Errorf("%w: event %d", ErrNotFound, id)
	}

	fights, err := s.fightRepo.ListByEvent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list fights for event %d: %w", id, err)
	}

	return &EventCard{Event: *found, Fights: fights}, nil
}

func (s *CatalogService) FighterByID(ctx context.Context, id int64) (*fighter.Fighter, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogService.FighterByID")
	defer span.End()

	if id <= 0 {
		return nil, fmt.Errorf("%w: fighter id must be positive", ErrInvalidInput)
	}

	item, err := s.fighterRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get fighter %d: %w", id, err)
	}
	if item == nil {
		return nil, fmt.Errorf("%w: fighter %d", ErrNotFound, id)
	}

	return item, nil
}
