package httpapi

import (
	"time"

	"github.com/fightsync/fightsync/internal/domain/event"
	"github.com/fightsync/fightsync/internal/domain/fight"
	"github.com/fightsync/fightsync/internal/domain/fighter"
	"github.com/fightsync/fightsync/internal/usecase"
)

type eventDTO struct {
	ID          int64   `json:"id"`
	SourceURL   string  `json:"sourceUrl"`
	Name        string  `json:"name"`
	Promotion   string  `json:"promotion"`
	ScheduledAt *string `json:"scheduledAt,omitempty"`
	Venue       string  `json:"venue,omitempty"`
	Location    string  `json:"location,omitempty"`
	Broadcast   string  `json:"broadcast,omitempty"`
	BoutCount   int     `json:"boutCount"`
	ImageURL    string  `json:"imageUrl,omitempty"`
}

type fightDTO struct {
	ID              int64  `json:"id"`
	Fighter1ID      int64  `json:"fighter1Id"`
	Fighter2ID      int64  `json:"fighter2Id"`
	FightType       string `json:"fightType,omitempty"`
	BoutOrder       int    `json:"boutOrder,omitempty"`
	Rounds          int    `json:"rounds,omitempty"`
	MinutesPerRound int    `json:"minutesPerRound,omitempty"`
	FinishBy        string `json:"finishBy,omitempty"`
	FinishDetails   string `json:"finishDetails,omitempty"`
	Result1         string `json:"result1,omitempty"`
	Result2         string `json:"result2,omitempty"`
}

type eventCardDTO struct {
	eventDTO
	Fights []fightDTO `json:"fights"`
}

type fighterDTO struct {
	ID            int64    `json:"id"`
	SourceURL     string   `json:"sourceUrl"`
	Name          string   `json:"name"`
	Nickname      string   `json:"nickname,omitempty"`
	Age           *int     `json:"age,omitempty"`
	DateOfBirth   *string  `json:"dateOfBirth,omitempty"`
	HeightCm      string   `json:"heightCm,omitempty"`
	WeightClass   string   `json:"weightClass,omitempty"`
	LastWeighInKg *float64 `json:"lastWeighInKg,omitempty"`
	Born          string   `json:"born,omitempty"`
	HeadCoach     string   `json:"headCoach,omitempty"`
	OtherCoaches  string   `json:"otherCoaches,omitempty"`
	Affiliation   string   `json:"affiliation,omitempty"`
	ProMMARecord  string   `json:"proMmaRecord,omitempty"`
	CurrentStreak string   `json:"currentStreak,omitempty"`
	TotalFights   *int     `json:"totalFights,omitempty"`
	ImageURL      string   `json:"imageUrl,omitempty"`
	LastFightAt   *string  `json:"lastFightAt,omitempty"`
	NeedsUpdate   bool     `json:"needsUpdate"`
}

func eventToDTO(item event.Event) eventDTO {
	return eventDTO{
		ID:          item.ID,
		SourceURL:   item.SourceURL,
		Name:        item.Name,
		Promotion:   item.Promotion,
		ScheduledAt: formatTimePtr(item.ScheduledAt),
		Venue:       item.Venue,
		Location:    item.Location,
		Broadcast:   item.Broadcast,
		BoutCount:   item.BoutCount,
		ImageURL:    item.ImageURL,
	}
}

func fightToDTO(item fight.Fight) fightDTO {
	return fightDTO{
		ID:              item.ID,
		Fighter1ID:      item.Fighter1ID,
		Fighter2ID:      item.Fighter2ID,
		FightType:       item.FightType,
		BoutOrder:       item.BoutOrder,
		Rounds:          item.Rounds,
		MinutesPerRound: item.MinutesPerRound,
		FinishBy:        item.FinishBy,
		FinishDetails:   item.FinishDetails,
		Result1:         item.Result1,
		Result2:         item.Result2,
	}
}

func eventCardToDTO(card usecase.EventCard) eventCardDTO {
	fights := make([]fightDTO, 0, len(card.Fights))
	for _, item := range card.Fights {
		fights = append(fights, fightToDTO(item))
	}

	return eventCardDTO{eventDTO: eventToDTO(card.Event), Fights: fights}
}

func fighterToDTO(item fighter.Fighter) fighterDTO {
	return fighterDTO{
		ID:            item.ID,
		SourceURL:     item.SourceURL,
		Name:          item.Name,
		Nickname:      item.Nickname,
		Age:           item.Age,
		DateOfBirth:   formatDatePtr(item.DateOfBirth),
		HeightCm:      item.HeightCm,
		WeightClass:   item.WeightClass,
		LastWeighInKg: item.LastWeighInKg,
		Born:          item.Born,
		HeadCoach:     item.HeadCoach,
		OtherCoaches:  item.OtherCoaches,
		Affiliation:   item.Affiliation,
		ProMMARecord:  item.ProMMARecord,
		CurrentStreak: item.CurrentStreak,
		TotalFights:   item.TotalFights,
		ImageURL:      item.ImageURL,
		LastFightAt:   formatDatePtr(item.LastFightAt),
		NeedsUpdate:   item.NeedsUpdate,
	}
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format("2006-01-02")
	return &s
}
