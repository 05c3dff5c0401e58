package postgres

import (
	"time"

	"github.com/fightsync/fightsync/internal/domain/fighter"
)

type fighterTableModel struct {
	ID            int64      `db:"id"`
	SourceURL     string     `db:"source_url"`
	Name          string     `db:"name"`
	Nickname      string     `db:"nickname"`
	Age           *int       `db:"age"`
	DateOfBirth   *time.Time `db:"date_of_birth"`
	HeightCm      string     `db:"height_cm"`
	WeightClass   string     `db:"weight_class"`
	LastWeighInKg *float64   `db:"last_weigh_in_kg"`
	Born          string     `db:"born"`
	HeadCoach     string     `db:"head_coach"`
	OtherCoaches  string     `db:"other_coaches"`
	Affiliation   string     `db:"affiliation"`
	ProMMARecord  string     `db:"pro_mma_record"`
	CurrentStreak string     `db:"current_streak"`
	TotalFights   *int       `db:"total_fights"`
	ImageURL      string     `db:"image_url"`
	LastFightAt   *time.Time `db:"last_fight_at"`
	NeedsUpdate   bool       `db:"needs_update"`
	ContentHash   string     `db:"content_hash"`
	CreatedAt     time.Time  `db:"created_at"`
}

func (m fighterTableModel) toDomain() fighter.Fighter {
	return fighter.Fighter{
		ID:            m.ID,
		SourceURL:     m.SourceURL,
		Name:          m.Name,
		Nickname:      m.Nickname,
		Age:           m.Age,
		DateOfBirth:   m.DateOfBirth,
		HeightCm:      m.HeightCm,
		WeightClass:   m.WeightClass,
		LastWeighInKg: m.LastWeighInKg,
		Born:          m.Born,
		HeadCoach:     m.HeadCoach,
		OtherCoaches:  m.OtherCoaches,
		Affiliation:   m.Affiliation,
		ProMMARecord:  m.ProMMARecord,
		CurrentStreak: m.CurrentStreak,
		TotalFights:   m.TotalFights,
		ImageURL:      m.ImageURL,
		LastFightAt:   m.LastFightAt,
		NeedsUpdate:   m.NeedsUpdate,
		ContentHash:   m.ContentHash,
		CreatedAt:     m.CreatedAt,
	}
}
