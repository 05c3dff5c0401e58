package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fightsync/fightsync/internal/domain/fighter"
)

const fighterColumns = `id, source_url, name, nickname, age, date_of_birth, height_cm,
       weight_class, last_weigh_in_kg, born, head_coach, other_coaches, affiliation,
       pro_mma_record, current_streak, total_fights, image_url, last_fight_at,
       needs_update, content_hash, created_at`

type FighterRepository struct {
	db *sqlx.DB
}

func NewFighterRepository(db *sqlx.DB) *FighterRepository {
	return &FighterRepository{db: db}
}

func (r *FighterRepository) GetByURL(ctx context.Context, sourceURL string) (*fighter.Fighter, error) {
	query := `SELECT ` + fighterColumns + ` FROM fighters WHERE source_url = $1`

	var row fighterTableModel
	if err := r.db.GetContext(ctx, &row, query, sourceURL); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get fighter by url: %w", err)
	}

	out := row.toDomain()
	return &out, nil
}

func (r *FighterRepository) GetByID(ctx context.Context, id int64) (*fighter.Fighter, error) {
	query := `SELECT ` + fighterColumns + ` FROM fighters WHERE id = $1`

	var row fighterTableModel
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get fighter by id: %w", err)
	}

	out := row.toDomain()
	return &out, nil
}

// Create resolves concurrent inserts for the same source_url to a single
// row and writes the winning id back to the model. The no-op conflict
// update keeps RETURNING populated on the losing insert.
func (r *FighterRepository) Create(ctx context.Context, item *fighter.Fighter) error {
	const query = `
INSERT INTO fighters (source_url, name, nickname, age, date_of_birth, height_cm,
                      weight_class, last_weigh_in_kg, born, head_coach, other_coaches,
                      affiliation, pro_mma_record, current_streak, total_fights,
                      image_url, last_fight_at, needs_update, content_hash, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
ON CONFLICT (source_url) DO UPDATE SET source_url = EXCLUDED.source_url
RETURNING id`

	if err := r.db.GetContext(ctx, &item.ID, query,
		item.SourceURL,
		item.Name,
		item.Nickname,
		item.Age,
		item.DateOfBirth,
		item.HeightCm,
		item.WeightClass,
		item.LastWeighInKg,
		item.Born,
		item.HeadCoach,
		item.OtherCoaches,
		item.Affiliation,
		item.ProMMARecord,
		item.CurrentStreak,
		item.TotalFights,
		item.ImageURL,
		item.LastFightAt,
		item.NeedsUpdate,
		item.ContentHash,
		item.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert fighter: %w", err)
	}

	return nil
}

func (r *FighterRepository) Update(ctx context.Context, item *fighter.Fighter) error {
	const query = `
UPDATE fighters
SET name = $2, nickname = $3, age = $4, date_of_birth = $5, height_cm = $6,
    weight_class = $7, last_weigh_in_kg = $8, born = $9, head_coach = $10,
    other_coaches = $11, affiliation = $12, pro_mma_record = $13,
    current_streak = $14, total_fights = $15, image_url = $16,
    last_fight_at = $17, needs_update = $18, content_hash = $19
WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, item.ID,
		item.Name,
		item.Nickname,
		item.Age,
		item.DateOfBirth,
		item.HeightCm,
		item.WeightClass,
		item.LastWeighInKg,
		item.Born,
		item.HeadCoach,
		item.OtherCoaches,
		item.Affiliation,
		item.ProMMARecord,
		item.CurrentStreak,
		item.TotalFights,
		item.ImageURL,
		item.LastFightAt,
		item.NeedsUpdate,
		item.ContentHash,
	); err != nil {
		return fmt.Errorf("update fighter: %w", err)
	}

	return nil
}

func (r *FighterRepository) FlagForUpdate(ctx context.Context, id int64) error {
	const query = `UPDATE fighters SET needs_update = TRUE WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("flag fighter for update: %w", err)
	}

	return nil
}

func (r *FighterRepository) ListNeedingUpdate(ctx context.Context, lastFightSince time.Time) ([]fighter.Fighter, error) {
	query := `
SELECT ` + fighterColumns + `
FROM fighters
WHERE needs_update = TRUE OR last_fight_at >= $1
ORDER BY id`

	var rows []fighterTableModel
	if err := r.db.SelectContext(ctx, &rows, query, lastFightSince); err != nil {
		return nil, fmt.Errorf("list fighters needing update: %w", err)
	}

	out := make([]fighter.Fighter, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}
