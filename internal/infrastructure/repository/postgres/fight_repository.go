package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fightsync/fightsync/internal/domain/fight"
)

const fightColumns = `id, event_id, fighter1_id, fighter2_id, fight_type, bout_order, rounds,
       minutes_per_round, finish_by, finish_details, result_1, result_2, created_at`

type FightRepository struct {
	db *sqlx.DB
}

func NewFightRepository(db *sqlx.DB) *FightRepository {
	return &FightRepository{db: db}
}

func (r *FightRepository) ListByEvent(ctx context.Context, eventID int64) ([]fight.Fight, error) {
	query := `SELECT ` + fightColumns + ` FROM fights WHERE event_id = $1 ORDER BY bout_order, id`

	var rows []fightTableModel
	if err := r.db.SelectContext(ctx, &rows, query, eventID); err != nil {
		return nil, fmt.Errorf("list fights by event: %w", err)
	}

	out := make([]fight.Fight, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *FightRepository) GetByPair(ctx context.Context, eventID int64, pair fight.Pair) (*fight.Fight, error) {
	query := `
SELECT ` + fightColumns + `
FROM fights
WHERE event_id = $1
  AND LEAST(fighter1_id, fighter2_id) = $2
  AND GREATEST(fighter1_id, fighter2_id) = $3`

	var row fightTableModel
	if err := r.db.GetContext(ctx, &row, query, eventID, pair.A, pair.B); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get fight by pair: %w", err)
	}

	out := row.toDomain()
	return &out, nil
}

func (r *FightRepository) Create(ctx context.Context, item *fight.Fight) error {
	const query = `
INSERT INTO fights (event_id, fighter1_id, fighter2_id, fight_type, bout_order, rounds,
                    minutes_per_round, finish_by, finish_details, result_1, result_2, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (event_id, LEAST(fighter1_id, fighter2_id), GREATEST(fighter1_id, fighter2_id))
DO UPDATE SET event_id = EXCLUDED.event_id
RETURNING id`

	if err := r.db.GetContext(ctx, &item.ID, query,
		item.EventID,
		item.Fighter1ID,
		item.Fighter2ID,
		item.FightType,
		item.BoutOrder,
		item.Rounds,
		item.MinutesPerRound,
		item.FinishBy,
		item.FinishDetails,
		item.Result1,
		item.Result2,
		item.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert fight: %w", err)
	}

	return nil
}

func (r *FightRepository) Update(ctx context.Context, item *fight.Fight) error {
	const query = `
UPDATE fights
SET fighter1_id = $2, fighter2_id = $3, fight_type = $4, bout_order = $5, rounds = $6,
    minutes_per_round = $7, finish_by = $8, finish_details = $9,
    result_1 = $10, result_2 = $11
WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, item.ID,
		item.Fighter1ID,
		item.Fighter2ID,
		item.FightType,
		item.BoutOrder,
		item.Rounds,
		item.MinutesPerRound,
		item.FinishBy,
		item.FinishDetails,
		item.Result1,
		item.Result2,
	); err != nil {
		return fmt.Errorf("update fight: %w", err)
	}

	return nil
}

func (r *FightRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM fights WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete fight: %w", err)
	}

	return nil
}
