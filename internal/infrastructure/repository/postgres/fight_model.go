package postgres

import (
	"time"

	"github.com/fightsync/fightsync/internal/domain/fight"
)

type fightTableModel struct {
	ID              int64     `db:"id"`
	EventID         int64     `db:"event_id"`
	Fighter1ID      int64     `db:"fighter1_id"`
	Fighter2ID      int64     `db:"fighter2_id"`
	FightType       string    `db:"fight_type"`
	BoutOrder       int       `db:"bout_order"`
	Rounds          int       `db:"rounds"`
	MinutesPerRound int       `db:"minutes_per_round"`
	FinishBy        string    `db:"finish_by"`
	FinishDetails   string    `db:"finish_details"`
	Result1         string    `db:"result_1"`
	Result2         string    `db:"result_2"`
	CreatedAt       time.Time `db:"created_at"`
}

func (m fightTableModel) toDomain() fight.Fight {
	return fight.Fight{
		ID:              m.ID,
		EventID:         m.EventID,
		Fighter1ID:      m.Fighter1ID,
		Fighter2ID:      m.Fighter2ID,
		FightType:       m.FightType,
		BoutOrder:       m.BoutOrder,
		Rounds:          m.Rounds,
		MinutesPerRound: m.MinutesPerRound,
		FinishBy:        m.FinishBy,
		FinishDetails:   m.FinishDetails,
		Result1:         m.Result1,
		Result2:         m.Result2,
		CreatedAt:       m.CreatedAt,
	}
}
