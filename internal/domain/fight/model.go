package fight

import (
	"strings"
	"time"
	"unicode"
)

const (
	ResultWin       = "WIN"
	ResultLoss      = "LOSS"
	ResultDraw      = "DRAW"
	ResultNoContest = "NO_CONTEST"
	ResultCancelled = "CANCELLED"
	ResultUnknown   = ""
)

// Fight is one bout on an event's card. Identity within an event is the
// unordered fighter pair, not the row order of the two fighters.
type Fight struct {
	ID              int64
	EventID         int64
	Fighter1ID      int64
	Fighter2ID      int64
	FightType       string
	BoutOrder       int
	Rounds          int
	MinutesPerRound int
	FinishBy        string
	FinishDetails   string
	Result1         string
	Result2         string
	CreatedAt       time.Time
}

// Pair is the unordered fighter-id pair identifying a fight within an
// event. Construct via NewPair so A <= B always holds.
type Pair struct {
	A int64
	B int64
}

func NewPair(a, b int64) Pair {
	if a > b {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

func (f Fight) Pair() Pair {
	return NewPair(f.Fighter1ID, f.Fighter2ID)
}

// NormalizeResult canonicalizes a scraped per-fighter result. Strings
// without letters are records leaking from the card markup ("16-0"), not
// results, and map to unknown.
func NormalizeResult(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ResultUnknown
	}
	hasAlpha := false
	for _, r := range raw {
		if unicode.IsLetter(r) {
			hasAlpha = true
			break
		}
	}
	if !hasAlpha {
		return ResultUnknown
	}

	switch strings.ToUpper(raw) {
	case "W", "WIN", "WINNER":
		return ResultWin
	case "L", "LOSS", "LOSER":
		return ResultLoss
	case "D", "DRAW":
		return ResultDraw
	case "NC", "NO CONTEST", "NO_CONTEST":
		return ResultNoContest
	case "C", "CANCELLED", "CANCELED":
		return ResultCancelled
	default:
		return strings.ToUpper(raw)
	}
}
