package fight

import "testing"

func TestNewPairIsUnordered(t *testing.T) {
	t.Parallel()

	if NewPair(7, 3) != NewPair(3, 7) {
		t.Fatal("pair identity must ignore fighter order")
	}
	p := NewPair(9, 2)
	if p.A != 2 || p.B != 9 {
		t.Fatalf("unexpected pair normalization: %+v", p)
	}
}

func TestFightPairMatchesSwappedFighters(t *testing.T) {
	t.Parallel()

	a := Fight{Fighter1ID: 10, Fighter2ID: 20}
	b := Fight{Fighter1ID: 20, Fighter2ID: 10}
	if a.Pair() != b.Pair() {
		t.Fatal("swapped fighters must produce the same pair")
	}
}

func TestNormalizeResult(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"W", ResultWin},
		{"win", ResultWin},
		{"L", ResultLoss},
		{"Draw", ResultDraw},
		{"NC", ResultNoContest},
		{"cancelled", ResultCancelled},
		{"16-0", ResultUnknown},
		{"", ResultUnknown},
	}
	for _, tc := range cases {
		if got := NormalizeResult(tc.in); got != tc.want {
			t.Errorf("NormalizeResult(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
