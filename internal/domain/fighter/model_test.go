package fighter

import "testing"

func TestNormalizeRecord(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"20-3-1", "20-3-1"},
		{"20-3-1, 1 NC", "20-3-1-1"},
		{"20-3-1, 2NC", "20-3-1-2"},
		{"  8-0-0  ", "8-0-0"},
		{"", ""},
		{"Amateur", "Amateur"},
	}
	for _, tc := range cases {
		if got := NormalizeRecord(tc.in); got != tc.want {
			t.Errorf("NormalizeRecord(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTotalFights(t *testing.T) {
	t.Parallel()

	got, ok := TotalFights("20-3-1-1")
	if !ok || got != 25 {
		t.Fatalf("TotalFights(20-3-1-1) = %d, %t", got, ok)
	}
	got, ok = TotalFights("16-0-0")
	if !ok || got != 16 {
		t.Fatalf("TotalFights(16-0-0) = %d, %t", got, ok)
	}
	if _, ok := TotalFights(""); ok {
		t.Fatal("expected no total for empty record")
	}
}

func TestWeighInKilograms(t *testing.T) {
	t.Parallel()

	got := WeighInKilograms("145.0 lbs")
	if got == nil || *got != 65.8 {
		t.Fatalf("WeighInKilograms(145.0 lbs) = %v", got)
	}
	got = WeighInKilograms("155 lbs (70.3 kg)")
	if got == nil || *got != 70.3 {
		t.Fatalf("WeighInKilograms(155 lbs) = %v", got)
	}
	if WeighInKilograms("TBD") != nil {
		t.Fatal("expected nil for non-weight text")
	}
}

func TestHeightFromText(t *testing.T) {
	t.Parallel()

	if got := HeightFromText(`5'10" (178 cm)`); got != "178cm" {
		t.Fatalf("HeightFromText = %q", got)
	}
	if got := HeightFromText("178cm"); got != "178cm" {
		t.Fatalf("HeightFromText fallback = %q", got)
	}
	if got := HeightFromText(""); got != "" {
		t.Fatalf("HeightFromText empty = %q", got)
	}
}

func TestCleanPlaceholder(t *testing.T) {
	t.Parallel()

	if got := CleanPlaceholder("N/A"); got != "" {
		t.Fatalf("CleanPlaceholder(N/A) = %q", got)
	}
	if got := CleanPlaceholder(" American Top Team "); got != "American Top Team" {
		t.Fatalf("CleanPlaceholder = %q", got)
	}
}
