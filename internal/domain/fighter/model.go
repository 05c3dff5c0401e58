package fighter

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Fighter is an athlete profile keyed by its source page URL. A row may be a
// minimal stub (url + name + NeedsUpdate) until profile enrichment runs.
type Fighter struct {
	ID            int64
	SourceURL     string
	Name          string
	Nickname      string
	Age           *int
	DateOfBirth   *time.Time
	HeightCm      string
	WeightClass   string
	LastWeighInKg *float64
	Born          string
	HeadCoach     string
	OtherCoaches  string
	Affiliation   string
	ProMMARecord  string
	CurrentStreak string
	TotalFights   *int
	ImageURL      string
	LastFightAt   *time.Time
	NeedsUpdate   bool
	ContentHash   string
	CreatedAt     time.Time
}

var (
	recordRegex   = regexp.MustCompile(`(\d+)-(\d+)-(\d+)(?:,\s*(\d+)\s*NC)?`)
	weightRegex   = regexp.MustCompile(`(?i)([\d.]+)\s*lbs`)
	heightCmRegex = regexp.MustCompile(`\((\d+)\s*cm\)`)
)

// NormalizeRecord canonicalizes a pro record string to "W-L-D" or
// "W-L-D-NC". Unrecognized input is returned unchanged.
func NormalizeRecord(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	match := recordRegex.FindStringSubmatch(raw)
	if match == nil {
		return raw
	}
	if match[4] != "" {
		return fmt.Sprintf("%s-%s-%s-%s", match[1], match[2], match[3], match[4])
	}
	return fmt.Sprintf("%s-%s-%s", match[1], match[2], match[3])
}

// TotalFights sums the numeric components of a normalized record string.
func TotalFights(record string) (int, bool) {
	record = strings.TrimSpace(record)
	if record == "" {
		return 0, false
	}
	total := 0
	found := false
	for _, part := range strings.Split(record, "-") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		total += n
		found = true
	}
	return total, found
}

// WeighInKilograms converts a "145.5 lbs" style weigh-in to kilograms
// rounded to one decimal.
func WeighInKilograms(raw string) *float64 {
	match := weightRegex.FindStringSubmatch(strings.TrimSpace(raw))
	if match == nil {
		return nil
	}
	lbs, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return nil
	}
	kg := math.Round(lbs*0.45359237*10) / 10
	return &kg
}

// HeightFromText pulls the metric height out of source text like
// 5'10" (178 cm), falling back to the raw text when no cm figure exists.
func HeightFromText(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if match := heightCmRegex.FindStringSubmatch(raw); match != nil {
		return match[1] + "cm"
	}
	return raw
}

// CleanPlaceholder maps the source's "N/A" marker to an empty string.
func CleanPlaceholder(value string) string {
	value = strings.TrimSpace(value)
	if strings.EqualFold(value, "N/A") {
		return ""
	}
	return value
}

// IsStub reports whether the row carries only the minimal fields created
// during fight-card resolution.
func (f Fighter) IsStub() bool {
	return f.ContentHash == "" && f.ProMMARecord == ""
}
