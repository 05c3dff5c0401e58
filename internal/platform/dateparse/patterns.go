package dateparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// datePattern is one independent matcher in the manual fallback chain.
// Patterns run in order, first match wins. Patterns without an explicit
// year apply the same six-month-lookback roll as the general parser.
type datePattern struct {
	re    *regexp.Regexp
	build func(m []string, p *Parser) *time.Time
}

func (dp datePattern) apply(clean string, p *Parser) *time.Time {
	m := dp.re.FindStringSubmatch(clean)
	if m == nil {
		return nil
	}
	return dp.build(m, p)
}

var monthsByName = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June, "july": time.July,
	"august": time.August, "september": time.September, "october": time.October,
	"november": time.November, "december": time.December,
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "jun": time.June, "jul": time.July, "aug": time.August,
	"sep": time.September, "sept": time.September, "oct": time.October,
	"nov": time.November, "dec": time.December,
}

// Time-bearing patterns come before date-only ones so "September 28 2024
// 6pm" never degrades to a midnight match on its date prefix.
var patterns = []datePattern{
	// "June 28 at 7:00 PM"
	{
		re: regexp.MustCompile(`(?i)(?:[A-Za-z]+, )?([A-Za-z]+) (\d{1,2}) at (\d{1,2}):(\d{2}) ?([AP]M)`),
		build: func(m []string, p *Parser) *time.Time {
			month, ok := monthByName(m[1])
			if !ok {
				return nil
			}
			hour, minute := clockFields(m[3], m[4], m[5])
			return p.rollYearless(month, atoi(m[2]), hour, minute)
		},
	},
	// "Saturday, June 28, 7:00 PM"
	{
		re: regexp.MustCompile(`(?i)(?:[A-Za-z]+, )?([A-Za-z]+) (\d{1,2}), (\d{1,2}):(\d{2}) ?([AP]M)`),
		build: func(m []string, p *Parser) *time.Time {
			month, ok := monthByName(m[1])
			if !ok {
				return nil
			}
			hour, minute := clockFields(m[3], m[4], m[5])
			return p.rollYearless(month, atoi(m[2]), hour, minute)
		},
	},
	// "Sat Sep 13, 6pm, 2025"
	{
		re: regexp.MustCompile(`(?i)(?:[A-Za-z]+ )?([A-Za-z]+) (\d{1,2}), (?:(\d{1,2})(?::(\d{2}))? ?([ap]m), )?(\d{4})`),
		build: func(m []string, p *Parser) *time.Time {
			month, ok := monthByName(m[1])
			if !ok {
				return nil
			}
			hour, minute := 0, 0
			if m[3] != "" {
				hour, minute = clockFields(m[3], m[4], m[5])
			}
			return p.atLocal(atoi(m[6]), month, atoi(m[2]), hour, minute)
		},
	},
	// "Saturday 06.28.2025 at 06:30 PM"
	{
		re: regexp.MustCompile(`(?i)(\d{1,2})\.(\d{1,2})\.(\d{4})(?: at (\d{1,2}):(\d{2}) ?([AP]M))?`),
		build: func(m []string, p *Parser) *time.Time {
			hour, minute := 0, 0
			if m[4] != "" {
				hour, minute = clockFields(m[4], m[5], m[6])
			}
			return p.atLocal(atoi(m[3]), time.Month(atoi(m[1])), atoi(m[2]), hour, minute)
		},
	},
	// "September 28 2024 6pm"
	{
		re: regexp.MustCompile(`(?i)([A-Za-z]+) (\d{1,2}),? (\d{4}) (\d{1,2})(?::(\d{2}))? ?([ap]m)`),
		build: func(m []string, p *Parser) *time.Time {
			month, ok := monthByName(m[1])
			if !ok {
				return nil
			}
			hour, minute := clockFields(m[4], m[5], m[6])
			return p.atLocal(atoi(m[3]), month, atoi(m[2]), hour, minute)
		},
	},
	// "January 18, 2025"
	{
		re: regexp.MustCompile(`(?i)([A-Za-z]+) (\d{1,2}),? (\d{4})`),
		build: func(m []string, p *Parser) *time.Time {
			month, ok := monthByName(m[1])
			if !ok {
				return nil
			}
			return p.atLocal(atoi(m[3]), month, atoi(m[2]), 0, 0)
		},
	},
	// "2025-01-18"
	{
		re: regexp.MustCompile(`(\d{4})-(\d{1,2})-(\d{1,2})`),
		build: func(m []string, p *Parser) *time.Time {
			return p.atLocal(atoi(m[1]), time.Month(atoi(m[2])), atoi(m[3]), 0, 0)
		},
	},
	// "1/18/2025"
	{
		re: regexp.MustCompile(`(\d{1,2})/(\d{1,2})/(\d{4})`),
		build: func(m []string, p *Parser) *time.Time {
			return p.atLocal(atoi(m[3]), time.Month(atoi(m[1])), atoi(m[2]), 0, 0)
		},
	},
	// "January 18" (no year, handled last)
	{
		re: regexp.MustCompile(`(?i)([A-Za-z]+) (\d{1,2})`),
		build: func(m []string, p *Parser) *time.Time {
			month, ok := monthByName(m[1])
			if !ok {
				return nil
			}
			return p.rollYearless(month, atoi(m[2]), 0, 0)
		},
	},
}

func (p *Parser) atLocal(year int, month time.Month, day, hour, minute int) *time.Time {
	if month < time.January || month > time.December || day < 1 || day > 31 {
		return nil
	}
	return utc(time.Date(year, month, day, hour, minute, 0, 0, p.loc))
}

func (p *Parser) rollYearless(month time.Month, day, hour, minute int) *time.Time {
	if month < time.January || month > time.December || day < 1 || day > 31 {
		return nil
	}
	now := p.now().In(p.loc)
	ts := time.Date(now.Year(), month, day, hour, minute, 0, 0, p.loc)
	if ts.Before(now.AddDate(0, -6, 0)) {
		ts = ts.AddDate(1, 0, 0)
	}
	return utc(ts)
}

func monthByName(name string) (time.Month, bool) {
	month, ok := monthsByName[strings.ToLower(strings.TrimSpace(name))]
	return month, ok
}

func clockFields(hourText, minuteText, meridiem string) (int, int) {
	hour := atoi(hourText)
	minute := 0
	if minuteText != "" {
		minute = atoi(minuteText)
	}
	switch strings.ToUpper(meridiem) {
	case "PM":
		if hour != 12 {
			hour += 12
		}
	case "AM":
		if hour == 12 {
			hour = 0
		}
	}
	return hour, minute
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
