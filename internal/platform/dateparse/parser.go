package dateparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	flex "github.com/araddon/dateparse"

	"github.com/fightsync/fightsync/internal/platform/logging"
)

// sourceZone is the zone the listing site writes times in unless marked
// otherwise.
const sourceZone = "America/New_York"

// Parser converts the source site's free-form date strings into UTC
// instants. Parse never fails hard: unparseable input yields nil and a
// logged warning. The clock is injectable so year-inference is testable.
type Parser struct {
	loc    *time.Location
	now    func() time.Time
	logger *logging.Logger
}

func New(logger *logging.Logger) *Parser {
	if logger == nil {
		logger = logging.Default()
	}
	loc, err := time.LoadLocation(sourceZone)
	if err != nil {
		// Zone data is compiled into the binary on all supported
		// platforms; fall back to a fixed eastern offset if not.
		loc = time.FixedZone("EST", -5*60*60)
		logger.Warn("load source timezone failed, using fixed offset", "zone", sourceZone, "error", err)
	}
	return &Parser{
		loc:    loc,
		now:    time.Now,
		logger: logger,
	}
}

// WithClock returns a copy whose "now" is fixed, for tests and replays.
func (p *Parser) WithClock(now func() time.Time) *Parser {
	clone := *p
	clone.now = now
	return &clone
}

var (
	multiSpaceRegex   = regexp.MustCompile(`\s{2,}`)
	commaSpacingRegex = regexp.MustCompile(`\s*,\s*`)
	easternTailRegex  = regexp.MustCompile(`(?i)\s+E[SD]?T\b`)
	yearRegex         = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	clockRegex        = regexp.MustCompile(`(?i)\b\d{1,2}(?::\d{2})? ?[ap]m\b`)
)

// Parse resolves text to a UTC instant, or nil when nothing matches.
func (p *Parser) Parse(text string) *time.Time {
	clean := normalize(text)
	if clean == "" {
		return nil
	}

	// The flex parser reads a bare meridiem clock ("6pm") as noon, so
	// clock-bearing text is handled by the pattern chain only.
	if !clockRegex.MatchString(clean) {
		if yearRegex.MatchString(clean) {
			if ts, err := flex.ParseIn(clean, p.loc); err == nil {
				return utc(ts)
			}
		} else if ts := p.parseWithInferredYear(clean); ts != nil {
			return ts
		}
	}

	for _, pattern := range patterns {
		if ts := pattern.apply(clean, p); ts != nil {
			return ts
		}
	}

	p.logger.Warn("unparseable date text", "text", text)
	return nil
}

// parseWithInferredYear appends the current year to year-less text and
// rolls to the next year when the result lands more than six months in
// the past. Listings omit the year only when it is implied by proximity
// to the present.
func (p *Parser) parseWithInferredYear(clean string) *time.Time {
	now := p.now().In(p.loc)
	ts, err := flex.ParseIn(clean+", "+strconv.Itoa(now.Year()), p.loc)
	if err != nil {
		return nil
	}
	if ts.Before(now.AddDate(0, -6, 0)) {
		rolled, err := flex.ParseIn(clean+", "+strconv.Itoa(now.Year()+1), p.loc)
		if err != nil {
			return nil
		}
		return utc(rolled)
	}
	return utc(ts)
}

func normalize(text string) string {
	clean := strings.TrimSpace(text)
	if clean == "" {
		return ""
	}
	clean = multiSpaceRegex.ReplaceAllString(clean, " ")
	clean = commaSpacingRegex.ReplaceAllString(clean, ", ")
	clean = easternTailRegex.ReplaceAllString(clean, "")
	return strings.TrimSpace(clean)
}

func utc(ts time.Time) *time.Time {
	out := ts.UTC()
	return &out
}
