package event

import (
	"errors"
	"strings"
	"time"
)

var (
	errSourceURLRequired = errors.New("event source url is required")
	errNameRequired      = errors.New("event name is required")
)

// Event is one promotion card identified by its source page URL.
type Event struct {
	ID          int64
	SourceURL   string
	Name        string
	Promotion   string
	ScheduledAt *time.Time
	Venue       string
	Location    string
	Broadcast   string
	BoutCount   int
	ImageURL    string
	ContentHash string
	CreatedAt   time.Time
}

// NormalizeVenue maps the source's "N/A" placeholder to an empty value.
func NormalizeVenue(value string) string {
	value = strings.TrimSpace(value)
	if strings.EqualFold(value, "N/A") {
		return ""
	}
	return value
}

func (e Event) Validate() error {
	if strings.TrimSpace(e.SourceURL) == "" {
		return errSourceURLRequired
	}
	if strings.TrimSpace(e.Name) == "" {
		return errNameRequired
	}
	return nil
}
