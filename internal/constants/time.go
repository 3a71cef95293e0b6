package constants

import "time"

const (
	// DateFormat renders a calendar day the way the widget has always keyed
	// its data, e.g. "Fri Oct 16 2026".
	DateFormat = "Mon Jan 02 2006"

	// SyncInterval is how often a long-running session checks for a new day.
	SyncInterval = time.Minute
)

// Today returns the calendar-day key for t in t's location.
func Today(t time.Time) string {
	return t.Format(DateFormat)
}
