// Package dates handles the calendar dates (YYYY-MM-DD) used for
// announcement visibility windows.
package dates

import (
	"errors"
	"time"

	"github.com/juju/clock"
)

// Layout is the only accepted date format.
const Layout = "2006-01-02"

var (
	// ErrFormat is returned when a value is not a valid YYYY-MM-DD date.
	ErrFormat = errors.New("date must be in YYYY-MM-DD format")
	// ErrRange is returned when a start date falls after its end date.
	ErrRange = errors.New("start date must be on or before end date")
)

// Parse parses a YYYY-MM-DD value. Only the empty string means "no date" and
// returns nil; surrounding whitespace is a format error.
func Parse(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(Layout, value)
	if err != nil {
		return nil, ErrFormat
	}
	return &t, nil
}

// Format renders t as YYYY-MM-DD.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// FormatPtr renders t, or returns nil when t is nil.
func FormatPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := Format(*t)
	return &s
}

// CheckRange returns ErrRange when start is set and after end.
func CheckRange(start *time.Time, end time.Time) error {
	if start != nil && start.After(end) {
		return ErrRange
	}
	return nil
}

// Today returns the current calendar date on clk in loc as YYYY-MM-DD.
// A nil loc means time.Local.
func Today(clk clock.Clock, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return Format(clk.Now().In(loc))
}
