package testing

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/tradedesk/internal/modules/calendar"
)

// NewYork loads the exchange timezone or fails the test.
func NewYork(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(calendar.DefaultTimezone)
	if err != nil {
		t.Fatalf("Failed to load %s: %v", calendar.DefaultTimezone, err)
	}
	return loc
}

// NewTestCalendar returns the built-in US equity calendar in New York time.
func NewTestCalendar(t *testing.T) *calendar.Calendar {
	t.Helper()
	cal, err := calendar.Default(NewYork(t))
	if err != nil {
		t.Fatalf("Failed to build default calendar: %v", err)
	}
	return cal
}

// NewYorkTime builds a wall-clock instant in New York.
func NewYorkTime(t *testing.T, year int, month time.Month, day, hour, minute int) time.Time {
	t.Helper()
	return time.Date(year, month, day, hour, minute, 0, 0, NewYork(t))
}

// FixedClock returns a now function that always answers at.
func FixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

// Logger returns a disabled logger for tests.
func Logger() zerolog.Logger {
	return zerolog.New(nil).Level(zerolog.Disabled)
}
