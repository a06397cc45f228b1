package market_hours

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/tradedesk/internal/modules/calendar"
)

func newYork(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return loc
}

func newTestClock(t *testing.T) *Clock {
	t.Helper()
	cal, err := calendar.Default(newYork(t))
	require.NoError(t, err)
	return NewClock(cal)
}

func TestStatus_Sessions(t *testing.T) {
	clock := newTestClock(t)
	ny := newYork(t)

	tests := []struct {
		name      string
		now       time.Time
		current   calendar.Session
		next      calendar.Session
		minutes   int
		countdown string
		nextAt    time.Time
	}{
		{
			name:      "before pre-market",
			now:       time.Date(2024, 1, 16, 3, 0, 0, 0, ny),
			current:   calendar.Closed,
			next:      calendar.PreMarket,
			minutes:   60,
			countdown: "1h",
			nextAt:    time.Date(2024, 1, 16, 4, 0, 0, 0, ny),
		},
		{
			name:      "pre-market opens at 04:00",
			now:       time.Date(2024, 1, 16, 4, 0, 0, 0, ny),
			current:   calendar.PreMarket,
			next:      calendar.RegularHours,
			minutes:   330,
			countdown: "5h 30m",
			nextAt:    time.Date(2024, 1, 16, 9, 30, 0, 0, ny),
		},
		{
			name:      "last second of pre-market",
			now:       time.Date(2024, 1, 16, 9, 29, 59, 0, ny),
			current:   calendar.PreMarket,
			next:      calendar.RegularHours,
			minutes:   0,
			countdown: "0m",
			nextAt:    time.Date(2024, 1, 16, 9, 30, 0, 0, ny),
		},
		{
			name:      "regular hours start inclusive",
			now:       time.Date(2024, 1, 16, 9, 30, 0, 0, ny),
			current:   calendar.RegularHours,
			next:      calendar.AfterHours,
			minutes:   390,
			countdown: "6h 30m",
			nextAt:    time.Date(2024, 1, 16, 16, 0, 0, 0, ny),
		},
		{
			name:      "regular hours end exclusive",
			now:       time.Date(2024, 1, 16, 16, 0, 0, 0, ny),
			current:   calendar.AfterHours,
			next:      calendar.Closed,
			minutes:   240,
			countdown: "4h",
			nextAt:    time.Date(2024, 1, 16, 20, 0, 0, 0, ny),
		},
		{
			name:      "after close rolls to next day",
			now:       time.Date(2024, 1, 16, 20, 0, 0, 0, ny),
			current:   calendar.Closed,
			next:      calendar.PreMarket,
			minutes:   480,
			countdown: "8h",
			nextAt:    time.Date(2024, 1, 17, 4, 0, 0, 0, ny),
		},
		{
			name:      "friday night rolls over the weekend",
			now:       time.Date(2024, 1, 19, 20, 0, 0, 0, ny),
			current:   calendar.Closed,
			next:      calendar.PreMarket,
			minutes:   3360,
			countdown: "2d 8h",
			nextAt:    time.Date(2024, 1, 22, 4, 0, 0, 0, ny),
		},
		{
			name:      "new year's day before pre-market",
			now:       time.Date(2024, 1, 1, 3, 0, 0, 0, ny),
			current:   calendar.Closed,
			next:      calendar.PreMarket,
			minutes:   1500,
			countdown: "1d 1h",
			nextAt:    time.Date(2024, 1, 2, 4, 0, 0, 0, ny),
		},
		{
			name:      "weekend skips the MLK holiday",
			now:       time.Date(2024, 1, 13, 12, 0, 0, 0, ny),
			current:   calendar.Closed,
			next:      calendar.PreMarket,
			minutes:   3840,
			countdown: "2d 16h",
			nextAt:    time.Date(2024, 1, 16, 4, 0, 0, 0, ny),
		},
		{
			name:      "weekend across spring forward",
			now:       time.Date(2024, 3, 9, 12, 0, 0, 0, ny),
			current:   calendar.Closed,
			next:      calendar.PreMarket,
			minutes:   2340,
			countdown: "1d 15h",
			nextAt:    time.Date(2024, 3, 11, 4, 0, 0, 0, ny),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, err := clock.Status(tt.now, ny)
			require.NoError(t, err)

			assert.Equal(t, tt.current, status.Current)
			assert.Equal(t, tt.current != calendar.Closed, status.IsOpen)
			assert.Equal(t, tt.next, status.Next)
			assert.Equal(t, tt.minutes, status.MinutesUntilNext)
			assert.Equal(t, tt.countdown, status.TimeUntilNext)
			assert.True(t, tt.nextAt.Equal(status.NextTransition), "next transition %v", status.NextTransition)
		})
	}
}

func TestStatus_ConvertsInstantToExchangeTime(t *testing.T) {
	clock := newTestClock(t)

	// 14:30 UTC is 09:30 EST
	status, err := clock.Status(time.Date(2024, 1, 16, 14, 30, 0, 0, time.UTC), newYork(t))
	require.NoError(t, err)

	assert.Equal(t, calendar.RegularHours, status.Current)
	assert.Equal(t, "4:00 PM", status.NextEventTime)
	assert.Equal(t, "Jan 16, 2024", status.CurrentDate)
	assert.Equal(t, "9:30:00 AM", status.CurrentTime)
	assert.Equal(t, "America/New_York", status.Timezone)
	assert.Equal(t, "EST", status.TimezoneAbbrev)
}

func TestStatus_NilLocationUsesCalendarZone(t *testing.T) {
	clock := newTestClock(t)

	status, err := clock.Status(time.Date(2024, 1, 16, 14, 30, 0, 0, time.UTC), nil)
	require.NoError(t, err)
	assert.Equal(t, calendar.RegularHours, status.Current)
}

func TestStatus_WeekendIsClosed(t *testing.T) {
	clock := newTestClock(t)
	ny := newYork(t)

	for hour := 0; hour < 24; hour++ {
		for _, day := range []int{13, 14} {
			status, err := clock.Status(time.Date(2024, 1, day, hour, 15, 0, 0, ny), ny)
			require.NoError(t, err)
			assert.False(t, status.IsOpen)
			assert.Equal(t, calendar.Closed, status.Current)
		}
	}
}

func TestStatus_RegularHoursInterior(t *testing.T) {
	clock := newTestClock(t)
	ny := newYork(t)

	start := time.Date(2024, 1, 17, 9, 30, 0, 0, ny)
	end := time.Date(2024, 1, 17, 16, 0, 0, 0, ny)
	for now := start; now.Before(end); now = now.Add(7 * time.Minute) {
		status, err := clock.Status(now, ny)
		require.NoError(t, err)
		assert.Equal(t, calendar.RegularHours, status.Current, "at %s", now.Format(time.Kitchen))
	}
}

func TestIsMarketDay(t *testing.T) {
	clock := newTestClock(t)

	assert.True(t, clock.IsMarketDay(calendar.Date{Year: 2024, Month: time.July, Day: 5}))
	assert.False(t, clock.IsMarketDay(calendar.Date{Year: 2024, Month: time.July, Day: 4}), "holiday on a Thursday")
	assert.False(t, clock.IsMarketDay(calendar.Date{Year: 2024, Month: time.July, Day: 6}))
	assert.True(t, clock.IsMarketDay(calendar.Date{Year: 2040, Month: time.January, Day: 2}), "unlisted year has no holidays")
}

func TestNextMarketDay(t *testing.T) {
	clock := newTestClock(t)

	next, err := clock.NextMarketDay(calendar.Date{Year: 2024, Month: time.March, Day: 28})
	require.NoError(t, err)
	assert.Equal(t, calendar.Date{Year: 2024, Month: time.April, Day: 1}, next, "skips Good Friday and the weekend")
}

func TestStatus_CalendarGapIsDataError(t *testing.T) {
	ny := newYork(t)

	var holidays []calendar.Holiday
	for d := (calendar.Date{Year: 2024, Month: time.January, Day: 2}); d.Month == time.January; d = d.AddDays(1) {
		holidays = append(holidays, calendar.Holiday{Date: d, Name: "Closure"})
	}
	cal, err := calendar.New(ny, calendar.DefaultWindows(), holidays)
	require.NoError(t, err)
	clock := NewClock(cal)

	_, err = clock.Status(time.Date(2024, 1, 1, 21, 0, 0, 0, ny), ny)
	require.Error(t, err)
	assert.True(t, errors.Is(err, calendar.ErrData))

	var dataErr *calendar.DataError
	assert.True(t, errors.As(err, &dataErr))
}

func TestBoard(t *testing.T) {
	clock := newTestClock(t)
	ny := newYork(t)

	tests := []struct {
		name   string
		now    time.Time
		states []BoardState
	}{
		{"pre-market", time.Date(2024, 1, 16, 8, 0, 0, 0, ny), []BoardState{BoardActive, BoardUpcoming, BoardClosed}},
		{"regular", time.Date(2024, 1, 16, 11, 0, 0, 0, ny), []BoardState{BoardClosed, BoardActive, BoardUpcoming}},
		{"after-hours", time.Date(2024, 1, 16, 17, 0, 0, 0, ny), []BoardState{BoardClosed, BoardClosed, BoardActive}},
		{"overnight", time.Date(2024, 1, 16, 22, 0, 0, 0, ny), []BoardState{BoardUpcoming, BoardClosed, BoardClosed}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, err := clock.Status(tt.now, ny)
			require.NoError(t, err)

			board := clock.Board(status)
			require.Len(t, board, 3)
			for i, info := range board {
				assert.Equal(t, tt.states[i], info.Status, info.Title)
			}
		})
	}

	status, err := clock.Status(time.Date(2024, 1, 16, 11, 0, 0, 0, ny), ny)
	require.NoError(t, err)
	regular := clock.Board(status)[1]
	assert.Equal(t, "Regular Trading Hours", regular.Title)
	assert.Equal(t, "9:30 AM", regular.StartTime)
	assert.Equal(t, "4:00 PM", regular.EndTime)
	assert.Equal(t, "Market Close", regular.NextEvent)
}
