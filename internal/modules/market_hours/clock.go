package market_hours

import (
	"fmt"
	"time"

	"github.com/aristath/tradedesk/internal/modules/calendar"
)

// maxMarketDaySearch bounds the forward walk for the next market day. A longer run
// of closed days means the holiday table is broken.
const maxMarketDaySearch = 14

// Clock evaluates session state against a calendar. It holds no mutable state and is
// safe for concurrent use.
type Clock struct {
	cal *calendar.Calendar
}

// NewClock creates a session clock
func NewClock(cal *calendar.Calendar) *Clock {
	return &Clock{cal: cal}
}

// Calendar returns the tables the clock evaluates against.
func (c *Clock) Calendar() *calendar.Calendar {
	return c.cal
}

// IsMarketDay reports whether d is neither a weekend day nor a listed holiday.
func (c *Clock) IsMarketDay(d calendar.Date) bool {
	return !d.IsWeekend() && !c.cal.IsHoliday(d)
}

// NextMarketDay returns the first market day strictly after d.
func (c *Clock) NextMarketDay(d calendar.Date) (calendar.Date, error) {
	next := d
	for i := 0; i < maxMarketDaySearch; i++ {
		next = next.AddDays(1)
		if c.IsMarketDay(next) {
			return next, nil
		}
	}
	return calendar.Date{}, &calendar.DataError{
		Reason: fmt.Sprintf("no market day within %d days after %s", maxMarketDaySearch, d),
	}
}

// Status evaluates the session clock at now, reading wall-clock time in loc. A nil
// loc means the calendar's own location.
func (c *Clock) Status(now time.Time, loc *time.Location) (SessionStatus, error) {
	if loc == nil {
		loc = c.cal.Location
	}
	local := now.In(loc)
	today := calendar.DateOf(local)

	current, next, nextAt, err := c.transition(local, today, loc)
	if err != nil {
		return SessionStatus{}, err
	}

	minutes := int(nextAt.Sub(local) / time.Minute)
	countdown, err := FormatDuration(minutes)
	if err != nil {
		return SessionStatus{}, err
	}

	return SessionStatus{
		Current:          current,
		IsOpen:           current != calendar.Closed,
		Next:             next,
		MinutesUntilNext: minutes,
		TimeUntilNext:    countdown,
		NextTransition:   nextAt,
		NextEventTime:    nextAt.Format(ClockDisplayLayout),
		Timezone:         loc.String(),
		TimezoneAbbrev:   local.Format("MST"),
		CurrentDate:      local.Format(DateDisplayLayout),
		CurrentTime:      local.Format(TimeDisplayLayout),
		AsOf:             local,
	}, nil
}

// transition returns the session in force at local, the session that follows it and
// the instant the change happens.
func (c *Clock) transition(local time.Time, today calendar.Date, loc *time.Location) (calendar.Session, calendar.Session, time.Time, error) {
	if c.IsMarketDay(today) {
		minute := local.Hour()*minutesPerHour + local.Minute()
		windows := c.cal.Windows

		for i, w := range windows {
			if minute < w.Start {
				// Before this window opens
				return calendar.Closed, w.Session, at(today, w.Start, loc), nil
			}
			if w.Contains(minute) {
				next := calendar.Closed
				if i+1 < len(windows) && windows[i+1].Start == w.End {
					next = windows[i+1].Session
				}
				return w.Session, next, at(today, w.End, loc), nil
			}
		}
	}

	// Weekend, holiday or after the last window closed
	day, err := c.NextMarketDay(today)
	if err != nil {
		return "", "", time.Time{}, err
	}
	first := c.cal.Windows[0]
	return calendar.Closed, first.Session, at(day, first.Start, loc), nil
}

func at(d calendar.Date, minuteOfDay int, loc *time.Location) time.Time {
	return d.In(loc, minuteOfDay/minutesPerHour, minuteOfDay%minutesPerHour)
}
