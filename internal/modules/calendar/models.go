// Package calendar holds the static market calendar: session windows, exchange
// holidays, the FOMC schedule and the recurring event templates the projector
// expands. A Calendar is built once at startup and is read-only afterwards.
package calendar

import (
	"fmt"
	"time"
)

// Session is one of the trading sessions of a market day.
type Session string

const (
	PreMarket    Session = "Pre-Market"
	RegularHours Session = "Regular Hours"
	AfterHours   Session = "After-Hours"
	Closed       Session = "Closed"
)

// Valid reports whether s is a known session.
func (s Session) Valid() bool {
	switch s {
	case PreMarket, RegularHours, AfterHours, Closed:
		return true
	}
	return false
}

// Category classifies a projected calendar event.
type Category string

const (
	CategoryFed             Category = "Fed"
	CategoryEconomic        Category = "Economic"
	CategoryEarnings        Category = "Earnings"
	CategoryOptions         Category = "Options"
	CategoryFutures         Category = "Futures"
	CategoryMarketStructure Category = "Market Structure"
)

// Impact is the qualitative severity attached to an event.
type Impact string

const (
	ImpactHigh   Impact = "High"
	ImpactMedium Impact = "Medium"
	ImpactLow    Impact = "Low"
)

// ParseImpact maps a label to an Impact.
func ParseImpact(s string) (Impact, error) {
	switch Impact(s) {
	case ImpactHigh, ImpactMedium, ImpactLow:
		return Impact(s), nil
	}
	return "", fmt.Errorf("unknown impact %q", s)
}

// SessionWindow is a session's boundaries in minutes since local midnight, [Start, End).
type SessionWindow struct {
	Session     Session
	Start       int
	End         int
	Description string
}

// Contains reports whether minuteOfDay falls in [Start, End).
func (w SessionWindow) Contains(minuteOfDay int) bool {
	return minuteOfDay >= w.Start && minuteOfDay < w.End
}

// StartClock returns the window start as hour and minute.
func (w SessionWindow) StartClock() (int, int) {
	return w.Start / 60, w.Start % 60
}

// EndClock returns the window end as hour and minute.
func (w SessionWindow) EndClock() (int, int) {
	return w.End / 60, w.End % 60
}

// Holiday is a full-day exchange closure.
type Holiday struct {
	Date Date
	Name string
}

// ClockTime is a wall-clock time of day in the exchange zone.
type ClockTime struct {
	Hour   int
	Minute int
}

// FOMCMeeting is a scheduled monetary policy decision.
type FOMCMeeting struct {
	Date Date
	Time ClockTime
}

// EconomicTemplate describes a monthly economic release. Exactly one anchor is set:
// DayOfMonth, or Weekday together with WeekOfMonth.
type EconomicTemplate struct {
	Key         string
	Name        string
	DayOfMonth  int
	Weekday     time.Weekday
	WeekOfMonth int
	Time        ClockTime
	Impact      Impact
	Description string
}

// EarningsWindow is one quarterly earnings season, expressed as month/day pairs.
type EarningsWindow struct {
	Quarter    string
	Label      string
	StartMonth time.Month
	StartDay   int
	EndMonth   time.Month
	EndDay     int
}

// Calendar is the complete read-only table set consumed by the timing engine.
type Calendar struct {
	Location         *time.Location
	Windows          []SessionWindow
	FOMCMeetings     []FOMCMeeting
	EconomicReleases []EconomicTemplate
	EarningsWindows  []EarningsWindow

	holidays map[int]map[Date]string
}

// New builds a calendar, validating the session windows.
func New(loc *time.Location, windows []SessionWindow, holidays []Holiday) (*Calendar, error) {
	if loc == nil {
		return nil, fmt.Errorf("calendar location is required")
	}
	if err := ValidateWindows(windows); err != nil {
		return nil, err
	}

	c := &Calendar{
		Location: loc,
		Windows:  append([]SessionWindow(nil), windows...),
		holidays: make(map[int]map[Date]string),
	}
	c.addHolidays(holidays)
	return c, nil
}

func (c *Calendar) addHolidays(holidays []Holiday) {
	for _, h := range holidays {
		byDate, ok := c.holidays[h.Date.Year]
		if !ok {
			byDate = make(map[Date]string)
			c.holidays[h.Date.Year] = byDate
		}
		byDate[h.Date] = h.Name
	}
}

// IsHoliday reports whether d is a listed holiday. Years absent from the table have none.
func (c *Calendar) IsHoliday(d Date) bool {
	_, ok := c.holidays[d.Year][d]
	return ok
}

// HasYear reports whether the holiday table covers year.
func (c *Calendar) HasYear(year int) bool {
	_, ok := c.holidays[year]
	return ok
}

// Holidays returns the holidays of a year in date order.
func (c *Calendar) Holidays(year int) []Holiday {
	byDate := c.holidays[year]
	out := make([]Holiday, 0, len(byDate))
	for d, name := range byDate {
		out = append(out, Holiday{Date: d, Name: name})
	}
	sortHolidays(out)
	return out
}

// Window returns the window of a trading session.
func (c *Calendar) Window(s Session) (SessionWindow, bool) {
	for _, w := range c.Windows {
		if w.Session == s {
			return w, true
		}
	}
	return SessionWindow{}, false
}

// ValidateWindows checks the pre-market, regular and after-hours windows are ordered,
// non-overlapping and inside one day.
func ValidateWindows(windows []SessionWindow) error {
	expected := []Session{PreMarket, RegularHours, AfterHours}
	if len(windows) != len(expected) {
		return fmt.Errorf("expected %d session windows, got %d", len(expected), len(windows))
	}
	prevEnd := 0
	for i, w := range windows {
		if w.Session != expected[i] {
			return fmt.Errorf("session window %d is %q, want %q", i, w.Session, expected[i])
		}
		if w.Start >= w.End {
			return fmt.Errorf("session %q: start %d is not before end %d", w.Session, w.Start, w.End)
		}
		if w.Start < prevEnd {
			return fmt.Errorf("session %q overlaps the previous window", w.Session)
		}
		if w.End > 24*60 {
			return fmt.Errorf("session %q ends after midnight", w.Session)
		}
		prevEnd = w.End
	}
	return nil
}
