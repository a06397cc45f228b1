package calendar

import (
	"fmt"
	"time"
)

// DefaultTimezone is the exchange zone of the US equity sessions.
const DefaultTimezone = "America/New_York"

// Built-in holiday coverage. Years outside this range have no holidays unless an
// overlay adds them.
const (
	FirstHolidayYear = 2024
	LastHolidayYear  = 2030
)

// DefaultWindows returns the US equity session windows in exchange-local time.
func DefaultWindows() []SessionWindow {
	return []SessionWindow{
		{Session: PreMarket, Start: 4 * 60, End: 9*60 + 30, Description: "Extended hours trading before market open"},
		{Session: RegularHours, Start: 9*60 + 30, End: 16 * 60, Description: "Primary trading session"},
		{Session: AfterHours, Start: 16 * 60, End: 20 * 60, Description: "Extended hours trading after market close"},
	}
}

var policyDecision = ClockTime{Hour: 14, Minute: 0}

// DefaultFOMCMeetings returns the published FOMC decision days.
func DefaultFOMCMeetings() []FOMCMeeting {
	dates := []string{
		"2024-01-31", "2024-03-20", "2024-05-01", "2024-06-12",
		"2024-07-31", "2024-09-18", "2024-11-07", "2024-12-18",
		"2025-01-29", "2025-03-19", "2025-05-07", "2025-06-18",
		"2025-07-30", "2025-09-17", "2025-10-29", "2025-12-10",
		"2026-01-28", "2026-03-18", "2026-04-29", "2026-06-17",
		"2026-07-29", "2026-09-16", "2026-10-28", "2026-12-09",
	}
	meetings := make([]FOMCMeeting, 0, len(dates))
	for _, s := range dates {
		d, err := ParseDate(s)
		if err != nil {
			panic(fmt.Sprintf("calendar: bad built-in FOMC date %q", s))
		}
		meetings = append(meetings, FOMCMeeting{Date: d, Time: policyDecision})
	}
	return meetings
}

// DefaultEconomicReleases returns the monthly release templates.
func DefaultEconomicReleases() []EconomicTemplate {
	release := ClockTime{Hour: 8, Minute: 30}
	return []EconomicTemplate{
		{
			Key:         "nfp",
			Name:        "Non-Farm Payrolls",
			Weekday:     time.Friday,
			WeekOfMonth: 1,
			Time:        release,
			Impact:      ImpactHigh,
			Description: "Monthly employment data release",
		},
		{
			Key:         "cpi",
			Name:        "Consumer Price Index (CPI)",
			DayOfMonth:  13,
			Time:        release,
			Impact:      ImpactHigh,
			Description: "Monthly inflation data release",
		},
		{
			Key:         "ppi",
			Name:        "Producer Price Index (PPI)",
			DayOfMonth:  14,
			Time:        release,
			Impact:      ImpactMedium,
			Description: "Wholesale inflation data",
		},
		{
			Key:         "retail-sales",
			Name:        "Retail Sales",
			DayOfMonth:  15,
			Time:        release,
			Impact:      ImpactMedium,
			Description: "Monthly consumer spending data",
		},
	}
}

// DefaultEarningsWindows returns the four quarterly earnings seasons.
func DefaultEarningsWindows() []EarningsWindow {
	return []EarningsWindow{
		{Quarter: "q4", Label: "Q4 Previous Year", StartMonth: time.January, StartDay: 15, EndMonth: time.February, EndDay: 28},
		{Quarter: "q1", Label: "Q1", StartMonth: time.April, StartDay: 15, EndMonth: time.May, EndDay: 31},
		{Quarter: "q2", Label: "Q2", StartMonth: time.July, StartDay: 15, EndMonth: time.August, EndDay: 31},
		{Quarter: "q3", Label: "Q3", StartMonth: time.October, StartDay: 15, EndMonth: time.November, EndDay: 30},
	}
}

// DefaultHolidays returns the NYSE holidays for the built-in year range.
func DefaultHolidays() []Holiday {
	var out []Holiday
	for year := FirstHolidayYear; year <= LastHolidayYear; year++ {
		out = append(out, NYSEHolidays(year)...)
	}
	return out
}

// Default builds the US equity calendar in loc.
func Default(loc *time.Location) (*Calendar, error) {
	c, err := New(loc, DefaultWindows(), DefaultHolidays())
	if err != nil {
		return nil, err
	}
	c.FOMCMeetings = DefaultFOMCMeetings()
	c.EconomicReleases = DefaultEconomicReleases()
	c.EarningsWindows = DefaultEarningsWindows()
	return c, nil
}
