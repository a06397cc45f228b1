package market_events

import (
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/tradedesk/internal/modules/calendar"
)

const (
	DefaultHorizonDays    = 60
	DefaultEconomicMonths = 2

	maxEvents          = 20
	maxFedMeetings     = 4
	maxEarningsEvents  = 6
	maxQuadWitching    = 2
	optionsMonths      = 4
	quadWitchingMonths = 12
	earningsPeakOffset = 10
)

var optionsClose = calendar.ClockTime{Hour: 16}

// Projector expands the calendar tables into dated events. It holds no mutable state.
type Projector struct {
	cal            *calendar.Calendar
	economicMonths int
	log            zerolog.Logger
}

// NewProjector creates an event projector. economicMonths below one falls back to the default.
func NewProjector(cal *calendar.Calendar, economicMonths int, log zerolog.Logger) *Projector {
	if economicMonths < 1 {
		economicMonths = DefaultEconomicMonths
	}
	return &Projector{
		cal:            cal,
		economicMonths: economicMonths,
		log:            log.With().Str("component", "event_projector").Logger(),
	}
}

// Upcoming returns the events scheduled strictly after now whose distance in civil
// days is within horizonDays, nearest first, at most 20.
func (p *Projector) Upcoming(now time.Time, horizonDays int) ([]CalendarEvent, error) {
	if horizonDays < 0 {
		return nil, &calendar.RangeError{Field: "horizon_days", Value: horizonDays}
	}

	local := now.In(p.cal.Location)

	var all []CalendarEvent
	all = append(all, p.fedMeetings(local)...)
	all = append(all, p.economicReleases(local)...)
	all = append(all, p.earningsSeasons(local)...)
	all = append(all, p.optionsExpirations(local)...)
	all = append(all, p.quadWitching(local)...)

	today := calendar.DateOf(local)
	events := make([]CalendarEvent, 0, len(all))
	for _, ev := range all {
		ev.DaysUntil = today.DaysUntil(ev.Date)
		if ev.DaysUntil >= 0 && ev.DaysUntil <= horizonDays {
			events = append(events, ev)
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].DaysUntil < events[j].DaysUntil
	})

	if len(events) > maxEvents {
		events = events[:maxEvents]
	}
	return events, nil
}

func (p *Projector) fedMeetings(now time.Time) []CalendarEvent {
	events := make([]CalendarEvent, 0, maxFedMeetings)
	for _, m := range p.cal.FOMCMeetings {
		at := m.Date.In(p.cal.Location, m.Time.Hour, m.Time.Minute)
		if !at.After(now) {
			continue
		}
		events = append(events, CalendarEvent{
			ID:          "fomc-" + m.Date.String(),
			Title:       "Federal Reserve Meeting",
			Category:    calendar.CategoryFed,
			Date:        m.Date,
			Time:        displayTime(at),
			At:          at,
			Impact:      calendar.ImpactHigh,
			Description: "Interest rate decision and policy statement",
		})
		if len(events) == maxFedMeetings {
			break
		}
	}
	return events
}

func (p *Projector) economicReleases(now time.Time) []CalendarEvent {
	var events []CalendarEvent
	first := calendar.DateOf(now)
	for i := 0; i < p.economicMonths; i++ {
		month := calendar.NewDate(first.Year, first.Month+time.Month(i), 1)

		for _, tmpl := range p.cal.EconomicReleases {
			d, err := placeRelease(tmpl, month.Year, month.Month)
			if err != nil {
				p.log.Debug().
					Err(err).
					Str("release", tmpl.Key).
					Str("month", fmt.Sprintf("%d-%02d", month.Year, int(month.Month))).
					Msg("Skipping economic release")
				continue
			}

			at := d.In(p.cal.Location, tmpl.Time.Hour, tmpl.Time.Minute)
			if !at.After(now) {
				continue
			}
			impact := tmpl.Impact
			if impact == "" {
				impact = calendar.ImpactMedium
			}
			events = append(events, CalendarEvent{
				ID:          fmt.Sprintf("econ-%s-%d-%02d", tmpl.Key, d.Year, int(d.Month)),
				Title:       tmpl.Name,
				Category:    calendar.CategoryEconomic,
				Date:        d,
				Time:        displayTime(at),
				At:          at,
				Impact:      impact,
				Description: tmpl.Description,
			})
		}
	}
	return events
}

// placeRelease returns the date of a monthly release in the given month.
func placeRelease(tmpl calendar.EconomicTemplate, year int, month time.Month) (calendar.Date, error) {
	if tmpl.Key == "" || tmpl.Name == "" {
		return calendar.Date{}, fmt.Errorf("release template has no key or name")
	}
	if tmpl.Time.Hour < 0 || tmpl.Time.Hour > 23 || tmpl.Time.Minute < 0 || tmpl.Time.Minute > 59 {
		return calendar.Date{}, fmt.Errorf("invalid release time %s", tmpl.Time)
	}

	switch {
	case tmpl.DayOfMonth > 0:
		if tmpl.DayOfMonth > calendar.DaysInMonth(year, month) {
			return calendar.Date{}, fmt.Errorf("day %d does not exist in %s", tmpl.DayOfMonth, month)
		}
		return calendar.Date{Year: year, Month: month, Day: tmpl.DayOfMonth}, nil
	case tmpl.WeekOfMonth > 0:
		d, ok := calendar.NthWeekday(year, month, tmpl.Weekday, tmpl.WeekOfMonth)
		if !ok {
			return calendar.Date{}, fmt.Errorf("no %s #%d in %s", tmpl.Weekday, tmpl.WeekOfMonth, month)
		}
		return d, nil
	}
	return calendar.Date{}, fmt.Errorf("release template has no day anchor")
}

func (p *Projector) earningsSeasons(now time.Time) []CalendarEvent {
	events := make([]CalendarEvent, 0, maxEarningsEvents)
	year := now.Year()

	for _, y := range []int{year, year + 1} {
		for _, w := range p.cal.EarningsWindows {
			if w.StartDay < 1 || w.StartDay > calendar.DaysInMonth(y, w.StartMonth) {
				p.log.Debug().Str("quarter", w.Quarter).Int("year", y).Msg("Skipping earnings window with invalid start")
				continue
			}
			start := calendar.Date{Year: y, Month: w.StartMonth, Day: w.StartDay}
			peak := start.AddDays(earningsPeakOffset)

			if at := start.In(p.cal.Location, 0, 0); at.After(now) {
				events = append(events, CalendarEvent{
					ID:          fmt.Sprintf("earnings-start-%d-%s", y, w.Quarter),
					Title:       "Earnings Season Begins",
					Category:    calendar.CategoryEarnings,
					Date:        start,
					Time:        Untimed,
					At:          at,
					Impact:      calendar.ImpactHigh,
					Description: w.Label + " earnings season begins",
				})
			}
			if at := peak.In(p.cal.Location, 0, 0); at.After(now) {
				events = append(events, CalendarEvent{
					ID:          fmt.Sprintf("earnings-peak-%d-%s", y, w.Quarter),
					Title:       "Earnings Season Peak",
					Category:    calendar.CategoryEarnings,
					Date:        peak,
					Time:        Untimed,
					At:          at,
					Impact:      calendar.ImpactMedium,
					Description: "Peak of " + w.Label + " earnings releases",
				})
			}
		}
	}

	if len(events) > maxEarningsEvents {
		events = events[:maxEarningsEvents]
	}
	return events
}

func (p *Projector) optionsExpirations(now time.Time) []CalendarEvent {
	var events []CalendarEvent
	first := calendar.DateOf(now)
	for i := 0; i < optionsMonths; i++ {
		month := calendar.NewDate(first.Year, first.Month+time.Month(i), 1)
		for _, d := range OptionsExpirations(month.Year, month.Month) {
			at := d.In(p.cal.Location, optionsClose.Hour, optionsClose.Minute)
			if !at.After(now) {
				continue
			}
			events = append(events, CalendarEvent{
				ID:          fmt.Sprintf("options-%d-%02d", d.Year, int(d.Month)),
				Title:       "Options Expiration",
				Category:    calendar.CategoryOptions,
				Date:        d,
				Time:        displayTime(at),
				At:          at,
				Impact:      calendar.ImpactMedium,
				Description: "Monthly options expiration (OpEx)",
			})
		}
	}
	return events
}

func (p *Projector) quadWitching(now time.Time) []CalendarEvent {
	events := make([]CalendarEvent, 0, maxQuadWitching)
	first := calendar.DateOf(now)
	for i := 0; i < quadWitchingMonths && len(events) < maxQuadWitching; i++ {
		month := calendar.NewDate(first.Year, first.Month+time.Month(i), 1)
		if !IsQuarterEnd(month.Month) {
			continue
		}
		for _, d := range OptionsExpirations(month.Year, month.Month) {
			at := d.In(p.cal.Location, optionsClose.Hour, optionsClose.Minute)
			if !at.After(now) {
				continue
			}
			events = append(events, CalendarEvent{
				ID:          fmt.Sprintf("quad-witch-%d-%02d", d.Year, int(d.Month)),
				Title:       "Quadruple Witching",
				Category:    calendar.CategoryMarketStructure,
				Date:        d,
				Time:        displayTime(at),
				At:          at,
				Impact:      calendar.ImpactHigh,
				Description: "Quarterly expiration of stocks, stock index futures, stock index options, and stock options",
			})
		}
	}
	return events
}

func displayTime(at time.Time) string {
	return at.Format("03:04 PM MST")
}
