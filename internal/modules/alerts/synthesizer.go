package alerts

import (
	"fmt"

	"github.com/aristath/tradedesk/internal/modules/calendar"
	"github.com/aristath/tradedesk/internal/modules/market_events"
	"github.com/aristath/tradedesk/internal/modules/market_hours"
)

const (
	timeLayout      = "15:04"
	timestampLayout = "2006-01-02 15:04:05"

	// High impact events this many days out still raise an alert.
	highImpactDays = 3
)

var sessionAlerts = map[calendar.Session]struct {
	id      string
	kind    Kind
	message string
}{
	calendar.PreMarket:    {"premarket-active", KindSessionActive, "Pre-market trading is currently active"},
	calendar.RegularHours: {"market-open", KindMarketOpen, "Regular trading session is now active"},
	calendar.AfterHours:   {"afterhours-active", KindAfterHoursActive, "After-hours trading is currently active"},
}

// Synthesizer applies the alert rules. Session start times come from the calendar windows.
type Synthesizer struct {
	cal *calendar.Calendar
}

// NewSynthesizer creates an alert synthesizer
func NewSynthesizer(cal *calendar.Calendar) *Synthesizer {
	return &Synthesizer{cal: cal}
}

// Synthesize returns the session alerts followed by one alert per qualifying event.
// Timestamps are the evaluation time on the exchange clock, whatever zone status was read in.
func (s *Synthesizer) Synthesize(status market_hours.SessionStatus, events []market_events.CalendarEvent) []Record {
	local := status.AsOf.In(s.cal.Location)
	stamp := local.Format(timestampLayout)
	records := make([]Record, 0, len(events)+2)

	if a, ok := sessionAlerts[status.Current]; ok {
		var start string
		if w, found := s.cal.Window(status.Current); found {
			start = market_hours.ClockLabel(w.Start)
		}
		records = append(records, Record{
			ID:        a.id,
			Kind:      a.kind,
			Message:   a.message,
			Status:    StatusTriggered,
			Time:      start,
			Timestamp: stamp,
			Category:  CategorySession,
		})
	}

	if status.Next != calendar.Closed {
		records = append(records, Record{
			ID:        "next-session",
			Kind:      KindUpcomingSession,
			Message:   fmt.Sprintf("%s will begin in %s", status.Next, status.TimeUntilNext),
			Status:    StatusPending,
			Time:      status.NextEventTime,
			Timestamp: stamp,
			Category:  CategorySession,
		})
	}

	evaluated := local.Format(timeLayout)
	for _, ev := range events {
		r, ok := eventAlert(ev)
		if !ok {
			continue
		}
		r.Time = evaluated
		r.Timestamp = stamp
		r.Category = string(ev.Category)
		records = append(records, r)
	}
	return records
}

func eventAlert(ev market_events.CalendarEvent) (Record, bool) {
	switch {
	case ev.DaysUntil == 0:
		return Record{
			ID:      "event-today-" + ev.ID,
			Kind:    KindEventToday,
			Message: fmt.Sprintf("%s is scheduled for today at %s", ev.Title, ev.Time),
			Status:  StatusTriggered,
		}, true
	case ev.DaysUntil == 1:
		return Record{
			ID:      "event-tomorrow-" + ev.ID,
			Kind:    KindEventTomorrow,
			Message: fmt.Sprintf("%s is scheduled for tomorrow at %s", ev.Title, ev.Time),
			Status:  StatusPending,
		}, true
	case ev.DaysUntil >= 2 && ev.DaysUntil <= highImpactDays && ev.Impact == calendar.ImpactHigh:
		return Record{
			ID:      "high-impact-" + ev.ID,
			Kind:    KindHighImpact,
			Message: fmt.Sprintf("%s in %d days - High market impact expected", ev.Title, ev.DaysUntil),
			Status:  StatusPending,
		}, true
	}
	return Record{}, false
}
