package market_hours

import "github.com/aristath/tradedesk/internal/modules/calendar"

var boardLabels = map[calendar.Session]struct {
	title     string
	nextEvent string
}{
	calendar.PreMarket:    {"Pre-Market Trading", "Market Open"},
	calendar.RegularHours: {"Regular Trading Hours", "Market Close"},
	calendar.AfterHours:   {"After-Hours Trading", "After-Hours End"},
}

// Board lists the trading sessions of the day with their state relative to status.
func (c *Clock) Board(status SessionStatus) []SessionInfo {
	board := make([]SessionInfo, 0, len(c.cal.Windows))
	for _, w := range c.cal.Windows {
		state := BoardClosed
		switch w.Session {
		case status.Current:
			state = BoardActive
		case status.Next:
			state = BoardUpcoming
		}

		labels := boardLabels[w.Session]
		board = append(board, SessionInfo{
			Session:     w.Session,
			Title:       labels.title,
			StartTime:   ClockLabel(w.Start),
			EndTime:     ClockLabel(w.End),
			Status:      state,
			NextEvent:   labels.nextEvent,
			NextTime:    ClockLabel(w.End),
			Description: w.Description,
		})
	}
	return board
}
