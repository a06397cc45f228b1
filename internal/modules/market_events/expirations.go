package market_events

import (
	"time"

	"github.com/aristath/tradedesk/internal/modules/calendar"
)

// ThirdFriday returns the third Friday of the month: the first Friday is day
// 1 + (5 - weekday of the 1st + 7) % 7, and two weeks later is the third.
func ThirdFriday(year int, month time.Month) (calendar.Date, bool) {
	return calendar.NthWeekday(year, month, time.Friday, 3)
}

// OptionsExpirations returns the monthly options expiration dates of a month.
func OptionsExpirations(year int, month time.Month) []calendar.Date {
	d, ok := ThirdFriday(year, month)
	if !ok {
		return nil
	}
	return []calendar.Date{d}
}

// IsQuarterEnd reports whether month carries a quarterly (quadruple witching) expiration.
func IsQuarterEnd(month time.Month) bool {
	switch month {
	case time.March, time.June, time.September, time.December:
		return true
	}
	return false
}
