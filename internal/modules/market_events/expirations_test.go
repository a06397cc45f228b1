package market_events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/tradedesk/internal/modules/calendar"
)

func TestThirdFriday(t *testing.T) {
	tests := []struct {
		year     int
		month    time.Month
		expected int
	}{
		{2024, time.January, 19},
		{2024, time.March, 15}, // the 1st is a Friday
		{2024, time.June, 21},  // the 1st is a Saturday
		{2024, time.September, 20},
		{2024, time.December, 20},
		{2025, time.February, 21},
		{2026, time.May, 15},
	}

	for _, tt := range tests {
		t.Run(tt.month.String(), func(t *testing.T) {
			d, ok := ThirdFriday(tt.year, tt.month)
			require.True(t, ok)
			assert.Equal(t, calendar.Date{Year: tt.year, Month: tt.month, Day: tt.expected}, d)
			assert.Equal(t, time.Friday, d.Weekday())
		})
	}
}

func TestOptionsExpirations_IncludesFirstDayFriday(t *testing.T) {
	dates := OptionsExpirations(2024, time.March)
	assert.Contains(t, dates, calendar.Date{Year: 2024, Month: time.March, Day: 15})
}

func TestIsQuarterEnd(t *testing.T) {
	var quarterly []time.Month
	for m := time.January; m <= time.December; m++ {
		if IsQuarterEnd(m) {
			quarterly = append(quarterly, m)
		}
	}
	assert.Equal(t, []time.Month{time.March, time.June, time.September, time.December}, quarterly)
}
