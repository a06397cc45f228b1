package market_hours

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/tradedesk/internal/modules/calendar"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		minutes  int
		expected string
	}{
		{0, "0m"},
		{45, "45m"},
		{59, "59m"},
		{60, "1h"},
		{90, "1h 30m"},
		{120, "2h"},
		{1439, "23h 59m"},
		{1440, "1d 0h"},
		{1500, "1d 1h"},
		{3840, "2d 16h"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			got, err := FormatDuration(tt.minutes)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFormatDuration_Negative(t *testing.T) {
	_, err := FormatDuration(-1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, calendar.ErrRange))
}

func TestClockLabel(t *testing.T) {
	assert.Equal(t, "4:00 AM", ClockLabel(240))
	assert.Equal(t, "9:30 AM", ClockLabel(570))
	assert.Equal(t, "12:00 PM", ClockLabel(720))
	assert.Equal(t, "8:00 PM", ClockLabel(1200))
}
