package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEaster(t *testing.T) {
	tests := []struct {
		year     int
		expected Date
	}{
		{2024, Date{2024, time.March, 31}},
		{2025, Date{2025, time.April, 20}},
		{2026, Date{2026, time.April, 5}},
		{2027, Date{2027, time.March, 28}},
		{2028, Date{2028, time.April, 16}},
		{2029, Date{2029, time.April, 1}},
		{2030, Date{2030, time.April, 21}},
	}

	for _, tt := range tests {
		t.Run(tt.expected.String(), func(t *testing.T) {
			result := Easter(tt.year)
			assert.Equal(t, tt.expected, result)
			assert.Equal(t, time.Sunday, result.Weekday())
		})
	}
}

func TestNthWeekday(t *testing.T) {
	tests := []struct {
		name     string
		year     int
		month    time.Month
		weekday  time.Weekday
		n        int
		expected Date
		ok       bool
	}{
		{"MLK 2024", 2024, time.January, time.Monday, 3, Date{2024, time.January, 15}, true},
		{"Labor Day 2024", 2024, time.September, time.Monday, 1, Date{2024, time.September, 2}, true},
		{"Thanksgiving 2024", 2024, time.November, time.Thursday, 4, Date{2024, time.November, 28}, true},
		{"first Friday when month starts on Friday", 2024, time.March, time.Friday, 1, Date{2024, time.March, 1}, true},
		{"first Friday when month starts on Saturday", 2024, time.June, time.Friday, 1, Date{2024, time.June, 7}, true},
		{"no fifth Monday", 2024, time.February, time.Monday, 5, Date{}, false},
		{"zero occurrence", 2024, time.February, time.Monday, 0, Date{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, ok := NthWeekday(tt.year, tt.month, tt.weekday, tt.n)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestLastWeekday(t *testing.T) {
	assert.Equal(t, Date{2024, time.May, 27}, LastWeekday(2024, time.May, time.Monday))
	assert.Equal(t, Date{2025, time.May, 26}, LastWeekday(2025, time.May, time.Monday))
	assert.Equal(t, Date{2021, time.May, 31}, LastWeekday(2021, time.May, time.Monday))
}

func TestNYSEHolidays_2024(t *testing.T) {
	expected := []string{
		"2024-01-01", "2024-01-15", "2024-02-19", "2024-03-29", "2024-05-27",
		"2024-06-19", "2024-07-04", "2024-09-02", "2024-11-28", "2024-12-25",
	}

	holidays := NYSEHolidays(2024)
	require.Len(t, holidays, len(expected))

	for i, h := range holidays {
		assert.Equal(t, expected[i], h.Date.String(), h.Name)
		assert.False(t, h.Date.IsWeekend(), h.Name)
	}
}

func TestNYSEHolidays_ObservedRules(t *testing.T) {
	byName := func(year int) map[string]Date {
		out := make(map[string]Date)
		for _, h := range NYSEHolidays(year) {
			out[h.Name] = h.Date
		}
		return out
	}

	// Independence Day 2026 is a Saturday, observed Friday July 3
	assert.Equal(t, Date{2026, time.July, 3}, byName(2026)["Independence Day"])

	// Juneteenth 2027 is a Saturday, observed Friday June 18
	assert.Equal(t, Date{2027, time.June, 18}, byName(2027)["Juneteenth"])

	// New Year's Day 2023 is a Sunday, observed Monday January 2
	assert.Equal(t, Date{2023, time.January, 2}, byName(2023)["New Year's Day"])

	// New Year's Day 2028 is a Saturday and is not observed
	_, ok := byName(2028)["New Year's Day"]
	assert.False(t, ok)

	// Juneteenth is not listed before 2022
	_, ok = byName(2021)["Juneteenth"]
	assert.False(t, ok)
}
