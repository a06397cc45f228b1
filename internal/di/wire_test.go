package di

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/tradedesk/internal/config"
	"github.com/aristath/tradedesk/internal/modules/calendar"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		DataDir:        t.TempDir(),
		LogLevel:       "info",
		Port:           8080,
		Timezone:       calendar.DefaultTimezone,
		HorizonDays:    60,
		EconomicMonths: 2,
		PollInterval:   time.Second,
	}
}

func TestWire(t *testing.T) {
	cfg := testConfig(t)
	log := zerolog.Nop()

	container, jobs, err := Wire(context.Background(), cfg, log)
	require.NoError(t, err)
	t.Cleanup(container.Close)

	assert.NotNil(t, container.CalendarDB)
	assert.NotNil(t, container.CalendarRepo)
	assert.NotNil(t, container.TimingService)
	assert.NotNil(t, container.Metrics)
	assert.NotNil(t, container.EventManager)
	assert.NotNil(t, container.Scheduler)
	assert.FileExists(t, filepath.Join(cfg.DataDir, "calendar.db"))

	assert.True(t, container.Calendar.HasYear(2024))
	assert.Len(t, container.Calendar.FOMCMeetings, len(calendar.DefaultFOMCMeetings()))

	require.NotNil(t, jobs.TimingPoll)
	require.NotNil(t, jobs.CheckCalendar)
	assert.Len(t, jobs.All(), 2)

	require.NoError(t, jobs.TimingPoll.Run())
	snap, ok := jobs.TimingPoll.Latest()
	require.True(t, ok)
	assert.Equal(t, calendar.DefaultTimezone, snap.Status.Timezone)
	assert.NoError(t, jobs.CheckCalendar.Run())
}

func TestWire_WithOverlay(t *testing.T) {
	cfg := testConfig(t)
	cfg.CalendarFile = filepath.Join(cfg.DataDir, "calendar.yaml")
	overlay := []byte("holidays:\n  - date: \"2031-01-01\"\n    name: New Year's Day\n")
	require.NoError(t, os.WriteFile(cfg.CalendarFile, overlay, 0644))

	container, _, err := Wire(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(container.Close)

	assert.True(t, container.Calendar.HasYear(2031))
	assert.True(t, container.Calendar.IsHoliday(calendar.NewDate(2031, time.January, 1)))
}

func TestWire_BadTimezone(t *testing.T) {
	cfg := testConfig(t)
	cfg.Timezone = "Nowhere/Land"

	_, _, err := Wire(context.Background(), cfg, zerolog.Nop())
	require.Error(t, err)
	assert.True(t, errors.Is(err, calendar.ErrConfiguration))
}
