package scheduler

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/tradedesk/internal/events"
	"github.com/aristath/tradedesk/internal/modules/alerts"
	"github.com/aristath/tradedesk/internal/modules/calendar"
	"github.com/aristath/tradedesk/internal/modules/market_hours"
	"github.com/aristath/tradedesk/internal/modules/timing"
)

type scriptedSource struct {
	mu      sync.Mutex
	results []sourceResult
	calls   int
	block   chan struct{}
	started chan struct{}
}

type sourceResult struct {
	snap timing.Snapshot
	err  error
}

func (s *scriptedSource) Snapshot(string) (timing.Snapshot, error) {
	s.mu.Lock()
	s.calls++
	idx := s.calls - 1
	block := s.block
	s.mu.Unlock()

	if block != nil {
		s.started <- struct{}{}
		<-block
	}
	if idx >= len(s.results) {
		idx = len(s.results) - 1
	}
	r := s.results[idx]
	return r.snap, r.err
}

type emitted struct {
	eventType events.EventType
	data      events.EventData
}

type fakeEvents struct {
	mu     sync.Mutex
	events []emitted
}

func (f *fakeEvents) EmitTyped(eventType events.EventType, _ string, data events.EventData) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, emitted{eventType: eventType, data: data})
}

func (f *fakeEvents) types() []events.EventType {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]events.EventType, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.eventType)
	}
	return out
}

func (f *fakeEvents) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = nil
}

func snapshot(session calendar.Session, generated time.Time, alertIDs ...string) timing.Snapshot {
	records := make([]alerts.Record, 0, len(alertIDs))
	for _, id := range alertIDs {
		records = append(records, alerts.Record{ID: id, Status: alerts.StatusTriggered})
	}
	return timing.Snapshot{
		Status:      market_hours.SessionStatus{Current: session, Next: calendar.AfterHours},
		Alerts:      records,
		GeneratedAt: generated,
	}
}

func newPollJob(source SnapshotSource, ev EventManagerInterface) *TimingPollJob {
	return NewTimingPollJob(TimingPollConfig{
		Source: source,
		Events: ev,
		Log:    zerolog.New(nil).Level(zerolog.Disabled),
	})
}

func TestTimingPollJob_KeepsLastKnownGood(t *testing.T) {
	t0 := time.Date(2024, 1, 16, 14, 30, 0, 0, time.UTC)
	source := &scriptedSource{results: []sourceResult{
		{snap: snapshot(calendar.RegularHours, t0, "market-open")},
		{err: &calendar.DataError{Reason: "gap"}},
	}}
	ev := &fakeEvents{}
	job := newPollJob(source, ev)

	_, ok := job.Latest()
	assert.False(t, ok)

	require.NoError(t, job.Run())
	latest, ok := job.Latest()
	require.True(t, ok)
	assert.True(t, t0.Equal(latest.GeneratedAt))

	err := job.Run()
	require.Error(t, err)
	assert.True(t, errors.Is(err, calendar.ErrData))
	assert.True(t, errors.Is(job.LastError(), calendar.ErrData))

	latest, ok = job.Latest()
	require.True(t, ok)
	assert.True(t, t0.Equal(latest.GeneratedAt), "failed poll must not replace the snapshot")
}

func TestTimingPollJob_Events(t *testing.T) {
	t0 := time.Date(2024, 1, 16, 14, 29, 0, 0, time.UTC)
	gap := &calendar.DataError{Reason: "gap"}
	source := &scriptedSource{results: []sourceResult{
		{snap: snapshot(calendar.PreMarket, t0, "premarket-active")},
		{snap: snapshot(calendar.PreMarket, t0.Add(time.Second), "premarket-active")},
		{snap: snapshot(calendar.RegularHours, t0.Add(time.Minute), "market-open")},
		{err: gap},
		{err: gap},
		{snap: snapshot(calendar.RegularHours, t0.Add(2*time.Minute), "market-open")},
	}}
	ev := &fakeEvents{}
	job := newPollJob(source, ev)

	require.NoError(t, job.Run())
	assert.Equal(t, []events.EventType{events.AlertsUpdated, events.SnapshotUpdated}, ev.types())

	ev.reset()
	require.NoError(t, job.Run())
	assert.Equal(t, []events.EventType{events.SnapshotUpdated}, ev.types(), "unchanged alerts are not re-announced")

	ev.reset()
	require.NoError(t, job.Run())
	assert.Equal(t, []events.EventType{events.SessionChanged, events.AlertsUpdated, events.SnapshotUpdated}, ev.types())
	changed := ev.events[0].data.(*events.SessionChangedData)
	assert.Equal(t, "Pre-Market", changed.From)
	assert.Equal(t, "Regular Hours", changed.To)

	ev.reset()
	require.Error(t, job.Run())
	require.Error(t, job.Run())
	assert.Equal(t, []events.EventType{events.TimingUnavailable}, ev.types(), "only the first failure is announced")
	assert.Equal(t, "data", ev.events[0].data.(*events.TimingUnavailableData).Kind)

	ev.reset()
	require.NoError(t, job.Run())
	assert.Equal(t, []events.EventType{events.TimingRecovered, events.SnapshotUpdated}, ev.types())
	assert.Equal(t, 2, ev.events[0].data.(*events.TimingRecoveredData).FailedPolls)
	assert.NoError(t, job.LastError())
}

func TestTimingPollJob_DropsOverlappingRun(t *testing.T) {
	source := &scriptedSource{
		results: []sourceResult{{snap: snapshot(calendar.Closed, time.Now())}},
		block:   make(chan struct{}),
		started: make(chan struct{}, 1),
	}
	job := newPollJob(source, nil)

	done := make(chan error, 1)
	go func() { done <- job.Run() }()
	<-source.started

	// A second tick while the first is still evaluating is dropped
	assert.NoError(t, job.Run())

	close(source.block)
	require.NoError(t, <-done)

	source.mu.Lock()
	defer source.mu.Unlock()
	assert.Equal(t, 1, source.calls)
}
