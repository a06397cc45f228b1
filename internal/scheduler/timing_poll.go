package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/tradedesk/internal/events"
	"github.com/aristath/tradedesk/internal/metrics"
	"github.com/aristath/tradedesk/internal/modules/alerts"
	"github.com/aristath/tradedesk/internal/modules/timing"
)

// SnapshotSource evaluates the timing engine.
type SnapshotSource interface {
	Snapshot(tz string) (timing.Snapshot, error)
}

// EventManagerInterface defines the contract for event emission
type EventManagerInterface interface {
	EmitTyped(eventType events.EventType, module string, data events.EventData)
}

// PollRecorder records poll outcomes.
type PollRecorder interface {
	RecordPoll(err error, generatedAt time.Time)
}

type nopPollRecorder struct{}

func (nopPollRecorder) RecordPoll(error, time.Time) {}

// TimingPollJob re-evaluates the timing engine on every tick and keeps the last
// successful snapshot. A failed evaluation leaves the previous snapshot in place.
type TimingPollJob struct {
	source   SnapshotSource
	events   EventManagerInterface
	recorder PollRecorder
	log      zerolog.Logger

	// held for the duration of a run; overlapping runs are dropped
	running sync.Mutex

	mu       sync.RWMutex
	latest   *timing.Snapshot
	lastErr  error
	failures int
}

// TimingPollConfig holds the dependencies of the poll job
type TimingPollConfig struct {
	Source   SnapshotSource
	Events   EventManagerInterface
	Recorder PollRecorder
	Log      zerolog.Logger
}

// NewTimingPollJob creates the timing poll job
func NewTimingPollJob(cfg TimingPollConfig) *TimingPollJob {
	recorder := cfg.Recorder
	if recorder == nil {
		recorder = nopPollRecorder{}
	}
	return &TimingPollJob{
		source:   cfg.Source,
		events:   cfg.Events,
		recorder: recorder,
		log:      cfg.Log.With().Str("job", "timing_poll").Logger(),
	}
}

// Name returns the job name
func (j *TimingPollJob) Name() string {
	return "timing_poll"
}

// Run evaluates one snapshot.
func (j *TimingPollJob) Run() error {
	if !j.running.TryLock() {
		j.log.Debug().Msg("Previous poll still running, dropping tick")
		return nil
	}
	defer j.running.Unlock()

	snap, err := j.source.Snapshot("")
	j.recorder.RecordPoll(err, snap.GeneratedAt)
	if err != nil {
		j.recordFailure(err)
		return fmt.Errorf("timing snapshot failed: %w", err)
	}

	j.mu.Lock()
	prev := j.latest
	failures := j.failures
	j.latest = &snap
	j.lastErr = nil
	j.failures = 0
	j.mu.Unlock()

	j.publish(prev, &snap, failures)
	return nil
}

func (j *TimingPollJob) recordFailure(err error) {
	j.mu.Lock()
	j.lastErr = err
	j.failures++
	first := j.failures == 1
	j.mu.Unlock()

	// Only the transition into failure is announced
	if first && j.events != nil {
		j.events.EmitTyped(events.TimingUnavailable, "scheduler", &events.TimingUnavailableData{
			Error: err.Error(),
			Kind:  metrics.ErrorKind(err),
		})
	}
}

func (j *TimingPollJob) publish(prev, snap *timing.Snapshot, failures int) {
	if j.events == nil {
		return
	}

	if failures > 0 {
		j.events.EmitTyped(events.TimingRecovered, "scheduler", &events.TimingRecoveredData{FailedPolls: failures})
	}

	if prev != nil && prev.Status.Current != snap.Status.Current {
		j.log.Info().
			Str("from", string(prev.Status.Current)).
			Str("to", string(snap.Status.Current)).
			Msg("Market session changed")
		j.events.EmitTyped(events.SessionChanged, "scheduler", &events.SessionChangedData{
			From: string(prev.Status.Current),
			To:   string(snap.Status.Current),
			At:   snap.GeneratedAt,
		})
	}

	ids := alertIDs(snap)
	if prev == nil || !sameIDs(alertIDs(prev), ids) {
		triggered := 0
		for _, a := range snap.Alerts {
			if a.Status == alerts.StatusTriggered {
				triggered++
			}
		}
		j.events.EmitTyped(events.AlertsUpdated, "scheduler", &events.AlertsUpdatedData{
			Count:     len(snap.Alerts),
			Triggered: triggered,
			IDs:       ids,
		})
	}

	j.events.EmitTyped(events.SnapshotUpdated, "scheduler", &events.SnapshotUpdatedData{
		GeneratedAt: snap.GeneratedAt,
		Session:     string(snap.Status.Current),
		NextSession: string(snap.Status.Next),
		Events:      len(snap.Events),
		Alerts:      len(snap.Alerts),
	})
}

// Latest returns the last successful snapshot.
func (j *TimingPollJob) Latest() (timing.Snapshot, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.latest == nil {
		return timing.Snapshot{}, false
	}
	return *j.latest, true
}

// LastError returns the error of the most recent poll, nil after a success.
func (j *TimingPollJob) LastError() error {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.lastErr
}

func alertIDs(snap *timing.Snapshot) []string {
	ids := make([]string, 0, len(snap.Alerts))
	for _, a := range snap.Alerts {
		ids = append(ids, a.ID)
	}
	return ids
}

func sameIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
