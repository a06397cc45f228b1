// Package events provides the in-process event bus used to push timing updates to
// stream subscribers.
package events

import "time"

// EventType represents different event types
type EventType string

const (
	SnapshotUpdated   EventType = "TIMING_SNAPSHOT_UPDATED"
	SessionChanged    EventType = "SESSION_CHANGED"
	AlertsUpdated     EventType = "ALERTS_UPDATED"
	TimingUnavailable EventType = "TIMING_UNAVAILABLE"
	TimingRecovered   EventType = "TIMING_RECOVERED"
	ErrorOccurred     EventType = "ERROR_OCCURRED"
)

// Event represents a system event
type Event struct {
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
	Module    string                 `json:"module"`
}
