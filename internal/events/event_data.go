package events

import (
	"encoding/json"
	"time"
)

// EventData is the interface that all event data types must implement
type EventData interface {
	// EventType returns the event type this data is associated with
	EventType() EventType
}

// SnapshotUpdatedData contains data for SnapshotUpdated events
type SnapshotUpdatedData struct {
	GeneratedAt time.Time `json:"generated_at"`
	Session     string    `json:"session"`
	NextSession string    `json:"next_session"`
	Events      int       `json:"events"`
	Alerts      int       `json:"alerts"`
}

// EventType returns the event type for SnapshotUpdatedData
func (d *SnapshotUpdatedData) EventType() EventType {
	return SnapshotUpdated
}

// SessionChangedData contains data for SessionChanged events
type SessionChangedData struct {
	From string    `json:"from"`
	To   string    `json:"to"`
	At   time.Time `json:"at"`
}

// EventType returns the event type for SessionChangedData
func (d *SessionChangedData) EventType() EventType {
	return SessionChanged
}

// AlertsUpdatedData contains data for AlertsUpdated events
type AlertsUpdatedData struct {
	Count     int      `json:"count"`
	Triggered int      `json:"triggered"`
	IDs       []string `json:"ids"`
}

// EventType returns the event type for AlertsUpdatedData
func (d *AlertsUpdatedData) EventType() EventType {
	return AlertsUpdated
}

// TimingUnavailableData contains data for TimingUnavailable events
type TimingUnavailableData struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// EventType returns the event type for TimingUnavailableData
func (d *TimingUnavailableData) EventType() EventType {
	return TimingUnavailable
}

// TimingRecoveredData contains data for TimingRecovered events
type TimingRecoveredData struct {
	FailedPolls int `json:"failed_polls"`
}

// EventType returns the event type for TimingRecoveredData
func (d *TimingRecoveredData) EventType() EventType {
	return TimingRecovered
}

// ErrorEventData contains data for ErrorOccurred events
type ErrorEventData struct {
	Error   string                 `json:"error"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// EventType returns the event type for ErrorEventData
func (d *ErrorEventData) EventType() EventType {
	return ErrorOccurred
}

// GetTypedData converts the Data map back to the typed payload of the event.
// Returns nil for unknown types or undecodable data.
func (e *Event) GetTypedData() EventData {
	if e.Data == nil {
		return nil
	}

	var data EventData
	switch e.Type {
	case SnapshotUpdated:
		data = &SnapshotUpdatedData{}
	case SessionChanged:
		data = &SessionChangedData{}
	case AlertsUpdated:
		data = &AlertsUpdatedData{}
	case TimingUnavailable:
		data = &TimingUnavailableData{}
	case TimingRecovered:
		data = &TimingRecoveredData{}
	case ErrorOccurred:
		data = &ErrorEventData{}
	default:
		return nil
	}

	if err := convertMapToStruct(e.Data, data); err != nil {
		return nil
	}
	return data
}

// convertMapToStruct converts a map[string]interface{} to a struct
func convertMapToStruct(m map[string]interface{}, v interface{}) error {
	jsonBytes, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return json.Unmarshal(jsonBytes, v)
}

// convertEventDataToMap converts typed EventData to the map carried on the bus
func convertEventDataToMap(data EventData) map[string]interface{} {
	if data == nil {
		return nil
	}

	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil
	}

	var result map[string]interface{}
	if err := json.Unmarshal(jsonBytes, &result); err != nil {
		return nil
	}
	return result
}
