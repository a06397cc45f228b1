package calendar

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the timing engine. Match with errors.Is.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrData          = errors.New("calendar data error")
	ErrRange         = errors.New("range error")
)

// ConfigurationError reports an unrecognized timezone identifier.
type ConfigurationError struct {
	Timezone string
	Err      error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("unsupported timezone %q: %v", e.Timezone, e.Err)
}

func (e *ConfigurationError) Unwrap() []error {
	return []error{ErrConfiguration, e.Err}
}

// DataError reports a calendar table that cannot answer a query, such as a
// next-market-day search that exhausts its bound.
type DataError struct {
	Reason string
}

func (e *DataError) Error() string {
	return "calendar data: " + e.Reason
}

func (e *DataError) Unwrap() error {
	return ErrData
}

// RangeError reports a negative duration or window handed to a formatter or projector.
type RangeError struct {
	Field string
	Value int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s must not be negative, got %d", e.Field, e.Value)
}

func (e *RangeError) Unwrap() error {
	return ErrRange
}
