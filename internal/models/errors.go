package models

import (
	"errors"
	"fmt"
	"time"
)

// InvalidDurationError is returned when a task duration is zero or negative.
type InvalidDurationError struct {
	Field string
	Value time.Duration
}

func (e *InvalidDurationError) Error() string {
	return fmt.Sprintf("invalid %s: %s must be positive", e.Field, e.Value)
}

func IsInvalidDuration(err error) bool {
	var de *InvalidDurationError
	return errors.As(err, &de)
}

// ValidateDurations checks both task durations, make first.
func ValidateDurations(makeDuration, serveDuration time.Duration) error {
	if makeDuration <= 0 {
		return &InvalidDurationError{Field: "make_duration", Value: makeDuration}
	}
	if serveDuration <= 0 {
		return &InvalidDurationError{Field: "serve_duration", Value: serveDuration}
	}
	return nil
}

// ClockRegressionWarning reports an arrival recorded earlier than the one
// before it. It is logged, never returned as a failure; the arrival is
// still replayed in insertion order.
type ClockRegressionWarning struct {
	OrderNumber int
	Previous    time.Time
	Arrival     time.Time
}

func (w *ClockRegressionWarning) Error() string {
	return fmt.Sprintf("order %d arrived at %s, before previous arrival at %s",
		w.OrderNumber, w.Arrival.Format(time.RFC3339), w.Previous.Format(time.RFC3339))
}
