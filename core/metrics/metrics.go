// Package metrics defines the sink interface used to record booking
// activity. Implementations live under infra.
package metrics

import "time"

// BookingSample describes one booking attempt outcome.
type BookingSample struct {
	UserID      string
	DepartureID int
	// Outcome is one of "success", "failure" or "unauthorized".
	Outcome string
	Latency time.Duration
}

// Sink records booking samples and scheduler state.
type Sink interface {
	RecordBooking(BookingSample) error
	RecordArmedSchedules(count int) error
}

// Nop discards all samples.
type Nop struct{}

func (Nop) RecordBooking(BookingSample) error { return nil }
func (Nop) RecordArmedSchedules(int) error    { return nil }
