// Package audit persists booking attempt records to an append-only sink.
package audit

import (
	"context"
	"time"
)

// Record captures one booking attempt and its outcome.
type Record struct {
	AttemptID   string    `json:"attempt_id"`
	Timestamp   time.Time `json:"timestamp"`
	UserID      string    `json:"user_id"`
	DepartureID int       `json:"departure_id"`
	Outcome     string    `json:"outcome"`
	// Detail holds the response body on success or the error message on
	// failure.
	Detail string `json:"detail,omitempty"`
}

// Query defines filters for retrieving records.
type Query struct {
	Start  time.Time
	End    time.Time
	UserID string
}

// Store persists Records and supports querying.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}
