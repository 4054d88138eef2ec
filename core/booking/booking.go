// Package booking performs the authenticated seat reservation call at fire
// time and records its outcome.
package booking

import (
	"context"
	"errors"
)

// ErrUnauthorized is returned by a Booker when the platform rejects the
// session token.
var ErrUnauthorized = errors.New("unauthorized: token invalid or expired")

// Booker sends one booking request to the transport platform and returns
// the raw response body. It does not retry and does not validate the
// departure id beforehand; the platform is the source of truth for whether
// a possibly predicted id is valid.
type Booker interface {
	Book(ctx context.Context, token string, departureID int, toCampus bool) (string, error)
}

// Notifier delivers a user-facing message through the outbound
// notification sink.
type Notifier interface {
	Notify(userID, message string)
}
