package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kheireddine-anas/busbot/core/audit"
	"github.com/kheireddine-anas/busbot/core/logger"
	"github.com/kheireddine-anas/busbot/core/metrics"
	"github.com/kheireddine-anas/busbot/core/session"
)

// Executor issues one authenticated booking call and records the outcome.
// Failure is never escalated beyond audit, metrics and notification; the
// process keeps running.
type Executor struct {
	booker   Booker
	tokens   *session.Tokens
	audit    audit.Store
	notifier Notifier
	sink     metrics.Sink
	log      logger.Logger
	toCampus bool
}

func NewExecutor(booker Booker, tokens *session.Tokens, store audit.Store, notifier Notifier, sink metrics.Sink, log logger.Logger, toCampus bool) *Executor {
	if sink == nil {
		sink = metrics.Nop{}
	}
	return &Executor{
		booker:   booker,
		tokens:   tokens,
		audit:    store,
		notifier: notifier,
		sink:     sink,
		log:      log,
		toCampus: toCampus,
	}
}

// Execute books the departure for the user. The session token is read here,
// at fire time, not captured earlier.
func (e *Executor) Execute(ctx context.Context, userID string, departureID int) {
	start := time.Now()
	token := e.tokens.Get()
	body, err := e.booker.Book(ctx, token, departureID, e.toCampus)
	latency := time.Since(start)

	rec := audit.Record{
		AttemptID:   uuid.NewString(),
		Timestamp:   time.Now(),
		UserID:      userID,
		DepartureID: departureID,
	}
	switch {
	case err == nil:
		rec.Outcome = "success"
		rec.Detail = body
		e.log.Infof("booked departure %d for user %s", departureID, userID)
		e.notifier.Notify(userID, fmt.Sprintf("Booking request sent for departure %d.", departureID))
	case errors.Is(err, ErrUnauthorized):
		rec.Outcome = "unauthorized"
		rec.Detail = err.Error()
		e.log.Warnf("booking for user %s rejected: %v", userID, err)
		e.notifier.Notify(userID, "Booking failed: token invalid or expired. Please set a new token.")
	default:
		rec.Outcome = "failure"
		rec.Detail = err.Error()
		e.log.Errorf("booking departure %d for user %s: %v", departureID, userID, err)
		e.notifier.Notify(userID, fmt.Sprintf("Booking failed for departure %d: %v", departureID, err))
	}

	if aerr := e.audit.Append(ctx, rec); aerr != nil {
		e.log.Errorf("audit append: %v", aerr)
	}
	if merr := e.sink.RecordBooking(metrics.BookingSample{
		UserID:      userID,
		DepartureID: departureID,
		Outcome:     rec.Outcome,
		Latency:     latency,
	}); merr != nil {
		e.log.Errorf("booking metrics: %v", merr)
	}
}
