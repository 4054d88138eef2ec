// Package scheduler arms one-shot deferred booking actions and owns the
// per-user timer handles.
package scheduler

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/kheireddine-anas/busbot/core/clock"
	"github.com/kheireddine-anas/busbot/core/logger"
	"github.com/kheireddine-anas/busbot/core/metrics"
	"github.com/kheireddine-anas/busbot/core/session"
)

// PreconditionError reports why a schedule request could not be armed.
// Missing lists every unmet precondition by name.
type PreconditionError struct {
	Missing []string
}

func (e *PreconditionError) Error() string {
	return "cannot schedule: " + strings.Join(e.Missing, ", ")
}

// Executor runs the booking call when a schedule fires.
type Executor interface {
	Execute(ctx context.Context, userID string, departureID int)
}

// Scheduler owns one outstanding deferred action per user. Arming while
// already armed replaces the previous timer. Cancellation flips the
// session's armed flag and the flag is re-checked at fire time, so a
// cancel observed before the fire guarantees no booking call is made.
type Scheduler struct {
	store  *session.Store
	tokens *session.Tokens
	exec   Executor
	log    logger.Logger
	sink   metrics.Sink
	now    func() time.Time

	mu     sync.Mutex
	timers map[string]*time.Timer
}

func New(store *session.Store, tokens *session.Tokens, exec Executor, log logger.Logger, sink metrics.Sink) *Scheduler {
	if sink == nil {
		sink = metrics.Nop{}
	}
	return &Scheduler{
		store:  store,
		tokens: tokens,
		exec:   exec,
		log:    log,
		sink:   sink,
		now:    time.Now,
		timers: map[string]*time.Timer{},
	}
}

// Arm registers a one-shot deferred booking for the user and returns the
// target instant. Preconditions: time-of-day set, departure id set, a
// session token present, and the target strictly in the future on today's
// date. Any violation returns a *PreconditionError naming each unmet
// condition and leaves the schedule idle.
func (s *Scheduler) Arm(userID string) (time.Time, error) {
	sched, _ := s.store.Get(userID)
	now := s.now()

	var missing []string
	if !sched.TimeSet {
		missing = append(missing, "time not set")
	}
	if !sched.DepartureSet {
		missing = append(missing, "departure id not set")
	}
	if !s.tokens.Present() {
		missing = append(missing, "no session token")
	}
	var target time.Time
	if sched.TimeSet {
		target = sched.Time.At(now)
		if clock.DelayUntil(target, now) <= 0 {
			missing = append(missing, "time already passed today")
		}
	}
	if len(missing) > 0 {
		return time.Time{}, &PreconditionError{Missing: missing}
	}

	delay := clock.DelayUntil(target, now)

	s.mu.Lock()
	if old, ok := s.timers[userID]; ok {
		// Re-arm replaces: never two outstanding timers for one user.
		old.Stop()
		s.log.Warnf("replacing armed schedule for user %s", userID)
	}
	s.store.Arm(userID)
	s.timers[userID] = time.AfterFunc(delay, func() { s.fire(userID) })
	s.mu.Unlock()

	s.recordArmed()
	s.log.Infof("scheduled booking for user %s at %s (in %s)", userID, target.Format("15:04:05"), delay.Round(time.Second))
	return target, nil
}

// fire runs in the timer goroutine. The armed flag is re-checked here,
// immediately before the booking call; a schedule cancelled in the interim
// is suppressed with no network call and no audit line.
func (s *Scheduler) fire(userID string) {
	s.mu.Lock()
	delete(s.timers, userID)
	s.mu.Unlock()

	sched, ok := s.store.Get(userID)
	if !ok || !sched.Armed {
		s.log.Infof("schedule for user %s cancelled before firing", userID)
		return
	}
	s.store.Disarm(userID)
	s.recordArmed()

	// Blocks on the booking outcome; no retry on failure.
	s.exec.Execute(context.Background(), userID, sched.DepartureID)
}

// Cancel stops the user's timer if one is pending and clears the armed
// flag. It returns whether a schedule was actually armed, so callers can
// report a no-op cancel distinctly.
func (s *Scheduler) Cancel(userID string) bool {
	s.mu.Lock()
	if t, ok := s.timers[userID]; ok {
		t.Stop()
		delete(s.timers, userID)
	}
	s.mu.Unlock()

	was := s.store.Cancel(userID)
	if was {
		s.recordArmed()
		s.log.Infof("user %s cancelled scheduled booking", userID)
	}
	return was
}

// Armed reports whether the user currently has an armed schedule.
func (s *Scheduler) Armed(userID string) bool {
	return s.store.Armed(userID)
}

// Close stops all pending timers without firing them.
func (s *Scheduler) Close() {
	s.mu.Lock()
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
	s.mu.Unlock()
}

func (s *Scheduler) recordArmed() {
	if err := s.sink.RecordArmedSchedules(s.store.ArmedCount()); err != nil {
		s.log.Errorf("armed schedules metrics: %v", err)
	}
}
