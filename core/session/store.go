// Package session holds per-user booking schedules and the shared platform
// session token.
package session

import (
	"sync"

	"github.com/kheireddine-anas/busbot/core/clock"
)

// Schedule captures what a user has configured for a scheduled booking.
type Schedule struct {
	UserID       string
	Time         clock.TimeOfDay
	TimeSet      bool
	DepartureID  int
	DepartureSet bool
	// Predicted marks the departure id as an unconfirmed prediction.
	Predicted bool
	// Armed is true while a deferred booking is registered and has not
	// fired or been cancelled. The scheduler re-checks it at fire time.
	Armed bool
}

// Store keeps schedules in memory, keyed by user id. Records persist for
// the process lifetime; inputs overwrite previous values.
type Store struct {
	mu   sync.RWMutex
	data map[string]Schedule
}

func NewStore() *Store {
	return &Store{data: map[string]Schedule{}}
}

// Get returns the schedule for the user and whether one exists.
func (s *Store) Get(userID string) (Schedule, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sched, ok := s.data[userID]
	return sched, ok
}

func (s *Store) SetTime(userID string, t clock.TimeOfDay) {
	s.mu.Lock()
	sched := s.data[userID]
	sched.UserID = userID
	sched.Time = t
	sched.TimeSet = true
	s.data[userID] = sched
	s.mu.Unlock()
}

func (s *Store) SetDepartureID(userID string, id int, predicted bool) {
	s.mu.Lock()
	sched := s.data[userID]
	sched.UserID = userID
	sched.DepartureID = id
	sched.DepartureSet = true
	sched.Predicted = predicted
	s.data[userID] = sched
	s.mu.Unlock()
}

// Arm marks the user's schedule as armed.
func (s *Store) Arm(userID string) {
	s.setArmed(userID, true)
}

// Disarm clears the armed flag, used on both fire and cancellation.
func (s *Store) Disarm(userID string) {
	s.setArmed(userID, false)
}

func (s *Store) setArmed(userID string, armed bool) {
	s.mu.Lock()
	sched := s.data[userID]
	sched.UserID = userID
	sched.Armed = armed
	s.data[userID] = sched
	s.mu.Unlock()
}

// Cancel clears the armed flag and reports whether a schedule was armed,
// so a no-op cancel can be reported distinctly.
func (s *Store) Cancel(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sched, ok := s.data[userID]
	if !ok || !sched.Armed {
		return false
	}
	sched.Armed = false
	s.data[userID] = sched
	return true
}

// Armed reports whether the user's schedule is currently armed.
func (s *Store) Armed(userID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data[userID].Armed
}

// ArmedCount returns the number of armed schedules.
func (s *Store) ArmedCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, sched := range s.data {
		if sched.Armed {
			n++
		}
	}
	return n
}
