// Package clock provides wall-clock time-of-day parsing and the arithmetic
// used to arm one-shot booking schedules.
package clock

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatError reports a malformed time-of-day input.
type FormatError struct {
	Input  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid time %q: %s", e.Input, e.Reason)
}

// TimeOfDay is a wall-clock time without a date component.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// ParseTimeOfDay parses an HH:MM:SS string. At least three numeric
// components are required; extra components are ignored. Components are
// range-checked (0≤h<24, 0≤m<60, 0≤s<60).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 3 {
		return TimeOfDay{}, &FormatError{Input: s, Reason: "want HH:MM:SS"}
	}
	vals := make([]int, 3)
	for i := 0; i < 3; i++ {
		n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil {
			return TimeOfDay{}, &FormatError{Input: s, Reason: "components must be numeric"}
		}
		vals[i] = n
	}
	t := TimeOfDay{Hour: vals[0], Minute: vals[1], Second: vals[2]}
	if t.Hour < 0 || t.Hour > 23 || t.Minute < 0 || t.Minute > 59 || t.Second < 0 || t.Second > 59 {
		return TimeOfDay{}, &FormatError{Input: s, Reason: "component out of range"}
	}
	return t, nil
}

// At resolves the time-of-day on now's calendar date, in now's location.
// There is no rollover to the next day: a time-of-day already in the past
// resolves to a past instant, and callers must reject it.
func (t TimeOfDay) At(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), t.Hour, t.Minute, t.Second, 0, now.Location())
}

// SecondsFromMidnight returns the time-of-day as seconds since midnight.
func (t TimeOfDay) SecondsFromMidnight() int {
	return t.Hour*3600 + t.Minute*60 + t.Second
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// DelayUntil returns target minus now. A schedule may only be armed when
// the result is strictly positive.
func DelayUntil(target, now time.Time) time.Duration {
	return target.Sub(now)
}
