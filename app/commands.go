package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/kheireddine-anas/busbot/core/clock"
	"github.com/kheireddine-anas/busbot/core/departure"
	"github.com/kheireddine-anas/busbot/core/session"
)

// Each method below maps one inbound command onto a core operation and
// returns the user-facing reply. Errors are recoverable and meant to be
// shown to the user; nothing here terminates the process.

// SetTime stores the wall-clock time-of-day for the user's booking.
func (s *Service) SetTime(userID, raw string) (string, error) {
	tod, err := clock.ParseTimeOfDay(raw)
	if err != nil {
		return "", err
	}
	s.store.SetTime(userID, tod)
	s.log.Infof("user %s set time %s", userID, tod)
	return fmt.Sprintf("Time set to %s.", tod), nil
}

// SetDepartureID stores the departure to book. A leading "~", as rendered
// by the prediction output, marks the id as a predicted value.
func (s *Service) SetDepartureID(userID, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	predicted := strings.HasPrefix(raw, "~")
	id, err := strconv.Atoi(strings.TrimPrefix(raw, "~"))
	if err != nil {
		return "", fmt.Errorf("invalid departure id %q", raw)
	}
	s.store.SetDepartureID(userID, id, predicted)
	s.log.Infof("user %s set departure id %d (predicted=%t)", userID, id, predicted)
	if predicted {
		return fmt.Sprintf("Departure ID set to ~%d (predicted, unconfirmed).", id), nil
	}
	return fmt.Sprintf("Departure ID set to %d.", id), nil
}

// SetToken replaces the shared session token and persists it.
func (s *Service) SetToken(userID, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty token")
	}
	if err := s.tokens.Set(raw); err != nil {
		// The in-memory token is updated even when persistence fails.
		s.log.Errorf("persist token: %v", err)
		return "Token set, but saving it to disk failed.", nil
	}
	s.log.Infof("user %s updated the session token", userID)
	return "Token saved.", nil
}

// ScheduleBooking arms the one-shot deferred booking for the user.
func (s *Service) ScheduleBooking(userID string) (string, error) {
	target, err := s.sched.Arm(userID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Booking scheduled for %s.", target.Format("15:04:05")), nil
}

// CancelBooking cancels the armed schedule, reporting no-ops distinctly.
func (s *Service) CancelBooking(userID string) (string, error) {
	if s.sched.Cancel(userID) {
		return "Scheduled booking cancelled.", nil
	}
	return "Nothing to cancel.", nil
}

// Status renders the user's current schedule and the shared token state.
func (s *Service) Status(userID string) (string, error) {
	sched, _ := s.store.Get(userID)
	var b strings.Builder
	b.WriteString("Current data:\n")
	if sched.TimeSet {
		fmt.Fprintf(&b, "Time: %s\n", sched.Time)
	} else {
		b.WriteString("Time: not set\n")
	}
	switch {
	case sched.DepartureSet && sched.Predicted:
		fmt.Fprintf(&b, "Departure ID: ~%d (predicted)\n", sched.DepartureID)
	case sched.DepartureSet:
		fmt.Fprintf(&b, "Departure ID: %d\n", sched.DepartureID)
	default:
		b.WriteString("Departure ID: not set\n")
	}
	if sched.Armed {
		b.WriteString("Schedule: armed\n")
	} else {
		b.WriteString("Schedule: idle\n")
	}
	if tok := s.tokens.Get(); tok != "" {
		fmt.Fprintf(&b, "Token: %s", session.MaskToken(tok))
	} else {
		b.WriteString("Token: not found")
	}
	return b.String(), nil
}

// ListCurrent fetches the departures bookable right now.
func (s *Service) ListCurrent(ctx context.Context, userID string) (string, error) {
	recs, err := s.listings.CurrentDepartures(ctx, s.tokens.Get())
	if err != nil {
		return "", err
	}
	if len(recs) == 0 {
		return "No active buses found right now.", nil
	}
	var b strings.Builder
	b.WriteString("Current available buses:\n")
	for _, r := range recs {
		fmt.Fprintf(&b, "ID: %d | Route: %s | Bus: %s\n", r.ID, r.Name, r.BusName)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// PredictUpcoming annotates upcoming departures with predicted booking
// ids. Predicted ids are advisory and rendered with a "~" prefix.
func (s *Service) PredictUpcoming(ctx context.Context, userID string) (string, error) {
	token := s.tokens.Get()
	current, err := s.listings.CurrentDepartures(ctx, token)
	if err != nil {
		return "", err
	}
	upcoming, err := s.listings.UpcomingDepartures(ctx, token)
	if err != nil {
		return "", err
	}
	predicted, err := departure.Predict(current, upcoming, s.now())
	if err != nil {
		return "", err
	}
	if len(predicted) == 0 {
		return "No upcoming departures in the next hour.", nil
	}
	var b strings.Builder
	b.WriteString("Upcoming departures:\n")
	for _, p := range predicted {
		if p.PredictedID != nil {
			fmt.Fprintf(&b, "~%d | %s | %s (Bus %s)\n", *p.PredictedID, p.AvailableTime, p.Name, p.BusName)
		} else {
			fmt.Fprintf(&b, "?  | %s | %s (Bus %s)\n", p.AvailableTime, p.Name, p.BusName)
		}
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// AcquireToken runs the automated credential login and stores the result.
// The error returned to the user is deliberately generic; acquisition
// detail stays in the operator log.
func (s *Service) AcquireToken(ctx context.Context, userID string) (string, error) {
	s.log.Infof("user %s requested token acquisition", userID)
	token, err := s.acquirer.Acquire(ctx)
	if err != nil {
		return "", err
	}
	if err := s.tokens.Set(token); err != nil {
		s.log.Errorf("persist acquired token: %v", err)
	}
	return fmt.Sprintf("Token acquired and saved: %s", session.MaskToken(token)), nil
}
