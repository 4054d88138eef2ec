package departure

import (
	"sort"
	"time"

	"github.com/kheireddine-anas/busbot/core/clock"
)

// WindowSeconds bounds the prediction lookahead: only upcoming departures
// whose available time falls within this many seconds after now are
// considered.
const WindowSeconds = 3600

// Predict annotates upcoming departures with the booking id each is
// expected to receive once it becomes current.
//
// The base id is the maximum id over the current listing. Upcoming entries
// are kept when their available time, as seconds since midnight, satisfies
// now < t <= now+WindowSeconds, then sorted by available time with ties
// broken by bus name. The predicted id for an entry is the base id plus the
// number of earlier entries in a different time slot plus the entry's
// 1-based rank within its own slot.
//
// An empty current listing yields nil PredictedID for every entry. An empty
// upcoming listing, or none inside the window, yields an empty non-error
// result. A malformed available time is a *clock.FormatError.
func Predict(current, upcoming []Record, now time.Time) ([]Predicted, error) {
	baseID, haveBase := 0, false
	for _, r := range current {
		if !haveBase || r.ID > baseID {
			baseID, haveBase = r.ID, true
		}
	}

	nowSec := now.Hour()*3600 + now.Minute()*60 + now.Second()

	type candidate struct {
		rec   Record
		avail int
	}
	var cands []candidate
	for _, r := range upcoming {
		tod, err := clock.ParseTimeOfDay(r.AvailableTime)
		if err != nil {
			return nil, err
		}
		sec := tod.SecondsFromMidnight()
		if sec <= nowSec || sec > nowSec+WindowSeconds {
			continue
		}
		cands = append(cands, candidate{rec: r, avail: sec})
	}
	if len(cands) == 0 {
		return nil, nil
	}

	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].avail != cands[j].avail {
			return cands[i].avail < cands[j].avail
		}
		return cands[i].rec.BusName < cands[j].rec.BusName
	})

	out := make([]Predicted, 0, len(cands))
	groupStart := 0
	for i, c := range cands {
		if i > 0 && c.avail != cands[i-1].avail {
			groupStart = i
		}
		p := Predicted{Record: c.rec}
		if haveBase {
			// groupStart earlier entries sit in different slots; the rank
			// within the current slot is 1-based.
			id := baseID + groupStart + (i - groupStart + 1)
			p.PredictedID = &id
		}
		out = append(out, p)
	}
	return out, nil
}
