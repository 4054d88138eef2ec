package departure

import (
	"errors"
	"testing"
	"time"

	"github.com/kheireddine-anas/busbot/core/clock"
)

var predictNow = time.Date(2025, 3, 14, 14, 0, 0, 0, time.Local)

func at(offset time.Duration) string {
	t := predictNow.Add(offset)
	return clock.TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}.String()
}

func TestPredictSingleUpcoming(t *testing.T) {
	current := []Record{{ID: 100}, {ID: 103}}
	upcoming := []Record{{Name: "Campus Loop", AvailableTime: at(45 * time.Minute), BusName: "A1"}}
	got, err := Predict(current, upcoming, predictNow)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d entries", len(got))
	}
	if got[0].PredictedID == nil || *got[0].PredictedID != 104 {
		t.Fatalf("predicted id = %v, want 104", got[0].PredictedID)
	}
}

func TestPredictSameSlotRanking(t *testing.T) {
	current := []Record{{ID: 200}}
	slot := at(30 * time.Minute)
	upcoming := []Record{
		{Name: "North", AvailableTime: slot, BusName: "B2"},
		{Name: "South", AvailableTime: slot, BusName: "B1"},
	}
	got, err := Predict(current, upcoming, predictNow)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries", len(got))
	}
	// Same-slot peers rank by bus name ascending.
	if got[0].BusName != "B1" || got[1].BusName != "B2" {
		t.Fatalf("bad order: %q then %q", got[0].BusName, got[1].BusName)
	}
	if *got[0].PredictedID != 201 || *got[1].PredictedID != 202 {
		t.Fatalf("predicted ids = %d, %d", *got[0].PredictedID, *got[1].PredictedID)
	}
}

func TestPredictSlotBoundaries(t *testing.T) {
	current := []Record{{ID: 50}}
	upcoming := []Record{
		{Name: "late slot", AvailableTime: at(50 * time.Minute), BusName: "C3"},
		{Name: "early a", AvailableTime: at(10 * time.Minute), BusName: "C1"},
		{Name: "early b", AvailableTime: at(10 * time.Minute), BusName: "C2"},
	}
	got, err := Predict(current, upcoming, predictNow)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d entries", len(got))
	}
	// Two same-slot entries then a later slot: the later slot counts both
	// earlier entries before its own rank.
	want := []int{51, 52, 53}
	for i, w := range want {
		if *got[i].PredictedID != w {
			t.Fatalf("entry %d predicted %d, want %d", i, *got[i].PredictedID, w)
		}
	}
}

func TestPredictWindow(t *testing.T) {
	current := []Record{{ID: 10}}
	upcoming := []Record{
		{Name: "exact boundary", AvailableTime: at(time.Hour), BusName: "D1"},
		{Name: "one past", AvailableTime: at(time.Hour + time.Second), BusName: "D2"},
		{Name: "already past", AvailableTime: at(-time.Second), BusName: "D3"},
		{Name: "now itself", AvailableTime: at(0), BusName: "D4"},
	}
	got, err := Predict(current, upcoming, predictNow)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if len(got) != 1 || got[0].Name != "exact boundary" {
		t.Fatalf("window filter wrong: %#v", got)
	}
}

func TestPredictEmptyCurrent(t *testing.T) {
	upcoming := []Record{{Name: "loop", AvailableTime: at(20 * time.Minute), BusName: "E1"}}
	got, err := Predict(nil, upcoming, predictNow)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d entries", len(got))
	}
	if got[0].PredictedID != nil {
		t.Fatalf("expected nil prediction, got %d", *got[0].PredictedID)
	}
}

func TestPredictEmptyUpcoming(t *testing.T) {
	got, err := Predict([]Record{{ID: 1}}, nil, predictNow)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %d", len(got))
	}
}

func TestPredictMalformedTime(t *testing.T) {
	upcoming := []Record{{Name: "bad", AvailableTime: "soon", BusName: "F1"}}
	_, err := Predict([]Record{{ID: 1}}, upcoming, predictNow)
	var fe *clock.FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("got %v, want *clock.FormatError", err)
	}
}
