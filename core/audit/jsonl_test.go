package audit

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestJSONLAppendQuery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	s, err := NewJSONLStore(path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()
	base := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	recs := []Record{
		{AttemptID: "a1", Timestamp: base, UserID: "u1", DepartureID: 104, Outcome: "success", Detail: "ok"},
		{AttemptID: "a2", Timestamp: base.Add(time.Hour), UserID: "u2", DepartureID: 105, Outcome: "failure", Detail: "boom"},
		{AttemptID: "a3", Timestamp: base.Add(2 * time.Hour), UserID: "u1", DepartureID: 106, Outcome: "unauthorized"},
	}
	for _, r := range recs {
		if err := s.Append(ctx, r); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	all, err := s.Query(ctx, Query{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d records", len(all))
	}

	byUser, err := s.Query(ctx, Query{UserID: "u1"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(byUser) != 2 || byUser[0].AttemptID != "a1" || byUser[1].AttemptID != "a3" {
		t.Fatalf("bad user filter: %#v", byUser)
	}

	windowed, err := s.Query(ctx, Query{Start: base.Add(30 * time.Minute), End: base.Add(90 * time.Minute)})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(windowed) != 1 || windowed[0].AttemptID != "a2" {
		t.Fatalf("bad time filter: %#v", windowed)
	}
}

func TestJSONLEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	s, err := NewJSONLStore(path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	res, err := s.Query(context.Background(), Query{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(res) != 0 {
		t.Fatalf("expected empty, got %d", len(res))
	}
}
