package booking

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/kheireddine-anas/busbot/core/audit"
	"github.com/kheireddine-anas/busbot/core/metrics"
	"github.com/kheireddine-anas/busbot/core/session"
	"github.com/kheireddine-anas/busbot/infra/logger"
)

type fakeBooker struct {
	mu        sync.Mutex
	lastToken string
	lastID    int
	body      string
	err       error
}

func (f *fakeBooker) Book(ctx context.Context, token string, departureID int, toCampus bool) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastToken = token
	f.lastID = departureID
	return f.body, f.err
}

type fakeNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (f *fakeNotifier) Notify(userID, message string) {
	f.mu.Lock()
	f.messages = append(f.messages, message)
	f.mu.Unlock()
}

func newTestExecutor(t *testing.T, booker *fakeBooker, notifier *fakeNotifier) (*Executor, *session.Tokens, audit.Store) {
	t.Helper()
	store, err := audit.NewJSONLStore(filepath.Join(t.TempDir(), "audit.jsonl"))
	if err != nil {
		t.Fatalf("audit store: %v", err)
	}
	tokens := session.NewTokens(nil)
	exec := NewExecutor(booker, tokens, store, notifier, metrics.Nop{}, logger.NopLogger{}, false)
	return exec, tokens, store
}

func TestExecuteSuccess(t *testing.T) {
	booker := &fakeBooker{body: `{"status":"ok"}`}
	notifier := &fakeNotifier{}
	exec, tokens, store := newTestExecutor(t, booker, notifier)
	if err := tokens.Set("tok-at-fire-time"); err != nil {
		t.Fatalf("set token: %v", err)
	}

	exec.Execute(context.Background(), "u1", 104)

	if booker.lastToken != "tok-at-fire-time" || booker.lastID != 104 {
		t.Fatalf("bad call: token=%q id=%d", booker.lastToken, booker.lastID)
	}
	recs, err := store.Query(context.Background(), audit.Query{UserID: "u1"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(recs) != 1 || recs[0].Outcome != "success" || recs[0].Detail != `{"status":"ok"}` {
		t.Fatalf("bad audit record: %#v", recs)
	}
	if recs[0].AttemptID == "" {
		t.Fatalf("missing attempt id")
	}
	if len(notifier.messages) != 1 {
		t.Fatalf("expected one notification, got %d", len(notifier.messages))
	}
}

func TestExecuteUnauthorized(t *testing.T) {
	booker := &fakeBooker{err: ErrUnauthorized}
	notifier := &fakeNotifier{}
	exec, _, store := newTestExecutor(t, booker, notifier)

	exec.Execute(context.Background(), "u1", 104)

	recs, err := store.Query(context.Background(), audit.Query{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(recs) != 1 || recs[0].Outcome != "unauthorized" {
		t.Fatalf("bad audit record: %#v", recs)
	}
}

func TestExecuteFailureNeverPanics(t *testing.T) {
	booker := &fakeBooker{err: errors.New("connection refused")}
	notifier := &fakeNotifier{}
	exec, _, store := newTestExecutor(t, booker, notifier)

	exec.Execute(context.Background(), "u1", 99)

	recs, err := store.Query(context.Background(), audit.Query{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(recs) != 1 || recs[0].Outcome != "failure" || recs[0].Detail != "connection refused" {
		t.Fatalf("bad audit record: %#v", recs)
	}
}
