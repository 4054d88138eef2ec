package session

import (
	"errors"
	"testing"

	"github.com/kheireddine-anas/busbot/core/clock"
)

func TestStoreOverwrite(t *testing.T) {
	s := NewStore()
	if _, ok := s.Get("u1"); ok {
		t.Fatalf("expected no schedule")
	}
	s.SetTime("u1", clock.TimeOfDay{Hour: 15, Minute: 10, Second: 22})
	s.SetDepartureID("u1", 18399, false)
	sched, ok := s.Get("u1")
	if !ok || !sched.TimeSet || !sched.DepartureSet {
		t.Fatalf("bad schedule %#v", sched)
	}
	if sched.DepartureID != 18399 || sched.Predicted {
		t.Fatalf("bad departure %#v", sched)
	}
	s.SetDepartureID("u1", 104, true)
	sched, _ = s.Get("u1")
	if sched.DepartureID != 104 || !sched.Predicted {
		t.Fatalf("overwrite lost predicted flag: %#v", sched)
	}
	if sched.Time != (clock.TimeOfDay{Hour: 15, Minute: 10, Second: 22}) {
		t.Fatalf("overwrite clobbered time: %#v", sched)
	}
}

func TestCancelReportsNoop(t *testing.T) {
	s := NewStore()
	if s.Cancel("u1") {
		t.Fatalf("cancel of unknown user should be a no-op")
	}
	s.SetTime("u1", clock.TimeOfDay{Hour: 10, Minute: 0, Second: 0})
	if s.Cancel("u1") {
		t.Fatalf("cancel of unarmed schedule should be a no-op")
	}
	s.Arm("u1")
	if !s.Armed("u1") {
		t.Fatalf("expected armed")
	}
	if !s.Cancel("u1") {
		t.Fatalf("cancel of armed schedule should report success")
	}
	if s.Armed("u1") {
		t.Fatalf("still armed after cancel")
	}
}

func TestArmedCount(t *testing.T) {
	s := NewStore()
	s.SetTime("u1", clock.TimeOfDay{Hour: 10, Minute: 0, Second: 0})
	s.SetTime("u2", clock.TimeOfDay{Hour: 11, Minute: 0, Second: 0})
	s.Arm("u1")
	s.Arm("u2")
	if n := s.ArmedCount(); n != 2 {
		t.Fatalf("armed count = %d", n)
	}
	s.Disarm("u1")
	if n := s.ArmedCount(); n != 1 {
		t.Fatalf("armed count = %d", n)
	}
}

type fakeTokenStore struct {
	saved  string
	loaded string
	err    error
}

func (f *fakeTokenStore) Load() (string, error) { return f.loaded, f.err }
func (f *fakeTokenStore) Save(tok string) error {
	f.saved = tok
	return f.err
}

func TestTokensRoundTrip(t *testing.T) {
	fs := &fakeTokenStore{loaded: "persisted-token-value"}
	tokens := NewTokens(fs)
	if tokens.Present() {
		t.Fatalf("token present before load")
	}
	if err := tokens.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	if tokens.Get() != "persisted-token-value" {
		t.Fatalf("got %q", tokens.Get())
	}
	if err := tokens.Set("new-token-value"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if fs.saved != "new-token-value" {
		t.Fatalf("not persisted: %q", fs.saved)
	}
}

func TestTokensStoreError(t *testing.T) {
	fs := &fakeTokenStore{err: errors.New("disk full")}
	tokens := NewTokens(fs)
	if err := tokens.Set("tok"); err == nil {
		t.Fatalf("expected persistence error")
	}
	// The in-memory value still updates; persistence is best effort.
	if tokens.Get() != "tok" {
		t.Fatalf("got %q", tokens.Get())
	}
}

func TestMaskToken(t *testing.T) {
	if got := MaskToken("abcdefghijklmnop"); got != "abcde...jklmnop" {
		t.Fatalf("got %q", got)
	}
	if got := MaskToken("short"); got != "invalid token" {
		t.Fatalf("got %q", got)
	}
}
