package session

import (
	"fmt"
	"sync"
)

// TokenStore persists the session token between process runs.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
}

// Tokens holds the single process-wide session token. Updates are
// last-write-wins: an in-flight booking uses whatever value is current at
// its own fire time.
type Tokens struct {
	mu    sync.RWMutex
	value string
	store TokenStore
}

// NewTokens creates a Tokens holder backed by the given store. A nil store
// keeps the token in memory only.
func NewTokens(store TokenStore) *Tokens {
	return &Tokens{store: store}
}

// Load reads the persisted token, if any. Called once at process start.
func (t *Tokens) Load() error {
	if t.store == nil {
		return nil
	}
	tok, err := t.store.Load()
	if err != nil {
		return fmt.Errorf("load token: %w", err)
	}
	t.mu.Lock()
	t.value = tok
	t.mu.Unlock()
	return nil
}

// Set replaces the token and persists it.
func (t *Tokens) Set(token string) error {
	t.mu.Lock()
	t.value = token
	t.mu.Unlock()
	if t.store == nil {
		return nil
	}
	if err := t.store.Save(token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// Get returns the current token value, possibly empty.
func (t *Tokens) Get() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.value
}

// Present reports whether a token is currently set.
func (t *Tokens) Present() bool {
	return t.Get() != ""
}

// MaskToken renders a token for status display, keeping only the first
// five and last seven characters.
func MaskToken(token string) string {
	if len(token) < 12 {
		return "invalid token"
	}
	return token[:5] + "..." + token[len(token)-7:]
}
