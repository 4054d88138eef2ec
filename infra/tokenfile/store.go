// Package tokenfile persists the session token to a flat file.
package tokenfile

import (
	"os"
	"strings"
)

// Store reads and writes the token as trimmed UTF-8 text. It implements
// session.TokenStore.
type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

// Load returns the persisted token. A missing file means no token, not an
// error.
func (s *Store) Load() (string, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

// Save overwrites the token file on every update.
func (s *Store) Save(token string) error {
	return os.WriteFile(s.path, []byte(token), 0600)
}
