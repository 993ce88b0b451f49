// Package session owns the authenticated context: the bearer token and the
// login generation. Poll results carry the generation they were issued under,
// so answers that arrive after a logout can be recognized and dropped.
package session

import (
	"sync"
)

// Store holds the current session token. At most one session is active per
// client instance. All methods are safe for concurrent use.
type Store struct {
	mu         sync.RWMutex
	token      string
	generation uint64
}

// NewStore creates an unauthenticated store.
func NewStore() *Store {
	return &Store{}
}

// Token returns the current bearer token, or "" when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Active reports whether a session is currently held.
func (s *Store) Active() bool {
	return s.Token() != ""
}

// Generation identifies the current login epoch. It increases on every
// SetToken and Invalidate, never decreases.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// SetToken installs a fresh token and starts a new generation.
func (s *Store) SetToken(token string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.generation++
	return s.generation
}

// Invalidate tears the session down. It is idempotent per generation: when
// several in-flight fetches all come back unauthorized, only the first call
// naming the still-current generation clears the token, so the caller can
// force exactly one re-login. Invalidate reports whether it acted.
func (s *Store) Invalidate(generation uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if generation != s.generation || s.token == "" {
		return false
	}
	s.token = ""
	s.generation++
	return true
}

// Logout unconditionally clears the session.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.generation++
}
