// Package session models the single authenticated session. The derived
// key lives only here and only between login and logout.
package session

import "sync"

// Session holds the transient authentication state for one process.
type Session struct {
	mu            sync.RWMutex
	authenticated bool
	pin           string
	key           []byte
}

// New returns an unauthenticated session.
func New() *Session {
	return &Session{}
}

// Establish records a verified PIN and its derived key.
func (s *Session) Establish(pin string, key []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.authenticated = true
	s.pin = pin
	s.key = key
}

// Authenticated reports whether a session is active.
func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// Key returns the session key, or nil outside a session.
func (s *Session) Key() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.key
}

// PIN returns the verified PIN for identifier generation.
func (s *Session) PIN() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pin
}

// Clear tears the session down and zeroizes the key material.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.key {
		s.key[i] = 0
	}
	s.key = nil
	s.pin = ""
	s.authenticated = false
}
