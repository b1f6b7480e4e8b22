package transport

import (
	"sync"
)

// SessionStore holds login tokens in memory only. The storage schema has no
// token column, so sessions do not survive a restart; the previous desktop
// shell asked for a fresh login on every launch anyway.
type SessionStore struct {
	mu     sync.Mutex
	tokens map[string]string
}

func NewSessionStore() *SessionStore {
	return &SessionStore{tokens: make(map[string]string)}
}

func (s *SessionStore) Put(token, username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = username
}

func (s *SessionStore) Username(token string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	username, ok := s.tokens[token]
	return username, ok
}
