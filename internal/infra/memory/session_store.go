package memory

import (
	"context"
	"sync"

	"quizbot/internal/domain"
)

// SessionStore is an in-memory implementation of app.SessionStore, used
// in tests and when no Redis address is configured.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]domain.Session),
	}
}

func (s *SessionStore) Load(_ context.Context, player string) (domain.Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[player]
	return session, ok, nil
}

func (s *SessionStore) Advance(_ context.Context, player string, total int) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[player]
	if ok {
		session.Index = (session.Index + 1) % total
	} else {
		session.Index = 0
	}
	session.State = domain.StateAwaitingAnswer
	s.sessions[player] = session
	return session, nil
}

func (s *SessionStore) SetState(_ context.Context, player string, state domain.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session := s.sessions[player]
	session.State = state
	s.sessions[player] = session
	return nil
}
