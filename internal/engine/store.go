package engine

import (
	"context"
	"errors"
	"sync"
)

var ErrSessionNotFound = errors.New("session not found")

// Exchange is one recorded question/answer pair.
type Exchange struct {
	Question string
	Answer   string
}

// SessionView is a read-only copy of a user's interview progress.
type SessionView struct {
	Role string
	Step int
}

type sessionState struct {
	role         string
	step         int
	conversation []Exchange
}

// Store keeps per-user interview sessions in memory, keyed by the client
// identity. Starting again for the same identity resets the session.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*sessionState
}

// NewStore bootstraps the in-memory session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*sessionState)}
}

// Start provisions (or resets) the session for userID.
func (s *Store) Start(_ context.Context, userID, role string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = &sessionState{role: role}
}

// Session returns the current role and step for userID.
func (s *Store) Session(_ context.Context, userID string) (SessionView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.sessions[userID]
	if !ok {
		return SessionView{}, ErrSessionNotFound
	}
	return SessionView{Role: state.role, Step: state.step}, nil
}

// RecordExchange appends a question/answer pair to the session history.
func (s *Store) RecordExchange(_ context.Context, userID string, ex Exchange) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.sessions[userID]
	if !ok {
		return ErrSessionNotFound
	}
	state.conversation = append(state.conversation, ex)
	return nil
}

// AdvanceStep moves the session to the next question and returns the new
// step value.
func (s *Store) AdvanceStep(_ context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.sessions[userID]
	if !ok {
		return 0, ErrSessionNotFound
	}
	state.step++
	return state.step, nil
}

// Conversation returns a copy of the recorded exchanges for userID.
func (s *Store) Conversation(_ context.Context, userID string) ([]Exchange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.sessions[userID]
	if !ok {
		return nil, ErrSessionNotFound
	}

	copied := make([]Exchange, len(state.conversation))
	copy(copied, state.conversation)
	return copied, nil
}
