package store

import (
	"context"
	"sync"
	"time"

	"github.com/physicistcolloh-png/base43/types"
)

// SessionStore handles persistence for build sessions. Sessions live in
// process memory until cancelled or the process restarts.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]types.BuildSession
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]types.BuildSession)}
}

// Create stores a new session in the initializing state with empty
// progress and integration lists. The caller supplies the id.
func (s *SessionStore) Create(ctx context.Context, session types.BuildSession) (types.BuildSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[session.ID]; exists {
		return types.BuildSession{}, ErrAlreadyExists
	}

	now := time.Now()
	session.Status = types.StatusInitializing
	session.Steps = []types.ProgressStep{}
	session.SelectedIntegrations = []types.Integration{}
	session.CreatedAt = now
	session.UpdatedAt = now

	s.sessions[session.ID] = session
	return session, nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (types.BuildSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return types.BuildSession{}, ErrNotFound
	}
	return session, nil
}

// AddProgressStep appends a named milestone to the session's history.
func (s *SessionStore) AddProgressStep(ctx context.Context, id, stepName string) (types.BuildSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return types.BuildSession{}, ErrNotFound
	}

	session.Steps = append(session.Steps, types.ProgressStep{
		Name:      stepName,
		Timestamp: time.Now(),
	})
	session.UpdatedAt = time.Now()
	s.sessions[id] = session
	return session, nil
}

// SetStatus moves the session to a new lifecycle state. Transitions must
// be forward through the status sequence; error is reachable from any
// non-terminal state. Illegal moves fail with ErrInvalidTransition.
func (s *SessionStore) SetStatus(ctx context.Context, id string, status types.SessionStatus) (types.BuildSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return types.BuildSession{}, ErrNotFound
	}

	if !session.Status.CanTransitionTo(status) {
		return types.BuildSession{}, ErrInvalidTransition
	}

	session.Status = status
	session.UpdatedAt = time.Now()
	s.sessions[id] = session
	return session, nil
}

// AttachGeneratedCode stores the templated code pair on the session.
func (s *SessionStore) AttachGeneratedCode(ctx context.Context, id, frontend, backend string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return ErrNotFound
	}

	session.GeneratedCode = types.GeneratedCode{Frontend: frontend, Backend: backend}
	session.UpdatedAt = time.Now()
	s.sessions[id] = session
	return nil
}

// AddSelectedIntegration appends an integration to the session in
// activation order.
func (s *SessionStore) AddSelectedIntegration(ctx context.Context, id string, integration types.Integration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return ErrNotFound
	}

	session.SelectedIntegrations = append(session.SelectedIntegrations, integration)
	session.UpdatedAt = time.Now()
	s.sessions[id] = session
	return nil
}

// Delete removes the session entirely. Deleting an unknown session is a
// no-op so cancellation stays idempotent.
func (s *SessionStore) Delete(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}
