package store

import (
	"context"
	"sync"
)

// LockStore enforces the single-active-build-per-user rule. It maps a
// user id to the session id of their active build. The lock is the sole
// admission gate preventing overlapping builds; it is deliberately
// per-user rather than per-session.
type LockStore struct {
	mu    sync.Mutex
	locks map[string]string
}

func NewLockStore() *LockStore {
	return &LockStore{locks: make(map[string]string)}
}

// TryAcquire records userID -> sessionID, or fails with
// ErrBuildInProgress if the user already holds a lock. The check and the
// set happen under one mutex hold, so concurrent acquires for the same
// user cannot both succeed.
func (s *LockStore) TryAcquire(ctx context.Context, userID, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, held := s.locks[userID]; held {
		return ErrBuildInProgress
	}
	s.locks[userID] = sessionID
	return nil
}

// Release removes any lock held by the user. Releasing an absent lock is
// a no-op.
func (s *LockStore) Release(ctx context.Context, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.locks, userID)
}

// Active returns the session id of the user's active build, if any.
func (s *LockStore) Active(ctx context.Context, userID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sessionID, ok := s.locks[userID]
	return sessionID, ok
}
