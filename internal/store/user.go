package store

import (
	"context"
	"sync"
	"time"

	"github.com/physicistcolloh-png/base43/types"
)

// UserStore handles persistence for users. Records live in process
// memory behind a mutex; counter mutations are atomic per user.
type UserStore struct {
	mu      sync.RWMutex
	users   map[string]types.User
	byEmail map[string]string
}

func NewUserStore() *UserStore {
	return &UserStore{
		users:   make(map[string]types.User),
		byEmail: make(map[string]string),
	}
}

func (s *UserStore) Create(ctx context.Context, user types.User) (types.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[user.Email]; exists {
		return types.User{}, ErrAlreadyExists
	}

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	s.users[user.ID] = user
	s.byEmail[user.Email] = user.ID
	return user, nil
}

func (s *UserStore) GetByID(ctx context.Context, id string) (types.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return types.User{}, ErrNotFound
	}
	return user, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (types.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return types.User{}, ErrNotFound
	}
	return s.users[id], nil
}

// UpgradeTier sets the user's tier and resets the interaction counter so
// entitlement checks reflect the new tier immediately.
func (s *UserStore) UpgradeTier(ctx context.Context, id string, tier types.Tier) (types.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return types.User{}, ErrNotFound
	}

	user.Tier = tier
	user.InteractionsUsed = 0
	user.UpdatedAt = time.Now()
	s.users[id] = user
	return user, nil
}

// IncrementBuildCount bumps the user's build counter. Unknown users are a
// no-op.
func (s *UserStore) IncrementBuildCount(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return
	}
	user.BuildCount++
	user.UpdatedAt = time.Now()
	s.users[id] = user
}

// IncrementInteractionCount bumps the user's interaction counter. Unknown
// users are a no-op.
func (s *UserStore) IncrementInteractionCount(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return
	}
	user.InteractionsUsed++
	user.UpdatedAt = time.Now()
	s.users[id] = user
}
