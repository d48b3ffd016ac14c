package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/physicistcolloh-png/base43/internal/tiers"
	"github.com/physicistcolloh-png/base43/types"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user types.User) (types.User, error)
	GetByID(ctx context.Context, id string) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	UpgradeTier(ctx context.Context, id string, tier types.Tier) (types.User, error)
	IncrementBuildCount(ctx context.Context, id string)
	IncrementInteractionCount(ctx context.Context, id string)
}

// UserService is the user registry. It owns account creation and answers
// entitlement questions by resolving the user's tier through the tier
// policy. Unknown users get the most restrictive answers.
type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

// Register creates an account on the free tier with zeroed counters. The
// password arrives already hashed; the registry never sees plaintext.
func (s *UserService) Register(ctx context.Context, email, username, passwordHash string) (types.User, error) {
	return s.repo.Create(ctx, types.User{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     username,
		Tier:         types.TierFree,
		PasswordHash: passwordHash,
		IsActive:     true,
	})
}

func (s *UserService) GetByID(ctx context.Context, id string) (types.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (types.User, error) {
	return s.repo.GetByEmail(ctx, email)
}

// Upgrade moves the user to a new tier and resets the interaction
// counter. Entitlement checks reflect the new tier immediately.
func (s *UserService) Upgrade(ctx context.Context, id string, tier types.Tier) (types.User, error) {
	if !tier.Valid() {
		return types.User{}, errors.New("unknown tier")
	}
	return s.repo.UpgradeTier(ctx, id, tier)
}

// Limits returns the tier entitlements of the user.
func (s *UserService) Limits(ctx context.Context, id string) (tiers.Limits, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return tiers.Limits{}, err
	}
	return tiers.ForTier(user.Tier), nil
}

// CanBuild reports whether the user is under their build limit.
func (s *UserService) CanBuild(ctx context.Context, id string) bool {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false
	}
	return tiers.ForTier(user.Tier).AllowsBuild(user.BuildCount)
}

// CanUseInteraction reports whether the user is under their interaction
// limit.
func (s *UserService) CanUseInteraction(ctx context.Context, id string) bool {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false
	}
	return tiers.ForTier(user.Tier).AllowsInteraction(user.InteractionsUsed)
}

// CanUseIntegration reports whether the user's tier admits the
// integration.
func (s *UserService) CanUseIntegration(ctx context.Context, id, integrationID string) bool {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false
	}
	return tiers.ForTier(user.Tier).AllowsIntegration(integrationID)
}

// HasWatermark reports whether generated apps carry the watermark for
// this user. Unknown users are watermarked.
func (s *UserService) HasWatermark(ctx context.Context, id string) bool {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return true
	}
	return tiers.ForTier(user.Tier).HasWatermark
}

// IncrementBuildCount bumps the user's build counter.
func (s *UserService) IncrementBuildCount(ctx context.Context, id string) {
	s.repo.IncrementBuildCount(ctx, id)
}

// IncrementInteractionCount bumps the user's interaction counter.
func (s *UserService) IncrementInteractionCount(ctx context.Context, id string) {
	s.repo.IncrementInteractionCount(ctx, id)
}
