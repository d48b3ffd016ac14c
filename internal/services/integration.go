package services

import (
	"context"
	"time"

	"github.com/physicistcolloh-png/base43/internal/catalog"
	"github.com/physicistcolloh-png/base43/internal/store"
	"github.com/physicistcolloh-png/base43/types"
)

// CatalogEntry is an integration annotated for a specific caller: entries
// above the caller's tier are marked disabled.
type CatalogEntry struct {
	types.Integration
	Disabled bool `json:"disabled"`
}

// IntegrationService gates catalog access by tier and attaches activated
// integrations to build sessions.
type IntegrationService struct {
	users    *UserService
	sessions SessionRepository
}

func NewIntegrationService(users *UserService, sessions SessionRepository) *IntegrationService {
	return &IntegrationService{users: users, sessions: sessions}
}

// List returns the full catalog annotated for the user. Entries the
// user's tier cannot activate are flagged disabled rather than hidden,
// so the UI can upsell.
func (s *IntegrationService) List(ctx context.Context, userID string) ([]CatalogEntry, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	all := catalog.All()
	entries := make([]CatalogEntry, 0, len(all))
	for _, integration := range all {
		entries = append(entries, CatalogEntry{
			Integration: integration,
			Disabled:    !user.Tier.Meets(integration.RequiresTier),
		})
	}
	return entries, nil
}

// ListByCategory returns the annotated catalog filtered to one category.
func (s *IntegrationService) ListByCategory(ctx context.Context, userID string, category types.IntegrationCategory) ([]CatalogEntry, error) {
	entries, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	filtered := entries[:0]
	for _, entry := range entries {
		if entry.Category == category {
			filtered = append(filtered, entry)
		}
	}
	return filtered, nil
}

// Activate appends the integration to the session's selection. The
// user's tier must meet the integration's required tier and the tier
// policy allowlist must admit it.
func (s *IntegrationService) Activate(ctx context.Context, userID, sessionID, integrationID string) (types.Integration, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return types.Integration{}, err
	}

	integration, ok := catalog.ByID(integrationID)
	if !ok {
		return types.Integration{}, store.ErrNotFound
	}

	if !user.Tier.Meets(integration.RequiresTier) || !s.users.CanUseIntegration(ctx, userID, integrationID) {
		return types.Integration{}, &ForbiddenError{
			Reason: integration.Name + " requires the " + string(integration.RequiresTier) + " tier",
		}
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return types.Integration{}, err
	}
	if session.UserID != userID {
		return types.Integration{}, store.ErrNotFound
	}

	if err := s.sessions.AddSelectedIntegration(ctx, sessionID, integration); err != nil {
		return types.Integration{}, err
	}
	return integration, nil
}

// ValidateKey checks the API key format for the integration and returns
// a record holding only the one-way hash of the key.
func (s *IntegrationService) ValidateKey(ctx context.Context, integrationID, apiKey string) (types.KeyValidation, error) {
	integration, ok := catalog.ByID(integrationID)
	if !ok {
		return types.KeyValidation{}, store.ErrNotFound
	}

	if integration.RequiresAPIKey && !catalog.ValidKeyFormat(integrationID, apiKey) {
		return types.KeyValidation{}, ErrInvalidAPIKey
	}

	return types.KeyValidation{
		IntegrationID: integrationID,
		APIKeyHash:    catalog.HashKey(apiKey),
		ValidatedAt:   time.Now(),
	}, nil
}
