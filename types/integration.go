package types

import "time"

// IntegrationCategory groups catalog entries by what they provide.
type IntegrationCategory string

const (
	CategoryAI            IntegrationCategory = "ai"
	CategoryPayment       IntegrationCategory = "payment"
	CategoryDatabase      IntegrationCategory = "database"
	CategoryAuth          IntegrationCategory = "auth"
	CategoryCommunication IntegrationCategory = "communication"
	CategoryOther         IntegrationCategory = "other"
)

// Valid reports whether the category is a known one.
func (c IntegrationCategory) Valid() bool {
	switch c {
	case CategoryAI, CategoryPayment, CategoryDatabase, CategoryAuth, CategoryCommunication, CategoryOther:
		return true
	}
	return false
}

// Integration is a catalog entry representing an optional third-party
// service a generated app may include. Catalog entries are immutable
// reference data; sessions reference them by id.
type Integration struct {
	ID             string              `json:"id"`
	Name           string              `json:"name"`
	Category       IntegrationCategory `json:"category"`
	Description    string              `json:"description"`
	Icon           string              `json:"icon"`
	RequiresAPIKey bool                `json:"requires_api_key"`
	RequiresTier   Tier                `json:"requires_tier"`
	Pricing        string              `json:"pricing"`
	Docs           string              `json:"docs"`
	Status         string              `json:"status"`
}

// KeyValidation records the outcome of validating an integration API key.
// Only a one-way hash of the key is ever retained.
type KeyValidation struct {
	IntegrationID string    `json:"integration_id"`
	APIKeyHash    string    `json:"api_key_hash"`
	ValidatedAt   time.Time `json:"validated_at"`
}
