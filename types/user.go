package types

import "time"

// Tier is a subscription level determining quotas and feature access.
type Tier string

const (
	TierFree         Tier = "free"
	TierStarter      Tier = "starter"
	TierProfessional Tier = "professional"
	TierEnterprise   Tier = "enterprise"
)

// tierLevels orders tiers from least to most privileged. Unknown tiers
// map to the free level.
var tierLevels = map[Tier]int{
	TierFree:         0,
	TierStarter:      1,
	TierProfessional: 2,
	TierEnterprise:   3,
}

// Valid reports whether t is one of the four known tiers.
func (t Tier) Valid() bool {
	_, ok := tierLevels[t]
	return ok
}

// Level returns the ordinal position of the tier. Unknown tiers rank as free.
func (t Tier) Level() int {
	return tierLevels[t]
}

// Meets reports whether t grants at least the access of required.
func (t Tier) Meets(required Tier) bool {
	return t.Level() >= required.Level()
}

// User represents an account in the system.
// It contains identity, tier, and usage metadata.
type User struct {
	// ID is the unique identifier of the user.
	ID string `json:"id"`

	// Email is the user's email address, unique across accounts.
	Email string `json:"email"`

	// Username is the display name chosen by the user.
	Username string `json:"username"`

	// Tier is the user's subscription level.
	Tier Tier `json:"tier"`

	// PasswordHash stores the hashed representation of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-"`

	// BuildCount is the number of builds the user has started.
	BuildCount int `json:"build_count"`

	// InteractionsUsed is the number of AI interactions consumed on the
	// current tier. It resets to zero on tier upgrade.
	InteractionsUsed int `json:"interactions_used"`

	// CustomDomain is the domain attached to the user's published apps,
	// if their tier allows one.
	CustomDomain string `json:"custom_domain,omitempty"`

	// IsActive indicates whether the account is enabled.
	IsActive bool `json:"is_active"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the account.
	UpdatedAt time.Time `json:"updated_at"`
}
