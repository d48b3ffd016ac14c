// Package tiers maps subscription tiers to their entitlements. The policy
// is a pure function of the tier: no side effects, no failure modes.
// Unknown tiers resolve to the free-tier restrictions.
package tiers

import "github.com/physicistcolloh-png/base43/types"

// Unlimited marks a quota with no cap.
const Unlimited = -1

// Limits is the entitlement record for a tier.
type Limits struct {
	// BuildLimit and InteractionLimit cap usage counters; Unlimited
	// disables the cap.
	BuildLimit       int
	InteractionLimit int

	// AllIntegrations admits every catalog entry. When false,
	// Integrations is the allowlist of integration ids.
	AllIntegrations bool
	Integrations    []string

	CanUseCustomDomains bool
	CanDownloadApps     bool
	HasWatermark        bool
}

var freeLimits = Limits{
	BuildLimit:       2,
	InteractionLimit: 2,
	Integrations:     []string{"openai", "firebase", "supabase", "jwt", "websocket", "rest_api"},
	HasWatermark:     true,
}

var paidLimits = map[types.Tier]Limits{
	types.TierStarter: {
		BuildLimit:       Unlimited,
		InteractionLimit: Unlimited,
		AllIntegrations:  true,
	},
	types.TierProfessional: {
		BuildLimit:          Unlimited,
		InteractionLimit:    Unlimited,
		AllIntegrations:     true,
		CanUseCustomDomains: true,
		CanDownloadApps:     true,
	},
	types.TierEnterprise: {
		BuildLimit:          Unlimited,
		InteractionLimit:    Unlimited,
		AllIntegrations:     true,
		CanUseCustomDomains: true,
		CanDownloadApps:     true,
	},
}

// ForTier returns the entitlements of the given tier.
func ForTier(tier types.Tier) Limits {
	if limits, ok := paidLimits[tier]; ok {
		return limits
	}
	return freeLimits
}

// AllowsBuild reports whether a user with the given build count may start
// another build under these limits.
func (l Limits) AllowsBuild(buildCount int) bool {
	return l.BuildLimit == Unlimited || buildCount < l.BuildLimit
}

// AllowsInteraction reports whether a user with the given usage may
// consume another interaction under these limits.
func (l Limits) AllowsInteraction(interactionsUsed int) bool {
	return l.InteractionLimit == Unlimited || interactionsUsed < l.InteractionLimit
}

// AllowsIntegration reports whether the integration id is available under
// these limits.
func (l Limits) AllowsIntegration(integrationID string) bool {
	if l.AllIntegrations {
		return true
	}
	for _, id := range l.Integrations {
		if id == integrationID {
			return true
		}
	}
	return false
}
