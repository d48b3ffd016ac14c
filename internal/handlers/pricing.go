package handlers

import (
	"net/http"
	"os"
	"time"

	"github.com/physicistcolloh-png/base43/types"
)

// PricingTier is one row of the public pricing table.
type PricingTier struct {
	Name  string     `json:"name"`
	Tier  types.Tier `json:"tier"`
	Price int        `json:"price"`
}

// pricingTiers is static display data; entitlements live in the tier
// policy, not here.
var pricingTiers = []PricingTier{
	{Name: "Free", Tier: types.TierFree, Price: 0},
	{Name: "Starter", Tier: types.TierStarter, Price: 1500},
	{Name: "Professional", Tier: types.TierProfessional, Price: 2400},
	{Name: "Enterprise", Tier: types.TierEnterprise, Price: 3500},
}

// PricingHandler serves the public pricing table.
type PricingHandler struct {
	upgradeURL string
}

// NewPricingHandler constructs a handler with the configured upgrade link.
func NewPricingHandler(upgradeURL string) *PricingHandler {
	return &PricingHandler{upgradeURL: upgradeURL}
}

// Pricing returns the pricing table and the upgrade link.
func (h *PricingHandler) Pricing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, PricingResponse{
		Tiers:      pricingTiers,
		UpgradeURL: h.upgradeURL,
	})
}

type PricingResponse struct {
	Tiers      []PricingTier `json:"tiers"`
	UpgradeURL string        `json:"upgrade_url"`
}

var startTime = time.Now()

// Healthz reports liveness.
func Healthz(w http.ResponseWriter, r *http.Request) {
	env := os.Getenv("ENV")
	if env == "" {
		env = "development"
	}
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:      "ok",
		Environment: env,
		Timestamp:   time.Now().UTC(),
		Uptime:      time.Since(startTime).String(),
	})
}

type HealthResponse struct {
	Status      string    `json:"status"`
	Environment string    `json:"environment"`
	Timestamp   time.Time `json:"timestamp"`
	Uptime      string    `json:"uptime"`
}
