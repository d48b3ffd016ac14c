// Package catalog holds the immutable integration catalog. Entries are
// reference data: not owned by any session, referenced by id.
package catalog

import (
	"github.com/physicistcolloh-png/base43/types"
)

var integrations = []types.Integration{
	{
		ID:             "openai",
		Name:           "OpenAI API",
		Category:       types.CategoryAI,
		Description:    "GPT-4 & GPT-3.5 Turbo models",
		Icon:           "🤖",
		RequiresAPIKey: true,
		RequiresTier:   types.TierFree,
		Pricing:        "Usage-based",
		Docs:           "https://platform.openai.com/docs",
		Status:         "stable",
	},
	{
		ID:             "gemini",
		Name:           "Google Gemini",
		Category:       types.CategoryAI,
		Description:    "Google advanced AI model",
		Icon:           "🤖",
		RequiresAPIKey: true,
		RequiresTier:   types.TierStarter,
		Pricing:        "Usage-based",
		Docs:           "https://ai.google.dev",
		Status:         "stable",
	},
	{
		ID:             "deepseek",
		Name:           "DeepSeek AI",
		Category:       types.CategoryAI,
		Description:    "DeepSeek LLM for reasoning tasks",
		Icon:           "🤖",
		RequiresAPIKey: true,
		RequiresTier:   types.TierStarter,
		Pricing:        "Usage-based",
		Docs:           "https://api.deepseek.com",
		Status:         "beta",
	},
	{
		ID:             "stripe",
		Name:           "Stripe Payment Gateway",
		Category:       types.CategoryPayment,
		Description:    "Global payment processing",
		Icon:           "💳",
		RequiresAPIKey: true,
		RequiresTier:   types.TierProfessional,
		Pricing:        "2.9% + $0.30",
		Docs:           "https://stripe.com/docs",
		Status:         "stable",
	},
	{
		ID:             "mpesa",
		Name:           "M-Pesa Integration (STK Push)",
		Category:       types.CategoryPayment,
		Description:    "Mobile money for East Africa",
		Icon:           "💳",
		RequiresAPIKey: true,
		RequiresTier:   types.TierStarter,
		Pricing:        "Usage-based",
		Docs:           "https://developer.safaricom.co.ke",
		Status:         "stable",
	},
	{
		ID:             "pesapal",
		Name:           "PesaPal Fallback",
		Category:       types.CategoryPayment,
		Description:    "Multi-channel payments",
		Icon:           "💳",
		RequiresAPIKey: true,
		RequiresTier:   types.TierStarter,
		Pricing:        "Percentage-based",
		Docs:           "https://developer.pesapal.com",
		Status:         "stable",
	},
	{
		ID:             "firebase",
		Name:           "Firebase",
		Category:       types.CategoryDatabase,
		Description:    "Realtime NoSQL database with auth",
		Icon:           "🔥",
		RequiresAPIKey: true,
		RequiresTier:   types.TierFree,
		Pricing:        "Free tier + pay-as-you-go",
		Docs:           "https://firebase.google.com/docs",
		Status:         "stable",
	},
	{
		ID:             "supabase",
		Name:           "Supabase",
		Category:       types.CategoryDatabase,
		Description:    "Open-source PostgreSQL backend",
		Icon:           "🔥",
		RequiresAPIKey: true,
		RequiresTier:   types.TierFree,
		Pricing:        "Free tier + pay-as-you-go",
		Docs:           "https://supabase.com/docs",
		Status:         "stable",
	},
	{
		ID:             "mongodb",
		Name:           "MongoDB Atlas",
		Category:       types.CategoryDatabase,
		Description:    "Cloud MongoDB database",
		Icon:           "🔥",
		RequiresAPIKey: true,
		RequiresTier:   types.TierProfessional,
		Pricing:        "Free tier + monthly plans",
		Docs:           "https://docs.mongodb.com/atlas",
		Status:         "stable",
	},
	{
		ID:             "postgresql",
		Name:           "PostgreSQL",
		Category:       types.CategoryDatabase,
		Description:    "Powerful relational database",
		Icon:           "🔥",
		RequiresAPIKey: true,
		RequiresTier:   types.TierProfessional,
		Pricing:        "Free (self-hosted) + managed",
		Docs:           "https://www.postgresql.org/docs",
		Status:         "stable",
	},
	{
		ID:             "airtable",
		Name:           "Airtable",
		Category:       types.CategoryDatabase,
		Description:    "Spreadsheet-like database",
		Icon:           "🔥",
		RequiresAPIKey: true,
		RequiresTier:   types.TierStarter,
		Pricing:        "Free tier + paid plans",
		Docs:           "https://airtable.com/api",
		Status:         "stable",
	},
	{
		ID:             "auth0",
		Name:           "Auth0",
		Category:       types.CategoryAuth,
		Description:    "Enterprise authentication platform",
		Icon:           "🔐",
		RequiresAPIKey: true,
		RequiresTier:   types.TierProfessional,
		Pricing:        "Free tier + plans starting $13/month",
		Docs:           "https://auth0.com/docs",
		Status:         "stable",
	},
	{
		ID:             "jwt",
		Name:           "JWT Token System",
		Category:       types.CategoryAuth,
		Description:    "Self-hosted JWT authentication",
		Icon:           "🔐",
		RequiresAPIKey: false,
		RequiresTier:   types.TierFree,
		Pricing:        "Free",
		Docs:           "https://jwt.io",
		Status:         "stable",
	},
	{
		ID:             "twilio",
		Name:           "Twilio SMS",
		Category:       types.CategoryCommunication,
		Description:    "SMS and voice messaging",
		Icon:           "📨",
		RequiresAPIKey: true,
		RequiresTier:   types.TierProfessional,
		Pricing:        "$0.0075 per SMS",
		Docs:           "https://www.twilio.com/docs",
		Status:         "stable",
	},
	{
		ID:             "sendgrid",
		Name:           "SendGrid Email",
		Category:       types.CategoryCommunication,
		Description:    "Email delivery service",
		Icon:           "📨",
		RequiresAPIKey: true,
		RequiresTier:   types.TierStarter,
		Pricing:        "Free tier + paid plans",
		Docs:           "https://sendgrid.com/docs",
		Status:         "stable",
	},
	{
		ID:             "websocket",
		Name:           "WebSocket Real-time",
		Category:       types.CategoryCommunication,
		Description:    "Real-time bidirectional communication",
		Icon:           "📨",
		RequiresAPIKey: false,
		RequiresTier:   types.TierFree,
		Pricing:        "Free",
		Docs:           "https://developer.mozilla.org/en-US/docs/Web/API/WebSocket",
		Status:         "stable",
	},
	{
		ID:             "google_apis",
		Name:           "Google APIs",
		Category:       types.CategoryOther,
		Description:    "Google services (Maps, Sheets, Drive)",
		Icon:           "🔧",
		RequiresAPIKey: true,
		RequiresTier:   types.TierStarter,
		Pricing:        "Free tier + usage-based",
		Docs:           "https://developers.google.com",
		Status:         "stable",
	},
	{
		ID:             "rest_api",
		Name:           "Custom REST APIs",
		Category:       types.CategoryOther,
		Description:    "Generic REST endpoint integration",
		Icon:           "🔧",
		RequiresAPIKey: false,
		RequiresTier:   types.TierFree,
		Pricing:        "Free",
		Docs:           "https://restfulapi.net",
		Status:         "stable",
	},
	{
		ID:             "n8n",
		Name:           "n8n Workflow Automation",
		Category:       types.CategoryOther,
		Description:    "No-code workflow automation",
		Icon:           "🔧",
		RequiresAPIKey: true,
		RequiresTier:   types.TierProfessional,
		Pricing:        "Free tier + cloud plans",
		Docs:           "https://docs.n8n.io",
		Status:         "stable",
	},
}

var byID = func() map[string]types.Integration {
	m := make(map[string]types.Integration, len(integrations))
	for _, i := range integrations {
		m[i.ID] = i
	}
	return m
}()

// All returns every catalog entry in a stable order.
func All() []types.Integration {
	out := make([]types.Integration, len(integrations))
	copy(out, integrations)
	return out
}

// ByID looks up a catalog entry by id.
func ByID(id string) (types.Integration, bool) {
	i, ok := byID[id]
	return i, ok
}

// ByCategory returns catalog entries in the given category.
func ByCategory(category types.IntegrationCategory) []types.Integration {
	var out []types.Integration
	for _, i := range integrations {
		if i.Category == category {
			out = append(out, i)
		}
	}
	return out
}

// ByTier returns the catalog entries available to the given tier.
func ByTier(tier types.Tier) []types.Integration {
	var out []types.Integration
	for _, i := range integrations {
		if tier.Meets(i.RequiresTier) {
			out = append(out, i)
		}
	}
	return out
}
