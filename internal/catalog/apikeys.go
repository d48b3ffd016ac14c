package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// keyValidators knows the expected shape of API keys per integration.
// These are format checks only; no network calls are made.
var keyValidators = map[string]func(string) bool{
	"openai":   func(key string) bool { return strings.HasPrefix(key, "sk-") && len(key) > 20 },
	"firebase": func(key string) bool { return strings.Contains(key, "{") || len(key) > 100 },
	"stripe": func(key string) bool {
		return strings.HasPrefix(key, "sk_live_") || strings.HasPrefix(key, "sk_test_")
	},
	"twilio":   func(key string) bool { return len(key) > 30 },
	"sendgrid": func(key string) bool { return strings.HasPrefix(key, "SG.") && len(key) > 30 },
	"auth0":    func(key string) bool { return strings.Contains(key, ".") },
	"supabase": func(key string) bool { return len(key) > 30 },
}

// ValidKeyFormat reports whether the key looks plausible for the given
// integration. Integrations without a registered validator accept any key.
func ValidKeyFormat(integrationID, key string) bool {
	validator, ok := keyValidators[integrationID]
	if !ok {
		return true
	}
	return validator(key)
}

// HashKey returns the hex-encoded SHA-256 digest of an API key. Plaintext
// keys are never stored.
func HashKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
