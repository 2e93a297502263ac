package secrets

import (
	"context"
	"strings"
)

// UpstreamAPIKey is the secret key holding the LLM API key
const UpstreamAPIKey = "groq_api_key"

// Manager provides access to secrets from various sources
type Manager interface {
	// GetSecret retrieves a secret by key
	GetSecret(ctx context.Context, key string) (string, error)

	// GetSecretWithDefault retrieves a secret with a default value if not found
	GetSecretWithDefault(ctx context.Context, key, defaultValue string) string
}

// ResolveAPIKey returns the configured key when set, otherwise asks the manager.
// An empty result means no key is available.
func ResolveAPIKey(ctx context.Context, manager Manager, configured string) string {
	if key := strings.TrimSpace(configured); key != "" {
		return key
	}
	if manager == nil {
		return ""
	}
	return manager.GetSecretWithDefault(ctx, UpstreamAPIKey, "")
}
