// Package config resolves client configuration from a primary provider with
// an environment fallback, mirroring how the Sudburry services configure
// themselves.
package config

import (
	"context"
	"fmt"
	"os"

	"sudburry.com/client/config/providers"
)

// Well-known configuration keys.
const (
	KeyAuthBaseURL   = "SUDBURRY_AUTH_BASE_URL"
	KeyAPIBaseURL    = "SUDBURRY_API_BASE_URL"
	KeySessionFile   = "SUDBURRY_SESSION_FILE"
	KeySessionSecret = "SUDBURRY_SESSION_SECRET"
	KeyLogLevel      = "LOG_LEVEL"
)

// Defaults applied when neither provider has a value.
const (
	DefaultAuthBaseURL = "https://auth.sudburry.com"
	DefaultAPIBaseURL  = "https://api.sudburry.com"
)

// Manager resolves keys against a primary provider, falling back to the
// process environment when the primary does not have the key. CONFIG_SOURCE
// selects the primary: "env-file" (default) or "azure-keyvault" (vault URL
// from CONFIG_VAULT_URL).
type Manager struct {
	source   providers.ProviderType
	primary  providers.ConfigProvider
	fallback providers.ConfigProvider
}

// NewManager builds a Manager from the bootstrap environment.
func NewManager() (*Manager, error) {
	source := providers.ProviderType(os.Getenv("CONFIG_SOURCE"))
	if source == "" {
		source = providers.ProviderTypeEnvFile
	}

	fallback, err := providers.New(providers.ProviderTypeEnvFile, providers.Options{
		EnvFile: os.Getenv("CONFIG_ENV_FILE"),
	})
	if err != nil {
		return nil, fmt.Errorf("create env fallback provider: %w", err)
	}

	primary := fallback
	if source != providers.ProviderTypeEnvFile {
		primary, err = providers.New(source, providers.Options{
			VaultURL: os.Getenv("CONFIG_VAULT_URL"),
		})
		if err != nil {
			return nil, fmt.Errorf("create %s provider: %w", source, err)
		}
	}

	return &Manager{source: source, primary: primary, fallback: fallback}, nil
}

// Source reports which provider type is primary.
func (m *Manager) Source() providers.ProviderType {
	return m.source
}

// Get resolves a key, or "" when neither provider has it.
func (m *Manager) Get(key string) string {
	return m.GetWithDefault(key, "")
}

// GetWithDefault resolves a key with a final default.
func (m *Manager) GetWithDefault(key, defaultValue string) string {
	ctx := context.Background()
	if value, err := m.primary.Get(ctx, key); err == nil && value != "" {
		return value
	}
	if m.primary != m.fallback {
		if value, err := m.fallback.Get(ctx, key); err == nil && value != "" {
			return value
		}
	}
	return defaultValue
}
