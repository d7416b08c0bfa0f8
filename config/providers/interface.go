package providers

import (
	"context"
	"fmt"
)

// ProviderType names a configuration source.
type ProviderType string

const (
	ProviderTypeEnvFile       ProviderType = "env-file"
	ProviderTypeAzureKeyVault ProviderType = "azure-keyvault"
)

// ConfigProvider is any source of configuration values. Implementations must
// be safe for concurrent use.
type ConfigProvider interface {
	// Get retrieves a value by key; errors when the key is not available.
	Get(ctx context.Context, key string) (string, error)
}

// Options carries provider-specific settings.
type Options struct {
	// VaultURL is required for the azure-keyvault provider.
	VaultURL string
	// EnvFile optionally points at a dotenv file for the env-file provider.
	EnvFile string
}

// New creates a provider of the given type.
func New(providerType ProviderType, opts Options) (ConfigProvider, error) {
	switch providerType {
	case ProviderTypeEnvFile:
		return NewEnvFileProvider(opts)
	case ProviderTypeAzureKeyVault:
		return NewAzureKeyVaultProvider(opts)
	default:
		return nil, fmt.Errorf("unsupported config provider: %s", providerType)
	}
}
