package providers

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
)

// AzureKeyVaultProvider reads configuration from Azure Key Vault. Headless
// SDK consumers (schedulers, bots acting for a service account) keep their
// sign-in secrets in a vault rather than in process environment. Secrets are
// cached briefly because vault round-trips are slow relative to config reads.
type AzureKeyVaultProvider struct {
	client *azsecrets.Client

	mu      sync.Mutex
	cache   map[string]string
	fetched map[string]time.Time
	ttl     time.Duration
}

// NewAzureKeyVaultProvider creates a vault-backed provider using the default
// Azure credential chain (managed identity in production).
func NewAzureKeyVaultProvider(opts Options) (ConfigProvider, error) {
	if opts.VaultURL == "" {
		return nil, fmt.Errorf("vault URL is required for the azure-keyvault provider")
	}
	credential, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("create azure credential: %w", err)
	}
	client, err := azsecrets.NewClient(opts.VaultURL, credential, nil)
	if err != nil {
		return nil, fmt.Errorf("create key vault client: %w", err)
	}
	return &AzureKeyVaultProvider{
		client:  client,
		cache:   make(map[string]string),
		fetched: make(map[string]time.Time),
		ttl:     5 * time.Minute,
	}, nil
}

func (p *AzureKeyVaultProvider) Get(ctx context.Context, key string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if value, ok := p.cache[key]; ok && time.Since(p.fetched[key]) < p.ttl {
		return value, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// Key Vault secret names cannot contain underscores.
	resp, err := p.client.GetSecret(ctx, strings.ReplaceAll(key, "_", "-"), "", nil)
	if err != nil {
		return "", fmt.Errorf("get secret %q: %w", key, err)
	}
	if resp.Value == nil {
		return "", fmt.Errorf("secret %q has no value", key)
	}

	p.cache[key] = *resp.Value
	p.fetched[key] = time.Now()
	return *resp.Value, nil
}
