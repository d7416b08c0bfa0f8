package providers

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// EnvFileProvider reads configuration from the process environment, loading
// an optional dotenv file once at construction. Missing keys are errors so
// the manager can fall through to its defaults.
type EnvFileProvider struct{}

// NewEnvFileProvider creates an environment-backed provider.
func NewEnvFileProvider(opts Options) (ConfigProvider, error) {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", opts.EnvFile, err)
		}
	} else {
		// Best effort: a .env in the working directory is a convenience, not
		// a requirement.
		_ = godotenv.Load()
	}
	return &EnvFileProvider{}, nil
}

func (p *EnvFileProvider) Get(_ context.Context, key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("environment variable %q not set", key)
	}
	return value, nil
}
