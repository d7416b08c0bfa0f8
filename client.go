// Package client is the Sudburry job-board client SDK: session and
// credential handling, a tolerant response normalizer, an authenticated
// HTTP client against the auth and business services, and the stateless
// feature services built on top of them.
package client

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"sudburry.com/client/account"
	"sudburry.com/client/chat"
	"sudburry.com/client/config"
	"sudburry.com/client/employer"
	"sudburry.com/client/jobs"
	"sudburry.com/client/logging"
	"sudburry.com/client/profile"
	"sudburry.com/client/rest"
	"sudburry.com/client/session"
)

// Client bundles the feature services over one shared session and transport.
type Client struct {
	Session  *session.Store
	REST     *rest.Client
	Account  *account.Service
	Profile  *profile.Service
	Jobs     *jobs.Service
	Employer *employer.Service
	Chat     *chat.Service
}

// Options configures New. Zero-value fields are resolved from configuration
// (see the config package) or sensible defaults.
type Options struct {
	AuthBaseURL string
	APIBaseURL  string
	// Adapter selects the session backing; defaults to in-memory, or a
	// sealed file store when SUDBURRY_SESSION_FILE is configured.
	Adapter    session.Adapter
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// New assembles a Client. Configuration is environment-driven by default;
// every dependency can be overridden through Options.
func New(opts Options) (*Client, error) {
	if err := config.Init(); err != nil {
		return nil, fmt.Errorf("init configuration: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		var err error
		logger, err = logging.NewLogger(config.GetWithDefault(config.KeyLogLevel, "info"))
		if err != nil {
			return nil, fmt.Errorf("init logger: %w", err)
		}
	}

	adapter := opts.Adapter
	if adapter == nil {
		if path := config.Get(config.KeySessionFile); path != "" {
			adapter = session.NewFileAdapter(path, config.Get(config.KeySessionSecret))
		} else {
			adapter = session.NewMemoryAdapter()
		}
	}
	store := session.NewStore(adapter)

	authBase := opts.AuthBaseURL
	if authBase == "" {
		authBase = config.GetWithDefault(config.KeyAuthBaseURL, config.DefaultAuthBaseURL)
	}
	apiBase := opts.APIBaseURL
	if apiBase == "" {
		apiBase = config.GetWithDefault(config.KeyAPIBaseURL, config.DefaultAPIBaseURL)
	}

	restClient, err := rest.NewClient(rest.Config{
		AuthBaseURL: authBase,
		APIBaseURL:  apiBase,
		Store:       store,
		HTTPClient:  opts.HTTPClient,
		Logger:      logger,
	})
	if err != nil {
		return nil, err
	}

	return &Client{
		Session:  store,
		REST:     restClient,
		Account:  account.NewService(restClient, store, logger),
		Profile:  profile.NewService(restClient, store),
		Jobs:     jobs.NewService(restClient, store),
		Employer: employer.NewService(restClient, store),
		Chat:     chat.NewService(restClient),
	}, nil
}
