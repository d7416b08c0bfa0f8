package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sudburry.com/client/session"
)

// Service selects which backend a request targets.
type Service int

const (
	// AuthService handles sign-in, registration and logout.
	AuthService Service = iota
	// BusinessService handles profiles, jobs, applications and chat.
	BusinessService
)

// Config configures a Client.
type Config struct {
	// AuthBaseURL is the base URL of the authentication service.
	AuthBaseURL string
	// APIBaseURL is the base URL of the business service.
	APIBaseURL string
	// Store supplies the bearer credential for authenticated requests.
	Store *session.Store
	// HTTPClient overrides the underlying transport. The default imposes no
	// timeout of its own: deadlines and cancellation come from the request
	// context.
	HTTPClient *http.Client
	// Logger receives request logs and the normalizer fallback-path warnings.
	// Defaults to a nop logger.
	Logger *zap.Logger
}

// Client issues requests against the two backend services, attaching the
// stored bearer credential and standard headers. It never retries and never
// sequences or deduplicates concurrent calls; callers that need
// at-most-one-in-flight semantics implement that themselves.
type Client struct {
	authBase string
	apiBase  string
	store    *session.Store
	http     *http.Client
	log      *zap.Logger
}

// NewClient creates a Client from the given config.
func NewClient(cfg Config) (*Client, error) {
	if cfg.AuthBaseURL == "" || cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("both auth and api base URLs are required")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		authBase: strings.TrimRight(cfg.AuthBaseURL, "/"),
		apiBase:  strings.TrimRight(cfg.APIBaseURL, "/"),
		store:    cfg.Store,
		http:     httpClient,
		log:      logger,
	}, nil
}

// Request describes one backend call.
type Request struct {
	Service Service
	Method  string
	Path    string
	Query   url.Values
	// Body is marshaled to JSON when non-nil.
	Body any
	// RawBody is sent as-is (multipart uploads); ContentType must be set
	// alongside it.
	RawBody     io.Reader
	ContentType string
	// SkipAuth marks the few unauthenticated endpoints (sign-in, register).
	SkipAuth bool
}

// Do issues the request and returns the raw response body text. A missing
// credential on an authenticated request fails with session.ErrNoCredential
// before any network traffic. A non-2xx status always fails with *APIError
// carrying the numeric status and a best-effort message.
func (c *Client) Do(ctx context.Context, req Request) (string, error) {
	var bearer string
	if !req.SkipAuth {
		credential, err := c.store.Credential(ctx)
		if err != nil {
			return "", err
		}
		bearer = credential
	}

	base := c.apiBase
	if req.Service == AuthService {
		base = c.authBase
	}
	endpoint := base + req.Path
	if len(req.Query) > 0 {
		endpoint += "?" + req.Query.Encode()
	}

	body := req.RawBody
	contentType := req.ContentType
	if body == nil {
		if req.Body != nil {
			payload, err := json.Marshal(req.Body)
			if err != nil {
				return "", fmt.Errorf("encode request body: %w", err)
			}
			body = bytes.NewReader(payload)
		}
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, endpoint, body)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Accept", "*/*")
	httpReq.Header.Set("Content-Type", contentType)
	requestID := uuid.NewString()
	httpReq.Header.Set("X-Request-ID", requestID)
	if bearer != "" {
		httpReq.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}
	text := string(raw)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := NewAPIError(resp.StatusCode, ExtractMessage(text))
		c.log.Warn("backend request failed",
			zap.String("method", req.Method),
			zap.String("path", req.Path),
			zap.String("request_id", requestID),
			zap.Int("status", resp.StatusCode),
			zap.String("message", apiErr.Message),
		)
		return "", apiErr
	}
	return text, nil
}

// DoJSON issues the request and normalizes the response body with the given
// operation-appropriate fallback. The Extracted and Fallback outcomes are
// logged distinctly from a legitimately empty body.
func (c *Client) DoJSON(ctx context.Context, req Request, fallback any) (any, error) {
	text, err := c.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	value, outcome := Normalize(text, fallback)
	switch outcome {
	case OutcomeExtracted:
		c.log.Warn("recovered json embedded in noisy response body",
			zap.String("method", req.Method),
			zap.String("path", req.Path),
		)
	case OutcomeFallback:
		c.log.Warn("unparseable response body, substituting fallback",
			zap.String("method", req.Method),
			zap.String("path", req.Path),
			zap.Int("body_len", len(text)),
		)
	}
	return value, nil
}

// Coerce reshapes a normalized value into a typed destination via a JSON
// round-trip. Feature services use it to go from the tolerant any-shaped
// value to their response structs.
func Coerce(value any, dst any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode normalized value: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("reshape normalized value: %w", err)
	}
	return nil
}
