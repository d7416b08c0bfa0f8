// Package account implements the sign-in, sign-up and sign-out operations
// and owns the credential/role lifecycle in the session store.
package account

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"sudburry.com/client/rest"
	"sudburry.com/client/session"
)

// Roles the backend issues. Anything other than RoleEmployer is treated as a
// job seeker by the views.
const (
	RoleEmployer  = "EMPLOYER"
	RoleJobSeeker = "JOBSEEKER"
)

// Service is the account feature service. Stateless: every method is a plain
// mapping from parameters to result or error.
type Service struct {
	client   *rest.Client
	store    *session.Store
	validate *validator.Validate
	log      *zap.Logger
}

// NewService creates an account service.
func NewService(client *rest.Client, store *session.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		client:   client,
		store:    store,
		validate: validator.New(),
		log:      logger,
	}
}

// SignUpRequest is the registration payload.
type SignUpRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required"`
}

// SignIn authenticates with the auth service. The endpoint takes credentials
// as query parameters and answers with the bearer token as a raw text body,
// not JSON. On success the credential is stored and the role is derived once
// from the decoded payload; a payload that cannot be decoded leaves the role
// unset rather than failing the sign-in.
func (s *Service) SignIn(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return fmt.Errorf("username and password are required")
	}
	query := url.Values{}
	query.Set("username", username)
	query.Set("password", password)

	body, err := s.client.Do(ctx, rest.Request{
		Service:  rest.AuthService,
		Method:   http.MethodPost,
		Path:     "/signin",
		Query:    query,
		SkipAuth: true,
	})
	if err != nil {
		return err
	}

	// Older auth service versions quoted or wrapped the token; run the body
	// through the same decoder chain the store uses.
	token := session.DecodeStoredCredential(strings.TrimSpace(body))
	if token == "" {
		return fmt.Errorf("sign in succeeded but returned no token")
	}
	return s.adopt(ctx, token, "")
}

// SignUp registers a new account. The response wraps the credential as
// {"token": {"token": ..., "role": ...}}.
func (s *Service) SignUp(ctx context.Context, req SignUpRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("invalid sign up request: %w", err)
	}
	value, err := s.client.DoJSON(ctx, rest.Request{
		Service:  rest.AuthService,
		Method:   http.MethodPost,
		Path:     "/register",
		Body:     req,
		SkipAuth: true,
	}, nil)
	if err != nil {
		return err
	}

	var resp struct {
		Token struct {
			Token string `json:"token"`
			Role  any    `json:"role"`
		} `json:"token"`
	}
	if err := rest.Coerce(value, &resp); err != nil || resp.Token.Token == "" {
		return fmt.Errorf("registration succeeded but returned no token")
	}
	role := ""
	switch v := resp.Token.Role.(type) {
	case string:
		role = v
	case map[string]any:
		role, _ = v["role"].(string)
	}
	return s.adopt(ctx, resp.Token.Token, role)
}

// SignOut notifies the auth service and clears the local session. The
// backend call is deliberately non-fatal: local clearing proceeds regardless
// of whether the logout was acknowledged.
func (s *Service) SignOut(ctx context.Context) error {
	if _, err := s.client.Do(ctx, rest.Request{
		Service: rest.AuthService,
		Method:  http.MethodPost,
		Path:    "/logout",
	}); err != nil {
		s.log.Warn("backend logout failed, clearing local session anyway", zap.Error(err))
	}
	return s.store.Clear(ctx)
}

// Role returns the cached account role, or "" when signed out.
func (s *Service) Role(ctx context.Context) (string, error) {
	return s.store.Role(ctx)
}

// adopt stores a freshly issued credential and caches its role. An explicit
// role (from the register response) wins over the payload claim.
func (s *Service) adopt(ctx context.Context, token, role string) error {
	if err := s.store.SetCredential(ctx, token); err != nil {
		return fmt.Errorf("store credential: %w", err)
	}
	if role == "" {
		claimed, err := session.RoleFromCredential(token)
		if err != nil {
			// Display-only metadata; a credential the client cannot decode is
			// still a perfectly usable bearer token.
			s.log.Debug("could not derive role from credential payload", zap.Error(err))
			return nil
		}
		role = claimed
	}
	if role == "" {
		return nil
	}
	if err := s.store.SetRole(ctx, role); err != nil {
		return fmt.Errorf("store role: %w", err)
	}
	return nil
}
