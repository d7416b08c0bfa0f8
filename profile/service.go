// Package profile implements the job-seeker profile operations: fetch, save,
// update and resume upload, plus the derived years-of-experience figure.
package profile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/go-playground/validator/v10"

	"sudburry.com/client/rest"
	"sudburry.com/client/session"
)

// Profile is the job-seeker profile as the views consume it.
type Profile struct {
	Email             string      `json:"email"`
	FullName          string      `json:"fullName"`
	Headline          string      `json:"headline"`
	Location          string      `json:"location"`
	Skills            []string    `json:"skills"`
	WorkHistory       []WorkEntry `json:"workHistory"`
	ResumeURL         string      `json:"resumeUrl"`
	YearsOfExperience int         `json:"yearsOfExperience"`
}

// WorkEntry is one work-history item.
type WorkEntry struct {
	Company   string `json:"company"`
	Title     string `json:"title"`
	StartYear int    `json:"start_year"`
	EndYear   int    `json:"end_year"`
	Current   bool   `json:"currently_active"`
}

// SaveRequest is the payload for Save and Update.
type SaveRequest struct {
	FullName    string      `json:"fullName" validate:"required"`
	Headline    string      `json:"headline"`
	Location    string      `json:"location"`
	Skills      []string    `json:"skills"`
	WorkHistory []WorkEntry `json:"workHistory"`
}

// Service is the profile feature service.
type Service struct {
	client   *rest.Client
	store    *session.Store
	validate *validator.Validate
	now      func() time.Time
}

// NewService creates a profile service.
func NewService(client *rest.Client, store *session.Store) *Service {
	return &Service{
		client:   client,
		store:    store,
		validate: validator.New(),
		now:      time.Now,
	}
}

// Fetch retrieves the caller's profile and refreshes the cached snapshot.
// An unresolvable identity is fatal here: the caller must be told to sign in
// again rather than querying with an empty email.
func (s *Service) Fetch(ctx context.Context) (*Profile, error) {
	email, err := s.identity(ctx)
	if err != nil {
		return nil, err
	}
	value, err := s.client.DoJSON(ctx, rest.Request{
		Service: rest.BusinessService,
		Method:  http.MethodGet,
		Path:    "/api/jobseeker/profile",
		Query:   url.Values{"email": {email}},
	}, nil)
	if err != nil {
		return nil, err
	}
	if value == nil {
		// Empty body or explicit null: no profile exists yet.
		return nil, nil
	}

	if snapshot, ok := value.(map[string]any); ok {
		// Cache failures must not fail the fetch.
		_ = s.store.SetProfileSnapshot(ctx, snapshot)
	}

	var p Profile
	if err := rest.Coerce(value, &p); err != nil {
		return nil, fmt.Errorf("unexpected profile shape: %w", err)
	}
	if p.YearsOfExperience == 0 {
		p.YearsOfExperience = YearsOfExperience(p.WorkHistory, s.now())
	}
	return &p, nil
}

// Save creates the caller's profile.
func (s *Service) Save(ctx context.Context, req SaveRequest) error {
	return s.write(ctx, http.MethodPost, req)
}

// Update overwrites the caller's profile. Idempotent per PUT semantics.
func (s *Service) Update(ctx context.Context, req SaveRequest) error {
	return s.write(ctx, http.MethodPut, req)
}

func (s *Service) write(ctx context.Context, method string, req SaveRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("invalid profile: %w", err)
	}
	email, err := s.identity(ctx)
	if err != nil {
		return err
	}
	// Object-or-empty-success response; the fallback marks the ack.
	_, err = s.client.DoJSON(ctx, rest.Request{
		Service: rest.BusinessService,
		Method:  method,
		Path:    "/api/jobseeker/profile",
		Query:   url.Values{"email": {email}},
		Body:    req,
	}, map[string]any{})
	return err
}

// UploadResume sends a resume as multipart form data, the one endpoint that
// does not speak JSON on the way in.
func (s *Service) UploadResume(ctx context.Context, filename string, r io.Reader) error {
	email, err := s.identity(ctx)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("resume", filename)
	if err != nil {
		return fmt.Errorf("build resume form: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("read resume: %w", err)
	}
	if err := form.Close(); err != nil {
		return fmt.Errorf("finalize resume form: %w", err)
	}

	_, err = s.client.DoJSON(ctx, rest.Request{
		Service:     rest.BusinessService,
		Method:      http.MethodPost,
		Path:        "/api/jobseeker/resume",
		Query:       url.Values{"email": {email}},
		RawBody:     &buf,
		ContentType: form.FormDataContentType(),
	}, map[string]any{})
	return err
}

// identity resolves the caller's email: cached snapshot first, then the
// credential payload.
func (s *Service) identity(ctx context.Context) (string, error) {
	snapshot, err := s.store.ProfileSnapshot(ctx)
	if err != nil {
		return "", err
	}
	credential, err := s.store.Credential(ctx)
	if err != nil && !errors.Is(err, session.ErrNoCredential) {
		return "", err
	}
	return session.ResolveIdentityEmail(snapshot, credential)
}
