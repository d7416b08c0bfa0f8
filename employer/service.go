// Package employer implements the employer dashboard operations: managing
// postings, reviewing candidates and application metrics.
package employer

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-playground/validator/v10"

	"sudburry.com/client/rest"
	"sudburry.com/client/session"
)

// Application statuses an employer can set.
const (
	StatusPending  = "PENDING"
	StatusAccepted = "ACCEPTED"
	StatusRejected = "REJECTED"
)

// Posting is one job posting as the employer dashboard lists it.
type Posting struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Location    string `json:"location"`
	Salary      string `json:"salary"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Applicants  int    `json:"applicants"`
}

// PostingRequest is the payload for creating or updating a posting.
type PostingRequest struct {
	Title       string   `json:"title" validate:"required"`
	Location    string   `json:"location"`
	Salary      string   `json:"salary"`
	Description string   `json:"description" validate:"required"`
	Skills      []string `json:"skills"`
}

// Application is one candidate application against a posting.
type Application struct {
	ID             string  `json:"id"`
	JobID          string  `json:"jobId"`
	CandidateEmail string  `json:"candidateEmail"`
	CandidateName  string  `json:"candidateName"`
	Status         string  `json:"status"`
	MatchPercent   float64 `json:"matchPercent"`
}

// Stats is the dashboard metrics block. All figures are computed by the
// backend; the client only fetches and normalizes them.
type Stats struct {
	TotalJobs         int     `json:"totalJobs"`
	TotalApplications int     `json:"totalApplications"`
	AcceptanceRate    float64 `json:"acceptanceRate"`
}

// Service is the employer feature service.
type Service struct {
	client   *rest.Client
	store    *session.Store
	validate *validator.Validate
}

// NewService creates an employer service.
func NewService(client *rest.Client, store *session.Store) *Service {
	return &Service{client: client, store: store, validate: validator.New()}
}

// Jobs lists the employer's own postings.
func (s *Service) Jobs(ctx context.Context) ([]Posting, error) {
	value, err := s.client.DoJSON(ctx, rest.Request{
		Service: rest.BusinessService,
		Method:  http.MethodGet,
		Path:    "/api/v1/jobs/employer/jobs",
	}, []any{})
	if err != nil {
		return nil, err
	}
	items, ok := value.([]any)
	if !ok {
		return []Posting{}, nil
	}
	postings := make([]Posting, 0, len(items))
	for _, item := range items {
		var p Posting
		if err := rest.Coerce(item, &p); err != nil {
			continue
		}
		postings = append(postings, p)
	}
	return postings, nil
}

// PostJob creates a posting.
func (s *Service) PostJob(ctx context.Context, req PostingRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("invalid posting: %w", err)
	}
	_, err := s.client.DoJSON(ctx, rest.Request{
		Service: rest.BusinessService,
		Method:  http.MethodPost,
		Path:    "/api/v1/jobs/employer/jobs",
		Body:    req,
	}, map[string]any{})
	return err
}

// UpdateJob overwrites a posting. Idempotent per PUT semantics.
func (s *Service) UpdateJob(ctx context.Context, jobID string, req PostingRequest) error {
	if jobID == "" {
		return fmt.Errorf("job id is required")
	}
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("invalid posting: %w", err)
	}
	_, err := s.client.DoJSON(ctx, rest.Request{
		Service: rest.BusinessService,
		Method:  http.MethodPut,
		Path:    "/api/v1/jobs/employer/jobs/" + url.PathEscape(jobID),
		Body:    req,
	}, map[string]any{})
	return err
}

// DeleteJob removes a posting.
func (s *Service) DeleteJob(ctx context.Context, jobID string) error {
	if jobID == "" {
		return fmt.Errorf("job id is required")
	}
	_, err := s.client.DoJSON(ctx, rest.Request{
		Service: rest.BusinessService,
		Method:  http.MethodDelete,
		Path:    "/api/v1/jobs/employer/jobs/" + url.PathEscape(jobID),
	}, map[string]any{})
	return err
}

// Applications lists the candidates for one posting.
func (s *Service) Applications(ctx context.Context, jobID string) ([]Application, error) {
	if jobID == "" {
		return nil, fmt.Errorf("job id is required")
	}
	value, err := s.client.DoJSON(ctx, rest.Request{
		Service: rest.BusinessService,
		Method:  http.MethodGet,
		Path:    fmt.Sprintf("/api/v1/jobs/employer/jobs/%s/applications", url.PathEscape(jobID)),
	}, []any{})
	if err != nil {
		return nil, err
	}
	items, ok := value.([]any)
	if !ok {
		return []Application{}, nil
	}
	apps := make([]Application, 0, len(items))
	for _, item := range items {
		var a Application
		if err := rest.Coerce(item, &a); err != nil {
			continue
		}
		apps = append(apps, a)
	}
	return apps, nil
}

// UpdateApplicationStatus moves one application to a new status.
func (s *Service) UpdateApplicationStatus(ctx context.Context, applicationID, status string) error {
	if applicationID == "" {
		return fmt.Errorf("application id is required")
	}
	if status == "" {
		return fmt.Errorf("status is required")
	}
	_, err := s.client.DoJSON(ctx, rest.Request{
		Service: rest.BusinessService,
		Method:  http.MethodPut,
		Path:    fmt.Sprintf("/api/v1/jobs/employer/applications/%s/status", url.PathEscape(applicationID)),
		Query:   url.Values{"status": {status}},
	}, map[string]any{})
	return err
}

// Stats fetches the dashboard metrics.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	value, err := s.client.DoJSON(ctx, rest.Request{
		Service: rest.BusinessService,
		Method:  http.MethodGet,
		Path:    "/api/v1/jobs/employer/stats",
	}, map[string]any{})
	if err != nil {
		return nil, err
	}
	var stats Stats
	if err := rest.Coerce(value, &stats); err != nil {
		return &Stats{}, nil
	}
	return &stats, nil
}
