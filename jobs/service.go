// Package jobs implements the job-seeker side of the job board: browsing
// openings and applying with the stored profile.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"sudburry.com/client/rest"
	"sudburry.com/client/session"
)

// Job is one job opening as listed for a seeker, including the match score
// the backend computes against their profile.
type Job struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Company     string  `json:"company"`
	Location    string  `json:"location"`
	Salary      string  `json:"salary"`
	Description string  `json:"description"`
	MatchScore  float64 `json:"matchScore"`
	Applied     bool    `json:"applied"`
}

// Service is the jobs feature service.
type Service struct {
	client *rest.Client
	store  *session.Store
}

// NewService creates a jobs service.
func NewService(client *rest.Client, store *session.Store) *Service {
	return &Service{client: client, store: store}
}

// List fetches the openings for the signed-in seeker. A null or unparseable
// body yields an empty slice; elements that do not decode are skipped rather
// than failing the whole listing.
func (s *Service) List(ctx context.Context) ([]Job, error) {
	email, err := s.identity(ctx)
	if err != nil {
		return nil, err
	}
	value, err := s.client.DoJSON(ctx, rest.Request{
		Service: rest.BusinessService,
		Method:  http.MethodGet,
		Path:    "/api/v1/jobs/job",
		Query:   url.Values{"email": {email}},
	}, []any{})
	if err != nil {
		return nil, err
	}
	return coerceJobs(value), nil
}

// Apply applies to a job with the stored profile. The backend answers with
// an object or an empty success body.
func (s *Service) Apply(ctx context.Context, jobID string) error {
	if jobID == "" {
		return fmt.Errorf("job id is required")
	}
	_, err := s.client.DoJSON(ctx, rest.Request{
		Service: rest.BusinessService,
		Method:  http.MethodPost,
		Path:    fmt.Sprintf("/api/v1/jobs/%s/apply-with-profile", url.PathEscape(jobID)),
	}, map[string]any{})
	return err
}

func coerceJobs(value any) []Job {
	items, ok := value.([]any)
	if !ok {
		// Explicit null is a valid "no data" signal for a list-shaped call.
		return []Job{}
	}
	result := make([]Job, 0, len(items))
	for _, item := range items {
		var job Job
		if err := rest.Coerce(item, &job); err != nil {
			continue
		}
		result = append(result, job)
	}
	return result
}

func (s *Service) identity(ctx context.Context) (string, error) {
	snapshot, err := s.store.ProfileSnapshot(ctx)
	if err != nil {
		return "", err
	}
	credential, err := s.store.Credential(ctx)
	if err != nil {
		if errors.Is(err, session.ErrNoCredential) && snapshot == nil {
			// No credential and no snapshot: fail before resolution even
			// starts, the operation is authenticated.
			return "", err
		}
		if !errors.Is(err, session.ErrNoCredential) {
			return "", err
		}
	}
	return session.ResolveIdentityEmail(snapshot, credential)
}
