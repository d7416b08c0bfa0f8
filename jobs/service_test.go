package jobs

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sudburry.com/client/rest"
	"sudburry.com/client/session"
)

func testToken(t *testing.T, claims map[string]any) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256"}`))
	payload, err := json.Marshal(claims)
	require.NoError(t, err)
	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + ".sig"
}

func newTestService(t *testing.T, handler http.Handler) (*Service, *session.Store) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := session.NewStore(session.NewMemoryAdapter())
	client, err := rest.NewClient(rest.Config{
		AuthBaseURL: server.URL,
		APIBaseURL:  server.URL,
		Store:       store,
	})
	require.NoError(t, err)
	return NewService(client, store), store
}

func TestList(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/jobs/job", r.URL.Path)
		assert.Equal(t, "jdoe@example.com", r.URL.Query().Get("email"))
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": "j1", "title": "Backend Engineer", "matchScore": 81.5},
			{"id": "j2", "title": "Data Analyst"},
		})
	}))
	require.NoError(t, store.SetCredential(ctx, testToken(t, map[string]any{"sub": "jdoe@example.com"})))

	jobs, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "Backend Engineer", jobs[0].Title)
	assert.Equal(t, 81.5, jobs[0].MatchScore)
}

func TestList_NoCredentialFailsBeforeNetwork(t *testing.T) {
	var calls atomic.Int32
	svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))

	_, err := svc.List(context.Background())
	assert.True(t, errors.Is(err, session.ErrNoCredential), "got %v", err)
	assert.Zero(t, calls.Load(), "transport must not be reached")
}

func TestList_NullBodyYieldsEmptySlice(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("null"))
	}))
	require.NoError(t, store.SetCredential(ctx, testToken(t, map[string]any{"sub": "jdoe@example.com"})))

	jobs, err := svc.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, jobs)
	assert.Empty(t, jobs)
}

func TestList_TruncatedBodyYieldsEmptySlice(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"j1","title":`))
	}))
	require.NoError(t, store.SetCredential(ctx, testToken(t, map[string]any{"sub": "jdoe@example.com"})))

	jobs, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestList_MalformedElementsSkipped(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"j1","title":"Good"}, "stray string", {"id":42}]`))
	}))
	require.NoError(t, store.SetCredential(ctx, testToken(t, map[string]any{"sub": "jdoe@example.com"})))

	jobs, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Good", jobs[0].Title)
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	var path string
	svc, store := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		assert.Equal(t, http.MethodPost, r.Method)
		// Empty-success ack body.
		w.WriteHeader(http.StatusOK)
	}))
	require.NoError(t, store.SetCredential(ctx, testToken(t, map[string]any{"sub": "jdoe@example.com"})))

	require.NoError(t, svc.Apply(ctx, "job-17"))
	assert.Equal(t, "/api/v1/jobs/job-17/apply-with-profile", path)
}

func TestApply_RequiresJobID(t *testing.T) {
	svc, _ := newTestService(t, http.NotFoundHandler())
	assert.Error(t, svc.Apply(context.Background(), ""))
}
