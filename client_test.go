package client

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sudburry.com/client/session"
)

// End-to-end flow over one assembled Client: sign in, browse, apply,
// sign out.
func TestClientFlow(t *testing.T) {
	ctx := context.Background()

	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256"}`))
	payload := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"jdoe@example.com","role":"JOBSEEKER"}`))
	token := header + "." + payload + ".sig"

	mux := http.NewServeMux()
	mux.HandleFunc("POST /signin", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(token))
	})
	mux.HandleFunc("GET /api/v1/jobs/job", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer "+token, r.Header.Get("Authorization"))
		require.Equal(t, "jdoe@example.com", r.URL.Query().Get("email"))
		json.NewEncoder(w).Encode([]map[string]any{{"id": "j1", "title": "Backend Engineer"}})
	})
	mux.HandleFunc("POST /api/v1/jobs/j1/apply-with-profile", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("POST /logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	c, err := New(Options{
		AuthBaseURL: server.URL,
		APIBaseURL:  server.URL,
		Adapter:     session.NewMemoryAdapter(),
		Logger:      zap.NewNop(),
	})
	require.NoError(t, err)

	require.NoError(t, c.Account.SignIn(ctx, "jdoe", "secret"))

	role, err := c.Account.Role(ctx)
	require.NoError(t, err)
	assert.Equal(t, "JOBSEEKER", role)

	jobs, err := c.Jobs.List(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	require.NoError(t, c.Jobs.Apply(ctx, jobs[0].ID))

	require.NoError(t, c.Account.SignOut(ctx))
	_, err = c.Session.Credential(ctx)
	assert.ErrorIs(t, err, session.ErrNoCredential)
}
