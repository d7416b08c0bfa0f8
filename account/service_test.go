package account

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
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
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
	return NewService(client, store, nil), store
}

func TestSignIn_StoresCredentialAndRole(t *testing.T) {
	ctx := context.Background()
	token := testToken(t, map[string]any{"sub": "jdoe@example.com", "role": "STUDENT"})

	svc, store := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/signin", r.URL.Path)
		assert.Equal(t, "jdoe", r.URL.Query().Get("username"))
		assert.Equal(t, "secret", r.URL.Query().Get("password"))
		w.Write([]byte(token))
	}))

	require.NoError(t, svc.SignIn(ctx, "jdoe", "secret"))

	stored, err := store.Credential(ctx)
	require.NoError(t, err)
	assert.Equal(t, token, stored)

	role, err := store.Role(ctx)
	require.NoError(t, err)
	assert.Equal(t, "STUDENT", role)
}

func TestSignIn_QuotedTokenBody(t *testing.T) {
	ctx := context.Background()
	token := testToken(t, map[string]any{"role": "EMPLOYER"})

	svc, store := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Some auth service versions JSON-quote the token body.
		w.Write([]byte(`"` + token + `"`))
	}))

	require.NoError(t, svc.SignIn(ctx, "acme", "secret"))
	stored, err := store.Credential(ctx)
	require.NoError(t, err)
	assert.Equal(t, token, stored)
}

func TestSignIn_UndecodablePayloadStillSignsIn(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("h.e.s"))
	}))

	require.NoError(t, svc.SignIn(ctx, "jdoe", "secret"))

	stored, err := store.Credential(ctx)
	require.NoError(t, err)
	assert.Equal(t, "h.e.s", stored)

	role, err := store.Role(ctx)
	require.NoError(t, err)
	assert.Empty(t, role, "role stays unset when the payload cannot be decoded")
}

func TestSignIn_BadCredentials(t *testing.T) {
	svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"invalid credentials"}`))
	}))

	err := svc.SignIn(context.Background(), "jdoe", "wrong")
	var apiErr *rest.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "invalid credentials", apiErr.Message)
}

func TestSignUp_StoresWrappedToken(t *testing.T) {
	ctx := context.Background()
	token := testToken(t, map[string]any{"sub": "new@example.com", "role": "JOBSEEKER"})

	svc, store := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/register", r.URL.Path)
		var req SignUpRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "new@example.com", req.Email)
		json.NewEncoder(w).Encode(map[string]any{
			"token": map[string]any{"token": token, "role": "EMPLOYER"},
		})
	}))

	require.NoError(t, svc.SignUp(ctx, SignUpRequest{
		Name: "New User", Email: "new@example.com", Password: "longenough", Role: "EMPLOYER",
	}))

	stored, err := store.Credential(ctx)
	require.NoError(t, err)
	assert.Equal(t, token, stored)

	// The explicit role in the register response wins over the payload claim.
	role, err := store.Role(ctx)
	require.NoError(t, err)
	assert.Equal(t, "EMPLOYER", role)
}

func TestSignUp_InvalidRequestFailsBeforeNetwork(t *testing.T) {
	var calls atomic.Int32
	svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))

	err := svc.SignUp(context.Background(), SignUpRequest{Email: "not-an-email", Password: "short"})
	require.Error(t, err)
	assert.Zero(t, calls.Load(), "no network call for an invalid request")
}

func TestSignOut_ClearsLocallyEvenWhenBackendFails(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"logout broken"}`))
	}))

	require.NoError(t, store.SetCredential(ctx, "aaa.bbb.ccc"))
	require.NoError(t, store.SetRole(ctx, "EMPLOYER"))

	require.NoError(t, svc.SignOut(ctx))

	_, err := store.Credential(ctx)
	assert.True(t, errors.Is(err, session.ErrNoCredential))
	role, err := store.Role(ctx)
	require.NoError(t, err)
	assert.Empty(t, role)
}

func TestSignOut_WithoutCredentialStillClears(t *testing.T) {
	ctx := context.Background()
	var calls atomic.Int32
	svc, store := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))

	require.NoError(t, svc.SignOut(ctx))
	assert.Zero(t, calls.Load(), "logout without a credential never reaches the backend")

	_, err := store.Credential(ctx)
	assert.True(t, errors.Is(err, session.ErrNoCredential))
}
