package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMiddleware(now time.Time) (*Middleware, *TokenService) {
	tokens := NewTokenService("secret", 2*time.Hour).WithClock(func() time.Time { return now })
	return NewMiddleware(tokens, "ops", "hunter2"), tokens
}

func echoIdentity() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		w.Write([]byte(id.Email + "|" + string(id.Method)))
	})
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Message
}

func TestRequireAuthRejections(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	mw, _ := newTestMiddleware(now)

	expired := NewTokenService("secret", time.Hour).WithClock(func() time.Time { return now.Add(-2 * time.Hour) })
	expiredToken, err := expired.Issue("editor@example.com")
	require.NoError(t, err)

	tests := []struct {
		name    string
		setup   func(r *http.Request)
		message string
	}{
		{"no header", func(r *http.Request) {}, "Please make sure your request has an Authorization header"},
		{"unsupported scheme", func(r *http.Request) { r.Header.Set("Authorization", "Digest abc") }, "Authentication method not supported"},
		{"garbage bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, "Invalid Token"},
		{"expired bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+expiredToken) }, "Token has expired"},
		{"wrong password", func(r *http.Request) { r.SetBasicAuth("ops", "wrong") }, "Invalid username or password"},
		{"wrong user", func(r *http.Request) { r.SetBasicAuth("root", "hunter2") }, "Invalid username or password"},
		{"malformed basic", func(r *http.Request) { r.Header.Set("Authorization", "Basic !!!") }, "Invalid username or password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/emails", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()

			mw.RequireAuth(echoIdentity()).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, tt.message, decodeMessage(t, rec))
			assert.Empty(t, rec.Header().Get(RenewalHeader))
		})
	}
}

func TestRequireAuthBasicPassThrough(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	mw, tokens := newTestMiddleware(now)

	req := httptest.NewRequest(http.MethodGet, "/emails", nil)
	req.SetBasicAuth("ops", "hunter2")
	rec := httptest.NewRecorder()

	mw.RequireAuth(echoIdentity()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ops|basic", rec.Body.String())
	assert.Equal(t, "no-cache, no-store", rec.Header().Get("Cache-Control"))

	renewed := rec.Header().Get(RenewalHeader)
	require.NotEmpty(t, renewed)
	email, err := tokens.Verify(renewed)
	require.NoError(t, err)
	assert.Equal(t, "ops", email)
}

func TestRequireAuthBearerPassThrough(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	mw, tokens := newTestMiddleware(now)

	token, err := tokens.Issue("editor@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/emails", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	mw.RequireAuth(echoIdentity()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "editor@example.com|bearer", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(RenewalHeader))
	assert.Equal(t, "no-cache, no-store", rec.Header().Get("Cache-Control"))
}
