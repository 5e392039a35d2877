package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smokespecialist/smokespecialist/internal/api/middleware"
	"github.com/smokespecialist/smokespecialist/internal/auth"
)

func sessionService() *auth.SessionService {
	return auth.NewSessionService(auth.SessionConfig{
		SigningKey: "test-secret-key-for-testing-only",
		Issuer:     "https://api.smokespecialist.example",
		Audience:   "smokespecialist-api",
	})
}

func authedHandler(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := middleware.GetSession(r.Context())
		require.NotNil(t, claims)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(claims.PatientID))
	})
}

func TestAuth_ValidToken(t *testing.T) {
	sessions := sessionService()
	token, _, err := sessions.Issue("dr-jones", "pat-1")
	require.NoError(t, err)

	handler := middleware.Auth(sessions)(authedHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/v1/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pat-1", rec.Body.String())
}

func TestAuth_MissingHeader(t *testing.T) {
	handler := middleware.Auth(sessionService())(authedHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/v1/dashboard", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
}

func TestAuth_MalformedHeader(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"wrong scheme", "Basic abc123"},
		{"no token", "Bearer "},
		{"garbage", "xyz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := middleware.Auth(sessionService())(authedHandler(t))

			req := httptest.NewRequest(http.MethodGet, "/v1/dashboard", nil)
			req.Header.Set("Authorization", tt.header)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestAuth_WrongKey(t *testing.T) {
	other := auth.NewSessionService(auth.SessionConfig{
		SigningKey: "some-other-key",
		Issuer:     "https://api.smokespecialist.example",
		Audience:   "smokespecialist-api",
	})
	token, _, err := other.Issue("dr-jones", "pat-1")
	require.NoError(t, err)

	handler := middleware.Auth(sessionService())(authedHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/v1/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetSubject_Unauthenticated(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, middleware.GetSubject(req.Context()))
	assert.Nil(t, middleware.GetSession(req.Context()))
}
