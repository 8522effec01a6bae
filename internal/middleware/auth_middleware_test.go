package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshelf-io/catalog/internal/config"
	"github.com/openshelf-io/catalog/internal/middleware"
	"github.com/openshelf-io/catalog/internal/utils"
)

func authTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWTConfig.ApiSecret = "test-secret"
	cfg.JWTConfig.ExpireDelta = 1
	return cfg
}

func TestIsAuthenticatedRejectsMissingToken(t *testing.T) {
	cfg := authTestConfig()
	var handlerCalled bool
	handler := middleware.IsAuthenticated(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	}))

	req := httptest.NewRequest(http.MethodPost, "/items", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.False(t, handlerCalled)
}

func TestIsAuthenticatedRejectsGarbageToken(t *testing.T) {
	cfg := authTestConfig()
	handler := middleware.IsAuthenticated(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodPost, "/items", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestIsAuthenticatedAcceptsValidTokenAndExposesClaims(t *testing.T) {
	cfg := authTestConfig()
	subject := uuid.New()

	token, err := utils.GenerateAPIToken(subject, []string{"items:write"}, cfg)
	require.NoError(t, err)

	var seenSubject string
	handler := middleware.IsAuthenticated(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := middleware.GetClaimsFromContext(r.Context())
		require.NotNil(t, claims)
		seenSubject = claims.Subject
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPost, "/items", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, subject.String(), seenSubject)
}
