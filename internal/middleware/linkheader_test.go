package middleware_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshelf-io/catalog/internal/middleware"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// paginatedHandler mimics a collection handler: a JSON payload with the
// resource array and the total document count.
func paginatedHandler(totalDocs int64) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"items":     []string{"a", "b"},
			"totalDocs": totalDocs,
		})
	})
}

func TestLinkHeaderAttachesPaginationLinks(t *testing.T) {
	handler := middleware.LinkHeader(discardLogger())(paginatedHandler(25))

	req := httptest.NewRequest(http.MethodGet, "/items?page=2&per_page=10", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	link := rr.Header().Get("Link")
	require.NotEmpty(t, link, "Link header should be set for paginated payloads")

	assert.Contains(t, link, `</items?page=1&per_page=10>; rel="first"; per_page="10"; page="1"`)
	assert.Contains(t, link, `</items?page=3&per_page=10>; rel="last"; per_page="10"; page="3"`)
	assert.Contains(t, link, `</items?page=3&per_page=10>; rel="next"; per_page="10"; page="3"`)
	assert.Contains(t, link, `</items?page=1&per_page=10>; rel="prev"; per_page="10"; page="1"`)
}

func TestLinkHeaderStripsQueryFromResourceURL(t *testing.T) {
	handler := middleware.LinkHeader(discardLogger())(paginatedHandler(5))

	req := httptest.NewRequest(http.MethodGet, "/items?page=1&per_page=10&q=shelf", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	link := rr.Header().Get("Link")
	require.NotEmpty(t, link)
	assert.NotContains(t, link, "q=shelf", "link URLs are built from the bare path")
	assert.Contains(t, link, "</items?page=1&per_page=10>")
}

func TestLinkHeaderAppliesDefaults(t *testing.T) {
	handler := middleware.LinkHeader(discardLogger())(paginatedHandler(250))

	req := httptest.NewRequest(http.MethodGet, "/items", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	link := rr.Header().Get("Link")
	require.NotEmpty(t, link)
	// page defaults to 1 and per_page to 100, so 250 documents span 3 pages.
	assert.Contains(t, link, `rel="first"; per_page="100"; page="1"`)
	assert.Contains(t, link, `rel="last"; per_page="100"; page="3"`)
	assert.Contains(t, link, `rel="next"; per_page="100"; page="2"`)
	assert.NotContains(t, link, `rel="prev"`)
}

func TestLinkHeaderRejectsMalformedParams(t *testing.T) {
	var handlerCalled bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	})
	handler := middleware.LinkHeader(discardLogger())(next)

	req := httptest.NewRequest(http.MethodGet, "/items?per_page=banana", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.False(t, handlerCalled, "handler should not run when validation fails")

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "per_page")
}

func TestLinkHeaderPassesThroughPayloadsWithoutTotalDocs(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"message": "pong"})
	})
	handler := middleware.LinkHeader(discardLogger())(next)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Get("Link"))
	assert.JSONEq(t, `{"message":"pong"}`, rr.Body.String())
}

func TestLinkHeaderPassesThroughErrorResponses(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]any{
			"error":     "boom",
			"totalDocs": 12,
		})
	})
	handler := middleware.LinkHeader(discardLogger())(next)

	req := httptest.NewRequest(http.MethodGet, "/items", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Empty(t, rr.Header().Get("Link"), "non-2xx responses never get pagination links")
	assert.Contains(t, rr.Body.String(), "boom")
}

func TestLinkHeaderPreservesBodyAndStatus(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"items":[],"totalDocs":0}`))
	})
	handler := middleware.LinkHeader(discardLogger())(next)

	req := httptest.NewRequest(http.MethodGet, "/items", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.JSONEq(t, `{"items":[],"totalDocs":0}`, rr.Body.String())

	link := rr.Header().Get("Link")
	require.NotEmpty(t, link)
	assert.Contains(t, link, `rel="first"`)
	assert.Contains(t, link, `rel="last"`)
	assert.NotContains(t, link, `rel="next"`)
	assert.NotContains(t, link, `rel="prev"`)
}
