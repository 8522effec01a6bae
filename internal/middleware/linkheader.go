package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/openshelf-io/catalog/internal/middleware/pagination"
)

// linkWriter buffers the wrapped handler's response so that headers can
// still be added after the handler has run. The status code and body are
// held back until flush, which is what lets the Link header be attached
// after the payload (and its totalDocs count) is known but before anything
// reaches the client.
type linkWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
	body        bytes.Buffer
}

func (w *linkWriter) WriteHeader(statusCode int) {
	if w.wroteHeader {
		return
	}
	w.statusCode = statusCode
	w.wroteHeader = true
}

func (w *linkWriter) Write(b []byte) (int, error) {
	return w.body.Write(b)
}

// flush releases the buffered status code and body to the real writer.
func (w *linkWriter) flush() error {
	w.ResponseWriter.WriteHeader(w.statusCode)
	_, err := w.ResponseWriter.Write(w.body.Bytes())
	return err
}

// linkPayload picks the document count out of a paginated response body.
// Only totalDocs is consumed; the resource array is passed through opaquely.
type linkPayload struct {
	TotalDocs *int64 `json:"totalDocs"`
}

func linkHeader(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		params, err := pagination.ParsePageParams(r)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]any{
				"error": err.Error(),
			})
			return
		}

		wrapped := &linkWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapped, r)

		// Only successful responses that actually report a document count
		// get pagination links. Everything else is flushed untouched.
		if wrapped.statusCode >= 200 && wrapped.statusCode < 300 {
			var payload linkPayload
			if err := json.Unmarshal(wrapped.body.Bytes(), &payload); err == nil && payload.TotalDocs != nil {
				header, err := pagination.BuildLinkHeader(pagination.LinkContext{
					Page:  params.Page,
					Limit: params.PerPage,
					// The base resource URL is the request path with the
					// query string stripped.
					ResourceURL: r.URL.Path,
					TotalDocs:   *payload.TotalDocs,
				})
				if err != nil {
					logger.Error("Failed to build Link header",
						slog.String("path", r.URL.Path),
						slog.Any("error", err),
					)
				} else {
					w.Header().Set("Link", header)
				}
			}
		}

		if err := wrapped.flush(); err != nil {
			logger.Error("Failed to flush buffered response",
				slog.String("path", r.URL.Path),
				slog.Any("error", err),
			)
		}
	})
}

// LinkHeader returns a middleware that attaches an RFC 5988 `Link` header to
// paginated JSON responses. It validates the `page` and `per_page` query
// parameters up front (rejecting malformed values with a 400 before the
// handler runs), then inspects the handler's JSON payload for a `totalDocs`
// field and advertises the first, prev, next and last pages relative to it.
func LinkHeader(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return linkHeader(logger, next)
	}
}
