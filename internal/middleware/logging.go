package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

// statusWriter captures the status code written by the wrapped handler so it
// can be logged after the request completes.
type statusWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusWriter) WriteHeader(statusCode int) {
	w.ResponseWriter.WriteHeader(statusCode)
	w.statusCode = statusCode
}

func logging(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &statusWriter{
			ResponseWriter: w,
			// Handlers that never call WriteHeader implicitly answer 200.
			statusCode: http.StatusOK,
		}

		next.ServeHTTP(wrapped, r)

		logger.Info(
			"Request handled",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("host", r.Host),
			slog.Int64("duration_ns", time.Since(start).Nanoseconds()),
			slog.Int("status", wrapped.statusCode),
			slog.String("remote_addr", r.RemoteAddr),
		)
	})
}

// Logging writes one structured log line per handled request.
func Logging(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return logging(logger, next)
	}
}
