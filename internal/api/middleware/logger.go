package middleware

import (
	"net/http"
	"strings"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Logger returns a middleware that writes one structured log line per HTTP request.
// Server errors are logged at error level, client errors at warn level.
func Logger(logger zerolog.Logger) func(http.Handler) http.Handler {
	logger = logger.With().Str("component", "http").Logger()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Create a response writer wrapper to capture status code
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			// Call the next handler
			next.ServeHTTP(wrapped, r)

			// Sanitize user-supplied values to prevent log injection: strip CR/LF before logging.
			sanitize := strings.NewReplacer("\n", "", "\r", "").Replace

			var event *zerolog.Event
			switch {
			case wrapped.statusCode >= http.StatusInternalServerError:
				event = logger.Error()
			case wrapped.statusCode >= http.StatusBadRequest:
				event = logger.Warn()
			default:
				event = logger.Info()
			}

			event.
				Str("method", sanitize(r.Method)).
				Str("path", sanitize(r.URL.Path)).
				Int("status", wrapped.statusCode).
				Dur("duration", time.Since(start)).
				Str("request_id", chimiddleware.GetReqID(r.Context())).
				Msg("request")
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
