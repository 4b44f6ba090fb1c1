package sandbox

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/okian/fetchkit/pkg/logger"
	"github.com/okian/fetchkit/pkg/metrics"
)

// metricsMiddleware records one sample per request labelled with the
// matched route pattern.
func metricsMiddleware(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			elapsed := time.Since(start)
			endpoint := "unmatched"
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				endpoint = rc.RoutePattern()
			}
			metrics.RecordHTTPRequest(endpoint, r.Method, strconv.Itoa(wrapped.statusCode), float64(elapsed.Milliseconds()))
			log.Debug(r.Context(), "served",
				logger.String("method", r.Method),
				logger.String("endpoint", endpoint),
				logger.Int("status", wrapped.statusCode),
				logger.Duration("elapsed", elapsed))
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	if err != nil {
		return n, fmt.Errorf("failed to write response: %w", err)
	}
	return n, nil
}
