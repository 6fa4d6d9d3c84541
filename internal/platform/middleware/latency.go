package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"vulnshop/internal/platform/metrics"
)

// Latency records request durations against the matched route pattern so
// cardinality stays bounded even with ids in the path.
func Latency(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)

			path := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					path = pattern
				}
			}
			m.ObserveRequest(r.Method, path, time.Since(start))
		})
	}
}
