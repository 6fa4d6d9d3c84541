package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds request-level Prometheus metrics for the application.
type Metrics struct {
	RequestLatency *prometheus.HistogramVec
}

// New creates and registers all request-level Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		RequestLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vulnshop_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by method and path pattern",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"method", "path"}),
	}
}

// ObserveRequest records the duration of a handled request.
func (m *Metrics) ObserveRequest(method, path string, d time.Duration) {
	if m != nil {
		m.RequestLatency.WithLabelValues(method, path).Observe(d.Seconds())
	}
}
