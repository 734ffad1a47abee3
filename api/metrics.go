package api

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// APIMetrics holds the HTTP server metrics
type APIMetrics struct {
	Requests *prometheus.CounterVec
	Latency  *prometheus.HistogramVec
}

var (
	apiMetricsOnce sync.Once
	apiMetrics     *APIMetrics
)

// NewAPIMetrics creates and registers the server metrics (singleton pattern)
func NewAPIMetrics() *APIMetrics {
	apiMetricsOnce.Do(func() {
		apiMetrics = &APIMetrics{
			Requests: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "swapbook",
					Subsystem: "api",
					Name:      "requests_total",
					Help:      "Total number of HTTP requests by route and status",
				},
				[]string{"route", "status"},
			),
			Latency: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Namespace: "swapbook",
					Subsystem: "api",
					Name:      "request_duration_seconds",
					Help:      "HTTP request duration in seconds",
					Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
				},
				[]string{"route"},
			),
		}
	})
	return apiMetrics
}
