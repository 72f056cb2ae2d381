package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce       sync.Once
	authRequestsTotal  *prometheus.CounterVec
	authLatencySeconds *prometheus.HistogramVec
	authErrorsTotal    *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors for the auth API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		authRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_requests_total",
			Help: "Total number of auth API requests served.",
		}, []string{"method", "route", "status"})

		authLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "auth_latency_seconds",
			Help:    "Latency distribution for auth API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		authErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_errors_total",
			Help: "Total number of error responses returned by auth endpoints.",
		}, []string{"method", "route", "status"})

		prometheus.MustRegister(authRequestsTotal, authLatencySeconds, authErrorsTotal)
	})
}

// AuthRequests exposes the counter for auth requests.
func AuthRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return authRequestsTotal
}

// AuthLatency exposes the latency histogram for auth requests.
func AuthLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return authLatencySeconds
}

// AuthErrors exposes the counter for auth error responses.
func AuthErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return authErrorsTotal
}
