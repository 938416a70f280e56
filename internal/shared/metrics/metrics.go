package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus collectors for the server.
type Metrics struct {
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	RecognitionRequests *prometheus.CounterVec
	RecognitionLatency  *prometheus.HistogramVec
	FallbackTotal       prometheus.Counter
	QuotaRejectedTotal  prometheus.Counter
}

// New creates and registers all metrics with the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "nutrilog_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),

		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "nutrilog_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),

		HTTPRequestsInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "nutrilog_http_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		}),

		RecognitionRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "nutrilog_recognition_requests_total",
			Help: "Recognition provider calls by operation, provider and outcome.",
		}, []string{"operation", "provider", "outcome"}),

		RecognitionLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "nutrilog_recognition_latency_seconds",
			Help:    "Recognition provider call latency.",
			Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"operation", "provider"}),

		FallbackTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "nutrilog_recognition_fallback_total",
			Help: "Number of times the fallback provider was invoked.",
		}),

		QuotaRejectedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "nutrilog_recognition_quota_rejected_total",
			Help: "Recognition requests rejected because the daily quota was exhausted.",
		}),
	}
}

// RecordHTTPRequest records a completed HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordRecognition records a provider call outcome.
func (m *Metrics) RecordRecognition(operation, provider, outcome string, duration time.Duration) {
	m.RecognitionRequests.WithLabelValues(operation, provider, outcome).Inc()
	m.RecognitionLatency.WithLabelValues(operation, provider).Observe(duration.Seconds())
}
