// Package metrics provides Prometheus metrics for fetchkit clients and the sandbox API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every fetchkit collector registered on one registry.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Outbound client metrics
	clientRequests        *prometheus.CounterVec
	clientRequestDuration *prometheus.HistogramVec
	clientErrors          *prometheus.CounterVec
	clientInFlight        prometheus.Gauge

	// Sandbox server metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton used by package-level helpers

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // shared registry served on /metrics

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "fetchkit",
		subsystem:        "",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		enabled:          true,
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.clientRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "client_requests_total",
		Help:        "Total number of outbound requests by api, method and status code",
		ConstLabels: m.constLabels,
	}, []string{"api", "method", "status_code"})

	m.clientRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "client_request_duration_milliseconds",
		Help:        "Outbound request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"api", "method"})

	m.clientErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "client_errors_total",
		Help:        "Outbound request failures by error type",
		ConstLabels: m.constLabels,
	}, []string{"type"})

	m.clientInFlight = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "client_requests_in_flight",
		Help:        "Outbound requests currently awaiting a response",
		ConstLabels: m.constLabels,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_requests_total",
		Help:        "Total number of sandbox HTTP requests by endpoint and method",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "Sandbox HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})
}

// ClientRequestStarted bumps the in-flight gauge.
func (m *Manager) ClientRequestStarted() {
	if m == nil || !m.enabled {
		return
	}
	m.clientInFlight.Inc()
}

// ClientRequestFinished records one completed outbound request.
// statusCode is "0" when no response was received.
func (m *Manager) ClientRequestFinished(api, method, statusCode string, durationMs float64) {
	if m == nil || !m.enabled {
		return
	}
	m.clientInFlight.Dec()
	m.clientRequests.WithLabelValues(api, method, statusCode).Inc()
	m.clientRequestDuration.WithLabelValues(api, method).Observe(durationMs)
}

// ClientError counts an outbound failure of the given type.
func (m *Manager) ClientError(errorType string) {
	if m == nil || !m.enabled {
		return
	}
	m.clientErrors.WithLabelValues(errorType).Inc()
}

// HTTPRequest records one served sandbox request.
func (m *Manager) HTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if m == nil || !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// Default returns the process-wide manager backed by GetRegistry.
func Default() *Manager {
	return globalManager
}

// RecordHTTPRequest records a sandbox request on the global manager.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.HTTPRequest(endpoint, method, statusCode, durationMs)
}

// GetRegistry returns the custom Prometheus registry used by the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
