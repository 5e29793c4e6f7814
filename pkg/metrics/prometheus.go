// Package metrics provides Prometheus metrics for the creatorscore service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default latency buckets in milliseconds; upstream calls dominate.
var defaultBuckets = []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000}

// Manager manages all Prometheus metrics for the creatorscore service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Analysis metrics
	analyses    *prometheus.CounterVec
	simulations *prometheus.CounterVec
	sweeps      prometheus.Counter
	incomplete  *prometheus.CounterVec

	// Upstream metrics
	upstreamRequests *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec
	breakerState     *prometheus.GaugeVec
	lookupStrategy   *prometheus.CounterVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec
	errorLatency        *prometheus.HistogramVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "creatorscore",
		subsystem:        "api",
		histogramBuckets: defaultBuckets,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}, labels)
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.customLabels,
	}, labels)
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.analyses = m.counterVec("analyses_total", "Ratio analyses produced, by category", "category")
	m.simulations = m.counterVec("simulations_total", "What-if simulations, by verdict", "verdict")
	m.sweeps = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "sweeps_total",
		Help:        "Slider sweeps computed",
		ConstLabels: m.customLabels,
	})
	m.incomplete = m.counterVec("incomplete_reports_total", "Reports missing a score or a valuation", "missing")

	m.upstreamRequests = m.counterVec("upstream_requests_total", "Requests sent to upstream providers", "provider", "outcome")
	m.upstreamLatency = m.histogramVec("upstream_latency_milliseconds", "Upstream request latency in milliseconds", "provider")
	m.breakerState = auto.NewGaugeVec(m.gaugeOpts("upstream_breaker_state", "Circuit breaker state per provider (0 closed, 1 half-open, 2 open)"), []string{"provider"})
	m.lookupStrategy = m.counterVec("lookup_strategy_total", "Which lookup strategy answered, by kind", "kind", "strategy", "outcome")

	m.httpRequests = m.counterVec("http_requests_total", "Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds", "endpoint", "method", "status_code")

	m.errorRateByType = m.counterVec("errors_by_type_total", "Errors by type and severity", "error_type", "severity")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total", "Errors by endpoint", "endpoint", "method", "error_type")
	m.errorLatency = m.histogramVec("error_latency_milliseconds", "Latency of operations that ended in an error", "component", "error_type")

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_bytes", "Heap bytes allocated"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutines", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_gc_pause_milliseconds",
		Help:        "Average GC pause in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.customLabels,
	})
}

// RecordAnalysis counts an analysis in the given category.
func RecordAnalysis(category string) {
	globalManager.analyses.WithLabelValues(category).Inc()
}

// RecordSimulation counts a simulation with the given verdict.
func RecordSimulation(verdict string) {
	globalManager.simulations.WithLabelValues(verdict).Inc()
}

// RecordSweep counts a slider sweep.
func RecordSweep() {
	globalManager.sweeps.Inc()
}

// RecordIncompleteReport counts a report missing one side ("score" or "valuation").
func RecordIncompleteReport(missing string) {
	globalManager.incomplete.WithLabelValues(missing).Inc()
}

// RecordUpstreamRequest records one upstream call and its latency.
func RecordUpstreamRequest(provider, outcome string, latencyMs float64) {
	globalManager.upstreamRequests.WithLabelValues(provider, outcome).Inc()
	globalManager.upstreamLatency.WithLabelValues(provider).Observe(latencyMs)
}

// UpdateBreakerState sets the breaker state gauge for a provider.
func UpdateBreakerState(provider string, state int) {
	globalManager.breakerState.WithLabelValues(provider).Set(float64(state))
}

// RecordLookupStrategy records the outcome of one lookup strategy attempt.
func RecordLookupStrategy(kind, strategy, outcome string) {
	globalManager.lookupStrategy.WithLabelValues(kind, strategy, outcome).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
