// Package metrics provides Prometheus metrics for the task allocation service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus collectors for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Allocation outcomes
	allocationsTotal  *prometheus.CounterVec
	strategyFallbacks *prometheus.CounterVec
	subtasksAssigned  prometheus.Counter

	// Scoring
	scoringLatency prometheus.Histogram

	// Decomposition provider
	providerCalls       *prometheus.CounterVec
	providerCallLatency prometheus.Histogram

	// Streaming
	streamEvents  *prometheus.CounterVec
	activeStreams prometheus.Gauge

	// Persistence pipeline
	persistQueueSize     prometheus.Gauge
	persistQueueCapacity prometheus.Gauge
	persistEnqueueErrors prometheus.Counter
	tasksPersisted       prometheus.Counter
	persistenceErrors    prometheus.Counter
	persistLatency       prometheus.Histogram
	persistWorkers       prometheus.Gauge

	// Directory
	directoryRefreshes prometheus.Counter
	directoryMembers   prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global manager registered on a custom registry so the default Go collectors
// do not pollute /healthz output.
var (
	globalManager  *Manager              //nolint:gochecknoglobals // singleton metrics manager
	customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry
)

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers all collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "alloc",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
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

	m.allocationsTotal = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "allocations_total",
			Help:      "Allocation requests by winning strategy and outcome",
		},
		[]string{"strategy", "outcome"},
	)

	m.strategyFallbacks = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "strategy_fallbacks_total",
			Help:      "Fallbacks taken in the strategy chain, by failing strategy",
		},
		[]string{"strategy"},
	)

	m.subtasksAssigned = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "subtasks_assigned_total",
		Help:      "Subtasks that received an assignee",
	})

	m.scoringLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scoring_latency_milliseconds",
		Help:      "Latency of scoring one subtask against a team roster",
		Buckets:   m.histogramBuckets,
	})

	m.providerCalls = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "provider_calls_total",
			Help:      "Decomposition provider calls by outcome (ok, error, timeout, quota)",
		},
		[]string{"outcome"},
	)

	m.providerCallLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "provider_call_latency_milliseconds",
		Help:      "Latency of decomposition provider calls",
		Buckets:   []float64{100, 250, 500, 1000, 2500, 5000, 10000, 30000},
	})

	m.streamEvents = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "stream_events_total",
			Help:      "Streaming presenter events emitted, by event type",
		},
		[]string{"event"},
	)

	m.activeStreams = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "active_streams",
		Help:      "Streaming allocation requests currently open",
	})

	m.persistQueueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "persist_queue_size",
		Help:      "Subtask persistence jobs waiting in the queue",
	})

	m.persistQueueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "persist_queue_capacity",
		Help:      "Maximum persistence queue capacity",
	})

	m.persistEnqueueErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "persist_enqueue_errors_total",
		Help:      "Persistence jobs dropped because the queue was full or closed",
	})

	m.tasksPersisted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tasks_persisted_total",
		Help:      "Subtasks committed to the task store",
	})

	m.persistenceErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "persistence_errors_total",
		Help:      "Failed task store writes (allocation responses are unaffected)",
	})

	m.persistLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "persist_latency_milliseconds",
		Help:      "Latency of a single task store write",
		Buckets:   m.histogramBuckets,
	})

	m.persistWorkers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "persist_workers",
		Help:      "Persistence workers currently running",
	})

	m.directoryRefreshes = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "directory_refreshes_total",
		Help:      "Capability directory cache refreshes",
	})

	m.directoryMembers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "directory_members",
		Help:      "Members known to the capability directory",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint, method and status code",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)
}

// GetRegistry returns the registry backing the global manager, for serving
// /healthz scrapes.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level helpers against the global manager.

func RecordAllocation(strategy, outcome string) {
	globalManager.allocationsTotal.WithLabelValues(strategy, outcome).Inc()
}

func RecordStrategyFallback(strategy string) {
	globalManager.strategyFallbacks.WithLabelValues(strategy).Inc()
}

func RecordSubtaskAssigned() {
	globalManager.subtasksAssigned.Inc()
}

func RecordScoringLatency(latencyMs float64) {
	globalManager.scoringLatency.Observe(latencyMs)
}

func RecordProviderCall(outcome string) {
	globalManager.providerCalls.WithLabelValues(outcome).Inc()
}

func RecordProviderCallLatency(latencyMs float64) {
	globalManager.providerCallLatency.Observe(latencyMs)
}

func RecordStreamEvent(event string) {
	globalManager.streamEvents.WithLabelValues(event).Inc()
}

func UpdateActiveStreams(delta float64) {
	globalManager.activeStreams.Add(delta)
}

func UpdatePersistQueueSize(size int) {
	globalManager.persistQueueSize.Set(float64(size))
}

func UpdatePersistQueueCapacity(capacity int) {
	globalManager.persistQueueCapacity.Set(float64(capacity))
}

func RecordPersistEnqueueError() {
	globalManager.persistEnqueueErrors.Inc()
}

func RecordTaskPersisted() {
	globalManager.tasksPersisted.Inc()
}

func RecordPersistenceError() {
	globalManager.persistenceErrors.Inc()
}

func RecordPersistLatency(latencyMs float64) {
	globalManager.persistLatency.Observe(latencyMs)
}

func UpdatePersistWorkers(count int) {
	globalManager.persistWorkers.Set(float64(count))
}

func RecordDirectoryRefresh() {
	globalManager.directoryRefreshes.Inc()
}

func UpdateDirectoryMembers(count int) {
	globalManager.directoryMembers.Set(float64(count))
}

func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}
