// Package metrics provides Prometheus metrics for the star rating service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Interaction outcomes.
const (
	OutcomeChanged   = "changed"
	OutcomeNoop      = "noop"
	OutcomeBlocked   = "blocked"
	OutcomeUnknown   = "unknown_key"
	OutcomeDuplicate = "duplicate"
)

// Manager owns every collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Widget behaviour
	interactions  *prometheus.CounterVec
	ratingChanges prometheus.Counter
	renders       prometheus.Counter
	widgets       prometheus.Gauge
	ratingValue   prometheus.Histogram

	// Notification pipeline
	queueSize        prometheus.Gauge
	queueCapacity    prometheus.Gauge
	queueRejected    *prometheus.CounterVec
	dispatchLatency  prometheus.Histogram
	dispatchErrors   *prometheus.CounterVec
	dispatcherActive prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Process
	memoryBytes prometheus.Gauge
	goroutines  prometheus.Gauge
	gcPause     prometheus.Gauge
}

// customRegistry keeps default Go collectors out of the exposition.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // process-wide registry

var globalManager = NewManager(WithPrometheusRegistry(customRegistry)) //nolint:gochecknoglobals // singleton recorder

// NewManager creates a manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "starrating",
		subsystem:        "widget",
		histogramBuckets: prometheus.DefBuckets,
		constLabels:      prometheus.Labels{},
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

	m.interactions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "interactions_total",
		Help:        "Interactions received by kind and outcome",
		ConstLabels: m.constLabels,
	}, []string{"kind", "outcome"})

	m.ratingChanges = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "rating_changes_total",
		Help:        "Accepted interactions that produced a change notification",
		ConstLabels: m.constLabels,
	})

	m.renders = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "renders_total",
		Help:        "Row renders computed",
		ConstLabels: m.constLabels,
	})

	m.widgets = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "widgets",
		Help:        "Widgets currently hosted",
		ConstLabels: m.constLabels,
	})

	m.ratingValue = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "rating_value",
		Help:        "Distribution of ratings after accepted changes",
		Buckets:     prometheus.LinearBuckets(0, 1, 16),
		ConstLabels: m.constLabels,
	})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "notify",
		Name:        "queue_size",
		Help:        "Change notifications waiting for dispatch",
		ConstLabels: m.constLabels,
	})

	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "notify",
		Name:        "queue_capacity",
		Help:        "Capacity of the notification queue",
		ConstLabels: m.constLabels,
	})

	m.queueRejected = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "notify",
		Name:        "queue_rejected_total",
		Help:        "Notifications the queue refused, by reason",
		ConstLabels: m.constLabels,
	}, []string{"reason"})

	m.dispatchLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "notify",
		Name:        "dispatch_latency_milliseconds",
		Help:        "Time to deliver one change to every subscriber",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.dispatchErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "notify",
		Name:        "dispatch_errors_total",
		Help:        "Subscriber delivery failures by subscriber",
		ConstLabels: m.constLabels,
	}, []string{"subscriber"})

	m.dispatcherActive = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "notify",
		Name:        "dispatchers",
		Help:        "Running dispatcher workers",
		ConstLabels: m.constLabels,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "http",
		Name:        "requests_total",
		Help:        "HTTP requests by route, method and status code",
		ConstLabels: m.constLabels,
	}, []string{"route", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "http",
		Name:        "request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"route", "method", "status_code"})

	m.memoryBytes = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "memory_bytes",
		Help:        "Heap bytes allocated",
		ConstLabels: m.constLabels,
	})

	m.goroutines = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "goroutines",
		Help:        "Running goroutines",
		ConstLabels: m.constLabels,
	})

	m.gcPause = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "gc_pause_milliseconds",
		Help:        "Average GC pause since start",
		ConstLabels: m.constLabels,
	})
}

// RecordInteraction counts one interaction by kind ("click", "key") and outcome.
func (m *Manager) RecordInteraction(kind, outcome string) {
	m.interactions.WithLabelValues(kind, outcome).Inc()
}

// RecordRatingChange counts an accepted change and observes the new rating.
func (m *Manager) RecordRatingChange(rating float64) {
	m.ratingChanges.Inc()
	m.ratingValue.Observe(rating)
}

// RecordRender counts one row render.
func (m *Manager) RecordRender() { m.renders.Inc() }

// UpdateWidgets sets the hosted widget count.
func (m *Manager) UpdateWidgets(n int) { m.widgets.Set(float64(n)) }

// UpdateQueueSize sets the current notification backlog.
func (m *Manager) UpdateQueueSize(n int) { m.queueSize.Set(float64(n)) }

// UpdateQueueCapacity sets the notification queue capacity.
func (m *Manager) UpdateQueueCapacity(n int) { m.queueCapacity.Set(float64(n)) }

// RecordQueueRejected counts a refused enqueue.
func (m *Manager) RecordQueueRejected(reason string) { m.queueRejected.WithLabelValues(reason).Inc() }

// RecordDispatchLatency observes one dispatch round in milliseconds.
func (m *Manager) RecordDispatchLatency(ms float64) { m.dispatchLatency.Observe(ms) }

// RecordDispatchError counts a failed delivery to the named subscriber.
func (m *Manager) RecordDispatchError(subscriber string) {
	m.dispatchErrors.WithLabelValues(subscriber).Inc()
}

// UpdateDispatchers sets the running dispatcher worker count.
func (m *Manager) UpdateDispatchers(n int) { m.dispatcherActive.Set(float64(n)) }

// RecordHTTPRequest counts a request and observes its duration.
func (m *Manager) RecordHTTPRequest(route, method, statusCode string, durationMs float64) {
	m.httpRequests.WithLabelValues(route, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(route, method, statusCode).Observe(durationMs)
}

// UpdateSystem sets the process gauges.
func (m *Manager) UpdateSystem(memoryBytes uint64, goroutines int, gcPauseMs float64) {
	m.memoryBytes.Set(float64(memoryBytes))
	m.goroutines.Set(float64(goroutines))
	m.gcPause.Set(gcPauseMs)
}

// RecordInteraction counts an interaction on the global manager.
func RecordInteraction(kind, outcome string) {
	globalManager.RecordInteraction(kind, outcome)
}

// RecordRatingChange records an accepted change on the global manager.
func RecordRatingChange(rating float64) {
	globalManager.RecordRatingChange(rating)
}

// RecordRender counts a render on the global manager.
func RecordRender() {
	globalManager.RecordRender()
}

// UpdateWidgets sets the hosted widget gauge.
func UpdateWidgets(n int) {
	globalManager.UpdateWidgets(n)
}

// UpdateQueueSize sets the notification backlog gauge.
func UpdateQueueSize(n int) {
	globalManager.UpdateQueueSize(n)
}

// UpdateQueueCapacity sets the notification capacity gauge.
func UpdateQueueCapacity(n int) {
	globalManager.UpdateQueueCapacity(n)
}

// RecordQueueRejected counts a refused enqueue.
func RecordQueueRejected(reason string) {
	globalManager.RecordQueueRejected(reason)
}

// RecordDispatchLatency observes a dispatch round.
func RecordDispatchLatency(ms float64) {
	globalManager.RecordDispatchLatency(ms)
}

// RecordDispatchError counts a failed delivery.
func RecordDispatchError(subscriber string) {
	globalManager.RecordDispatchError(subscriber)
}

// UpdateDispatchers sets the running dispatcher gauge.
func UpdateDispatchers(n int) {
	globalManager.UpdateDispatchers(n)
}

// RecordHTTPRequest records an HTTP request on the global manager.
func RecordHTTPRequest(route, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(route, method, statusCode, durationMs)
}

// UpdateSystem sets the process gauges on the global manager.
func UpdateSystem(memoryBytes uint64, goroutines int, gcPauseMs float64) {
	globalManager.UpdateSystem(memoryBytes, goroutines, gcPauseMs)
}

// GetRegistry returns the registry the global manager writes to.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
