// Package metrics exposes the service's Prometheus instrumentation.
//
// All metrics live in a dedicated registry rather than the default one so
// that /healthz serves exactly what this package registers.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "tally"

// Histogram buckets in milliseconds.
var latencyBuckets = []float64{0.1, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000} //nolint:gochecknoglobals // shared bucket layout

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

//nolint:gochecknoglobals // package-level collectors, registered once in init
var (
	reportsAccepted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reports_accepted_total",
		Help:      "Score reports accepted for processing.",
	})
	reportsDuplicate = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reports_duplicate_total",
		Help:      "Score reports rejected as duplicates by report id.",
	})
	scoresComputed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scores_computed_total",
		Help:      "Scores computed by the calculator.",
	})
	scoringErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scoring_errors_total",
		Help:      "Scoring attempts that failed outright (not data fallbacks).",
	})
	scoringLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "scoring_latency_ms",
		Help:      "Latency of a single score computation in milliseconds.",
		Buckets:   latencyBuckets,
	})
	parseFallbacks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "parse_fallbacks_total",
		Help:      "Event field values that needed a parsing fallback.",
	}, []string{"kind"})

	storeUpdates = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_updates_total",
		Help:      "Scoreboard writes that changed an account's score.",
	})
	storeErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_errors_total",
		Help:      "Scoreboard operations that returned an error.",
	})
	totalAccounts = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "accounts_total",
		Help:      "Accounts currently tracked on the scoreboard.",
	})

	queueSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "queue_size",
		Help:      "Reports currently queued.",
	})
	queueCapacity = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "queue_capacity",
		Help:      "Configured queue capacity.",
	})
	queueUtilization = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "queue_utilization",
		Help:      "Queue fill ratio between 0 and 1.",
	})
	queueEnqueues = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "queue_enqueues_total",
		Help:      "Successful enqueue operations.",
	})
	queueDequeues = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "queue_dequeues_total",
		Help:      "Successful dequeue operations.",
	})
	queueEnqueueErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "queue_enqueue_errors_total",
		Help:      "Enqueue operations that failed, by reason.",
	}, []string{"reason"})

	workerCount = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "worker_count",
		Help:      "Configured number of scoring workers.",
	})
	workerLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "worker_processing_latency_ms",
		Help:      "End-to-end report processing latency in milliseconds.",
		Buckets:   latencyBuckets,
	})
	workerErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "worker_errors_total",
		Help:      "Reports a worker failed to process.",
	})

	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint, method, and status code.",
	}, []string{"endpoint", "method", "status"})
	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request duration in milliseconds.",
		Buckets:   latencyBuckets,
	}, []string{"endpoint", "method", "status"})

	systemMemory = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "system_memory_bytes",
		Help:      "Allocated heap bytes.",
	})
	systemGoroutines = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "system_goroutines",
		Help:      "Current goroutine count.",
	})
)

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	customRegistry.MustRegister(
		reportsAccepted, reportsDuplicate,
		scoresComputed, scoringErrors, scoringLatency, parseFallbacks,
		storeUpdates, storeErrors, totalAccounts,
		queueSize, queueCapacity, queueUtilization,
		queueEnqueues, queueDequeues, queueEnqueueErrors,
		workerCount, workerLatency, workerErrors,
		httpRequests, httpDuration,
		systemMemory, systemGoroutines,
	)
}

// RecordReportAccepted increments the accepted report counter.
func RecordReportAccepted() { reportsAccepted.Inc() }

// RecordReportDuplicate increments the duplicate report counter.
func RecordReportDuplicate() { reportsDuplicate.Inc() }

// RecordScoreComputed increments the computed score counter.
func RecordScoreComputed() { scoresComputed.Inc() }

// RecordScoringError increments the scoring error counter.
func RecordScoringError() { scoringErrors.Inc() }

// RecordScoringLatency records one score computation's latency.
func RecordScoringLatency(latencyMs float64) { scoringLatency.Observe(latencyMs) }

// RecordParseFallback counts an event field that needed a fallback,
// by kind (e.g. "value_text", "value_zero", "weight_default").
func RecordParseFallback(kind string) { parseFallbacks.WithLabelValues(kind).Inc() }

// RecordStoreUpdate increments the scoreboard write counter.
func RecordStoreUpdate() { storeUpdates.Inc() }

// RecordStoreError increments the scoreboard error counter.
func RecordStoreError() { storeErrors.Inc() }

// UpdateTotalAccounts sets the tracked account gauge.
func UpdateTotalAccounts(count int) { totalAccounts.Set(float64(count)) }

// UpdateQueueSize sets the current queue depth gauge.
func UpdateQueueSize(size int) { queueSize.Set(float64(size)) }

// UpdateQueueCapacity sets the configured queue capacity gauge.
func UpdateQueueCapacity(capacity int) { queueCapacity.Set(float64(capacity)) }

// UpdateQueueUtilization sets the queue fill ratio gauge.
func UpdateQueueUtilization(utilization float64) { queueUtilization.Set(utilization) }

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() { queueEnqueues.Inc() }

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() { queueDequeues.Inc() }

// RecordQueueEnqueueError counts a failed enqueue by reason.
func RecordQueueEnqueueError(reason string) { queueEnqueueErrors.WithLabelValues(reason).Inc() }

// UpdateWorkerCount sets the worker gauge.
func UpdateWorkerCount(count int) { workerCount.Set(float64(count)) }

// RecordWorkerProcessingLatency records one report's processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) { workerLatency.Observe(latencyMs) }

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() { workerErrors.Inc() }

// RecordHTTPRequest counts one handled HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records one HTTP request's duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	httpDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// UpdateSystemMemoryUsage sets the heap allocation gauge.
func UpdateSystemMemoryUsage(bytes uint64) { systemMemory.Set(float64(bytes)) }

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) { systemGoroutines.Set(float64(count)) }

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
