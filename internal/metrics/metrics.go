// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sony/gobreaker/v2"
)

var (
	// HTTP
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "habitrack_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "habitrack_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Analytics
	ReportDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "habitrack_report_duration_seconds",
			Help:    "Time to build a comprehensive tracking report, including the history fetch",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	ReportEvents = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "habitrack_report_events",
			Help:    "Number of completion events analyzed per report",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	LogFetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "habitrack_log_fetch_errors_total",
			Help: "Failed completion event fetches from the log store",
		},
		[]string{"operation"},
	)

	LogsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "habitrack_logs_created_total",
			Help: "Habit logs recorded by status and source",
		},
		[]string{"status", "source"},
	)

	// Notifications
	NotificationsEnqueued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "habitrack_notifications_enqueued_total",
			Help: "Notifications accepted by the queue",
		},
		[]string{"kind"},
	)

	NotificationsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "habitrack_notifications_dropped_total",
			Help: "Notifications dropped because the queue was full or closed",
		},
		[]string{"kind"},
	)

	NotificationsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "habitrack_notifications_failed_total",
			Help: "Notifications the deliverer returned an error for",
		},
		[]string{"kind"},
	)

	NotificationQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "habitrack_notification_queue_depth",
			Help: "Notifications waiting for delivery",
		},
	)

	// Circuit breaker
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "habitrack_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "habitrack_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordHTTPRequest records a completed HTTP request
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordReport records a successful report build
func RecordReport(duration time.Duration, events int) {
	ReportDuration.Observe(duration.Seconds())
	ReportEvents.Observe(float64(events))
}

func RecordLogFetchError(operation string) {
	LogFetchErrors.WithLabelValues(operation).Inc()
}

// RecordLogCreated counts a new habit log; auto-tracked logs use source "auto"
func RecordLogCreated(status string, autoTracked bool) {
	source := "manual"
	if autoTracked {
		source = "auto"
	}
	LogsCreated.WithLabelValues(status, source).Inc()
}

func RecordNotificationEnqueued(kind string) {
	NotificationsEnqueued.WithLabelValues(kind).Inc()
}

func RecordNotificationDropped(kind string) {
	NotificationsDropped.WithLabelValues(kind).Inc()
}

func RecordNotificationFailed(kind string) {
	NotificationsFailed.WithLabelValues(kind).Inc()
}

func SetNotificationQueueDepth(n int) {
	NotificationQueueDepth.Set(float64(n))
}

// RecordBreakerTransition updates the breaker gauges on a state change
func RecordBreakerTransition(name string, from, to gobreaker.State) {
	CircuitBreakerState.WithLabelValues(name).Set(breakerStateValue(to))
	CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
}

func breakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
