package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sony/gobreaker/v2"
)

func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/habits/:id/report", "200"))

	RecordHTTPRequest("GET", "/api/v1/habits/:id/report", 200, 15*time.Millisecond)

	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/habits/:id/report", "200"))
	if after-before != 1 {
		t.Errorf("request counter delta = %v, want 1", after-before)
	}
}

func TestRecordHTTPRequest_UnmatchedRoute(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404"))
	RecordHTTPRequest("GET", "", 404, time.Millisecond)
	if got := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404")) - before; got != 1 {
		t.Errorf("unmatched counter delta = %v, want 1", got)
	}
}

func TestRecordLogCreated(t *testing.T) {
	tests := []struct {
		name   string
		auto   bool
		source string
	}{
		{"manual log", false, "manual"},
		{"auto-tracked log", true, "auto"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := LogsCreated.WithLabelValues("completed", tt.source)
			before := testutil.ToFloat64(c)
			RecordLogCreated("completed", tt.auto)
			if got := testutil.ToFloat64(c) - before; got != 1 {
				t.Errorf("delta = %v, want 1", got)
			}
		})
	}
}

func TestRecordNotifications(t *testing.T) {
	enq := testutil.ToFloat64(NotificationsEnqueued.WithLabelValues("celebration"))
	drop := testutil.ToFloat64(NotificationsDropped.WithLabelValues("celebration"))

	RecordNotificationEnqueued("celebration")
	RecordNotificationDropped("celebration")
	SetNotificationQueueDepth(3)

	if got := testutil.ToFloat64(NotificationsEnqueued.WithLabelValues("celebration")) - enq; got != 1 {
		t.Errorf("enqueued delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(NotificationsDropped.WithLabelValues("celebration")) - drop; got != 1 {
		t.Errorf("dropped delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(NotificationQueueDepth); got != 3 {
		t.Errorf("queue depth = %v, want 3", got)
	}
}

func TestRecordBreakerTransition(t *testing.T) {
	tests := []struct {
		from, to gobreaker.State
		want     float64
	}{
		{gobreaker.StateClosed, gobreaker.StateOpen, 2},
		{gobreaker.StateOpen, gobreaker.StateHalfOpen, 1},
		{gobreaker.StateHalfOpen, gobreaker.StateClosed, 0},
	}
	for _, tt := range tests {
		t.Run(tt.to.String(), func(t *testing.T) {
			RecordBreakerTransition("test", tt.from, tt.to)
			if got := testutil.ToFloat64(CircuitBreakerState.WithLabelValues("test")); got != tt.want {
				t.Errorf("state gauge = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRecordReport(t *testing.T) {
	before := testutil.CollectAndCount(ReportDuration)
	RecordReport(20*time.Millisecond, 42)
	if got := testutil.CollectAndCount(ReportDuration); got != before {
		t.Errorf("histogram series changed: %d -> %d", before, got)
	}
}

func TestMetricsLint(t *testing.T) {
	problems, err := testutil.GatherAndLint(prometheus.DefaultGatherer,
		"habitrack_http_requests_total", "habitrack_report_duration_seconds")
	if err != nil {
		t.Fatalf("GatherAndLint() error = %v", err)
	}
	for _, p := range problems {
		t.Errorf("lint: %s: %s", p.Metric, p.Text)
	}
}
