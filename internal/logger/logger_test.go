package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"", LevelInfo},
		{"verbose", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	line := strings.TrimSpace(buf.String())
	var m map[string]any
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		t.Fatalf("log line is not JSON: %q: %v", line, err)
	}
	return m
}

func TestBackends_ContextFields(t *testing.T) {
	for _, backend := range []string{BackendSlog, BackendZerolog} {
		t.Run(backend, func(t *testing.T) {
			var buf bytes.Buffer
			l := New(Config{Level: LevelInfo, Format: "json", Backend: backend, Output: &buf})

			ctx := WithRequestID(context.Background(), "req-1")
			ctx = WithUserID(ctx, "user-1")
			ctx = WithHabitID(ctx, "habit-1")

			l.WithContext(ctx).Info("report computed", Int("events", 4))

			m := decodeLine(t, &buf)
			for key, want := range map[string]any{
				"request_id": "req-1",
				"user_id":    "user-1",
				"habit_id":   "habit-1",
				"events":     4.0,
			} {
				if m[key] != want {
					t.Errorf("%s = %v, want %v", key, m[key], want)
				}
			}
		})
	}
}

func TestBackends_LevelFilter(t *testing.T) {
	for _, backend := range []string{BackendSlog, BackendZerolog} {
		t.Run(backend, func(t *testing.T) {
			var buf bytes.Buffer
			l := New(Config{Level: LevelWarn, Format: "json", Backend: backend, Output: &buf})

			l.Info("dropped")
			if buf.Len() != 0 {
				t.Errorf("info logged at warn level: %q", buf.String())
			}
			l.Warn("kept")
			if !strings.Contains(buf.String(), "kept") {
				t.Errorf("warn not logged: %q", buf.String())
			}
		})
	}
}

func TestWithRequestID_GeneratesWhenEmpty(t *testing.T) {
	ctx := WithRequestID(context.Background(), "")
	if RequestIDFromContext(ctx) == "" {
		t.Error("expected generated request id")
	}
}

func TestFromContext_FallsBackToDefault(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext() returned nil")
	}

	var buf bytes.Buffer
	custom := New(Config{Backend: BackendSlog, Output: &buf})
	ctx := WithLogger(context.Background(), custom)
	Ctx(ctx).Info("hello")
	if !strings.Contains(buf.String(), "hello") {
		t.Errorf("context logger not used: %q", buf.String())
	}
}

func TestOutput(t *testing.T) {
	w, closeFn, err := Output(FileConfig{})
	if err != nil || w == nil {
		t.Fatalf("Output(stdout) = %v, %v", w, err)
	}
	if err := closeFn(); err != nil {
		t.Errorf("close() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "logs", "habitrack.log")
	w, closeFn, err = Output(FileConfig{Path: path, MaxSizeMB: 1})
	if err != nil {
		t.Fatalf("Output(file) error = %v", err)
	}
	if _, err := w.Write([]byte("line\n")); err != nil {
		t.Errorf("Write() error = %v", err)
	}
	if err := closeFn(); err != nil {
		t.Errorf("close() error = %v", err)
	}
}
