package analytics

import (
	"testing"

	"github.com/JonnyWalker81/habitrack/backend/internal/models"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestDetectCompletion(t *testing.T) {
	tests := []struct {
		name    string
		kind    TrackerKind
		payload models.HealthPayload
		target  int
		want    bool
	}{
		{"exercise at eighty percent", TrackerExercise, models.HealthPayload{WorkoutDurationMinutes: floatPtr(24)}, 30, true},
		{"exercise below eighty percent", TrackerExercise, models.HealthPayload{WorkoutDurationMinutes: floatPtr(23.9)}, 30, false},
		{"exercise without reading", TrackerExercise, models.HealthPayload{}, 30, false},
		{"exercise with no target", TrackerExercise, models.HealthPayload{}, 0, true},
		{"steps meet explicit target", TrackerSteps, models.HealthPayload{Steps: intPtr(5000), TargetSteps: intPtr(5000)}, 0, true},
		{"steps below explicit target", TrackerSteps, models.HealthPayload{Steps: intPtr(4999), TargetSteps: intPtr(5000)}, 0, false},
		{"steps default target met", TrackerSteps, models.HealthPayload{Steps: intPtr(8000)}, 0, true},
		{"steps default target missed", TrackerSteps, models.HealthPayload{Steps: intPtr(7999)}, 0, false},
		{"sleep at ninety percent of seven hours", TrackerSleep, models.HealthPayload{SleepHours: floatPtr(6.3)}, 0, true},
		{"sleep short", TrackerSleep, models.HealthPayload{SleepHours: floatPtr(6.2)}, 0, false},
		{"unknown kind", TrackerNone, models.HealthPayload{Steps: intPtr(100000)}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectCompletion(tt.kind, tt.payload, tt.target); got != tt.want {
				t.Errorf("DetectCompletion() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKindForCategory(t *testing.T) {
	tests := []struct {
		category models.HabitCategory
		want     TrackerKind
	}{
		{models.CategoryExercise, TrackerExercise},
		{models.CategoryRunning, TrackerExercise},
		{models.CategoryCycling, TrackerExercise},
		{models.CategoryWalking, TrackerSteps},
		{models.CategorySleep, TrackerSleep},
		{models.CategoryReading, TrackerNone},
		{models.CategoryOther, TrackerNone},
	}

	for _, tt := range tests {
		if got := KindForCategory(tt.category); got != tt.want {
			t.Errorf("KindForCategory(%s) = %q, want %q", tt.category, got, tt.want)
		}
	}
}

func TestPoints(t *testing.T) {
	tests := []struct {
		status     models.CompletionStatus
		percentage int
		want       int
	}{
		{models.StatusCompleted, 100, 10},
		{models.StatusCompleted, 50, 10},
		{models.StatusCompleted, 250, 25},
		{models.StatusPartial, 60, 5},
		{models.StatusPartial, 200, 10},
		{models.StatusSkipped, 100, 0},
		{models.StatusPending, 0, 0},
	}

	for _, tt := range tests {
		if got := Points(tt.status, tt.percentage); got != tt.want {
			t.Errorf("Points(%s, %d) = %d, want %d", tt.status, tt.percentage, got, tt.want)
		}
	}
}
