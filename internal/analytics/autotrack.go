package analytics

import "github.com/JonnyWalker81/habitrack/backend/internal/models"

// TrackerKind is the sensor rule applied to a habit category
type TrackerKind string

const (
	TrackerNone     TrackerKind = ""
	TrackerExercise TrackerKind = "exercise"
	TrackerSteps    TrackerKind = "steps"
	TrackerSleep    TrackerKind = "sleep"
)

const (
	// DefaultTargetSteps applies when the payload carries no step target
	DefaultTargetSteps = 8000

	exerciseCompletionRatio = 0.8
	targetSleepHours        = 7.0
	sleepCompletionRatio    = 0.9
)

// KindForCategory returns the tracker rule for a category, or TrackerNone
// when the category cannot be detected from health data.
func KindForCategory(c models.HabitCategory) TrackerKind {
	switch c {
	case models.CategoryExercise, models.CategoryRunning, models.CategoryCycling:
		return TrackerExercise
	case models.CategoryWalking:
		return TrackerSteps
	case models.CategorySleep:
		return TrackerSleep
	default:
		return TrackerNone
	}
}

// DetectCompletion applies simple thresholds to a health payload. Missing
// readings count as zero.
func DetectCompletion(kind TrackerKind, p models.HealthPayload, targetMinutes int) bool {
	switch kind {
	case TrackerExercise:
		return deref(p.WorkoutDurationMinutes) >= exerciseCompletionRatio*float64(targetMinutes)
	case TrackerSteps:
		target := DefaultTargetSteps
		if p.TargetSteps != nil {
			target = *p.TargetSteps
		}
		steps := 0
		if p.Steps != nil {
			steps = *p.Steps
		}
		return steps >= target
	case TrackerSleep:
		return deref(p.SleepHours) >= sleepCompletionRatio*targetSleepHours
	default:
		return false
	}
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
