package models

import (
	"fmt"
	"time"
)

// Period selects the completion-rate window
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

// Days returns the window length for p, or false when p is unknown
func (p Period) Days() (int, bool) {
	switch p {
	case PeriodDaily:
		return 1, true
	case PeriodWeekly:
		return 7, true
	case PeriodMonthly:
		return 30, true
	case PeriodYearly:
		return 365, true
	}
	return 0, false
}

// ConsistencyPattern is the five-tier consistency classification
type ConsistencyPattern string

const (
	VeryConsistent   ConsistencyPattern = "very_consistent"
	Consistent       ConsistencyPattern = "consistent"
	Moderate         ConsistencyPattern = "moderate"
	Inconsistent     ConsistencyPattern = "inconsistent"
	VeryInconsistent ConsistencyPattern = "very_inconsistent"
)

// TimeOfDay is an hour/minute pair
type TimeOfDay struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// StreakState is derived from the full history on every request
type StreakState struct {
	CurrentStreak       int      `json:"current_streak"`
	LongestStreak       int      `json:"longest_streak"`
	RiskLevel           float64  `json:"risk_level"`
	RecoverySuggestions []string `json:"recovery_suggestions"`
}

// ProgressReport is the progress half of a tracking report
type ProgressReport struct {
	WeeklyCompletionRate  float64            `json:"weekly_completion_rate"`
	MonthlyCompletionRate float64            `json:"monthly_completion_rate"`
	ConsistencyPattern    ConsistencyPattern `json:"consistency_pattern"`
	OptimalTimes          []TimeOfDay        `json:"optimal_times"`
	DifficultyAdjustment  int                `json:"difficulty_adjustment"`
}

// TrackingReport aggregates streak and progress analytics for one habit
type TrackingReport struct {
	HabitID       string         `json:"habit_id"`
	AsOf          time.Time      `json:"as_of"`
	Streak        StreakState    `json:"streak_data"`
	Progress      ProgressReport `json:"progress"`
	EvidenceCount int            `json:"evidence_count"`
}

// CompletionRateResponse is returned by the completion-rate endpoint
type CompletionRateResponse struct {
	HabitID        string  `json:"habit_id"`
	Period         Period  `json:"period"`
	CompletionRate float64 `json:"completion_rate"`
}

// ReminderResponse is returned by the next-reminder endpoint
type ReminderResponse struct {
	HabitID      string    `json:"habit_id"`
	NextReminder time.Time `json:"next_reminder"`
}

// HealthPayload is a reading pushed from a health or sensor source
type HealthPayload struct {
	Source                 string   `json:"source"`
	WorkoutDurationMinutes *float64 `json:"workout_duration_minutes,omitempty"`
	Steps                  *int     `json:"steps,omitempty"`
	TargetSteps            *int     `json:"target_steps,omitempty"`
	SleepHours             *float64 `json:"sleep_hours,omitempty"`
}

// HealthIntegrationResult lists the logs created from a health payload
type HealthIntegrationResult struct {
	Detected int        `json:"detected"`
	Logs     []HabitLog `json:"logs"`
}

// DetectionResponse is returned by the detect endpoint
type DetectionResponse struct {
	HabitID   string `json:"habit_id"`
	Completed bool   `json:"completed"`
}

// DashboardStatus is the per-habit state on the daily dashboard
type DashboardStatus string

const (
	DashboardCompleted    DashboardStatus = "completed"
	DashboardInProgress   DashboardStatus = "in_progress"
	DashboardSkipped      DashboardStatus = "skipped"
	DashboardPending      DashboardStatus = "pending"
	DashboardNotScheduled DashboardStatus = "not_scheduled"
)

// DashboardHabit is one row of the daily dashboard
type DashboardHabit struct {
	HabitID        string          `json:"habit_id"`
	Name           string          `json:"name"`
	Category       HabitCategory   `json:"category"`
	TargetCount    int             `json:"target_count"`
	CompletedCount int             `json:"completed_count"`
	CompletionRate float64         `json:"completion_rate"`
	Status         DashboardStatus `json:"status"`
	CurrentStreak  int             `json:"current_streak"`
	NextReminder   *string         `json:"next_reminder,omitempty"`
}

// DailyDashboard summarizes a user's habits for one day
type DailyDashboard struct {
	Date              string           `json:"date"`
	TotalHabits       int              `json:"total_habits"`
	CompletedHabits   int              `json:"completed_habits"`
	CompletionRate    float64          `json:"completion_rate"`
	PointsEarned      int              `json:"points_earned"`
	AverageMoodBefore *float64         `json:"average_mood_before,omitempty"`
	AverageMoodAfter  *float64         `json:"average_mood_after,omitempty"`
	AverageEnergy     *float64         `json:"average_energy,omitempty"`
	Habits            []DashboardHabit `json:"habits"`
}
