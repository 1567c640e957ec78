package models

import "time"

// HabitCategory is the coarse category tag used for suggestions and auto-tracking
type HabitCategory string

const (
	CategoryExercise   HabitCategory = "exercise"
	CategoryRunning    HabitCategory = "running"
	CategoryCycling    HabitCategory = "cycling"
	CategoryWalking    HabitCategory = "walking"
	CategorySleep      HabitCategory = "sleep"
	CategoryReading    HabitCategory = "reading"
	CategoryMeditation HabitCategory = "meditation"
	CategoryOther      HabitCategory = "other"
)

// Valid reports whether c is one of the known categories
func (c HabitCategory) Valid() bool {
	switch c {
	case CategoryExercise, CategoryRunning, CategoryCycling, CategoryWalking,
		CategorySleep, CategoryReading, CategoryMeditation, CategoryOther:
		return true
	}
	return false
}

// Habit represents a habit a user is tracking
type Habit struct {
	ID               string          `json:"id"`
	UserID           string          `json:"user_id"`
	Name             string          `json:"name"`
	Description      *string         `json:"description,omitempty"`
	Category         HabitCategory   `json:"category"`
	EstimatedMinutes int             `json:"estimated_minutes"`
	Frequency        FrequencyConfig `json:"frequency"`
	ReminderEnabled  bool            `json:"reminder_enabled"`
	ReminderTimes    []string        `json:"reminder_times"`
	CurrentStreak    int             `json:"current_streak"`
	LongestStreak    int             `json:"longest_streak"`
	TotalCompletions int             `json:"total_completions"`
	RewardPoints     int             `json:"reward_points"`
	IsActive         bool            `json:"is_active"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// HabitStats holds the counters updated whenever a completed log is recorded
type HabitStats struct {
	CurrentStreak    int `json:"current_streak"`
	LongestStreak    int `json:"longest_streak"`
	TotalCompletions int `json:"total_completions"`
	RewardPoints     int `json:"reward_points"`
}

// CreateHabitRequest represents the request to create a habit
type CreateHabitRequest struct {
	Name             string          `json:"name" binding:"required,max=200"`
	Description      *string         `json:"description" binding:"omitempty,max=2000"`
	Category         HabitCategory   `json:"category" binding:"required"`
	EstimatedMinutes int             `json:"estimated_minutes" binding:"min=0,max=1440"`
	Frequency        FrequencyConfig `json:"frequency"`
	ReminderEnabled  bool            `json:"reminder_enabled"`
	ReminderTimes    []string        `json:"reminder_times" binding:"omitempty,dive,datetime=15:04"`
}

// UpdateHabitRequest represents the request to update a habit.
// Description uses NullableString so clients can clear it with an explicit null.
type UpdateHabitRequest struct {
	Name             *string          `json:"name" binding:"omitempty,max=200"`
	Description      NullableString   `json:"description"`
	Category         *HabitCategory   `json:"category"`
	EstimatedMinutes *int             `json:"estimated_minutes" binding:"omitempty,min=0,max=1440"`
	Frequency        *FrequencyConfig `json:"frequency"`
	ReminderEnabled  *bool            `json:"reminder_enabled"`
	ReminderTimes    []string         `json:"reminder_times" binding:"omitempty,dive,datetime=15:04"`
	IsActive         *bool            `json:"is_active"`
}
