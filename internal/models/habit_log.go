package models

import "time"

// CompletionStatus is the outcome recorded on a habit log
type CompletionStatus string

const (
	StatusCompleted CompletionStatus = "completed"
	StatusPartial   CompletionStatus = "partial"
	StatusSkipped   CompletionStatus = "skipped"
	StatusPending   CompletionStatus = "pending"
)

// Valid reports whether s is a known status
func (s CompletionStatus) Valid() bool {
	switch s {
	case StatusCompleted, StatusPartial, StatusSkipped, StatusPending:
		return true
	}
	return false
}

// HabitLog is a stored record of one attempt at a habit
type HabitLog struct {
	ID                   string           `json:"id"`
	HabitID              string           `json:"habit_id"`
	UserID               string           `json:"user_id"`
	LoggedAt             time.Time        `json:"logged_at"`
	Status               CompletionStatus `json:"completion_status"`
	CompletionPercentage int              `json:"completion_percentage"`
	DurationMinutes      *int             `json:"duration_minutes,omitempty"`
	IntensityLevel       *int             `json:"intensity_level,omitempty"`
	Location             *string          `json:"location,omitempty"`
	MoodBefore           *int             `json:"mood_before,omitempty"`
	MoodAfter            *int             `json:"mood_after,omitempty"`
	EnergyLevel          *int             `json:"energy_level,omitempty"`
	Notes                *string          `json:"notes,omitempty"`
	AutoTracked          bool             `json:"auto_tracked"`
	PointsEarned         int              `json:"points_earned"`
	CreatedAt            time.Time        `json:"created_at"`
}

// Event projects the log row onto the fields the analytics read
func (l HabitLog) Event() CompletionEvent {
	return CompletionEvent{
		HabitID:     l.HabitID,
		Timestamp:   l.LoggedAt,
		Status:      l.Status,
		MoodBefore:  l.MoodBefore,
		MoodAfter:   l.MoodAfter,
		EnergyLevel: l.EnergyLevel,
	}
}

// CompletionEvent is the read-only view of a log used by the analytics.
// Only whether a date has at least one completed event matters for streaks.
type CompletionEvent struct {
	HabitID     string           `json:"habit_id"`
	Timestamp   time.Time        `json:"timestamp"`
	Status      CompletionStatus `json:"status"`
	MoodBefore  *int             `json:"mood_before,omitempty"`
	MoodAfter   *int             `json:"mood_after,omitempty"`
	EnergyLevel *int             `json:"energy_level,omitempty"`
}

// Completed reports whether the event counts toward a streak
func (e CompletionEvent) Completed() bool {
	return e.Status == StatusCompleted
}

// CreateHabitLogRequest represents the request to record a habit log
type CreateHabitLogRequest struct {
	LoggedAt             *time.Time       `json:"logged_at"`
	Status               CompletionStatus `json:"completion_status" binding:"required"`
	CompletionPercentage *int             `json:"completion_percentage" binding:"omitempty,min=0,max=100"`
	DurationMinutes      *int             `json:"duration_minutes" binding:"omitempty,min=0"`
	IntensityLevel       *int             `json:"intensity_level" binding:"omitempty,min=1,max=5"`
	Location             *string          `json:"location" binding:"omitempty,max=200"`
	MoodBefore           *int             `json:"mood_before" binding:"omitempty,min=1,max=10"`
	MoodAfter            *int             `json:"mood_after" binding:"omitempty,min=1,max=10"`
	EnergyLevel          *int             `json:"energy_level" binding:"omitempty,min=1,max=5"`
	Notes                *string          `json:"notes" binding:"omitempty,max=2000"`
}

// EvidenceType is the kind of attachment backing a log
type EvidenceType string

const (
	EvidencePhoto  EvidenceType = "photo"
	EvidenceVideo  EvidenceType = "video"
	EvidenceAudio  EvidenceType = "audio"
	EvidenceTimer  EvidenceType = "timer"
	EvidenceGPS    EvidenceType = "gps"
	EvidenceSensor EvidenceType = "sensor"
)

// Valid reports whether t is a known evidence type
func (t EvidenceType) Valid() bool {
	switch t {
	case EvidencePhoto, EvidenceVideo, EvidenceAudio, EvidenceTimer, EvidenceGPS, EvidenceSensor:
		return true
	}
	return false
}

// Evidence is an attachment on a habit log
type Evidence struct {
	ID          string         `json:"id"`
	HabitLogID  string         `json:"habit_log_id"`
	HabitID     string         `json:"habit_id"`
	UserID      string         `json:"user_id"`
	Type        EvidenceType   `json:"evidence_type"`
	FileURL     string         `json:"file_url"`
	FileSize    *int64         `json:"file_size,omitempty"`
	Metadata    map[string]any `json:"metadata"`
	Description *string        `json:"description,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// AttachEvidenceRequest represents the request to attach evidence to a log
type AttachEvidenceRequest struct {
	Type        EvidenceType   `json:"evidence_type" binding:"required"`
	FileURL     string         `json:"file_url" binding:"required,url,max=500"`
	FileSize    *int64         `json:"file_size" binding:"omitempty,min=0"`
	Metadata    map[string]any `json:"metadata"`
	Description *string        `json:"description" binding:"omitempty,max=500"`
}
