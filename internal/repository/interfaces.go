package repository

import (
	"context"
	"errors"
	"time"

	"github.com/JonnyWalker81/habitrack/backend/internal/models"
)

// ErrNotFound is returned when a row does not exist
var ErrNotFound = errors.New("not found")

// LogStore is the read side the analytics consume. FetchEvents returns the
// events of one habit with timestamps inside [start, end], oldest first.
// A zero start or end leaves that side of the range open.
type LogStore interface {
	FetchEvents(ctx context.Context, habitID string, start, end time.Time) ([]models.CompletionEvent, error)
}

// HabitRepository defines the interface for habit data access
type HabitRepository interface {
	Create(ctx context.Context, habit *models.Habit) (*models.Habit, error)
	GetByID(ctx context.Context, id string) (*models.Habit, error)
	GetByUserID(ctx context.Context, userID string, activeOnly bool) ([]models.Habit, error)
	Update(ctx context.Context, id string, habit *models.Habit) (*models.Habit, error)
	UpdateStats(ctx context.Context, id string, stats models.HabitStats) error
	Delete(ctx context.Context, id string) error
}

// HabitLogRepository defines the interface for habit log data access
type HabitLogRepository interface {
	LogStore
	Create(ctx context.Context, log *models.HabitLog) (*models.HabitLog, error)
	GetByID(ctx context.Context, id string) (*models.HabitLog, error)
	GetByHabitIDAndDateRange(ctx context.Context, habitID string, start, end time.Time) ([]models.HabitLog, error)
	GetByUserIDAndDateRange(ctx context.Context, userID string, start, end time.Time) ([]models.HabitLog, error)
}

// EvidenceRepository defines the interface for evidence data access
type EvidenceRepository interface {
	Create(ctx context.Context, evidence *models.Evidence) (*models.Evidence, error)
	GetByLogID(ctx context.Context, logID string) ([]models.Evidence, error)
	CountByHabitID(ctx context.Context, habitID string) (int, error)
}

// Stores groups the repositories of one backend
type Stores struct {
	Habits   HabitRepository
	Logs     HabitLogRepository
	Evidence EvidenceRepository
}

// Events projects log rows onto completion events
func Events(logs []models.HabitLog) []models.CompletionEvent {
	events := make([]models.CompletionEvent, len(logs))
	for i, l := range logs {
		events[i] = l.Event()
	}
	return events
}
