package service

import (
	"context"
	"errors"
	"time"

	"github.com/JonnyWalker81/habitrack/backend/internal/models"
)

var (
	// ErrNotFound is returned when a habit or log does not exist or belongs to another user
	ErrNotFound = errors.New("not found")
	// ErrInvalidRequest is returned when input fails domain validation
	ErrInvalidRequest = errors.New("invalid request")
)

// HabitService defines the interface for habit and habit log business logic
type HabitService interface {
	CreateHabit(ctx context.Context, userID string, req *models.CreateHabitRequest) (*models.Habit, error)
	GetHabit(ctx context.Context, userID, habitID string) (*models.Habit, error)
	ListHabits(ctx context.Context, userID string, activeOnly bool) ([]models.Habit, error)
	UpdateHabit(ctx context.Context, userID, habitID string, req *models.UpdateHabitRequest) (*models.Habit, error)
	DeleteHabit(ctx context.Context, userID, habitID string) error

	CreateLog(ctx context.Context, userID, habitID string, req *models.CreateHabitLogRequest) (*models.HabitLog, error)
	// RecordLog stores a log built server-side for an already loaded habit
	RecordLog(ctx context.Context, habit *models.Habit, log *models.HabitLog) (*models.HabitLog, error)
	ListLogs(ctx context.Context, userID, habitID string, start, end time.Time) ([]models.HabitLog, error)

	GetDailyDashboard(ctx context.Context, userID string, date time.Time) (*models.DailyDashboard, error)
}

// TrackingService defines the interface for streak and progress analytics
type TrackingService interface {
	GetComprehensiveReport(ctx context.Context, userID, habitID string) (*models.TrackingReport, error)
	GetStreak(ctx context.Context, userID, habitID string) (*models.StreakState, error)
	GetCompletionRate(ctx context.Context, userID, habitID string, period models.Period) (*models.CompletionRateResponse, error)
	GetOptimalTimes(ctx context.Context, userID, habitID string) ([]models.TimeOfDay, error)
	GetNextReminder(ctx context.Context, userID, habitID string) (*models.ReminderResponse, error)
	AttachEvidence(ctx context.Context, userID, logID string, req *models.AttachEvidenceRequest) (*models.Evidence, error)
}

// AutoTrackingService defines the interface for health-data driven logging
type AutoTrackingService interface {
	IntegrateHealthData(ctx context.Context, userID string, payload *models.HealthPayload) (*models.HealthIntegrationResult, error)
	DetectActivityCompletion(ctx context.Context, userID, habitID string, payload *models.HealthPayload) (bool, error)
}
