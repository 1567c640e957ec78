package service

import (
	"context"
	"fmt"
	"math"

	"github.com/JonnyWalker81/habitrack/backend/internal/analytics"
	"github.com/JonnyWalker81/habitrack/backend/internal/logger"
	"github.com/JonnyWalker81/habitrack/backend/internal/models"
	"github.com/JonnyWalker81/habitrack/backend/internal/repository"
)

type autoTrackingService struct {
	habits   repository.HabitRepository
	recorder HabitService
	settings Settings
}

// NewAutoTrackingService creates the health-data adapter. Detected
// completions are recorded through the habit service so they earn points
// and update statistics like manual logs.
func NewAutoTrackingService(habits repository.HabitRepository, recorder HabitService, settings Settings) AutoTrackingService {
	return &autoTrackingService{
		habits:   habits,
		recorder: recorder,
		settings: settings,
	}
}

func (s *autoTrackingService) IntegrateHealthData(ctx context.Context, userID string, payload *models.HealthPayload) (*models.HealthIntegrationResult, error) {
	habits, err := s.habits.GetByUserID(ctx, userID, true)
	if err != nil {
		return nil, err
	}

	result := &models.HealthIntegrationResult{Logs: []models.HabitLog{}}
	for i := range habits {
		habit := &habits[i]
		kind := analytics.KindForCategory(habit.Category)
		if kind == analytics.TrackerNone || !analytics.DetectCompletion(kind, *payload, habit.EstimatedMinutes) {
			continue
		}

		created, err := s.recorder.RecordLog(ctx, habit, s.autoLog(habit, payload))
		if err != nil {
			return nil, fmt.Errorf("failed to record auto-tracked log for habit %s: %w", habit.ID, err)
		}
		result.Logs = append(result.Logs, *created)
	}
	result.Detected = len(result.Logs)

	logger.Ctx(ctx).Info("health data integrated",
		logger.String("source", sourceName(payload)),
		logger.Int("trackable", len(habits)),
		logger.Int("detected", result.Detected),
	)
	return result, nil
}

func (s *autoTrackingService) DetectActivityCompletion(ctx context.Context, userID, habitID string, payload *models.HealthPayload) (bool, error) {
	habit, err := ownedHabit(ctx, s.habits, userID, habitID)
	if err != nil {
		return false, err
	}
	return analytics.DetectCompletion(analytics.KindForCategory(habit.Category), *payload, habit.EstimatedMinutes), nil
}

func (s *autoTrackingService) autoLog(habit *models.Habit, payload *models.HealthPayload) *models.HabitLog {
	notes := "auto-detected - " + sourceName(payload)
	log := &models.HabitLog{
		HabitID:              habit.ID,
		UserID:               habit.UserID,
		LoggedAt:             s.settings.now(),
		Status:               models.StatusCompleted,
		CompletionPercentage: 100,
		Notes:                &notes,
		AutoTracked:          true,
	}
	if payload.WorkoutDurationMinutes != nil {
		minutes := int(math.Round(*payload.WorkoutDurationMinutes))
		log.DurationMinutes = &minutes
	}
	return log
}

func sourceName(p *models.HealthPayload) string {
	if p.Source == "" {
		return "unknown"
	}
	return p.Source
}
