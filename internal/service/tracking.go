package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JonnyWalker81/habitrack/backend/internal/analytics"
	"github.com/JonnyWalker81/habitrack/backend/internal/logger"
	"github.com/JonnyWalker81/habitrack/backend/internal/metrics"
	"github.com/JonnyWalker81/habitrack/backend/internal/models"
	"github.com/JonnyWalker81/habitrack/backend/internal/repository"
)

type trackingService struct {
	habits   repository.HabitRepository
	logs     repository.HabitLogRepository
	evidence repository.EvidenceRepository
	settings Settings
}

// NewTrackingService creates the analytics facade over the given stores
func NewTrackingService(stores repository.Stores, settings Settings) TrackingService {
	return &trackingService{
		habits:   stores.Habits,
		logs:     stores.Logs,
		evidence: stores.Evidence,
		settings: settings,
	}
}

// history loads the owned habit and its full event history, localized
func (s *trackingService) history(ctx context.Context, userID, habitID, operation string) (*models.Habit, []models.CompletionEvent, error) {
	habit, err := ownedHabit(ctx, s.habits, userID, habitID)
	if err != nil {
		return nil, nil, err
	}

	events, err := s.logs.FetchEvents(ctx, habitID, time.Time{}, time.Time{})
	if err != nil {
		metrics.RecordLogFetchError(operation)
		return nil, nil, fmt.Errorf("failed to fetch completion events: %w", err)
	}

	return habit, s.settings.localize(events), nil
}

func (s *trackingService) GetComprehensiveReport(ctx context.Context, userID, habitID string) (*models.TrackingReport, error) {
	started := time.Now()
	ctx = logger.WithHabitID(ctx, habitID)

	habit, events, err := s.history(ctx, userID, habitID, "report")
	if err != nil {
		return nil, err
	}

	evidenceCount, err := s.evidence.CountByHabitID(ctx, habitID)
	if err != nil {
		return nil, fmt.Errorf("failed to count evidence: %w", err)
	}

	asOf := s.settings.now()
	opts := s.settings.options()
	report := &models.TrackingReport{
		HabitID:       habitID,
		AsOf:          asOf,
		Streak:        analytics.Streak(events, asOf, habit.Category, opts),
		Progress:      analytics.Progress(events, asOf, opts),
		EvidenceCount: evidenceCount,
	}

	metrics.RecordReport(time.Since(started), len(events))
	logger.Ctx(ctx).Debug("tracking report computed",
		logger.Int("events", len(events)),
		logger.Float64("risk_level", report.Streak.RiskLevel),
		logger.Duration("elapsed", time.Since(started)),
	)

	return report, nil
}

func (s *trackingService) GetStreak(ctx context.Context, userID, habitID string) (*models.StreakState, error) {
	habit, events, err := s.history(ctx, userID, habitID, "streak")
	if err != nil {
		return nil, err
	}
	streak := analytics.Streak(events, s.settings.now(), habit.Category, s.settings.options())
	return &streak, nil
}

func (s *trackingService) GetCompletionRate(ctx context.Context, userID, habitID string, period models.Period) (*models.CompletionRateResponse, error) {
	// reject before touching the store
	if _, ok := period.Days(); !ok {
		_, err := analytics.CompletionRate(nil, period, time.Time{})
		return nil, err
	}

	_, events, err := s.history(ctx, userID, habitID, "completion_rate")
	if err != nil {
		return nil, err
	}

	rate, err := analytics.CompletionRate(events, period, s.settings.now())
	if err != nil {
		return nil, err
	}

	return &models.CompletionRateResponse{
		HabitID:        habitID,
		Period:         period,
		CompletionRate: rate,
	}, nil
}

func (s *trackingService) GetOptimalTimes(ctx context.Context, userID, habitID string) ([]models.TimeOfDay, error) {
	_, events, err := s.history(ctx, userID, habitID, "optimal_times")
	if err != nil {
		return nil, err
	}
	return analytics.OptimalTiming(events, s.settings.now(), s.settings.TimingLookbackDays), nil
}

func (s *trackingService) GetNextReminder(ctx context.Context, userID, habitID string) (*models.ReminderResponse, error) {
	_, events, err := s.history(ctx, userID, habitID, "next_reminder")
	if err != nil {
		return nil, err
	}
	return &models.ReminderResponse{
		HabitID:      habitID,
		NextReminder: analytics.NextReminderTime(events, s.settings.now(), s.settings.ReminderLookbackDays),
	}, nil
}

func (s *trackingService) AttachEvidence(ctx context.Context, userID, logID string, req *models.AttachEvidenceRequest) (*models.Evidence, error) {
	if !req.Type.Valid() {
		return nil, invalid("unknown evidence_type %q", req.Type)
	}
	if req.FileURL == "" {
		return nil, invalid("file_url is required")
	}

	log, err := s.logs.GetByID(ctx, logID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("habit log %s: %w", logID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load habit log: %w", err)
	}
	if log.UserID != userID {
		return nil, fmt.Errorf("habit log %s: %w", logID, ErrNotFound)
	}

	return s.evidence.Create(ctx, &models.Evidence{
		HabitLogID:  log.ID,
		HabitID:     log.HabitID,
		UserID:      userID,
		Type:        req.Type,
		FileURL:     req.FileURL,
		FileSize:    req.FileSize,
		Metadata:    req.Metadata,
		Description: req.Description,
	})
}
