package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/JonnyWalker81/habitrack/backend/internal/analytics"
	"github.com/JonnyWalker81/habitrack/backend/internal/logger"
	"github.com/JonnyWalker81/habitrack/backend/internal/metrics"
	"github.com/JonnyWalker81/habitrack/backend/internal/models"
	"github.com/JonnyWalker81/habitrack/backend/internal/notify"
	"github.com/JonnyWalker81/habitrack/backend/internal/repository"
)

type habitService struct {
	habits   repository.HabitRepository
	logs     repository.HabitLogRepository
	notifier notify.Sink
	settings Settings
}

// NewHabitService creates a new habit service
func NewHabitService(stores repository.Stores, notifier notify.Sink, settings Settings) HabitService {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &habitService{
		habits:   stores.Habits,
		logs:     stores.Logs,
		notifier: notifier,
		settings: settings,
	}
}

func (s *habitService) CreateHabit(ctx context.Context, userID string, req *models.CreateHabitRequest) (*models.Habit, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, invalid("name is required")
	}
	if !req.Category.Valid() {
		return nil, invalid("unknown category %q", req.Category)
	}
	frequency := req.Frequency.Normalized()
	if err := frequency.Validate(); err != nil {
		return nil, invalid("%v", err)
	}
	if err := validateReminderTimes(req.ReminderTimes); err != nil {
		return nil, err
	}

	habit := &models.Habit{
		UserID:           userID,
		Name:             strings.TrimSpace(req.Name),
		Description:      req.Description,
		Category:         req.Category,
		EstimatedMinutes: req.EstimatedMinutes,
		Frequency:        frequency,
		ReminderEnabled:  req.ReminderEnabled,
		ReminderTimes:    req.ReminderTimes,
		IsActive:         true,
	}

	created, err := s.habits.Create(ctx, habit)
	if err != nil {
		return nil, err
	}

	logger.Ctx(ctx).Info("habit created",
		logger.String("habit_id", created.ID),
		logger.String("category", string(created.Category)),
	)
	return created, nil
}

func (s *habitService) GetHabit(ctx context.Context, userID, habitID string) (*models.Habit, error) {
	return ownedHabit(ctx, s.habits, userID, habitID)
}

func (s *habitService) ListHabits(ctx context.Context, userID string, activeOnly bool) ([]models.Habit, error) {
	return s.habits.GetByUserID(ctx, userID, activeOnly)
}

func (s *habitService) UpdateHabit(ctx context.Context, userID, habitID string, req *models.UpdateHabitRequest) (*models.Habit, error) {
	habit, err := ownedHabit(ctx, s.habits, userID, habitID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, invalid("name cannot be empty")
		}
		habit.Name = name
	}
	if req.Description.Set {
		habit.Description = req.Description.ToPtr()
	}
	if req.Category != nil {
		if !req.Category.Valid() {
			return nil, invalid("unknown category %q", *req.Category)
		}
		habit.Category = *req.Category
	}
	if req.EstimatedMinutes != nil {
		habit.EstimatedMinutes = *req.EstimatedMinutes
	}
	if req.Frequency != nil {
		frequency := req.Frequency.Normalized()
		if err := frequency.Validate(); err != nil {
			return nil, invalid("%v", err)
		}
		habit.Frequency = frequency
	}
	if req.ReminderEnabled != nil {
		habit.ReminderEnabled = *req.ReminderEnabled
	}
	if req.ReminderTimes != nil {
		if err := validateReminderTimes(req.ReminderTimes); err != nil {
			return nil, err
		}
		habit.ReminderTimes = req.ReminderTimes
	}
	if req.IsActive != nil {
		habit.IsActive = *req.IsActive
	}

	return s.habits.Update(ctx, habitID, habit)
}

func (s *habitService) DeleteHabit(ctx context.Context, userID, habitID string) error {
	if _, err := ownedHabit(ctx, s.habits, userID, habitID); err != nil {
		return err
	}
	return s.habits.Delete(ctx, habitID)
}

func (s *habitService) CreateLog(ctx context.Context, userID, habitID string, req *models.CreateHabitLogRequest) (*models.HabitLog, error) {
	habit, err := ownedHabit(ctx, s.habits, userID, habitID)
	if err != nil {
		return nil, err
	}
	if err := validateLogRequest(req); err != nil {
		return nil, err
	}

	loggedAt := s.settings.now()
	if req.LoggedAt != nil {
		loggedAt = *req.LoggedAt
	}

	log := &models.HabitLog{
		HabitID:              habit.ID,
		UserID:               userID,
		LoggedAt:             loggedAt,
		Status:               req.Status,
		CompletionPercentage: defaultPercentage(req.Status, req.CompletionPercentage),
		DurationMinutes:      req.DurationMinutes,
		IntensityLevel:       req.IntensityLevel,
		Location:             req.Location,
		MoodBefore:           req.MoodBefore,
		MoodAfter:            req.MoodAfter,
		EnergyLevel:          req.EnergyLevel,
		Notes:                req.Notes,
	}

	return s.RecordLog(ctx, habit, log)
}

// RecordLog awards points, stores the log, refreshes the habit statistics
// and queues a celebration or recovery notification. A failed statistics
// refresh is logged and does not fail the call since the log is stored.
func (s *habitService) RecordLog(ctx context.Context, habit *models.Habit, log *models.HabitLog) (*models.HabitLog, error) {
	log.PointsEarned = analytics.Points(log.Status, log.CompletionPercentage)

	created, err := s.logs.Create(ctx, log)
	if err != nil {
		return nil, err
	}
	metrics.RecordLogCreated(string(created.Status), created.AutoTracked)

	ctx = logger.WithHabitID(ctx, habit.ID)
	if err := s.refreshStats(ctx, habit, created); err != nil {
		logger.Ctx(ctx).Warn("failed to refresh habit stats", logger.Err(err))
	}

	return created, nil
}

func (s *habitService) refreshStats(ctx context.Context, habit *models.Habit, log *models.HabitLog) error {
	events, err := s.logs.FetchEvents(ctx, habit.ID, time.Time{}, time.Time{})
	if err != nil {
		metrics.RecordLogFetchError("stats")
		return err
	}
	events = s.settings.localize(events)
	asOf := s.settings.now()

	total := 0
	for _, e := range events {
		if e.Completed() {
			total++
		}
	}

	stats := models.HabitStats{
		CurrentStreak:    analytics.CurrentStreak(events, asOf),
		LongestStreak:    analytics.LongestStreak(events),
		TotalCompletions: total,
		RewardPoints:     habit.RewardPoints + log.PointsEarned,
	}
	if err := s.habits.UpdateStats(ctx, habit.ID, stats); err != nil {
		return err
	}

	if log.Status == models.StatusCompleted {
		s.notifier.Enqueue(notify.Celebration(habit.UserID, habit.ID, habit.Name, stats.CurrentStreak, asOf))
		return nil
	}

	risk := analytics.PredictStreakRisk(events, asOf, s.settings.RiskLookbackDays)
	if analytics.TierForRisk(risk) == analytics.RiskHigh {
		suggestions := analytics.RecoverySuggestions(risk, habit.Category)
		s.notifier.Enqueue(notify.Recovery(habit.UserID, habit.ID, habit.Name, stats.CurrentStreak, suggestions, asOf))
	}
	return nil
}

func (s *habitService) ListLogs(ctx context.Context, userID, habitID string, start, end time.Time) ([]models.HabitLog, error) {
	if _, err := ownedHabit(ctx, s.habits, userID, habitID); err != nil {
		return nil, err
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return nil, invalid("end_date is before start_date")
	}
	return s.logs.GetByHabitIDAndDateRange(ctx, habitID, start, end)
}

func defaultPercentage(status models.CompletionStatus, pct *int) int {
	if pct != nil {
		return *pct
	}
	switch status {
	case models.StatusCompleted:
		return 100
	case models.StatusPartial:
		return 50
	default:
		return 0
	}
}

func validateLogRequest(req *models.CreateHabitLogRequest) error {
	if !req.Status.Valid() {
		return invalid("unknown completion_status %q", req.Status)
	}
	if p := req.CompletionPercentage; p != nil && (*p < 0 || *p > 100) {
		return invalid("completion_percentage must be between 0 and 100")
	}
	for name, v := range map[string]*int{"mood_before": req.MoodBefore, "mood_after": req.MoodAfter} {
		if v != nil && (*v < 1 || *v > 10) {
			return invalid("%s must be between 1 and 10", name)
		}
	}
	if v := req.EnergyLevel; v != nil && (*v < 1 || *v > 5) {
		return invalid("energy_level must be between 1 and 5")
	}
	if v := req.IntensityLevel; v != nil && (*v < 1 || *v > 5) {
		return invalid("intensity_level must be between 1 and 5")
	}
	return nil
}

func validateReminderTimes(times []string) error {
	for _, t := range times {
		if _, err := time.Parse("15:04", t); err != nil {
			return invalid("reminder time %q is not HH:MM", t)
		}
	}
	return nil
}

// reminderClock parses an HH:MM reminder on the given day
func reminderClock(day time.Time, hhmm string) (time.Time, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid reminder time %q: %w", hhmm, err)
	}
	y, m, d := day.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, day.Location()), nil
}
