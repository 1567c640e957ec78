package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/JonnyWalker81/habitrack/backend/internal/models"
	"github.com/JonnyWalker81/habitrack/backend/pkg/supabase"
)

type habitLogRepository struct {
	client *supabase.Client
}

// NewHabitLogRepository creates a new habit log repository backed by the
// habit_logs table. It also serves as the LogStore for the analytics.
func NewHabitLogRepository(client *supabase.Client) HabitLogRepository {
	return &habitLogRepository{client: client}
}

func (r *habitLogRepository) Create(ctx context.Context, log *models.HabitLog) (*models.HabitLog, error) {
	data := map[string]interface{}{
		"habit_id":              log.HabitID,
		"user_id":               log.UserID,
		"logged_at":             log.LoggedAt.UTC().Format(time.RFC3339Nano),
		"completion_status":     log.Status,
		"completion_percentage": log.CompletionPercentage,
		"duration_minutes":      log.DurationMinutes,
		"intensity_level":       log.IntensityLevel,
		"location":              log.Location,
		"mood_before":           log.MoodBefore,
		"mood_after":            log.MoodAfter,
		"energy_level":          log.EnergyLevel,
		"notes":                 log.Notes,
		"auto_tracked":          log.AutoTracked,
		"points_earned":         log.PointsEarned,
	}

	if log.ID != "" {
		data["id"] = log.ID
	}

	body, err := r.client.Insert(ctx, "habit_logs", data)
	if err != nil {
		return nil, fmt.Errorf("failed to create habit log: %w", err)
	}

	var logs []models.HabitLog
	if err := json.Unmarshal(body, &logs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(logs) == 0 {
		return nil, fmt.Errorf("no habit log returned")
	}

	return &logs[0], nil
}

func (r *habitLogRepository) GetByID(ctx context.Context, id string) (*models.HabitLog, error) {
	query := map[string]interface{}{
		"id": fmt.Sprintf("eq.%s", id),
	}

	logs, err := r.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get habit log: %w", err)
	}

	if len(logs) == 0 {
		return nil, fmt.Errorf("habit log: %w", ErrNotFound)
	}

	return &logs[0], nil
}

func (r *habitLogRepository) GetByHabitIDAndDateRange(ctx context.Context, habitID string, start, end time.Time) ([]models.HabitLog, error) {
	query := map[string]interface{}{
		"habit_id": fmt.Sprintf("eq.%s", habitID),
		"order":    "logged_at.asc",
	}
	addRangeFilter(query, "logged_at", start, end)

	logs, err := r.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get habit logs: %w", err)
	}

	return logs, nil
}

func (r *habitLogRepository) GetByUserIDAndDateRange(ctx context.Context, userID string, start, end time.Time) ([]models.HabitLog, error) {
	query := map[string]interface{}{
		"user_id": fmt.Sprintf("eq.%s", userID),
		"order":   "logged_at.asc",
	}
	addRangeFilter(query, "logged_at", start, end)

	logs, err := r.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get habit logs: %w", err)
	}

	return logs, nil
}

// FetchEvents only selects the columns the analytics read
func (r *habitLogRepository) FetchEvents(ctx context.Context, habitID string, start, end time.Time) ([]models.CompletionEvent, error) {
	query := map[string]interface{}{
		"habit_id": fmt.Sprintf("eq.%s", habitID),
		"select":   "habit_id,logged_at,completion_status,mood_before,mood_after,energy_level",
		"order":    "logged_at.asc",
	}
	addRangeFilter(query, "logged_at", start, end)

	logs, err := r.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch completion events: %w", err)
	}

	return Events(logs), nil
}

func (r *habitLogRepository) query(ctx context.Context, query map[string]interface{}) ([]models.HabitLog, error) {
	body, err := r.client.Query(ctx, "habit_logs", query)
	if err != nil {
		return nil, err
	}

	var logs []models.HabitLog
	if err := json.Unmarshal(body, &logs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return logs, nil
}

// addRangeFilter adds a PostgREST and=(...) filter for a closed time range.
// Zero bounds are left open.
func addRangeFilter(query map[string]interface{}, column string, start, end time.Time) {
	var parts []string
	if !start.IsZero() {
		parts = append(parts, fmt.Sprintf("%s.gte.%s", column, start.UTC().Format(time.RFC3339Nano)))
	}
	if !end.IsZero() {
		parts = append(parts, fmt.Sprintf("%s.lte.%s", column, end.UTC().Format(time.RFC3339Nano)))
	}
	if len(parts) > 0 {
		query["and"] = "(" + strings.Join(parts, ",") + ")"
	}
}
