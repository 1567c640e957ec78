package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/JonnyWalker81/habitrack/backend/internal/models"
	"github.com/JonnyWalker81/habitrack/backend/pkg/supabase"
)

type habitRepository struct {
	client *supabase.Client
}

// NewHabitRepository creates a new habit repository
func NewHabitRepository(client *supabase.Client) HabitRepository {
	return &habitRepository{client: client}
}

func (r *habitRepository) Create(ctx context.Context, habit *models.Habit) (*models.Habit, error) {
	data := map[string]interface{}{
		"user_id":           habit.UserID,
		"name":              habit.Name,
		"description":       habit.Description,
		"category":          habit.Category,
		"estimated_minutes": habit.EstimatedMinutes,
		"frequency":         habit.Frequency,
		"reminder_enabled":  habit.ReminderEnabled,
		"reminder_times":    reminderTimes(habit.ReminderTimes),
		"is_active":         habit.IsActive,
	}

	// Use client-provided ID if present
	if habit.ID != "" {
		data["id"] = habit.ID
	}

	body, err := r.client.Insert(ctx, "habits", data)
	if err != nil {
		return nil, fmt.Errorf("failed to create habit: %w", err)
	}

	return firstHabit(body)
}

func (r *habitRepository) GetByID(ctx context.Context, id string) (*models.Habit, error) {
	query := map[string]interface{}{
		"id": fmt.Sprintf("eq.%s", id),
	}

	body, err := r.client.Query(ctx, "habits", query)
	if err != nil {
		return nil, fmt.Errorf("failed to get habit: %w", err)
	}

	return firstHabit(body)
}

func (r *habitRepository) GetByUserID(ctx context.Context, userID string, activeOnly bool) ([]models.Habit, error) {
	query := map[string]interface{}{
		"user_id": fmt.Sprintf("eq.%s", userID),
		"order":   "created_at.asc",
	}
	if activeOnly {
		query["is_active"] = "eq.true"
	}

	body, err := r.client.Query(ctx, "habits", query)
	if err != nil {
		return nil, fmt.Errorf("failed to get habits: %w", err)
	}

	var habits []models.Habit
	if err := json.Unmarshal(body, &habits); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return habits, nil
}

func (r *habitRepository) Update(ctx context.Context, id string, habit *models.Habit) (*models.Habit, error) {
	data := map[string]interface{}{
		"name":              habit.Name,
		"description":       habit.Description,
		"category":          habit.Category,
		"estimated_minutes": habit.EstimatedMinutes,
		"frequency":         habit.Frequency,
		"reminder_enabled":  habit.ReminderEnabled,
		"reminder_times":    reminderTimes(habit.ReminderTimes),
		"is_active":         habit.IsActive,
	}

	body, err := r.client.Update(ctx, "habits", id, data)
	if err != nil {
		return nil, fmt.Errorf("failed to update habit: %w", err)
	}

	return firstHabit(body)
}

func (r *habitRepository) UpdateStats(ctx context.Context, id string, stats models.HabitStats) error {
	if _, err := r.client.Update(ctx, "habits", id, stats); err != nil {
		return fmt.Errorf("failed to update habit stats: %w", err)
	}
	return nil
}

func (r *habitRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.Delete(ctx, "habits", id); err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	return nil
}

func firstHabit(body []byte) (*models.Habit, error) {
	var habits []models.Habit
	if err := json.Unmarshal(body, &habits); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(habits) == 0 {
		return nil, fmt.Errorf("habit: %w", ErrNotFound)
	}

	return &habits[0], nil
}

// reminderTimes keeps an empty list from being stored as null
func reminderTimes(times []string) []string {
	if times == nil {
		return []string{}
	}
	return times
}
