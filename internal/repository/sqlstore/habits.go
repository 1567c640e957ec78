package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/JonnyWalker81/habitrack/backend/internal/models"
	"github.com/JonnyWalker81/habitrack/backend/internal/repository"
)

const habitColumns = `id, user_id, name, description, category, estimated_minutes, frequency,
	reminder_enabled, reminder_times, current_streak, longest_streak, total_completions,
	reward_points, is_active, created_at, updated_at`

type habitRepository struct {
	s *Store
}

func (r *habitRepository) Create(ctx context.Context, habit *models.Habit) (*models.Habit, error) {
	frequency, times, err := encodeHabitJSON(habit)
	if err != nil {
		return nil, err
	}

	id := habit.ID
	if id == "" {
		id = newID()
	}
	now := formatTime(time.Now())

	_, err = r.s.exec(ctx, `
		INSERT INTO habits (`+habitColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 0, 0, 0, 0, ?, ?, ?)`,
		id, habit.UserID, habit.Name, nullString(habit.Description), string(habit.Category),
		habit.EstimatedMinutes, frequency, habit.ReminderEnabled, times, habit.IsActive, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create habit: %w", err)
	}

	return r.GetByID(ctx, id)
}

func (r *habitRepository) GetByID(ctx context.Context, id string) (*models.Habit, error) {
	row := r.s.queryRow(ctx, `SELECT `+habitColumns+` FROM habits WHERE id = ?`, id)
	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("habit: %w", repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get habit: %w", err)
	}
	return h, nil
}

func (r *habitRepository) GetByUserID(ctx context.Context, userID string, activeOnly bool) ([]models.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits WHERE user_id = ?`
	args := []any{userID}
	if activeOnly {
		query += ` AND is_active = ?`
		args = append(args, true)
	}
	query += ` ORDER BY created_at ASC`

	rows, err := r.s.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get habits: %w", err)
	}
	defer rows.Close()

	var habits []models.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan habit: %w", err)
		}
		habits = append(habits, *h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate habits: %w", err)
	}

	return habits, nil
}

func (r *habitRepository) Update(ctx context.Context, id string, habit *models.Habit) (*models.Habit, error) {
	frequency, times, err := encodeHabitJSON(habit)
	if err != nil {
		return nil, err
	}

	res, err := r.s.exec(ctx, `
		UPDATE habits SET name = ?, description = ?, category = ?, estimated_minutes = ?,
			frequency = ?, reminder_enabled = ?, reminder_times = ?, is_active = ?, updated_at = ?
		WHERE id = ?`,
		habit.Name, nullString(habit.Description), string(habit.Category), habit.EstimatedMinutes,
		frequency, habit.ReminderEnabled, times, habit.IsActive, formatTime(time.Now()), id)
	if err != nil {
		return nil, fmt.Errorf("failed to update habit: %w", err)
	}
	if err := requireRow(res, "habit"); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

func (r *habitRepository) UpdateStats(ctx context.Context, id string, stats models.HabitStats) error {
	res, err := r.s.exec(ctx, `
		UPDATE habits SET current_streak = ?, longest_streak = ?, total_completions = ?,
			reward_points = ?, updated_at = ?
		WHERE id = ?`,
		stats.CurrentStreak, stats.LongestStreak, stats.TotalCompletions, stats.RewardPoints,
		formatTime(time.Now()), id)
	if err != nil {
		return fmt.Errorf("failed to update habit stats: %w", err)
	}
	return requireRow(res, "habit")
}

func (r *habitRepository) Delete(ctx context.Context, id string) error {
	res, err := r.s.exec(ctx, `DELETE FROM habits WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	return requireRow(res, "habit")
}

type scanner interface {
	Scan(dest ...any) error
}

func scanHabit(row scanner) (*models.Habit, error) {
	var h models.Habit
	var description sql.NullString
	var category, frequency, times, createdAt, updatedAt string

	err := row.Scan(&h.ID, &h.UserID, &h.Name, &description, &category, &h.EstimatedMinutes,
		&frequency, &h.ReminderEnabled, &times, &h.CurrentStreak, &h.LongestStreak,
		&h.TotalCompletions, &h.RewardPoints, &h.IsActive, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	h.Description = stringPtr(description)
	h.Category = models.HabitCategory(category)

	if err := json.Unmarshal([]byte(frequency), &h.Frequency); err != nil {
		return nil, fmt.Errorf("failed to decode frequency: %w", err)
	}
	if err := json.Unmarshal([]byte(times), &h.ReminderTimes); err != nil {
		return nil, fmt.Errorf("failed to decode reminder_times: %w", err)
	}
	if h.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	if h.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return nil, err
	}

	return &h, nil
}

func encodeHabitJSON(habit *models.Habit) (frequency, times string, err error) {
	f, err := json.Marshal(habit.Frequency)
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal frequency: %w", err)
	}
	reminders := habit.ReminderTimes
	if reminders == nil {
		reminders = []string{}
	}
	t, err := json.Marshal(reminders)
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal reminder_times: %w", err)
	}
	return string(f), string(t), nil
}

func requireRow(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, repository.ErrNotFound)
	}
	return nil
}
