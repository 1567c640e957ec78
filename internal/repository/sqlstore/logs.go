package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/JonnyWalker81/habitrack/backend/internal/models"
	"github.com/JonnyWalker81/habitrack/backend/internal/repository"
)

const logColumns = `id, habit_id, user_id, logged_at, completion_status, completion_percentage,
	duration_minutes, intensity_level, location, mood_before, mood_after, energy_level, notes,
	auto_tracked, points_earned, created_at`

type habitLogRepository struct {
	s *Store
}

func (r *habitLogRepository) Create(ctx context.Context, log *models.HabitLog) (*models.HabitLog, error) {
	id := log.ID
	if id == "" {
		id = newID()
	}

	_, err := r.s.exec(ctx, `
		INSERT INTO habit_logs (`+logColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, log.HabitID, log.UserID, formatTime(log.LoggedAt), string(log.Status), log.CompletionPercentage,
		nullInt(log.DurationMinutes), nullInt(log.IntensityLevel), nullString(log.Location),
		nullInt(log.MoodBefore), nullInt(log.MoodAfter), nullInt(log.EnergyLevel), nullString(log.Notes),
		log.AutoTracked, log.PointsEarned, formatTime(time.Now()))
	if err != nil {
		return nil, fmt.Errorf("failed to create habit log: %w", err)
	}

	return r.GetByID(ctx, id)
}

func (r *habitLogRepository) GetByID(ctx context.Context, id string) (*models.HabitLog, error) {
	row := r.s.queryRow(ctx, `SELECT `+logColumns+` FROM habit_logs WHERE id = ?`, id)
	l, err := scanLog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("habit log: %w", repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get habit log: %w", err)
	}
	return l, nil
}

func (r *habitLogRepository) GetByHabitIDAndDateRange(ctx context.Context, habitID string, start, end time.Time) ([]models.HabitLog, error) {
	logs, err := r.list(ctx, "habit_id", habitID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get habit logs: %w", err)
	}
	return logs, nil
}

func (r *habitLogRepository) GetByUserIDAndDateRange(ctx context.Context, userID string, start, end time.Time) ([]models.HabitLog, error) {
	logs, err := r.list(ctx, "user_id", userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get habit logs: %w", err)
	}
	return logs, nil
}

func (r *habitLogRepository) FetchEvents(ctx context.Context, habitID string, start, end time.Time) ([]models.CompletionEvent, error) {
	clause, args := rangeClause("logged_at", start, end, []any{habitID})
	rows, err := r.s.query(ctx, `
		SELECT habit_id, logged_at, completion_status, mood_before, mood_after, energy_level
		FROM habit_logs WHERE habit_id = ?`+clause+` ORDER BY logged_at ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch completion events: %w", err)
	}
	defer rows.Close()

	var events []models.CompletionEvent
	for rows.Next() {
		var e models.CompletionEvent
		var loggedAt, status string
		var moodBefore, moodAfter, energy sql.NullInt64
		if err := rows.Scan(&e.HabitID, &loggedAt, &status, &moodBefore, &moodAfter, &energy); err != nil {
			return nil, fmt.Errorf("failed to scan completion event: %w", err)
		}
		if e.Timestamp, err = parseTime("logged_at", loggedAt); err != nil {
			return nil, err
		}
		e.Status = models.CompletionStatus(status)
		e.MoodBefore = intPtr(moodBefore)
		e.MoodAfter = intPtr(moodAfter)
		e.EnergyLevel = intPtr(energy)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to fetch completion events: %w", err)
	}

	return events, nil
}

// list is only called with fixed column names
func (r *habitLogRepository) list(ctx context.Context, column, value string, start, end time.Time) ([]models.HabitLog, error) {
	clause, args := rangeClause("logged_at", start, end, []any{value})
	rows, err := r.s.query(ctx,
		`SELECT `+logColumns+` FROM habit_logs WHERE `+column+` = ?`+clause+` ORDER BY logged_at ASC`,
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.HabitLog
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, *l)
	}
	return logs, rows.Err()
}

func scanLog(row scanner) (*models.HabitLog, error) {
	var l models.HabitLog
	var loggedAt, status, createdAt string
	var duration, intensity, moodBefore, moodAfter, energy sql.NullInt64
	var location, notes sql.NullString

	err := row.Scan(&l.ID, &l.HabitID, &l.UserID, &loggedAt, &status, &l.CompletionPercentage,
		&duration, &intensity, &location, &moodBefore, &moodAfter, &energy, &notes,
		&l.AutoTracked, &l.PointsEarned, &createdAt)
	if err != nil {
		return nil, err
	}

	l.Status = models.CompletionStatus(status)
	l.DurationMinutes = intPtr(duration)
	l.IntensityLevel = intPtr(intensity)
	l.Location = stringPtr(location)
	l.MoodBefore = intPtr(moodBefore)
	l.MoodAfter = intPtr(moodAfter)
	l.EnergyLevel = intPtr(energy)
	l.Notes = stringPtr(notes)

	if l.LoggedAt, err = parseTime("logged_at", loggedAt); err != nil {
		return nil, err
	}
	if l.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}

	return &l, nil
}
