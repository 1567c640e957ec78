package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JonnyWalker81/habitrack/backend/internal/analytics"
	"github.com/JonnyWalker81/habitrack/backend/internal/models"
	"github.com/JonnyWalker81/habitrack/backend/internal/repository"
)

// Settings configures how the services run the analytics. Dates are grouped
// in Location; Now is the clock, defaulting to time.Now.
type Settings struct {
	Location             *time.Location
	RiskLookbackDays     int
	TimingLookbackDays   int
	ReminderLookbackDays int
	Now                  func() time.Time
}

func (s Settings) location() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}

func (s Settings) now() time.Time {
	if s.Now == nil {
		return time.Now().In(s.location())
	}
	return s.Now().In(s.location())
}

func (s Settings) options() analytics.Options {
	return analytics.Options{
		RiskLookbackDays:   s.RiskLookbackDays,
		TimingLookbackDays: s.TimingLookbackDays,
	}
}

// localize moves event timestamps into the configured location so every
// calendar-day computation sees the same wall clock as asOf
func (s Settings) localize(events []models.CompletionEvent) []models.CompletionEvent {
	loc := s.location()
	for i := range events {
		events[i].Timestamp = events[i].Timestamp.In(loc)
	}
	return events
}

// ownedHabit loads a habit and hides habits of other users behind ErrNotFound
func ownedHabit(ctx context.Context, habits repository.HabitRepository, userID, habitID string) (*models.Habit, error) {
	habit, err := habits.GetByID(ctx, habitID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("habit %s: %w", habitID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load habit: %w", err)
	}
	if habit.UserID != userID {
		return nil, fmt.Errorf("habit %s: %w", habitID, ErrNotFound)
	}
	return habit, nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}
