package service

import (
	"context"
	"sort"
	"time"

	"github.com/JonnyWalker81/habitrack/backend/internal/logger"
	"github.com/JonnyWalker81/habitrack/backend/internal/models"
)

// GetDailyDashboard summarizes the user's active habits on the calendar day
// containing date, in the configured location
func (s *habitService) GetDailyDashboard(ctx context.Context, userID string, date time.Time) (*models.DailyDashboard, error) {
	loc := s.settings.location()
	y, m, d := date.In(loc).Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, loc)
	dayEnd := dayStart.AddDate(0, 0, 1).Add(-time.Nanosecond)

	habits, err := s.habits.GetByUserID(ctx, userID, true)
	if err != nil {
		return nil, err
	}
	logs, err := s.logs.GetByUserIDAndDateRange(ctx, userID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	byHabit := make(map[string][]models.HabitLog, len(habits))
	for _, l := range logs {
		byHabit[l.HabitID] = append(byHabit[l.HabitID], l)
	}

	now := s.settings.now()
	dashboard := &models.DailyDashboard{
		Date:        dayStart.Format("2006-01-02"),
		TotalHabits: len(habits),
		Habits:      make([]models.DashboardHabit, 0, len(habits)),
	}

	for _, h := range habits {
		row := dashboardRow(h, byHabit[h.ID], dayStart)
		if h.ReminderEnabled && sameDay(now, dayStart) {
			row.NextReminder = nextReminderToday(ctx, h.ReminderTimes, now)
		}
		if row.Status == models.DashboardCompleted {
			dashboard.CompletedHabits++
		}
		dashboard.Habits = append(dashboard.Habits, row)
	}

	if dashboard.TotalHabits > 0 {
		dashboard.CompletionRate = float64(dashboard.CompletedHabits) / float64(dashboard.TotalHabits)
	}

	var moodBefore, moodAfter, energy []int
	for _, l := range logs {
		dashboard.PointsEarned += l.PointsEarned
		if l.MoodBefore != nil {
			moodBefore = append(moodBefore, *l.MoodBefore)
		}
		if l.MoodAfter != nil {
			moodAfter = append(moodAfter, *l.MoodAfter)
		}
		if l.EnergyLevel != nil {
			energy = append(energy, *l.EnergyLevel)
		}
	}
	dashboard.AverageMoodBefore = average(moodBefore)
	dashboard.AverageMoodAfter = average(moodAfter)
	dashboard.AverageEnergy = average(energy)

	return dashboard, nil
}

func dashboardRow(h models.Habit, logs []models.HabitLog, day time.Time) models.DashboardHabit {
	row := models.DashboardHabit{
		HabitID:       h.ID,
		Name:          h.Name,
		Category:      h.Category,
		TargetCount:   h.Frequency.DailyTarget(day),
		CurrentStreak: h.CurrentStreak,
	}

	var partial, skipped bool
	for _, l := range logs {
		switch l.Status {
		case models.StatusCompleted:
			row.CompletedCount++
		case models.StatusPartial:
			partial = true
		case models.StatusSkipped:
			skipped = true
		}
	}

	switch {
	case row.TargetCount == 0 && row.CompletedCount > 0:
		row.Status = models.DashboardCompleted
		row.CompletionRate = 1
	case row.TargetCount == 0:
		row.Status = models.DashboardNotScheduled
	case row.CompletedCount >= row.TargetCount:
		row.Status = models.DashboardCompleted
		row.CompletionRate = 1
	case row.CompletedCount > 0 || partial:
		row.Status = models.DashboardInProgress
		row.CompletionRate = float64(row.CompletedCount) / float64(row.TargetCount)
	case skipped:
		row.Status = models.DashboardSkipped
	default:
		row.Status = models.DashboardPending
	}

	return row
}

// nextReminderToday returns the earliest configured reminder after now, as
// HH:MM, or nil when none remain today
func nextReminderToday(ctx context.Context, times []string, now time.Time) *string {
	var upcoming []time.Time
	for _, hhmm := range times {
		t, err := reminderClock(now, hhmm)
		if err != nil {
			logger.Ctx(ctx).Warn("skipping stored reminder time", logger.Err(err))
			continue
		}
		if t.After(now) {
			upcoming = append(upcoming, t)
		}
	}
	if len(upcoming) == 0 {
		return nil
	}
	sort.Slice(upcoming, func(i, j int) bool { return upcoming[i].Before(upcoming[j]) })
	next := upcoming[0].Format("15:04")
	return &next
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func average(values []int) *float64 {
	if len(values) == 0 {
		return nil
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	avg := float64(sum) / float64(len(values))
	return &avg
}
