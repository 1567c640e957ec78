package analytics

import (
	"time"

	"github.com/JonnyWalker81/habitrack/backend/internal/models"
)

// DefaultReminderLookbackDays is the reminder window when none is configured
const DefaultReminderLookbackDays = 30

// NextReminderTime picks the next reminder from the hour the habit is most
// often completed in the lookbackDays ending at now. The reminder fires at
// half past the preceding hour, or at midnight for habits done in hour 0,
// and rolls to tomorrow once that moment has passed. Without history it
// falls back to 09:00.
func NextReminderTime(events []models.CompletionEvent, now time.Time, lookbackDays int) time.Time {
	if lookbackDays <= 0 {
		lookbackDays = DefaultReminderLookbackDays
	}

	at := DefaultOptimalTime
	if hours := rankHours(hourCounts(events, now, lookbackDays)); len(hours) > 0 {
		at = reminderBefore(hours[0])
	}
	return nextOccurrence(at, now)
}

func reminderBefore(hour int) models.TimeOfDay {
	if hour == 0 {
		return models.TimeOfDay{}
	}
	return models.TimeOfDay{Hour: hour - 1, Minute: 30}
}

// nextOccurrence returns the first instant strictly after now at the given time of day
func nextOccurrence(at models.TimeOfDay, now time.Time) time.Time {
	y, m, d := now.Date()
	t := time.Date(y, m, d, at.Hour, at.Minute, 0, 0, now.Location())
	if !t.After(now) {
		t = time.Date(y, m, d+1, at.Hour, at.Minute, 0, 0, now.Location())
	}
	return t
}
