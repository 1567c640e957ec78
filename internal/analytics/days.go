// Package analytics computes streak and progress metrics over habit
// completion events. Every function is pure: it reads a materialized event
// slice and holds no state between calls.
//
// Calendar days are taken from each timestamp's own wall clock, so callers
// should express events and asOf in the same location.
package analytics

import (
	"sort"
	"time"

	"github.com/JonnyWalker81/habitrack/backend/internal/models"
)

// dayOf returns the calendar day of t as midnight UTC, which keeps day
// arithmetic free of DST shifts.
func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func addDays(day time.Time, n int) time.Time {
	return day.AddDate(0, 0, n)
}

// daysBetween counts whole days from a to b; both must come from dayOf
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// achievedDays returns the days holding at least one completed event
func achievedDays(events []models.CompletionEvent) map[time.Time]bool {
	days := make(map[time.Time]bool)
	for _, e := range events {
		if e.Completed() {
			days[dayOf(e.Timestamp)] = true
		}
	}
	return days
}

// sortedAchievedDays returns the achieved days in ascending order
func sortedAchievedDays(events []models.CompletionEvent) []time.Time {
	set := achievedDays(events)
	days := make([]time.Time, 0, len(set))
	for d := range set {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

// firstEventDay returns the earliest day with any event on or before through
func firstEventDay(events []models.CompletionEvent, through time.Time) (time.Time, bool) {
	var first time.Time
	found := false
	for _, e := range events {
		d := dayOf(e.Timestamp)
		if d.After(through) {
			continue
		}
		if !found || d.Before(first) {
			first = d
			found = true
		}
	}
	return first, found
}

// runEndingAt counts consecutive achieved days walking back from day
func runEndingAt(days map[time.Time]bool, day time.Time) int {
	n := 0
	for days[day] {
		n++
		day = addDays(day, -1)
	}
	return n
}
