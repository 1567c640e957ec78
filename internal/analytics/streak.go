package analytics

import (
	"math"
	"time"

	"github.com/JonnyWalker81/habitrack/backend/internal/models"
)

const (
	// DefaultRiskLookbackDays is the risk window when none is configured
	DefaultRiskLookbackDays = 7

	// NoHistoryRisk is returned when the risk window holds no events
	NoHistoryRisk = 0.8

	// idleDaysForMaxRisk is the gap since the last completion at which
	// the recency factor saturates
	idleDaysForMaxRisk = 3.0
)

// CurrentStreak counts consecutive achieved days ending at asOf.
// When asOf itself has no completed event yet the count starts from the
// previous day, so a streak carried from yesterday is not broken until
// the day is over. Events after asOf are ignored.
func CurrentStreak(events []models.CompletionEvent, asOf time.Time) int {
	days := achievedDays(events)
	start := dayOf(asOf)
	if !days[start] {
		start = addDays(start, -1)
	}
	return runEndingAt(days, start)
}

// LongestStreak returns the longest run of consecutive achieved days in the
// full history.
func LongestStreak(events []models.CompletionEvent) int {
	days := sortedAchievedDays(events)
	if len(days) == 0 {
		return 0
	}

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if daysBetween(days[i-1], days[i]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// PredictStreakRisk estimates how likely the streak is to break, in [0, 1].
//
// The window is the lookbackDays calendar days ending at asOf. The result is
// the mean of three factors: the share of window days not achieved, the days
// since the last completion scaled to saturate at three, and the share of
// the window not covered by the run ending at asOf. A window with no events
// at all yields NoHistoryRisk.
func PredictStreakRisk(events []models.CompletionEvent, asOf time.Time, lookbackDays int) float64 {
	if lookbackDays <= 0 {
		lookbackDays = DefaultRiskLookbackDays
	}

	today := dayOf(asOf)
	windowStart := addDays(today, -(lookbackDays - 1))

	inWindow := false
	achievedInWindow := 0
	var lastCompleted time.Time
	hasCompleted := false
	seen := make(map[time.Time]bool)

	for _, e := range events {
		d := dayOf(e.Timestamp)
		if d.After(today) {
			continue
		}
		if !d.Before(windowStart) {
			inWindow = true
		}
		if !e.Completed() {
			continue
		}
		if !hasCompleted || d.After(lastCompleted) {
			lastCompleted = d
			hasCompleted = true
		}
		if !d.Before(windowStart) && !seen[d] {
			seen[d] = true
			achievedInWindow++
		}
	}

	if !inWindow {
		return NoHistoryRisk
	}

	lapse := 1 - float64(achievedInWindow)/float64(lookbackDays)

	recency := 1.0
	if hasCompleted {
		recency = math.Min(float64(daysBetween(lastCompleted, today))/idleDaysForMaxRisk, 1.0)
	}

	run := runEndingAt(seen, today)
	if run > lookbackDays {
		run = lookbackDays
	}
	consistency := 1 - float64(run)/float64(lookbackDays)

	return clamp01((lapse + recency + consistency) / 3)
}

func clamp01(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}
