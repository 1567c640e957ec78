package analytics

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/JonnyWalker81/habitrack/backend/internal/models"
)

const (
	// DefaultTimingLookbackDays is the optimal-timing window when none is configured
	DefaultTimingLookbackDays = 60

	maxOptimalTimes = 3

	consistencyRateWeight   = 0.7
	consistencyStreakWeight = 0.3
)

// ErrInvalidPeriod is returned for a period outside daily, weekly, monthly and yearly
var ErrInvalidPeriod = errors.New("invalid period")

// DefaultOptimalTime is suggested when there are no completions to learn from
var DefaultOptimalTime = models.TimeOfDay{Hour: 9, Minute: 0}

// CompletionRate returns the share of days in the period window, ending at
// asOf, that hold a completed event. The window never starts before the day
// of the first recorded event, so a young habit is not penalized for days
// before it existed.
func CompletionRate(events []models.CompletionEvent, period models.Period, asOf time.Time) (float64, error) {
	windowDays, ok := period.Days()
	if !ok {
		return 0, fmt.Errorf("%w: %q (want daily, weekly, monthly or yearly)", ErrInvalidPeriod, period)
	}

	today := dayOf(asOf)
	first, ok := firstEventDay(events, today)
	if !ok {
		return 0, nil
	}

	start := addDays(today, -(windowDays - 1))
	if first.After(start) {
		start = first
	}
	total := daysBetween(start, today) + 1

	achieved := 0
	for d := range achievedDays(events) {
		if !d.Before(start) && !d.After(today) {
			achieved++
		}
	}

	return float64(achieved) / float64(total), nil
}

// ConsistencyScore blends the monthly completion rate with how close the
// current streak is to the longest one.
func ConsistencyScore(events []models.CompletionEvent, asOf time.Time) float64 {
	rate, _ := CompletionRate(events, models.PeriodMonthly, asOf)
	current := CurrentStreak(events, asOf)
	longest := LongestStreak(events)
	if longest < 1 {
		longest = 1
	}
	return consistencyRateWeight*rate + consistencyStreakWeight*float64(current)/float64(longest)
}

// ClassifyConsistency maps a score to its tier; boundary values belong to the higher tier
func ClassifyConsistency(score float64) models.ConsistencyPattern {
	switch {
	case score >= 0.9:
		return models.VeryConsistent
	case score >= 0.7:
		return models.Consistent
	case score >= 0.5:
		return models.Moderate
	case score >= 0.3:
		return models.Inconsistent
	default:
		return models.VeryInconsistent
	}
}

// AnalyzeConsistencyPattern classifies the history as of asOf
func AnalyzeConsistencyPattern(events []models.CompletionEvent, asOf time.Time) models.ConsistencyPattern {
	return ClassifyConsistency(ConsistencyScore(events, asOf))
}

// OptimalTiming returns up to three hours of day at which completions were
// most often logged in the lookbackDays ending at asOf. Ties go to the
// earlier hour. With no completions it returns DefaultOptimalTime.
func OptimalTiming(events []models.CompletionEvent, asOf time.Time, lookbackDays int) []models.TimeOfDay {
	if lookbackDays <= 0 {
		lookbackDays = DefaultTimingLookbackDays
	}

	counts := hourCounts(events, asOf, lookbackDays)
	hours := rankHours(counts)
	if len(hours) == 0 {
		return []models.TimeOfDay{DefaultOptimalTime}
	}
	if len(hours) > maxOptimalTimes {
		hours = hours[:maxOptimalTimes]
	}

	times := make([]models.TimeOfDay, len(hours))
	for i, h := range hours {
		times[i] = models.TimeOfDay{Hour: h}
	}
	return times
}

// DifficultyAdjustment suggests a change in habit difficulty from -2 to +2.
// The extreme bands are checked first so a strong week is never reported as
// a mild one.
func DifficultyAdjustment(events []models.CompletionEvent, asOf time.Time) int {
	rate, _ := CompletionRate(events, models.PeriodWeekly, asOf)
	tier := AnalyzeConsistencyPattern(events, asOf)

	switch {
	case rate >= 0.8 && tier == models.VeryConsistent:
		return 2
	case rate < 0.3 || tier == models.VeryInconsistent:
		return -2
	case rate >= 0.9 && (tier == models.VeryConsistent || tier == models.Consistent):
		return 1
	case rate < 0.5 || tier == models.Inconsistent:
		return -1
	default:
		return 0
	}
}

// hourCounts tallies completed events by hour over the window ending at asOf
func hourCounts(events []models.CompletionEvent, asOf time.Time, lookbackDays int) [24]int {
	var counts [24]int
	today := dayOf(asOf)
	start := addDays(today, -(lookbackDays - 1))
	for _, e := range events {
		if !e.Completed() {
			continue
		}
		d := dayOf(e.Timestamp)
		if d.Before(start) || d.After(today) {
			continue
		}
		counts[e.Timestamp.Hour()]++
	}
	return counts
}

// rankHours returns the hours with a non-zero count, most frequent first
func rankHours(counts [24]int) []int {
	hours := make([]int, 0, 24)
	for h, n := range counts {
		if n > 0 {
			hours = append(hours, h)
		}
	}
	sort.SliceStable(hours, func(i, j int) bool {
		return counts[hours[i]] > counts[hours[j]]
	})
	return hours
}
