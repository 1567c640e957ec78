package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/JonnyWalker81/habitrack/backend/internal/models"
)

// asOf is the reference "today" for the tests
var asOf = time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)

// at returns a timestamp daysAgo days before asOf at the given hour
func at(daysAgo, hour int) time.Time {
	d := asOf.AddDate(0, 0, -daysAgo)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, time.UTC)
}

func event(daysAgo int, status models.CompletionStatus) models.CompletionEvent {
	return models.CompletionEvent{HabitID: "habit-1", Timestamp: at(daysAgo, 8), Status: status}
}

// completedOn returns one completed event per listed day offset
func completedOn(daysAgo ...int) []models.CompletionEvent {
	events := make([]models.CompletionEvent, 0, len(daysAgo))
	for _, n := range daysAgo {
		events = append(events, event(n, models.StatusCompleted))
	}
	return events
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCurrentStreak(t *testing.T) {
	tests := []struct {
		name   string
		events []models.CompletionEvent
		want   int
	}{
		{"empty history", nil, 0},
		{"three days ending today", completedOn(2, 1, 0), 3},
		{"gap before today", completedOn(5, 4), 0},
		{"today not logged keeps yesterday's streak", completedOn(3, 2, 1), 3},
		{"today skipped still counts from yesterday", append(completedOn(2, 1), event(0, models.StatusSkipped)), 2},
		{"partial does not count", []models.CompletionEvent{event(1, models.StatusPartial), event(0, models.StatusCompleted)}, 1},
		{"several events on one day", append(completedOn(1, 0, 0), event(0, models.StatusSkipped)), 2},
		{"future events ignored", completedOn(-2, -1), 0},
		{"gap two days ago", completedOn(4, 3, 1, 0), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CurrentStreak(tt.events, asOf); got != tt.want {
				t.Errorf("CurrentStreak() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCurrentStreak_UsesWallClockDay(t *testing.T) {
	seoul := time.FixedZone("KST", 9*60*60)
	now := time.Date(2024, 3, 20, 1, 0, 0, 0, seoul)
	events := []models.CompletionEvent{
		{Timestamp: time.Date(2024, 3, 19, 23, 30, 0, 0, seoul), Status: models.StatusCompleted},
		{Timestamp: time.Date(2024, 3, 20, 0, 30, 0, 0, seoul), Status: models.StatusCompleted},
	}

	if got := CurrentStreak(events, now); got != 2 {
		t.Errorf("CurrentStreak() = %d, want 2", got)
	}
}

func TestLongestStreak(t *testing.T) {
	tests := []struct {
		name   string
		events []models.CompletionEvent
		want   int
	}{
		{"empty history", nil, 0},
		{"single day", completedOn(0), 1},
		{"gap before today", completedOn(5, 4), 2},
		{"longest in the past", completedOn(20, 19, 18, 17, 10, 1, 0), 4},
		{"duplicates on one day", completedOn(3, 3, 2, 2), 2},
		{"skipped days break runs", append(completedOn(4, 2), event(3, models.StatusSkipped)), 1},
		{"unordered input", completedOn(0, 2, 1, 9), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LongestStreak(tt.events); got != tt.want {
				t.Errorf("LongestStreak() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLongestStreakNeverBelowCurrent(t *testing.T) {
	const span = 10
	for mask := 0; mask < 1<<span; mask++ {
		var events []models.CompletionEvent
		for d := 0; d < span; d++ {
			if mask&(1<<d) != 0 {
				events = append(events, event(d, models.StatusCompleted))
			}
		}
		longest := LongestStreak(events)
		for offset := 0; offset < span; offset++ {
			current := CurrentStreak(events, asOf.AddDate(0, 0, -offset))
			if current > longest {
				t.Fatalf("mask %b offset %d: current %d > longest %d", mask, offset, current, longest)
			}
		}
	}
}

func TestPredictStreakRisk(t *testing.T) {
	tests := []struct {
		name     string
		events   []models.CompletionEvent
		lookback int
		want     float64
	}{
		{
			name: "empty history",
			want: NoHistoryRisk,
		},
		{
			name:   "only events outside the window",
			events: completedOn(30, 29, 28),
			want:   NoHistoryRisk,
		},
		{
			name:   "every day of the window completed",
			events: completedOn(6, 5, 4, 3, 2, 1, 0),
			want:   0,
		},
		{
			name:   "only skipped events",
			events: []models.CompletionEvent{event(1, models.StatusSkipped), event(0, models.StatusSkipped)},
			want:   1,
		},
		{
			name:   "completed yesterday only",
			events: completedOn(1),
			want:   (6.0/7 + 1.0/3 + 1) / 3,
		},
		{
			name:   "older completion outside the window still sets recency",
			events: append(completedOn(10), event(2, models.StatusSkipped)),
			want:   (1 + 1 + 1) / 3.0,
		},
		{
			name:   "run ending today",
			events: completedOn(2, 1, 0),
			want:   (4.0/7 + 0 + 4.0/7) / 3,
		},
		{
			name:     "custom lookback",
			events:   completedOn(1, 0),
			lookback: 4,
			want:     (0.5 + 0 + 0.5) / 3,
		},
		{
			name:     "non-positive lookback uses the default",
			events:   completedOn(6, 5, 4, 3, 2, 1, 0),
			lookback: -1,
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookback := tt.lookback
			if lookback == 0 {
				lookback = DefaultRiskLookbackDays
			}
			got := PredictStreakRisk(tt.events, asOf, lookback)
			if !approxEqual(got, tt.want) {
				t.Errorf("PredictStreakRisk() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPredictStreakRisk_EmptyIsExactConstant(t *testing.T) {
	if got := PredictStreakRisk(nil, asOf, DefaultRiskLookbackDays); got != 0.8 {
		t.Errorf("PredictStreakRisk(nil) = %v, want exactly 0.8", got)
	}
}

func TestPredictStreakRisk_StaysInRange(t *testing.T) {
	for mask := 0; mask < 1<<9; mask++ {
		var events []models.CompletionEvent
		for d := 0; d < 9; d++ {
			status := models.StatusSkipped
			if mask&(1<<d) != 0 {
				status = models.StatusCompleted
			}
			events = append(events, event(d, status))
		}
		risk := PredictStreakRisk(events, asOf, DefaultRiskLookbackDays)
		if risk < 0 || risk > 1 {
			t.Fatalf("mask %b: risk %v out of [0,1]", mask, risk)
		}
	}
}

func TestRecoverySuggestions(t *testing.T) {
	tests := []struct {
		name      string
		risk      float64
		category  models.HabitCategory
		wantLen   int
		wantFirst string
		wantLast  string
	}{
		{"high risk exercise", 0.9, models.CategoryExercise, 5, "Your streak is at risk! Try to get it done today", "Start with a short walk"},
		{"high risk other", 0.71, models.CategoryOther, 4, "Your streak is at risk! Try to get it done today", "Ask a friend or family member to keep you accountable"},
		{"boundary 0.7 is medium", 0.7, models.CategoryReading, 4, "Your streak needs a little attention", "Read just one page"},
		{"medium meditation", 0.5, models.CategoryMeditation, 4, "Your streak needs a little attention", "Begin with a one-minute breathing exercise"},
		{"boundary 0.4 is low", 0.4, models.CategorySleep, 3, "You are keeping a great pace!", "How about taking on a new challenge?"},
		{"running folds into exercise", 0.1, models.CategoryRunning, 4, "You are keeping a great pace!", "Start with a short walk"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RecoverySuggestions(tt.risk, tt.category)
			if len(got) != tt.wantLen {
				t.Fatalf("len = %d, want %d (%v)", len(got), tt.wantLen, got)
			}
			if got[0] != tt.wantFirst {
				t.Errorf("first = %q, want %q", got[0], tt.wantFirst)
			}
			if got[len(got)-1] != tt.wantLast {
				t.Errorf("last = %q, want %q", got[len(got)-1], tt.wantLast)
			}
		})
	}
}

func TestTierForRisk(t *testing.T) {
	tests := []struct {
		risk float64
		want RiskTier
	}{
		{1, RiskHigh},
		{0.7000001, RiskHigh},
		{0.7, RiskMedium},
		{0.4000001, RiskMedium},
		{0.4, RiskLow},
		{0, RiskLow},
	}

	for _, tt := range tests {
		if got := TierForRisk(tt.risk); got != tt.want {
			t.Errorf("TierForRisk(%v) = %s, want %s", tt.risk, got, tt.want)
		}
	}
}
