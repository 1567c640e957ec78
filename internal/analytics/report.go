package analytics

import (
	"time"

	"github.com/JonnyWalker81/habitrack/backend/internal/models"
)

// Options sets the lookback windows used by Streak and Progress
type Options struct {
	RiskLookbackDays   int
	TimingLookbackDays int
}

// Streak computes the streak half of a report
func Streak(events []models.CompletionEvent, asOf time.Time, category models.HabitCategory, opts Options) models.StreakState {
	risk := PredictStreakRisk(events, asOf, opts.RiskLookbackDays)
	return models.StreakState{
		CurrentStreak:       CurrentStreak(events, asOf),
		LongestStreak:       LongestStreak(events),
		RiskLevel:           risk,
		RecoverySuggestions: RecoverySuggestions(risk, category),
	}
}

// Progress computes the progress half of a report
func Progress(events []models.CompletionEvent, asOf time.Time, opts Options) models.ProgressReport {
	weekly, _ := CompletionRate(events, models.PeriodWeekly, asOf)
	monthly, _ := CompletionRate(events, models.PeriodMonthly, asOf)
	return models.ProgressReport{
		WeeklyCompletionRate:  weekly,
		MonthlyCompletionRate: monthly,
		ConsistencyPattern:    AnalyzeConsistencyPattern(events, asOf),
		OptimalTimes:          OptimalTiming(events, asOf, opts.TimingLookbackDays),
		DifficultyAdjustment:  DifficultyAdjustment(events, asOf),
	}
}
