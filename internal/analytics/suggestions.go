package analytics

import "github.com/JonnyWalker81/habitrack/backend/internal/models"

// RiskTier buckets a risk level for suggestion lookup
type RiskTier string

const (
	RiskHigh   RiskTier = "high"
	RiskMedium RiskTier = "medium"
	RiskLow    RiskTier = "low"
)

const maxSuggestions = 5

// TierForRisk returns high above 0.7, medium above 0.4, otherwise low
func TierForRisk(risk float64) RiskTier {
	switch {
	case risk > 0.7:
		return RiskHigh
	case risk > 0.4:
		return RiskMedium
	default:
		return RiskLow
	}
}

var tierSuggestions = map[RiskTier][]string{
	RiskHigh: {
		"Your streak is at risk! Try to get it done today",
		"Cut today's goal in half if you need to, but do it",
		"Consider moving your reminder to a better time",
		"Ask a friend or family member to keep you accountable",
	},
	RiskMedium: {
		"Your streak needs a little attention",
		"Plan tomorrow's session ahead of time",
		"Restart with a smaller goal",
	},
	RiskLow: {
		"You are keeping a great pace!",
		"Keep the momentum going",
		"How about taking on a new challenge?",
	},
}

var categorySuggestion = map[string]string{
	"exercise":   "Start with a short walk",
	"reading":    "Read just one page",
	"meditation": "Begin with a one-minute breathing exercise",
}

// coarseCategory folds the habit categories into the suggestion groups
func coarseCategory(c models.HabitCategory) string {
	switch c {
	case models.CategoryExercise, models.CategoryRunning, models.CategoryCycling, models.CategoryWalking:
		return "exercise"
	case models.CategoryReading:
		return "reading"
	case models.CategoryMeditation:
		return "meditation"
	default:
		return "other"
	}
}

// RecoverySuggestions returns at most five suggestions for the risk tier,
// followed by one tailored to the category when there is one.
func RecoverySuggestions(risk float64, category models.HabitCategory) []string {
	base := tierSuggestions[TierForRisk(risk)]
	out := make([]string, 0, len(base)+1)
	out = append(out, base...)
	if extra, ok := categorySuggestion[coarseCategory(category)]; ok {
		out = append(out, extra)
	}
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}
