package analytics

import "github.com/JonnyWalker81/habitrack/backend/internal/models"

// Points returns the reward points for a log with the given status and
// completion percentage.
func Points(status models.CompletionStatus, percentage int) int {
	switch status {
	case models.StatusCompleted:
		return max(10, percentage/10)
	case models.StatusPartial:
		return max(5, percentage/20)
	default:
		return 0
	}
}
