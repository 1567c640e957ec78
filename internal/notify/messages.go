package notify

import (
	"fmt"
	"time"
)

// Kind labels a notification for metrics and delivery routing
type Kind string

const (
	KindCelebration Kind = "celebration"
	KindRecovery    Kind = "recovery"
)

// Notification is a message addressed to one user about one habit
type Notification struct {
	UserID    string    `json:"user_id"`
	HabitID   string    `json:"habit_id"`
	Kind      Kind      `json:"kind"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// CelebrationMessage returns the message for reaching a streak of the given length
func CelebrationMessage(habitName string, streak int) string {
	switch {
	case streak == 1:
		return fmt.Sprintf("You completed %q! Great start!", habitName)
	case streak == 7:
		return fmt.Sprintf("%q done 7 days in a row! A full week, congratulations!", habitName)
	case streak == 30:
		return fmt.Sprintf("%q done 30 days in a row! A whole month, amazing!", habitName)
	case streak > 0 && streak%10 == 0:
		return fmt.Sprintf("%q done %d days in a row! Your consistency is shining!", habitName, streak)
	default:
		return fmt.Sprintf("%q done %d days in a row! Keep it up!", habitName, streak)
	}
}

// RecoveryMessage nudges a user whose streak is at high risk, leading with
// the first recovery suggestion when there is one
func RecoveryMessage(habitName string, currentStreak int, suggestions []string) string {
	msg := fmt.Sprintf("Your %q streak needs attention.", habitName)
	if currentStreak > 0 {
		msg = fmt.Sprintf("Your %d-day %q streak is at risk.", currentStreak, habitName)
	}
	if len(suggestions) > 0 {
		msg += " " + suggestions[0]
	}
	return msg
}

// Celebration builds a celebration notification
func Celebration(userID, habitID, habitName string, streak int, now time.Time) Notification {
	return Notification{
		UserID:    userID,
		HabitID:   habitID,
		Kind:      KindCelebration,
		Message:   CelebrationMessage(habitName, streak),
		CreatedAt: now,
	}
}

// Recovery builds a recovery nudge notification
func Recovery(userID, habitID, habitName string, currentStreak int, suggestions []string, now time.Time) Notification {
	return Notification{
		UserID:    userID,
		HabitID:   habitID,
		Kind:      KindRecovery,
		Message:   RecoveryMessage(habitName, currentStreak, suggestions),
		CreatedAt: now,
	}
}
