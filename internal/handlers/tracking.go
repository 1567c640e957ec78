package handlers

import (
	"net/http"

	"github.com/JonnyWalker81/habitrack/backend/internal/apierror"
	"github.com/JonnyWalker81/habitrack/backend/internal/logger"
	"github.com/JonnyWalker81/habitrack/backend/internal/models"
	"github.com/JonnyWalker81/habitrack/backend/internal/service"
	"github.com/gin-gonic/gin"
)

type TrackingHandler struct {
	trackingService service.TrackingService
}

// NewTrackingHandler creates a new tracking handler
func NewTrackingHandler(trackingService service.TrackingService) *TrackingHandler {
	return &TrackingHandler{
		trackingService: trackingService,
	}
}

// habitRequest resolves the user and habit id shared by every tracking route
// and tags the request context with the habit id for logging
func habitRequest(c *gin.Context) (string, string, bool) {
	userID, ok := requireUser(c)
	if !ok {
		return "", "", false
	}
	habitID, ok := pathID(c, "id")
	if !ok {
		return "", "", false
	}
	c.Request = c.Request.WithContext(logger.WithHabitID(c.Request.Context(), habitID))
	return userID, habitID, true
}

// GetReport handles GET /api/v1/habits/:id/report
func (h *TrackingHandler) GetReport(c *gin.Context) {
	userID, habitID, ok := habitRequest(c)
	if !ok {
		return
	}

	report, err := h.trackingService.GetComprehensiveReport(c.Request.Context(), userID, habitID)
	if err != nil {
		writeError(c, err, "Habit", habitID)
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetStreak handles GET /api/v1/habits/:id/streak
func (h *TrackingHandler) GetStreak(c *gin.Context) {
	userID, habitID, ok := habitRequest(c)
	if !ok {
		return
	}

	streak, err := h.trackingService.GetStreak(c.Request.Context(), userID, habitID)
	if err != nil {
		writeError(c, err, "Habit", habitID)
		return
	}

	c.JSON(http.StatusOK, streak)
}

// GetCompletionRate handles GET /api/v1/habits/:id/completion-rate?period=weekly
func (h *TrackingHandler) GetCompletionRate(c *gin.Context) {
	userID, habitID, ok := habitRequest(c)
	if !ok {
		return
	}

	period := models.Period(c.DefaultQuery("period", string(models.PeriodWeekly)))

	rate, err := h.trackingService.GetCompletionRate(c.Request.Context(), userID, habitID, period)
	if err != nil {
		writeError(c, err, "Habit", habitID)
		return
	}

	c.JSON(http.StatusOK, rate)
}

// GetOptimalTimes handles GET /api/v1/habits/:id/optimal-times
func (h *TrackingHandler) GetOptimalTimes(c *gin.Context) {
	userID, habitID, ok := habitRequest(c)
	if !ok {
		return
	}

	times, err := h.trackingService.GetOptimalTimes(c.Request.Context(), userID, habitID)
	if err != nil {
		writeError(c, err, "Habit", habitID)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"habit_id":      habitID,
		"optimal_times": times,
	})
}

// GetNextReminder handles GET /api/v1/habits/:id/next-reminder
func (h *TrackingHandler) GetNextReminder(c *gin.Context) {
	userID, habitID, ok := habitRequest(c)
	if !ok {
		return
	}

	reminder, err := h.trackingService.GetNextReminder(c.Request.Context(), userID, habitID)
	if err != nil {
		writeError(c, err, "Habit", habitID)
		return
	}

	c.JSON(http.StatusOK, reminder)
}

// AttachEvidence handles POST /api/v1/logs/:id/evidence
func (h *TrackingHandler) AttachEvidence(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	logID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.AttachEvidenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.WriteProblem(c, apierror.FromBindingError(apierror.GetRequestID(c), err))
		return
	}

	evidence, err := h.trackingService.AttachEvidence(c.Request.Context(), userID, logID, &req)
	if err != nil {
		writeError(c, err, "Habit log", logID)
		return
	}

	c.JSON(http.StatusCreated, evidence)
}
