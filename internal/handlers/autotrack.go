package handlers

import (
	"net/http"

	"github.com/JonnyWalker81/habitrack/backend/internal/apierror"
	"github.com/JonnyWalker81/habitrack/backend/internal/models"
	"github.com/JonnyWalker81/habitrack/backend/internal/service"
	"github.com/gin-gonic/gin"
)

type AutoTrackingHandler struct {
	autoTrackingService service.AutoTrackingService
}

// NewAutoTrackingHandler creates a new auto-tracking handler
func NewAutoTrackingHandler(autoTrackingService service.AutoTrackingService) *AutoTrackingHandler {
	return &AutoTrackingHandler{
		autoTrackingService: autoTrackingService,
	}
}

// IntegrateHealthData handles POST /api/v1/auto-tracking/health-data
func (h *AutoTrackingHandler) IntegrateHealthData(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var payload models.HealthPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		apierror.WriteProblem(c, apierror.FromBindingError(apierror.GetRequestID(c), err))
		return
	}

	result, err := h.autoTrackingService.IntegrateHealthData(c.Request.Context(), userID, &payload)
	if err != nil {
		writeError(c, err, "Habit", "")
		return
	}

	c.JSON(http.StatusOK, result)
}

// DetectActivity handles POST /api/v1/habits/:id/auto-tracking/detect
func (h *AutoTrackingHandler) DetectActivity(c *gin.Context) {
	userID, habitID, ok := habitRequest(c)
	if !ok {
		return
	}

	var payload models.HealthPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		apierror.WriteProblem(c, apierror.FromBindingError(apierror.GetRequestID(c), err))
		return
	}

	completed, err := h.autoTrackingService.DetectActivityCompletion(c.Request.Context(), userID, habitID, &payload)
	if err != nil {
		writeError(c, err, "Habit", habitID)
		return
	}

	c.JSON(http.StatusOK, models.DetectionResponse{HabitID: habitID, Completed: completed})
}
