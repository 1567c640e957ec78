package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/JonnyWalker81/habitrack/backend/internal/apierror"
	"github.com/JonnyWalker81/habitrack/backend/internal/models"
	"github.com/JonnyWalker81/habitrack/backend/internal/service"
	"github.com/gin-gonic/gin"
)

type HabitHandler struct {
	habitService service.HabitService
	loc          *time.Location
	now          func() time.Time
}

// NewHabitHandler creates a new habit handler. loc is the zone bare
// YYYY-MM-DD query dates are read in.
func NewHabitHandler(habitService service.HabitService, loc *time.Location) *HabitHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &HabitHandler{
		habitService: habitService,
		loc:          loc,
		now:          time.Now,
	}
}

// CreateHabit handles POST /api/v1/habits
func (h *HabitHandler) CreateHabit(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req models.CreateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.WriteProblem(c, apierror.FromBindingError(apierror.GetRequestID(c), err))
		return
	}

	habit, err := h.habitService.CreateHabit(c.Request.Context(), userID, &req)
	if err != nil {
		writeError(c, err, "Habit", "")
		return
	}

	c.JSON(http.StatusCreated, habit)
}

// GetHabits handles GET /api/v1/habits
func (h *HabitHandler) GetHabits(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	activeOnly := true
	if v := c.Query("active_only"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			apierror.WriteProblem(c, apierror.NewBadRequestError(apierror.GetRequestID(c),
				"active_only must be a boolean", "Invalid active_only filter"))
			return
		}
		activeOnly = parsed
	}

	habits, err := h.habitService.ListHabits(c.Request.Context(), userID, activeOnly)
	if err != nil {
		writeError(c, err, "Habit", "")
		return
	}

	c.JSON(http.StatusOK, habits)
}

// GetHabit handles GET /api/v1/habits/:id
func (h *HabitHandler) GetHabit(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	habitID, ok := pathID(c, "id")
	if !ok {
		return
	}

	habit, err := h.habitService.GetHabit(c.Request.Context(), userID, habitID)
	if err != nil {
		writeError(c, err, "Habit", habitID)
		return
	}

	c.JSON(http.StatusOK, habit)
}

// UpdateHabit handles PUT /api/v1/habits/:id
func (h *HabitHandler) UpdateHabit(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	habitID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.WriteProblem(c, apierror.FromBindingError(apierror.GetRequestID(c), err))
		return
	}

	habit, err := h.habitService.UpdateHabit(c.Request.Context(), userID, habitID, &req)
	if err != nil {
		writeError(c, err, "Habit", habitID)
		return
	}

	c.JSON(http.StatusOK, habit)
}

// DeleteHabit handles DELETE /api/v1/habits/:id
func (h *HabitHandler) DeleteHabit(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	habitID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.habitService.DeleteHabit(c.Request.Context(), userID, habitID); err != nil {
		writeError(c, err, "Habit", habitID)
		return
	}

	c.Status(http.StatusNoContent)
}

// CreateLog handles POST /api/v1/habits/:id/logs
func (h *HabitHandler) CreateLog(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	habitID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.CreateHabitLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.WriteProblem(c, apierror.FromBindingError(apierror.GetRequestID(c), err))
		return
	}
	if req.LoggedAt != nil && req.LoggedAt.After(h.now().Add(maxFutureSkew)) {
		apierror.WriteProblem(c, apierror.NewFutureTimestampError(apierror.GetRequestID(c), "logged_at"))
		return
	}

	log, err := h.habitService.CreateLog(c.Request.Context(), userID, habitID, &req)
	if err != nil {
		writeError(c, err, "Habit", habitID)
		return
	}

	c.JSON(http.StatusCreated, log)
}

// GetLogs handles GET /api/v1/habits/:id/logs?start_date=&end_date=
func (h *HabitHandler) GetLogs(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	habitID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var start, end time.Time
	if v := c.Query("start_date"); v != "" {
		parsed, err := parseTimeParam(v, h.loc, false)
		if err != nil {
			apierror.WriteProblem(c, apierror.NewBadRequestError(apierror.GetRequestID(c),
				"invalid start_date format, use RFC3339 or YYYY-MM-DD", "Invalid start date"))
			return
		}
		start = parsed
	}
	if v := c.Query("end_date"); v != "" {
		parsed, err := parseTimeParam(v, h.loc, true)
		if err != nil {
			apierror.WriteProblem(c, apierror.NewBadRequestError(apierror.GetRequestID(c),
				"invalid end_date format, use RFC3339 or YYYY-MM-DD", "Invalid end date"))
			return
		}
		end = parsed
	}

	logs, err := h.habitService.ListLogs(c.Request.Context(), userID, habitID, start, end)
	if err != nil {
		writeError(c, err, "Habit", habitID)
		return
	}

	c.JSON(http.StatusOK, logs)
}

// GetDashboard handles GET /api/v1/dashboard?date=YYYY-MM-DD
func (h *HabitHandler) GetDashboard(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	date := h.now()
	if v := c.Query("date"); v != "" {
		parsed, err := time.ParseInLocation("2006-01-02", v, h.loc)
		if err != nil {
			apierror.WriteProblem(c, apierror.NewBadRequestError(apierror.GetRequestID(c),
				"invalid date format, use YYYY-MM-DD", "Invalid date"))
			return
		}
		date = parsed
	}

	dashboard, err := h.habitService.GetDailyDashboard(c.Request.Context(), userID, date)
	if err != nil {
		writeError(c, err, "Dashboard", "")
		return
	}

	c.JSON(http.StatusOK, dashboard)
}
