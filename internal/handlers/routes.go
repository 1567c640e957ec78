package handlers

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the habit API on an authenticated group
func RegisterRoutes(r *gin.RouterGroup, habits *HabitHandler, tracking *TrackingHandler, auto *AutoTrackingHandler) {
	r.GET("/habits", habits.GetHabits)
	r.POST("/habits", habits.CreateHabit)
	r.GET("/habits/:id", habits.GetHabit)
	r.PUT("/habits/:id", habits.UpdateHabit)
	r.DELETE("/habits/:id", habits.DeleteHabit)

	r.GET("/habits/:id/logs", habits.GetLogs)
	r.POST("/habits/:id/logs", habits.CreateLog)
	r.POST("/logs/:id/evidence", tracking.AttachEvidence)

	r.GET("/habits/:id/report", tracking.GetReport)
	r.GET("/habits/:id/streak", tracking.GetStreak)
	r.GET("/habits/:id/completion-rate", tracking.GetCompletionRate)
	r.GET("/habits/:id/optimal-times", tracking.GetOptimalTimes)
	r.GET("/habits/:id/next-reminder", tracking.GetNextReminder)

	r.GET("/dashboard", habits.GetDashboard)

	r.POST("/auto-tracking/health-data", auto.IntegrateHealthData)
	r.POST("/habits/:id/auto-tracking/detect", auto.DetectActivity)
}
