package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/JonnyWalker81/habitrack/backend/internal/analytics"
	"github.com/JonnyWalker81/habitrack/backend/internal/apierror"
	"github.com/JonnyWalker81/habitrack/backend/internal/logger"
	"github.com/JonnyWalker81/habitrack/backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	gobreaker "github.com/sony/gobreaker/v2"
)

// breakerRetryAfter is how long clients are told to wait while the upstream breaker is open
const breakerRetryAfter = 30

// maxFutureSkew is how far ahead of the server clock a client timestamp may be
const maxFutureSkew = time.Minute

// requireUser returns the authenticated user id or writes a 401
func requireUser(c *gin.Context) (string, bool) {
	userID := c.GetString("user_id")
	if userID == "" {
		apierror.WriteProblem(c, apierror.NewUnauthorizedError(apierror.GetRequestID(c)))
		return "", false
	}
	return userID, true
}

// pathID reads a UUID path parameter or writes a 400
func pathID(c *gin.Context, name string) (string, bool) {
	id := c.Param(name)
	if _, err := uuid.Parse(id); err != nil {
		apierror.WriteProblem(c, apierror.NewInvalidUUIDError(apierror.GetRequestID(c), name, id))
		return "", false
	}
	return id, true
}

// writeError maps service and upstream errors to problem responses
func writeError(c *gin.Context, err error, resource, id string) {
	requestID := apierror.GetRequestID(c)

	switch {
	case errors.Is(err, service.ErrNotFound):
		apierror.WriteProblem(c, apierror.NewNotFoundError(requestID, resource, id))
	case errors.Is(err, analytics.ErrInvalidPeriod):
		apierror.WriteProblem(c, apierror.NewInvalidPeriodError(requestID, c.Query("period")))
	case errors.Is(err, service.ErrInvalidRequest):
		detail := strings.TrimPrefix(err.Error(), service.ErrInvalidRequest.Error()+": ")
		apierror.WriteProblem(c, apierror.NewBadRequestError(requestID, detail, "Please check your input and try again"))
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		logger.FromContext(c.Request.Context()).Warn("upstream unavailable",
			logger.Err(err),
			logger.String("resource", resource),
		)
		apierror.WriteProblem(c, apierror.NewServiceUnavailableError(requestID, breakerRetryAfter))
	default:
		logger.FromContext(c.Request.Context()).Error("request failed",
			logger.Err(err),
			logger.String("resource", resource),
			logger.String("id", id),
		)
		apierror.WriteProblem(c, apierror.NewInternalError(requestID))
	}
}

// parseTimeParam accepts RFC3339 or a YYYY-MM-DD date in loc. endOfDay
// moves a bare date to its last instant so ranges are inclusive.
func parseTimeParam(value string, loc *time.Location, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	day, err := time.ParseInLocation("2006-01-02", value, loc)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		return day.AddDate(0, 0, 1).Add(-time.Nanosecond), nil
	}
	return day, nil
}
