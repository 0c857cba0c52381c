// Package handlers wires the HTTP surface to the service layer.
package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/replytrack/replytrack/internal/apierror"
	"github.com/replytrack/replytrack/internal/logger"
	"github.com/replytrack/replytrack/internal/models"
	"github.com/replytrack/replytrack/internal/service"
)

// currentUserID returns the authenticated user ID, writing a 401 problem
// when it is missing.
func currentUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewUnauthorizedError(requestID))
		return "", false
	}
	return userID.(string), true
}

// parseTimeRange reads the optional start and end query parameters
// (RFC3339), defaulting to the trailing 30 days.
func parseTimeRange(c *gin.Context) (models.TimeRange, bool) {
	now := time.Now().UTC()
	rng := models.TimeRange{Start: now.AddDate(0, 0, -30), End: now}

	if s := c.Query("start"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			writeFieldError(c, "start", "must be a valid RFC3339 timestamp")
			return rng, false
		}
		rng.Start = t
	}
	if s := c.Query("end"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			writeFieldError(c, "end", "must be a valid RFC3339 timestamp")
			return rng, false
		}
		rng.End = t
	}
	if !rng.End.After(rng.Start) {
		writeFieldError(c, "end", "must be after start")
		return rng, false
	}
	return rng, true
}

func writeFieldError(c *gin.Context, field, message string) {
	requestID := apierror.GetRequestID(c)
	apierror.WriteProblem(c, apierror.NewValidationError(requestID, []apierror.FieldError{
		{Field: field, Message: message, Code: "invalid"},
	}))
}

// writeServiceError translates service errors into problem responses.
// Unexpected errors are logged and hidden behind a generic 500.
func writeServiceError(c *gin.Context, err error, resource, id string) {
	requestID := apierror.GetRequestID(c)

	switch {
	case errors.Is(err, service.ErrNotFound):
		apierror.WriteProblem(c, apierror.NewNotFoundError(requestID, resource, id))
	case errors.Is(err, service.ErrValidation):
		apierror.WriteProblem(c, apierror.NewBadRequestError(requestID, err.Error(), "Please check your input and try again"))
	case errors.Is(err, service.ErrEmailTaken):
		apierror.WriteProblem(c, apierror.NewConflictError(requestID, "An account with this email already exists"))
	case errors.Is(err, service.ErrInvalidCredentials):
		apierror.WriteProblem(c, apierror.NewUnauthorizedError(requestID))
	default:
		logger.Ctx(c.Request.Context()).Error("request failed", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewInternalError(requestID))
	}
}
