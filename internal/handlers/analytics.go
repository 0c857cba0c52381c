package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/replytrack/replytrack/internal/service"
)

type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsService service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// GetMetrics handles GET /api/v1/analytics/metrics
func (h *AnalyticsHandler) GetMetrics(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	rng, ok := parseTimeRange(c)
	if !ok {
		return
	}
	platform := c.Query("platform")

	metrics, err := h.analyticsService.GetMetrics(c.Request.Context(), userID, platform, rng)
	if err != nil {
		writeServiceError(c, err, "Metrics", "")
		return
	}

	c.JSON(http.StatusOK, metrics)
}

// GetDaily handles GET /api/v1/analytics/daily
func (h *AnalyticsHandler) GetDaily(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	rng, ok := parseTimeRange(c)
	if !ok {
		return
	}
	platform := c.Query("platform")

	daily, err := h.analyticsService.GetDailyMetrics(c.Request.Context(), userID, platform, rng)
	if err != nil {
		writeServiceError(c, err, "Metrics", "")
		return
	}

	c.JSON(http.StatusOK, daily)
}

// GetHourly handles GET /api/v1/analytics/hourly
func (h *AnalyticsHandler) GetHourly(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	rng, ok := parseTimeRange(c)
	if !ok {
		return
	}
	platform := c.Query("platform")

	hourly, err := h.analyticsService.GetHourlyMetrics(c.Request.Context(), userID, platform, rng)
	if err != nil {
		writeServiceError(c, err, "Metrics", "")
		return
	}

	c.JSON(http.StatusOK, hourly)
}

// Reset handles DELETE /api/v1/analytics/windows
func (h *AnalyticsHandler) Reset(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	deleted, err := h.analyticsService.ResetWindows(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, err, "Windows", "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"windows_deleted": deleted})
}
