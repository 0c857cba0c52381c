package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/replytrack/replytrack/internal/service"
)

type InsightsHandler struct {
	insightsService service.InsightsService
}

// NewInsightsHandler creates a new insights handler
func NewInsightsHandler(insightsService service.InsightsService) *InsightsHandler {
	return &InsightsHandler{insightsService: insightsService}
}

// Get handles GET /api/v1/insights
func (h *InsightsHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	rng, ok := parseTimeRange(c)
	if !ok {
		return
	}

	insights, err := h.insightsService.GetInsights(c.Request.Context(), userID, rng)
	if err != nil {
		writeServiceError(c, err, "Insights", "")
		return
	}

	c.JSON(http.StatusOK, insights)
}
