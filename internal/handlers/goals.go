package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/replytrack/replytrack/internal/apierror"
	"github.com/replytrack/replytrack/internal/models"
	"github.com/replytrack/replytrack/internal/service"
)

type GoalHandler struct {
	goalService service.GoalService
}

// NewGoalHandler creates a new goal handler
func NewGoalHandler(goalService service.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

// Create handles POST /api/v1/goals
func (h *GoalHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewBadRequestError(requestID, err.Error(), "Invalid goal request"))
		return
	}

	goal, err := h.goalService.CreateGoal(c.Request.Context(), userID, &req)
	if err != nil {
		writeServiceError(c, err, "Goal", "")
		return
	}

	c.JSON(http.StatusCreated, goal)
}

// List handles GET /api/v1/goals
func (h *GoalHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	goals, err := h.goalService.GetGoals(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, err, "Goal", "")
		return
	}
	if goals == nil {
		goals = []models.ResponseGoal{}
	}

	c.JSON(http.StatusOK, goals)
}

// Get handles GET /api/v1/goals/:id
func (h *GoalHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	goalID := c.Param("id")

	goal, err := h.goalService.GetGoal(c.Request.Context(), userID, goalID)
	if err != nil {
		writeServiceError(c, err, "Goal", goalID)
		return
	}

	c.JSON(http.StatusOK, goal)
}

// Update handles PUT /api/v1/goals/:id
func (h *GoalHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	goalID := c.Param("id")

	var req models.UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewBadRequestError(requestID, err.Error(), "Invalid goal request"))
		return
	}

	goal, err := h.goalService.UpdateGoal(c.Request.Context(), userID, goalID, &req)
	if err != nil {
		writeServiceError(c, err, "Goal", goalID)
		return
	}

	c.JSON(http.StatusOK, goal)
}

// Delete handles DELETE /api/v1/goals/:id
func (h *GoalHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	goalID := c.Param("id")

	if err := h.goalService.DeleteGoal(c.Request.Context(), userID, goalID); err != nil {
		writeServiceError(c, err, "Goal", goalID)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetStreak handles GET /api/v1/goals/:id/streak
func (h *GoalHandler) GetStreak(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	goalID := c.Param("id")

	streak, err := h.goalService.GetStreak(c.Request.Context(), userID, goalID)
	if err != nil {
		writeServiceError(c, err, "Goal", goalID)
		return
	}

	c.JSON(http.StatusOK, streak)
}
