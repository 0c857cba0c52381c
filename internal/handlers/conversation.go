package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/replytrack/replytrack/internal/apierror"
	"github.com/replytrack/replytrack/internal/models"
	"github.com/replytrack/replytrack/internal/service"
)

type ConversationHandler struct {
	syncService service.SyncService
}

// NewConversationHandler creates a new conversation handler
func NewConversationHandler(syncService service.SyncService) *ConversationHandler {
	return &ConversationHandler{syncService: syncService}
}

// Create handles POST /api/v1/conversations
func (h *ConversationHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewBadRequestError(requestID, err.Error(), "Invalid conversation request"))
		return
	}

	conversation, err := h.syncService.CreateConversation(c.Request.Context(), userID, &req)
	if err != nil {
		writeServiceError(c, err, "Conversation", req.ID)
		return
	}

	c.JSON(http.StatusCreated, conversation)
}

// List handles GET /api/v1/conversations
func (h *ConversationHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	conversations, err := h.syncService.GetConversations(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, err, "Conversation", "")
		return
	}
	if conversations == nil {
		conversations = []models.Conversation{}
	}

	c.JSON(http.StatusOK, conversations)
}

// Get handles GET /api/v1/conversations/:id
func (h *ConversationHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	conversationID := c.Param("id")

	conversation, err := h.syncService.GetConversation(c.Request.Context(), userID, conversationID)
	if err != nil {
		writeServiceError(c, err, "Conversation", conversationID)
		return
	}

	c.JSON(http.StatusOK, conversation)
}

// IngestEvents handles POST /api/v1/conversations/:id/events
func (h *ConversationHandler) IngestEvents(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	conversationID := c.Param("id")

	var req models.IngestEventsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewBadRequestError(requestID, err.Error(), "Invalid event batch"))
		return
	}

	result, err := h.syncService.IngestEvents(c.Request.Context(), userID, conversationID, &req)
	if err != nil {
		writeServiceError(c, err, "Conversation", conversationID)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListWindows handles GET /api/v1/conversations/:id/windows
func (h *ConversationHandler) ListWindows(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	conversationID := c.Param("id")

	windows, err := h.syncService.GetWindows(c.Request.Context(), userID, conversationID)
	if err != nil {
		writeServiceError(c, err, "Conversation", conversationID)
		return
	}
	if windows == nil {
		windows = []models.ResponseWindow{}
	}

	c.JSON(http.StatusOK, windows)
}

// Rematch handles POST /api/v1/conversations/:id/rematch
func (h *ConversationHandler) Rematch(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	conversationID := c.Param("id")

	result, err := h.syncService.RematchConversation(c.Request.Context(), userID, conversationID)
	if err != nil {
		writeServiceError(c, err, "Conversation", conversationID)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Pending handles GET /api/v1/events/pending
func (h *ConversationHandler) Pending(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	pending, err := h.syncService.PendingEvents(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, err, "Event", "")
		return
	}

	c.JSON(http.StatusOK, pending)
}

// SetExcluded handles PATCH /api/v1/events/:id/excluded
func (h *ConversationHandler) SetExcluded(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	eventID := c.Param("id")

	var req models.UpdateExcludedRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Excluded == nil {
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewValidationError(requestID, []apierror.FieldError{
			{Field: "excluded", Message: "is required", Code: "required"},
		}))
		return
	}

	event, err := h.syncService.SetEventExcluded(c.Request.Context(), userID, eventID, *req.Excluded)
	if err != nil {
		writeServiceError(c, err, "Event", eventID)
		return
	}

	c.JSON(http.StatusOK, event)
}
