package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mentorconnect/mentorconnect-api/internal/middleware"
	"github.com/mentorconnect/mentorconnect-api/internal/models"
	"github.com/mentorconnect/mentorconnect-api/internal/services"
)

// MessageHandler handles direct messaging endpoints
type MessageHandler struct {
	service *services.MessageService
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(service *services.MessageService) *MessageHandler {
	return &MessageHandler{service: service}
}

// SendMessage handles POST /api/v1/messages
func (h *MessageHandler) SendMessage(c *gin.Context) {
	session, err := middleware.GetUserSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Not authenticated", err)
		return
	}

	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	message, err := h.service.SendMessage(c.Request.Context(), session.UserID, &req)
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, message)
}

// ListConversations handles GET /api/v1/messages
func (h *MessageHandler) ListConversations(c *gin.Context) {
	session, err := middleware.GetUserSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Not authenticated", err)
		return
	}

	conversations, err := h.service.ListConversations(c.Request.Context(), session.UserID)
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, conversations)
}

// GetConversation handles GET /api/v1/messages/:userId
func (h *MessageHandler) GetConversation(c *gin.Context) {
	session, err := middleware.GetUserSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Not authenticated", err)
		return
	}

	otherID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	conversation, err := h.service.GetConversation(c.Request.Context(), session.UserID, otherID)
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, conversation)
}
