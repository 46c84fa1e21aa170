package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mentorconnect/mentorconnect-api/internal/middleware"
	"github.com/mentorconnect/mentorconnect-api/internal/models"
	"github.com/mentorconnect/mentorconnect-api/internal/services"
)

// SessionHandler handles session booking endpoints
type SessionHandler struct {
	service *services.SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(service *services.SessionService) *SessionHandler {
	return &SessionHandler{service: service}
}

// parseIDParam reads a numeric route parameter
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "Invalid "+name, err)
		return 0, false
	}
	return id, true
}

// RequestSession handles POST /api/v1/sessions
func (h *SessionHandler) RequestSession(c *gin.Context) {
	session, err := middleware.GetUserSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Not authenticated", err)
		return
	}

	var req models.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	created, err := h.service.RequestSession(c.Request.Context(), session.UserID, &req)
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// ListSessions handles GET /api/v1/sessions
func (h *SessionHandler) ListSessions(c *gin.Context) {
	session, err := middleware.GetUserSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Not authenticated", err)
		return
	}

	sessions, err := h.service.ListSessions(c.Request.Context(), session.UserID)
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SessionsResponse{
		Sessions: sessions,
		Total:    len(sessions),
	})
}

// ListUpcoming handles GET /api/v1/sessions/upcoming
func (h *SessionHandler) ListUpcoming(c *gin.Context) {
	session, err := middleware.GetUserSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Not authenticated", err)
		return
	}

	horizonDays := 0
	if raw := c.Query("days"); raw != "" {
		if parsed, pErr := strconv.Atoi(raw); pErr == nil {
			horizonDays = parsed
		}
	}

	sessions, err := h.service.ListUpcoming(c.Request.Context(), session.UserID, horizonDays)
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SessionsResponse{
		Sessions: sessions,
		Total:    len(sessions),
	})
}

// GetSession handles GET /api/v1/sessions/:id
func (h *SessionHandler) GetSession(c *gin.Context) {
	session, err := middleware.GetUserSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Not authenticated", err)
		return
	}

	sessionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	found, err := h.service.GetSession(c.Request.Context(), session.UserID, sessionID)
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, found)
}

// RespondToSession handles POST /api/v1/sessions/:id/respond
func (h *SessionHandler) RespondToSession(c *gin.Context) {
	session, err := middleware.GetUserSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Not authenticated", err)
		return
	}

	sessionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.RespondToSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	updated, err := h.service.RespondToRequest(c.Request.Context(), session.UserID, sessionID, req.Action == "accept")
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// CompleteSession handles POST /api/v1/sessions/:id/complete
func (h *SessionHandler) CompleteSession(c *gin.Context) {
	session, err := middleware.GetUserSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Not authenticated", err)
		return
	}

	sessionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	review, err := h.service.CompleteWithReview(c.Request.Context(), session.UserID, sessionID, &req)
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}
