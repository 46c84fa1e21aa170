package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mentorconnect/mentorconnect-api/internal/middleware"
	"github.com/mentorconnect/mentorconnect-api/internal/models"
	"github.com/mentorconnect/mentorconnect-api/internal/services"
)

const icsContentType = "text/calendar; charset=utf-8"

// CalendarHandler handles iCalendar export and reminder endpoints
type CalendarHandler struct {
	service *services.CalendarService
}

// NewCalendarHandler creates a new calendar handler
func NewCalendarHandler(service *services.CalendarService) *CalendarHandler {
	return &CalendarHandler{service: service}
}

// AddToCalendar handles POST /api/v1/sessions/:id/calendar
// Returns the single-event .ics document for download.
func (h *CalendarHandler) AddToCalendar(c *gin.Context) {
	session, err := middleware.GetUserSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Not authenticated", err)
		return
	}

	sessionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.AddToCalendar(c.Request.Context(), session.UserID, sessionID)
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", resp.Filename))
	c.Data(http.StatusCreated, icsContentType, []byte(resp.Document))
}

// ExportCalendar handles GET /api/v1/calendar/export
// Streams the user's full session history as one .ics document.
func (h *CalendarHandler) ExportCalendar(c *gin.Context) {
	session, err := middleware.GetUserSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Not authenticated", err)
		return
	}

	resp, err := h.service.ExportCalendar(c.Request.Context(), session.UserID)
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", resp.Filename))
	c.Data(http.StatusOK, icsContentType, []byte(resp.Document))
}

// SendReminders handles POST /api/v1/calendar/reminders
func (h *CalendarHandler) SendReminders(c *gin.Context) {
	session, err := middleware.GetUserSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Not authenticated", err)
		return
	}

	var req models.SendRemindersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	sent, err := h.service.SendReminders(c.Request.Context(), session.UserID, req.DaysBefore)
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SendRemindersResponse{RemindersSent: sent})
}
