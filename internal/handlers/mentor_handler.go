package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mentorconnect/mentorconnect-api/internal/models"
	"github.com/mentorconnect/mentorconnect-api/internal/services"
)

// MentorHandler handles the public mentor directory endpoints
type MentorHandler struct {
	service *services.MentorService
}

// NewMentorHandler creates a new mentor handler
func NewMentorHandler(service *services.MentorService) *MentorHandler {
	return &MentorHandler{service: service}
}

// ListMentors handles GET /api/v1/mentors
func (h *MentorHandler) ListMentors(c *gin.Context) {
	mentors, err := h.service.ListMentors(c.Request.Context())
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MentorsResponse{
		Mentors: mentors,
		Total:   len(mentors),
	})
}

// GetMentor handles GET /api/v1/mentors/:id
func (h *MentorHandler) GetMentor(c *gin.Context) {
	mentorID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	mentor, err := h.service.GetMentor(c.Request.Context(), mentorID)
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, mentor)
}

// GetMentorReviews handles GET /api/v1/mentors/:id/reviews
func (h *MentorHandler) GetMentorReviews(c *gin.Context) {
	mentorID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	mentor, err := h.service.GetMentor(c.Request.Context(), mentorID)
	if err != nil {
		respondAppError(c, err)
		return
	}

	reviews, err := h.service.GetMentorReviews(c.Request.Context(), mentor.UserID)
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, reviews)
}
