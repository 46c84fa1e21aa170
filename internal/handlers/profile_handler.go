package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mentorconnect/mentorconnect-api/internal/middleware"
	"github.com/mentorconnect/mentorconnect-api/internal/models"
	"github.com/mentorconnect/mentorconnect-api/internal/services"
)

// ProfileHandler handles the authenticated user's own profile endpoints
type ProfileHandler struct {
	mentorService *services.MentorService
	authService   *services.AuthService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(mentorService *services.MentorService, authService *services.AuthService) *ProfileHandler {
	return &ProfileHandler{
		mentorService: mentorService,
		authService:   authService,
	}
}

// GetProfile handles GET /api/v1/profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	session, err := middleware.GetUserSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Not authenticated", err)
		return
	}

	switch session.Role {
	case models.RoleMentor:
		profile, err := h.mentorService.GetMentorProfileByUserID(c.Request.Context(), session.UserID)
		if err != nil {
			respondAppError(c, err)
			return
		}
		c.JSON(http.StatusOK, profile)
	default:
		profile, err := h.mentorService.GetStudentProfile(c.Request.Context(), session.UserID)
		if err != nil {
			respondAppError(c, err)
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}

// UpdateMentorProfile handles PUT /api/v1/profile/mentor
func (h *ProfileHandler) UpdateMentorProfile(c *gin.Context) {
	session, err := middleware.GetUserSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Not authenticated", err)
		return
	}

	if session.Role != models.RoleMentor {
		respondError(c, http.StatusForbidden, "Only mentors can edit a mentor profile", nil)
		return
	}

	var req models.UpdateMentorProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	profile, err := h.mentorService.UpdateMentorProfile(c.Request.Context(), session.UserID, &req)
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateStudentProfile handles PUT /api/v1/profile/student
func (h *ProfileHandler) UpdateStudentProfile(c *gin.Context) {
	session, err := middleware.GetUserSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Not authenticated", err)
		return
	}

	if session.Role != models.RoleStudent {
		respondError(c, http.StatusForbidden, "Only students can edit a student profile", nil)
		return
	}

	var req models.UpdateStudentProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	profile, err := h.mentorService.UpdateStudentProfile(c.Request.Context(), session.UserID, &req)
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UploadPicture handles POST /api/v1/profile/picture
func (h *ProfileHandler) UploadPicture(c *gin.Context) {
	session, err := middleware.GetUserSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Not authenticated", err)
		return
	}

	var req models.UploadPictureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), session.UserID)
	if err != nil {
		respondAppError(c, err)
		return
	}

	url, err := h.mentorService.UploadProfilePicture(c.Request.Context(), user, &req)
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"pictureUrl": url})
}
