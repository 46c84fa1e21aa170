package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mentorconnect/mentorconnect-api/internal/models"
	"github.com/mentorconnect/mentorconnect-api/internal/services"
)

// AdminHandler handles the admin dashboard and account moderation endpoints.
// Routes using it must sit behind the admin role middleware.
type AdminHandler struct {
	service *services.AdminService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(service *services.AdminService) *AdminHandler {
	return &AdminHandler{service: service}
}

// GetStats handles GET /api/v1/admin/stats
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.service.GetStats(c.Request.Context())
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// SetUserActive handles PUT /api/v1/admin/users/:id/active
func (h *AdminHandler) SetUserActive(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.SetUserActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	user, err := h.service.SetUserActive(c.Request.Context(), userID, *req.Active)
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
