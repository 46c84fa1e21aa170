package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports service liveness and database readiness
type HealthHandler struct {
	dbReady func() bool
}

// NewHealthHandler creates a new health handler. dbReady may be nil when
// there is no readiness dependency to check.
func NewHealthHandler(dbReady func() bool) *HealthHandler {
	return &HealthHandler{
		dbReady: dbReady,
	}
}

// Healthcheck handles GET /healthcheck
func (h *HealthHandler) Healthcheck(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")

	if h.dbReady != nil && !h.dbReady() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"reason": "database not reachable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}
