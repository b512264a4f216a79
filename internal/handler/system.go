package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nomadlink/pkg/errors"
	"nomadlink/pkg/middleware"
	"nomadlink/pkg/response"
)

// handleHealthCheck verifies the database connection.
func (h *Handlers) handleHealthCheck(c *gin.Context) {
	sqlDB, err := h.db.DB()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": "database connection failed"})
		return
	}
	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": "database ping failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// handleMint forwards a mint request to the external chain client.
func (h *Handlers) handleMint(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var in struct {
		TokenURI string `json:"token_uri" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Fail(c, http.StatusBadRequest, errors.CodeValidation, "token_uri is required")
		return
	}

	if err := h.mint.RequestMint(c.Request.Context(), user, in.TokenURI); err != nil {
		response.Fail(c, http.StatusBadGateway, 0, "mint request failed")
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}
