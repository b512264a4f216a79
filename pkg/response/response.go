package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// Fail writes an error body with the given HTTP status and application code.
func Fail(c *gin.Context, status, code int, message string) {
	c.JSON(status, gin.H{"error": message, "code": code})
}

// FailFields writes a 400 with per-field validation detail.
func FailFields(c *gin.Context, code int, fields map[string]string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "code": code, "fields": fields})
}
