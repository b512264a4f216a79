package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"nomadlink/internal/listeners"
	"nomadlink/internal/service"
	"nomadlink/pkg/errors"
	"nomadlink/pkg/middleware"
	"nomadlink/pkg/response"
	"nomadlink/pkg/websocket"
)

func (h *Handlers) handleTriggerEmergency(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var in service.TriggerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Fail(c, http.StatusBadRequest, errors.CodeValidation, "invalid request body")
		return
	}

	alert, err := h.emergency.Trigger(c.Request.Context(), user, in)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, alert)
}

func (h *Handlers) handleMyEmergencies(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var resolved *bool
	if param := c.Query("resolved"); param != "" {
		value := strings.EqualFold(param, "true")
		resolved = &value
	}

	alerts, err := h.emergency.Mine(c.Request.Context(), user.ID, resolved)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, alerts)
}

func (h *Handlers) handleResolveEmergency(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, errors.CodeValidation, "invalid alert id")
		return
	}

	alert, resolveErr := h.emergency.Resolve(c.Request.Context(), uint(id))
	if resolveErr != nil {
		writeError(c, resolveErr)
		return
	}
	response.Success(c, alert)
}

// handleEmergencySocket subscribes the connection to the shared alert topic.
// Subscribers that were not connected at publish time get nothing replayed.
func (h *Handlers) handleEmergencySocket(c *gin.Context) {
	userID := ""
	if user, ok := middleware.CurrentUser(c); ok {
		userID = user.Username
	}
	websocket.HandleWebSocket(h.hub, c.Writer, c.Request, userID, listeners.EmergencyGroup)
}
