package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nomadlink/internal/service"
	"nomadlink/pkg/errors"
	"nomadlink/pkg/middleware"
	"nomadlink/pkg/response"
)

func (h *Handlers) handleCreateBooking(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var in service.BookingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Fail(c, http.StatusBadRequest, errors.CodeValidation, "destination, start_date and end_date are required")
		return
	}

	booking, err := h.bookings.Create(c.Request.Context(), user.ID, in)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, booking)
}

func (h *Handlers) handleListBookings(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	bookings, err := h.bookings.ListMine(c.Request.Context(), user.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, bookings)
}
