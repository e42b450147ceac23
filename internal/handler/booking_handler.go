package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/studio-booking-api/internal/service"
	appErrors "github.com/noah-isme/studio-booking-api/pkg/errors"
	"github.com/noah-isme/studio-booking-api/pkg/response"
)

// BookingHandler exposes the reservation endpoint.
type BookingHandler struct {
	bookings *service.BookingService
}

// NewBookingHandler constructs BookingHandler.
func NewBookingHandler(bookings *service.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

// Create godoc
// @Summary Book classes for a student
// @Description Resolves or creates the student by national id and enrolls them into the requested classes, reporting per-class outcomes.
// @Tags Bookings
// @Accept json
// @Produce json
// @Param payload body service.BookingRequest true "Booking payload"
// @Success 201 {object} response.Envelope "every requested class enrolled"
// @Success 200 {object} response.Envelope "partial outcome: some classes full, already booked or unknown"
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	var req service.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	result, err := h.bookings.Book(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	// Partial outcomes stay 200: identity resolution succeeded, and full or
	// already-booked classes are routine feedback, not failures.
	status := http.StatusOK
	if result.AllEnrolled() {
		status = http.StatusCreated
	}
	response.JSON(c, status, result, nil)
}
