package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/studio-booking-api/internal/service"
	"github.com/noah-isme/studio-booking-api/pkg/response"
)

// ClassHandler exposes the schedule grid endpoints.
type ClassHandler struct {
	schedule *service.ScheduleService
}

// NewClassHandler constructs ClassHandler.
func NewClassHandler(schedule *service.ScheduleService) *ClassHandler {
	return &ClassHandler{schedule: schedule}
}

// List godoc
// @Summary Weekly schedule grid with occupancy
// @Tags Classes
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /classes [get]
func (h *ClassHandler) List(c *gin.Context) {
	slots, err := h.schedule.Grid(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}

// Get godoc
// @Summary Get one class with occupancy
// @Tags Classes
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /classes/{id} [get]
func (h *ClassHandler) Get(c *gin.Context) {
	slot, err := h.schedule.GetClass(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slot, nil)
}
