package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gymops/gym-ops-api/internal/service"
	appErrors "github.com/gymops/gym-ops-api/pkg/errors"
	"github.com/gymops/gym-ops-api/pkg/response"
)

// ReservationHandler exposes class seat reservation endpoints.
type ReservationHandler struct {
	reservations *service.ReservationService
}

// NewReservationHandler constructs ReservationHandler.
func NewReservationHandler(reservations *service.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservations: reservations}
}

// Reserve godoc
// @Summary Reserve a seat on a class occurrence
// @Tags Reservations
// @Accept json
// @Produce json
// @Param payload body service.ReserveSeatRequest true "Reservation payload"
// @Success 201 {object} response.Envelope
// @Router /reservations [post]
func (h *ReservationHandler) Reserve(c *gin.Context) {
	var req service.ReserveSeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	reservation, err := h.reservations.Reserve(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, reservation)
}

// Cancel godoc
// @Summary Free a reserved seat
// @Tags Reservations
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} response.Envelope
// @Router /reservations/{id}/cancel [put]
func (h *ReservationHandler) Cancel(c *gin.Context) {
	reservation, err := h.reservations.CancelReservation(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reservation, nil)
}

// Attend godoc
// @Summary Check a member in
// @Tags Reservations
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} response.Envelope
// @Router /reservations/{id}/attend [put]
func (h *ReservationHandler) Attend(c *gin.Context) {
	reservation, err := h.reservations.MarkAttended(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reservation, nil)
}

// WeekOccupancy godoc
// @Summary List a class's occurrences with seat counts over a week
// @Tags Reservations
// @Produce json
// @Param id path string true "Class ID"
// @Param start query string true "Week start date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /classes/{id}/occupancy [get]
func (h *ReservationHandler) WeekOccupancy(c *gin.Context) {
	start, err := parseDateQuery(c, "start")
	if err != nil {
		response.Error(c, err)
		return
	}
	list, err := h.reservations.WeekOccupancy(c.Request.Context(), c.Param("id"), start)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list, nil)
}
