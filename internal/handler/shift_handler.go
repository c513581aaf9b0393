package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gymops/gym-ops-api/internal/service"
	appErrors "github.com/gymops/gym-ops-api/pkg/errors"
	"github.com/gymops/gym-ops-api/pkg/response"
)

// ShiftHandler exposes reception shift endpoints.
type ShiftHandler struct {
	shifts    *service.ShiftService
	exchanges *service.ShiftExchangeService
}

// NewShiftHandler constructs ShiftHandler.
func NewShiftHandler(shifts *service.ShiftService, exchanges *service.ShiftExchangeService) *ShiftHandler {
	return &ShiftHandler{shifts: shifts, exchanges: exchanges}
}

// Assign godoc
// @Summary Assign a reception shift to a trainer
// @Tags Shifts
// @Accept json
// @Produce json
// @Param trainerId path string true "Trainer ID"
// @Param payload body service.ShiftRequest true "Shift payload"
// @Success 201 {object} response.Envelope
// @Router /trainers/{trainerId}/shifts [post]
func (h *ShiftHandler) Assign(c *gin.Context) {
	var req service.ShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	shift, err := h.shifts.Assign(c.Request.Context(), c.Param("trainerId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, shift)
}

// List godoc
// @Summary List a trainer's active reception shifts
// @Tags Shifts
// @Produce json
// @Param trainerId path string true "Trainer ID"
// @Success 200 {object} response.Envelope
// @Router /trainers/{trainerId}/shifts [get]
func (h *ShiftHandler) List(c *gin.Context) {
	shifts, err := h.shifts.ListByTrainer(c.Request.Context(), c.Param("trainerId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, shifts, nil)
}

// Remove godoc
// @Summary Retire a reception shift
// @Tags Shifts
// @Produce json
// @Param id path string true "Shift ID"
// @Success 204
// @Router /shifts/{id} [delete]
func (h *ShiftHandler) Remove(c *gin.Context) {
	if err := h.shifts.Remove(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Propose godoc
// @Summary Propose a shift swap with another trainer
// @Tags Shifts
// @Accept json
// @Produce json
// @Param payload body service.ProposeExchangeRequest true "Proposal payload"
// @Success 201 {object} response.Envelope
// @Router /shift-exchanges [post]
func (h *ShiftHandler) Propose(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.ProposeExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	exchange, err := h.exchanges.Propose(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, exchange)
}

// Accept godoc
// @Summary Accept a shift swap proposal
// @Tags Shifts
// @Produce json
// @Param id path string true "Exchange ID"
// @Success 200 {object} response.Envelope
// @Router /shift-exchanges/{id}/accept [put]
func (h *ShiftHandler) Accept(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	exchange, err := h.exchanges.Accept(c.Request.Context(), c.Param("id"), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, exchange, nil)
}

// Reject godoc
// @Summary Reject a shift swap proposal
// @Tags Shifts
// @Produce json
// @Param id path string true "Exchange ID"
// @Success 200 {object} response.Envelope
// @Router /shift-exchanges/{id}/reject [put]
func (h *ShiftHandler) Reject(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	exchange, err := h.exchanges.Reject(c.Request.Context(), c.Param("id"), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, exchange, nil)
}

// Exchanges godoc
// @Summary List swap proposals involving a trainer
// @Tags Shifts
// @Produce json
// @Param trainerId path string true "Trainer ID"
// @Success 200 {object} response.Envelope
// @Router /trainers/{trainerId}/shift-exchanges [get]
func (h *ShiftHandler) Exchanges(c *gin.Context) {
	list, err := h.exchanges.ListForTrainer(c.Request.Context(), c.Param("trainerId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list, nil)
}
