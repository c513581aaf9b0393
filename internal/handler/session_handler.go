package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gymops/gym-ops-api/internal/models"
	"github.com/gymops/gym-ops-api/internal/service"
	appErrors "github.com/gymops/gym-ops-api/pkg/errors"
	"github.com/gymops/gym-ops-api/pkg/response"
)

// SessionHandler exposes personal session endpoints.
type SessionHandler struct {
	sessions *service.SessionService
}

// NewSessionHandler constructs SessionHandler.
func NewSessionHandler(sessions *service.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Book godoc
// @Summary Book a personal session
// @Description A clash with the trainer's class timetable is rejected. A
// @Description clash with another personal session returns SOFT_CONFLICT;
// @Description re-submit with override=true to confirm.
// @Tags Sessions
// @Accept json
// @Produce json
// @Param payload body service.BookSessionRequest true "Booking payload"
// @Success 200 {object} response.Envelope
// @Success 201 {object} response.Envelope
// @Router /sessions [post]
func (h *SessionHandler) Book(c *gin.Context) {
	var req service.BookSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.sessions.Book(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if result.Status == models.BookingSoftConflict {
		response.JSON(c, http.StatusOK, result, nil)
		return
	}
	response.Created(c, result)
}

// Complete godoc
// @Summary Mark a session as held
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/complete [put]
func (h *SessionHandler) Complete(c *gin.Context) {
	session, err := h.sessions.Complete(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// Cancel godoc
// @Summary Cancel a scheduled session
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/cancel [put]
func (h *SessionHandler) Cancel(c *gin.Context) {
	session, err := h.sessions.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// NoShow godoc
// @Summary Record a no-show
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/no-show [put]
func (h *SessionHandler) NoShow(c *gin.Context) {
	session, err := h.sessions.MarkNoShow(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// ListForMember godoc
// @Summary List a member's personal sessions
// @Tags Sessions
// @Produce json
// @Param memberId path string true "Member ID"
// @Success 200 {object} response.Envelope
// @Router /members/{memberId}/sessions [get]
func (h *SessionHandler) ListForMember(c *gin.Context) {
	sessions, err := h.sessions.ListForMember(c.Request.Context(), c.Param("memberId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sessions, nil)
}
