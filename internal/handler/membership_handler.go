package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gymops/gym-ops-api/internal/service"
	appErrors "github.com/gymops/gym-ops-api/pkg/errors"
	"github.com/gymops/gym-ops-api/pkg/response"
)

// MembershipHandler exposes membership lifecycle endpoints.
type MembershipHandler struct {
	memberships *service.MembershipService
}

// NewMembershipHandler constructs MembershipHandler.
func NewMembershipHandler(memberships *service.MembershipService) *MembershipHandler {
	return &MembershipHandler{memberships: memberships}
}

// Assign godoc
// @Summary Assign a plan to a member
// @Tags Memberships
// @Accept json
// @Produce json
// @Param memberId path string true "Member ID"
// @Param payload body service.AssignMembershipRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Router /members/{memberId}/membership [post]
func (h *MembershipHandler) Assign(c *gin.Context) {
	var req service.AssignMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	membership, err := h.memberships.Assign(c.Request.Context(), c.Param("memberId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, membership)
}

// Current godoc
// @Summary Get a member's current membership
// @Tags Memberships
// @Produce json
// @Param memberId path string true "Member ID"
// @Success 200 {object} response.Envelope
// @Router /members/{memberId}/membership [get]
func (h *MembershipHandler) Current(c *gin.Context) {
	membership, err := h.memberships.Current(c.Request.Context(), c.Param("memberId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, membership, nil)
}

// History godoc
// @Summary List a member's membership history
// @Tags Memberships
// @Produce json
// @Param memberId path string true "Member ID"
// @Success 200 {object} response.Envelope
// @Router /members/{memberId}/memberships [get]
func (h *MembershipHandler) History(c *gin.Context) {
	list, err := h.memberships.History(c.Request.Context(), c.Param("memberId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list, nil)
}

// Pause godoc
// @Summary Pause an active membership
// @Tags Memberships
// @Accept json
// @Produce json
// @Param id path string true "Membership ID"
// @Param payload body service.PauseMembershipRequest true "Pause payload"
// @Success 200 {object} response.Envelope
// @Router /memberships/{id}/pause [put]
func (h *MembershipHandler) Pause(c *gin.Context) {
	var req service.PauseMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	membership, err := h.memberships.Pause(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, membership, nil)
}

// Resume godoc
// @Summary Resume a paused membership
// @Tags Memberships
// @Accept json
// @Produce json
// @Param id path string true "Membership ID"
// @Param payload body service.ResumeMembershipRequest true "Resume payload"
// @Success 200 {object} response.Envelope
// @Router /memberships/{id}/resume [put]
func (h *MembershipHandler) Resume(c *gin.Context) {
	var req service.ResumeMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	membership, err := h.memberships.Resume(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, membership, nil)
}

// Cancel godoc
// @Summary Cancel a membership
// @Tags Memberships
// @Accept json
// @Produce json
// @Param id path string true "Membership ID"
// @Param payload body service.CancelMembershipRequest true "Cancellation payload"
// @Success 200 {object} response.Envelope
// @Router /memberships/{id}/cancel [put]
func (h *MembershipHandler) Cancel(c *gin.Context) {
	var req service.CancelMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	membership, err := h.memberships.Cancel(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, membership, nil)
}
