package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gymops/gym-ops-api/internal/models"
	"github.com/gymops/gym-ops-api/internal/service"
	appErrors "github.com/gymops/gym-ops-api/pkg/errors"
	"github.com/gymops/gym-ops-api/pkg/response"
)

// ScheduleHandler exposes class timetable endpoints.
type ScheduleHandler struct {
	schedules *service.ClassScheduleService
}

// NewScheduleHandler constructs ScheduleHandler.
func NewScheduleHandler(schedules *service.ClassScheduleService) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules}
}

// CreateRule godoc
// @Summary Create the recurrence rule of a class
// @Tags Schedule
// @Accept json
// @Produce json
// @Param id path string true "Class ID"
// @Param payload body service.ClassRuleRequest true "Rule payload"
// @Success 201 {object} response.Envelope
// @Router /classes/{id}/schedule [post]
func (h *ScheduleHandler) CreateRule(c *gin.Context) {
	var req service.ClassRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	slots, err := h.schedules.CreateRule(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, slots)
}

// ReplaceRule godoc
// @Summary Replace the recurrence rule of a class
// @Tags Schedule
// @Accept json
// @Produce json
// @Param id path string true "Class ID"
// @Param payload body service.ClassRuleRequest true "Rule payload"
// @Success 200 {object} response.Envelope
// @Router /classes/{id}/schedule [put]
func (h *ScheduleHandler) ReplaceRule(c *gin.Context) {
	var req service.ClassRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	slots, err := h.schedules.ReplaceRule(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}

// GetRule godoc
// @Summary Get the active recurrence rule of a class
// @Tags Schedule
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{id}/schedule [get]
func (h *ScheduleHandler) GetRule(c *gin.Context) {
	slots, err := h.schedules.ClassRule(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}

// RemoveRule godoc
// @Summary Retire the recurrence rule of a class
// @Tags Schedule
// @Produce json
// @Param id path string true "Class ID"
// @Success 204
// @Router /classes/{id}/schedule [delete]
func (h *ScheduleHandler) RemoveRule(c *gin.Context) {
	if err := h.schedules.RemoveRule(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// TrainerWeek godoc
// @Summary Expand a trainer's commitments over a week
// @Tags Schedule
// @Produce json
// @Param trainerId path string true "Trainer ID"
// @Param start query string true "Week start date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /trainers/{trainerId}/week [get]
func (h *ScheduleHandler) TrainerWeek(c *gin.Context) {
	start, err := parseDateQuery(c, "start")
	if err != nil {
		response.Error(c, err)
		return
	}
	week, err := h.schedules.TrainerWeek(c.Request.Context(), c.Param("trainerId"), start)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, week, nil)
}

func parseDateQuery(c *gin.Context, name string) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return models.DateOnly(time.Now()), nil
	}
	parsed, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	if err != nil {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, name+" must be YYYY-MM-DD")
	}
	return parsed, nil
}
