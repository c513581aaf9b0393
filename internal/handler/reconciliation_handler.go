package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gymops/gym-ops-api/internal/service"
	appErrors "github.com/gymops/gym-ops-api/pkg/errors"
	"github.com/gymops/gym-ops-api/pkg/response"
)

// ReconciliationHandler exposes the time-derived state sweep.
type ReconciliationHandler struct {
	reconciliation *service.ReconciliationService
}

// NewReconciliationHandler constructs ReconciliationHandler.
func NewReconciliationHandler(reconciliation *service.ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{reconciliation: reconciliation}
}

// Run godoc
// @Summary Run the reconciliation sweep
// @Description Advances expired memberships, member standings and stale
// @Description bookings. Idempotent: a second run reports zero mutations.
// @Tags Reconciliation
// @Produce json
// @Param asOf query string false "Reference date (YYYY-MM-DD), defaults to now"
// @Success 200 {object} response.Envelope
// @Router /reconciliation/run [post]
func (h *ReconciliationHandler) Run(c *gin.Context) {
	asOf := time.Now()
	if raw := c.Query("asOf"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "asOf must be YYYY-MM-DD"))
			return
		}
		asOf = parsed
	}
	report, err := h.reconciliation.RunAt(c.Request.Context(), asOf)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}
