package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"battery-savings/internal/api/models"
	"battery-savings/internal/data"
	"battery-savings/internal/model"
	"battery-savings/internal/strategy"
)

// maxChargeSteps and maxPlanRows bound the planner's state grid per request.
const (
	maxChargeSteps = 2000
	maxPlanRows    = 4 * data.SlotsPerDay
)

// PlanHandler handles schedule planning requests
type PlanHandler struct {
	deps *Deps
}

// NewPlanHandler creates a new plan handler
func NewPlanHandler(deps *Deps) *PlanHandler {
	return &PlanHandler{deps: deps}
}

// Plan handles POST /api/v1/plan
func (h *PlanHandler) Plan(c *gin.Context) {
	var req models.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err, nil)
		return
	}
	if req.ChargeSteps < 0 || req.ChargeSteps > maxChargeSteps {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST",
			fmt.Errorf("charge_steps must be within [0, %d]", maxChargeSteps), nil)
		return
	}
	if len(req.Data) > maxPlanRows {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST",
			fmt.Errorf("data has %d rows, at most %d are planned", len(req.Data), maxPlanRows), nil)
		return
	}
	settings, err := h.deps.settingsFor(req.Setup)
	if err != nil {
		respondSetupError(c, err)
		return
	}

	plan, err := strategy.PlanSmartShift(req.Data, settings, strategy.PlanParams{ChargeSteps: req.ChargeSteps})
	if err != nil {
		respondError(c, http.StatusBadRequest, "PLAN_ERROR", err, nil)
		return
	}
	rep, err := h.deps.calculator(settings).Evaluate(req.Data, plan.Intervals, strategy.KindSmartShift)
	if err != nil {
		respondEvalError(c, h.deps.Log, err)
		return
	}

	intervals := plan.Intervals
	if intervals == nil {
		intervals = []model.Interval{}
	}
	c.JSON(http.StatusOK, models.PlanResponse{
		Intervals:    intervals,
		ExpectedCost: plan.ExpectedCost,
		BaselineCost: rep.Baseline.TotalCost,
		StrategyCost: rep.Result.TotalCost,
		Savings:      rep.Savings,
	})
}
