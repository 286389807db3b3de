package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"battery-savings/internal/analysis"
	"battery-savings/internal/api/models"
	"battery-savings/internal/backtest"
	"battery-savings/internal/model"
	"battery-savings/internal/money"
	"battery-savings/internal/strategy"
)

// InsightsHandler evaluates schedules against the configured day (database,
// file or synthetic).
type InsightsHandler struct {
	deps *Deps
	now  func() time.Time
}

// NewInsightsHandler creates a new insights handler
func NewInsightsHandler(deps *Deps) *InsightsHandler {
	return &InsightsHandler{deps: deps, now: time.Now}
}

func (h *InsightsHandler) loadDay(c *gin.Context) ([]model.DataRow, bool) {
	rows, err := h.deps.Day.LoadDay(c.Request.Context())
	if err != nil {
		h.deps.Log.Errorf("load day: %v", err)
		respondError(c, http.StatusBadGateway, "DATA_UNAVAILABLE", errors.New("unable to load the day's data"), nil)
		return nil, false
	}
	return rows, true
}

// Insights handles POST /api/v1/insights
func (h *InsightsHandler) Insights(c *gin.Context) {
	var req models.InsightsRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err, nil)
		return
	}
	if req.Strategy == "" {
		req.Strategy = strategy.KindSmartShift.String()
	}
	if req.Intervals == nil {
		req.Intervals = []model.Interval{}
	}
	if req.Devices == nil {
		req.Devices = []string{}
	}

	rows, ok := h.loadDay(c)
	if !ok {
		return
	}
	settings := h.deps.Config.Settings()
	rep, err := h.deps.calculator(settings).EvaluateByName(rows, req.Intervals, req.Strategy)
	if err != nil {
		respondEvalError(c, h.deps.Log, err)
		return
	}

	importReduction := rep.Baseline.Totals.FromGridKWh - rep.Result.Totals.FromGridKWh
	c.JSON(http.StatusOK, models.InsightsResponse{
		Success:          true,
		Strategy:         rep.Kind.String(),
		EstimatedSavings: rep.Savings,
		EnergyUsed:       money.Round(rep.Result.Totals.FromGridKWh, 3),
		CO2Avoided:       money.Round(importReduction*h.deps.Config.Insights.CO2KgPerKWh, 3),
		AppliedAt:        h.now().UTC(),
		Intervals:        req.Intervals,
		Devices:          req.Devices,
	})
}

// StrategyEvaluation handles GET /api/v1/strategy_evaluation
func (h *InsightsHandler) StrategyEvaluation(c *gin.Context) {
	rows, ok := h.loadDay(c)
	if !ok {
		return
	}
	settings := h.deps.Config.Settings()
	base, err := backtest.New(settings).Run(rows, strategy.Baseline{})
	if err != nil {
		respondEvalError(c, h.deps.Log, err)
		return
	}
	batt := model.NewBattery(settings.Battery, settings.Period(len(rows)))

	c.JSON(http.StatusOK, models.StrategyEvaluationResponse{
		EstimatedCost:    base.TotalCost,
		GridExportIncome: money.RoundCents(base.Totals.ExportCredit),
		BatterySOC:       money.Round(batt.SOC()*100, 1),
		Profile:          analysis.Profile(rows),
	})
}

// LoadProfile handles GET /api/v1/load_profile
func (h *InsightsHandler) LoadProfile(c *gin.Context) {
	rows, ok := h.loadDay(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, models.LoadProfileResponse{Count: len(rows), Rows: rows})
}
