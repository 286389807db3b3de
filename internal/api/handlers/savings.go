package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"battery-savings/internal/analysis"
	"battery-savings/internal/api/models"
	"battery-savings/internal/savings"
)

// SavingsHandler handles savings evaluations over a day given in the request
type SavingsHandler struct {
	deps *Deps
}

// NewSavingsHandler creates a new savings handler
func NewSavingsHandler(deps *Deps) *SavingsHandler {
	return &SavingsHandler{deps: deps}
}

// Calculate handles POST /api/v1/savings
func (h *SavingsHandler) Calculate(c *gin.Context) {
	var req models.SavingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err, nil)
		return
	}
	settings, err := h.deps.settingsFor(req.Setup)
	if err != nil {
		respondSetupError(c, err)
		return
	}

	rep, err := h.deps.calculator(settings).EvaluateByName(req.Data, req.Intervals, req.Strategy)
	if err != nil {
		respondEvalError(c, h.deps.Log, err)
		return
	}

	ledger := convertLedger(rep.Result.Ledger)
	id := h.deps.Results.Put(rep.Kind.String(), ledger)
	h.deps.Log.Infof("savings %s: strategy=%s rows=%d savings=%.2f", id, rep.Kind, len(req.Data), rep.Savings)

	resp := models.SavingsResponse{
		ID:           id,
		Strategy:     rep.Kind.String(),
		BaselineCost: rep.Baseline.TotalCost,
		StrategyCost: rep.Result.TotalCost,
		Savings:      rep.Savings,
		Summary:      buildSummary(rep, settings.Battery.CapacityKWh),
	}
	if req.IncludeLedger {
		resp.Ledger = ledger
	}
	c.JSON(http.StatusOK, resp)
}

// GetLedger handles GET /api/v1/savings/:id/ledger
func (h *SavingsHandler) GetLedger(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", fmt.Errorf("invalid id %q", id), nil)
		return
	}
	res, ok := h.deps.Results.Get(id)
	if !ok {
		respondError(c, http.StatusNotFound, "NOT_FOUND", fmt.Errorf("no stored result %s", id), nil)
		return
	}
	c.JSON(http.StatusOK, models.LedgerResponse{ID: res.ID, Strategy: res.Strategy, Ledger: res.Ledger})
}

// Compare handles POST /api/v1/savings/compare
func (h *SavingsHandler) Compare(c *gin.Context) {
	var req models.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err, nil)
		return
	}
	settings, err := h.deps.settingsFor(req.Setup)
	if err != nil {
		respondSetupError(c, err)
		return
	}

	ranked, err := analysis.RankStrategies(h.deps.calculator(settings), req.Data, req.Intervals)
	if err != nil {
		respondEvalError(c, h.deps.Log, err)
		return
	}

	resp := models.CompareResponse{
		Comparison: make([]models.ComparisonResult, 0, len(ranked)),
		Profile:    analysis.Profile(req.Data),
	}
	for i, r := range ranked {
		resp.Comparison = append(resp.Comparison, models.ComparisonResult{
			Rank:         i + 1,
			Strategy:     r.Strategy.String(),
			BaselineCost: r.BaselineCost,
			StrategyCost: r.StrategyCost,
			Savings:      r.Savings,
		})
	}
	c.JSON(http.StatusOK, resp)
}

func buildSummary(rep *savings.Report, capacityKWh float64) models.SavingsSummary {
	t := rep.Result.Totals
	s := models.SavingsSummary{
		Rows:           len(rep.Result.Ledger),
		FinalChargeKWh: rep.Result.FinalChargeKWh,
		FromGridKWh:    t.FromGridKWh,
		ToGridKWh:      t.ToGridKWh,
		ChargedKWh:     t.ChargedKWh,
		DischargedKWh:  t.DischargedKWh,
		CurtailedKWh:   t.CurtailedKWh,
		ExportCredit:   t.ExportCredit,
	}
	if capacityKWh > 0 {
		s.FinalSOC = rep.Result.FinalChargeKWh / capacityKWh
	}
	return s
}
