package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"battery-savings/internal/api/models"
	"battery-savings/internal/backtest"
	"battery-savings/internal/config"
	"battery-savings/internal/data"
	"battery-savings/internal/logger"
	"battery-savings/internal/model"
	"battery-savings/internal/savings"
	"battery-savings/internal/strategy"
)

// Deps is what the handlers share. Config is read-only after start-up.
type Deps struct {
	Config    *config.Config
	Day       data.DayLoader
	Batteries *BatteryCatalog
	Results   *ResultStore
	Recorder  savings.Recorder
	Log       logger.Logger
}

// settingsFor resolves the battery and engine constants of one request on
// top of the server configuration.
func (d *Deps) settingsFor(s models.Setup) (model.Settings, error) {
	b := d.Config.Battery
	if s.BatteryID != "" {
		preset, err := d.Batteries.Load(s.BatteryID)
		if err != nil {
			return model.Settings{}, err
		}
		b = config.MergeBattery(b, preset.Battery)
	}
	if s.Battery != nil {
		b = config.MergeBattery(b, *s.Battery)
	}

	settings := d.Config.Settings()
	settings.Battery = b.ToModelParams()
	if e := s.Engine; e != nil {
		if e.PeriodHours != nil {
			settings.PeriodHours = *e.PeriodHours
		}
		if e.ExportFactor != nil {
			settings.ExportFactor = *e.ExportFactor
		}
		if e.ProbeKWh != nil {
			settings.ProbeKWh = *e.ProbeKWh
		}
	}
	return settings, settings.Validate()
}

func (d *Deps) calculator(settings model.Settings) *savings.Calculator {
	return savings.New(settings, savings.WithLogger(d.Log), savings.WithRecorder(d.Recorder))
}

func respondError(c *gin.Context, status int, code string, err error, details map[string]any) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: err.Error(),
			Details: details,
		},
	})
}

// respondSetupError maps errors from settingsFor.
func respondSetupError(c *gin.Context, err error) {
	if errors.Is(err, ErrBatteryNotFound) {
		respondError(c, http.StatusNotFound, "BATTERY_NOT_FOUND", err, nil)
		return
	}
	respondError(c, http.StatusBadRequest, "INVALID_CONFIG", err, nil)
}

// respondEvalError maps errors from the savings calculator.
func respondEvalError(c *gin.Context, log logger.Logger, err error) {
	var unknown *strategy.UnknownStrategyError
	if errors.As(err, &unknown) {
		respondError(c, http.StatusBadRequest, "INVALID_STRATEGY", err, map[string]any{
			"strategy": unknown.Name,
			"allowed":  strategy.KindNames(),
		})
		return
	}
	log.Errorf("evaluation failed: %v", err)
	respondError(c, http.StatusInternalServerError, "EVALUATION_ERROR", err, nil)
}

func convertLedger(ledger []backtest.LedgerRow) []models.LedgerRow {
	out := make([]models.LedgerRow, len(ledger))
	for i, r := range ledger {
		out[i] = models.LedgerRow{
			Index:           r.Index,
			Time:            r.Time,
			Price:           r.Price,
			ConsumptionKWh:  r.ConsumptionKWh,
			PVProductionKWh: r.PVProductionKWh,
			Action:          r.Action,
			FromGridKWh:     r.FromGridKWh,
			ToGridKWh:       r.ToGridKWh,
			ChargedKWh:      r.ChargedKWh,
			DischargedKWh:   r.DischargedKWh,
			CurtailedKWh:    r.CurtailedKWh,
			ChargeStartKWh:  r.ChargeStartKWh,
			ChargeEndKWh:    r.ChargeEndKWh,
			Cost:            r.Cost,
			CumCost:         r.CumCost,
		}
	}
	return out
}
