package models

import (
	"battery-savings/internal/config"
	"battery-savings/internal/model"
)

// SavingsRequest represents the request body for a savings evaluation
type SavingsRequest struct {
	Data      []model.DataRow  `json:"data"`
	Intervals []model.Interval `json:"intervals,omitempty"`
	Strategy  string           `json:"strategy" binding:"required"`
	Setup
	IncludeLedger bool `json:"include_ledger,omitempty"` // default: false
}

// Setup selects the battery and engine constants for one request. Anything
// left out falls back to the server configuration.
type Setup struct {
	// BatteryID names a preset from the battery directory (file name without .yaml).
	BatteryID string                `json:"battery_id,omitempty"`
	Battery   *config.BatteryConfig `json:"battery,omitempty"`
	Engine    *EngineOverrides      `json:"engine,omitempty"`
}

// EngineOverrides replaces individual engine constants
type EngineOverrides struct {
	PeriodHours  *float64 `json:"period_hours,omitempty"`
	ExportFactor *float64 `json:"export_factor,omitempty"`
	ProbeKWh     *float64 `json:"probe_kwh,omitempty"`
}

// CompareRequest evaluates every strategy over the same day
type CompareRequest struct {
	Data      []model.DataRow  `json:"data"`
	Intervals []model.Interval `json:"intervals,omitempty"`
	Setup
}

// PlanRequest asks for the cheapest SmartShift schedule of a day
type PlanRequest struct {
	Data        []model.DataRow `json:"data" binding:"required"`
	ChargeSteps int             `json:"charge_steps,omitempty"` // default: 200
	Setup
}

// InsightsRequest evaluates a schedule against the stored day
type InsightsRequest struct {
	Intervals []model.Interval `json:"intervals"`
	Devices   []string         `json:"devices"`
	Strategy  string           `json:"strategy,omitempty"` // default: smartshift
}
