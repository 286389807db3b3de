package models

import (
	"time"

	"battery-savings/internal/analysis"
	"battery-savings/internal/model"
)

// SavingsResponse represents the response from a savings evaluation
type SavingsResponse struct {
	ID           string         `json:"id"`
	Strategy     string         `json:"strategy"`
	BaselineCost float64        `json:"baseline_cost"`
	StrategyCost float64        `json:"strategy_cost"`
	Savings      float64        `json:"savings"`
	Summary      SavingsSummary `json:"summary"`
	Ledger       []LedgerRow    `json:"ledger,omitempty"`
}

// SavingsSummary contains the strategy's aggregated energy flows
type SavingsSummary struct {
	Rows           int     `json:"rows"`
	FinalChargeKWh float64 `json:"final_charge_kwh"`
	FinalSOC       float64 `json:"final_soc"`
	FromGridKWh    float64 `json:"from_grid_kwh"`
	ToGridKWh      float64 `json:"to_grid_kwh"`
	ChargedKWh     float64 `json:"charged_kwh"`
	DischargedKWh  float64 `json:"discharged_kwh"`
	CurtailedKWh   float64 `json:"curtailed_kwh"`
	ExportCredit   float64 `json:"export_credit"`
}

// LedgerRow represents one period in the evaluation ledger
type LedgerRow struct {
	Index           int             `json:"index"`
	Time            model.ClockTime `json:"time"`
	Price           float64         `json:"price_eur_per_kwh"`
	ConsumptionKWh  float64         `json:"consumption_kwh"`
	PVProductionKWh float64         `json:"pv_production_kwh"`
	Action          model.Action    `json:"action"`
	FromGridKWh     float64         `json:"from_grid_kwh"`
	ToGridKWh       float64         `json:"to_grid_kwh"`
	ChargedKWh      float64         `json:"charged_kwh"`
	DischargedKWh   float64         `json:"discharged_kwh"`
	CurtailedKWh    float64         `json:"curtailed_kwh"`
	ChargeStartKWh  float64         `json:"charge_start_kwh"`
	ChargeEndKWh    float64         `json:"charge_end_kwh"`
	Cost            float64         `json:"cost"`
	CumCost         float64         `json:"cum_cost"`
}

// LedgerResponse is a stored ledger looked up by evaluation id
type LedgerResponse struct {
	ID       string      `json:"id"`
	Strategy string      `json:"strategy"`
	Ledger   []LedgerRow `json:"ledger"`
}

// CompareResponse represents the response from a comparison
type CompareResponse struct {
	Comparison []ComparisonResult  `json:"comparison"`
	Profile    analysis.DayProfile `json:"profile"`
}

// ComparisonResult contains results for one strategy
type ComparisonResult struct {
	Rank         int     `json:"rank"`
	Strategy     string  `json:"strategy"`
	BaselineCost float64 `json:"baseline_cost"`
	StrategyCost float64 `json:"strategy_cost"`
	Savings      float64 `json:"savings"`
}

// PlanResponse carries a planned schedule and what it saves when replayed
type PlanResponse struct {
	Intervals    []model.Interval `json:"intervals"`
	ExpectedCost float64          `json:"expected_cost"`
	BaselineCost float64          `json:"baseline_cost"`
	StrategyCost float64          `json:"strategy_cost"`
	Savings      float64          `json:"savings"`
}

// InsightsResponse is the answer to applying a schedule to the stored day
type InsightsResponse struct {
	Success          bool             `json:"success"`
	Strategy         string           `json:"strategy"`
	EstimatedSavings float64          `json:"estimatedSavings"`
	EnergyUsed       float64          `json:"energyUsed"`
	CO2Avoided       float64          `json:"co2Avoided"`
	AppliedAt        time.Time        `json:"appliedAt"`
	Intervals        []model.Interval `json:"intervals"`
	Devices          []string         `json:"devices"`
}

// StrategyEvaluationResponse summarises the stored day without a battery
type StrategyEvaluationResponse struct {
	EstimatedCost    float64             `json:"estimatedCost"`
	GridExportIncome float64             `json:"gridExportIncome"`
	BatterySOC       float64             `json:"batterySoc"`
	Profile          analysis.DayProfile `json:"profile"`
}

// LoadProfileResponse lists the stored day's rows
type LoadProfileResponse struct {
	Count int             `json:"count"`
	Rows  []model.DataRow `json:"rows"`
}

// BatteryInfo represents information about a battery preset
type BatteryInfo struct {
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	Specs BatterySpecs `json:"specs"`
}

// BatterySpecs contains battery specifications
type BatterySpecs struct {
	CapacityKWh float64 `json:"capacity_kwh"`
	Efficiency  float64 `json:"efficiency"`
	MaxPowerKW  float64 `json:"max_power_kw"`
}

// StrategyInfo represents information about a strategy
type StrategyInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  []ParameterInfo `json:"parameters"`
}

// ParameterInfo describes a strategy parameter
type ParameterInfo struct {
	Name        string `json:"name"`
	Type        string `json:"type"` // "float", "int", "string", "intervals"
	Description string `json:"description"`
	Default     any    `json:"default,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
