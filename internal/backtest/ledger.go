package backtest

import "battery-savings/internal/model"

// LedgerRow is one row of per-period output.
// This is the primary artifact for "what happened" in an evaluation.
type LedgerRow struct {
	Index int

	Time  model.ClockTime
	Price float64

	ConsumptionKWh  float64
	PVProductionKWh float64

	Action model.Action

	FromGridKWh float64
	ToGridKWh   float64

	ChargedKWh    float64
	DischargedKWh float64
	CurtailedKWh  float64

	ChargeStartKWh float64
	ChargeEndKWh   float64

	Cost    float64
	CumCost float64
}

// Totals sums the energy columns of a ledger.
type Totals struct {
	ConsumptionKWh  float64
	PVProductionKWh float64
	FromGridKWh     float64
	ToGridKWh       float64
	ChargedKWh      float64
	DischargedKWh   float64
	CurtailedKWh    float64
	// ExportCredit is the money credited for exported energy, in EUR.
	ExportCredit float64
}

type Result struct {
	Strategy string
	Ledger   []LedgerRow
	Totals   Totals

	// TotalCost is the day's cost rounded to cents; RawCost is the unrounded sum.
	TotalCost float64
	RawCost   float64

	FinalChargeKWh float64
}
