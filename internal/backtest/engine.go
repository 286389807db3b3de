package backtest

import (
	"fmt"

	"battery-savings/internal/model"
	"battery-savings/internal/money"
	"battery-savings/internal/strategy"
)

type Engine struct {
	Settings model.Settings
}

func New(settings model.Settings) *Engine { return &Engine{Settings: settings} }

// Run evaluates strat over a single day of rows in order. A fresh battery is
// created for strategies that use one and discarded afterwards. An empty
// series costs nothing.
func (e *Engine) Run(rows []model.DataRow, strat strategy.Strategy) (*Result, error) {
	if strat == nil {
		return nil, fmt.Errorf("strategy is nil")
	}

	var batt *model.Battery
	if strat.UsesBattery() {
		batt = model.NewBattery(e.Settings.Battery, e.Settings.Period(len(rows)))
	}

	ledger := make([]LedgerRow, 0, len(rows))
	var totals Totals
	cum := 0.0

	for idx, r := range rows {
		chargeStart := chargeOf(batt)
		flow := strat.Step(strategy.Context{
			Index:   idx,
			Row:     r,
			Battery: batt,
		})

		cost := money.RowCost(flow.FromGridKWh, flow.ToGridKWh, r.PriceEURPerKWh, e.Settings.ExportFactor)
		cum += cost

		totals.ConsumptionKWh += r.ConsumptionKWh
		totals.PVProductionKWh += r.PVProductionKWh
		totals.FromGridKWh += flow.FromGridKWh
		totals.ToGridKWh += flow.ToGridKWh
		totals.ChargedKWh += flow.ChargedKWh
		totals.DischargedKWh += flow.DischargedKWh
		totals.CurtailedKWh += flow.CurtailedKWh
		totals.ExportCredit += flow.ToGridKWh * r.PriceEURPerKWh * e.Settings.ExportFactor

		ledger = append(ledger, LedgerRow{
			Index: idx,

			Time:  r.Time,
			Price: r.PriceEURPerKWh,

			ConsumptionKWh:  r.ConsumptionKWh,
			PVProductionKWh: r.PVProductionKWh,

			Action: flow.Action,

			FromGridKWh: flow.FromGridKWh,
			ToGridKWh:   flow.ToGridKWh,

			ChargedKWh:    flow.ChargedKWh,
			DischargedKWh: flow.DischargedKWh,
			CurtailedKWh:  flow.CurtailedKWh,

			ChargeStartKWh: chargeStart,
			ChargeEndKWh:   chargeOf(batt),

			Cost:    cost,
			CumCost: cum,
		})
	}

	return &Result{
		Strategy:       strat.Name(),
		Ledger:         ledger,
		Totals:         totals,
		TotalCost:      money.RoundCents(cum),
		RawCost:        cum,
		FinalChargeKWh: chargeOf(batt),
	}, nil
}

func chargeOf(b *model.Battery) float64 {
	if b == nil {
		return 0
	}
	return b.State.Charge
}
