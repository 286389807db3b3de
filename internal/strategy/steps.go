package strategy

import (
	"math"

	"battery-savings/internal/model"
)

// solarFirst lets solar serve the load and returns the unmet load and the
// solar left over.
func solarFirst(row model.DataRow) (unmet, surplus float64) {
	used := math.Min(row.PVProductionKWh, row.ConsumptionKWh)
	return row.ConsumptionKWh - used, row.PVProductionKWh - used
}

// chargeFromGrid buys the unmet load plus whatever the battery accepts of probe.
// Leftover solar is exported when export is set and curtailed otherwise.
func chargeFromGrid(row model.DataRow, b *model.Battery, probe float64, export bool) Flow {
	unmet, surplus := solarFirst(row)
	charged := b.AddEnergy(probe)
	f := Flow{
		Action:      model.ActionChargeFromGrid,
		FromGridKWh: unmet + charged,
		ChargedKWh:  charged,
	}
	if export {
		f.ToGridKWh = surplus
	} else {
		f.CurtailedKWh = surplus
	}
	return f
}

// selfConsume stores surplus solar, then covers unmet load from the battery.
// Nothing is exported.
func selfConsume(row model.DataRow, b *model.Battery) Flow {
	unmet, surplus := solarFirst(row)
	charged := b.AddEnergy(surplus)
	discharged := b.TakeEnergy(unmet)
	return Flow{
		Action:        model.ActionSelfConsumption,
		FromGridKWh:   unmet - discharged,
		ChargedKWh:    charged,
		DischargedKWh: discharged,
		CurtailedKWh:  surplus - charged,
	}
}

// dischargeToGrid sells up to probe from the battery together with leftover solar.
func dischargeToGrid(row model.DataRow, b *model.Battery, probe float64) Flow {
	unmet, surplus := solarFirst(row)
	discharged := b.TakeEnergy(probe)
	return Flow{
		Action:        model.ActionDischargeToGrid,
		FromGridKWh:   unmet,
		ToGridKWh:     discharged + surplus,
		DischargedKWh: discharged,
	}
}

func idle(row model.DataRow) Flow {
	unmet, surplus := solarFirst(row)
	return Flow{
		Action:      model.ActionIdle,
		FromGridKWh: unmet,
		ToGridKWh:   surplus,
	}
}
