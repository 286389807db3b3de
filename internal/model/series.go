package model

// DataRow is one sampling period of the day being evaluated.
// Units: energy in kWh for the period, price in EUR/kWh.
type DataRow struct {
	Time            ClockTime `json:"time" yaml:"time"`
	ConsumptionKWh  float64   `json:"consumption_kwh" yaml:"consumption_kwh"`
	PVProductionKWh float64   `json:"pv_production_kwh" yaml:"pv_production_kwh"`
	PriceEURPerKWh  float64   `json:"price_eur_per_kwh" yaml:"price_eur_per_kwh"`
}

// Interval applies Action during the half-open window [Start, End).
// Windows do not wrap across midnight: Start >= End never matches.
type Interval struct {
	Start  ClockTime `json:"start" yaml:"start"`
	End    ClockTime `json:"end" yaml:"end"`
	Action Action    `json:"action" yaml:"action"`
}

// Contains reports whether t falls inside the interval.
func (i Interval) Contains(t ClockTime) bool {
	return i.Start <= t && t < i.End
}
