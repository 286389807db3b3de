package strategy

import "battery-savings/internal/model"

// PeakShaving charges hard in charge windows without exporting and sells the
// battery plus surplus solar in discharge windows. Every other action,
// self_consumption included, runs as idle.
type PeakShaving struct {
	Intervals []model.Interval
	ProbeKWh  float64
}

func (p *PeakShaving) Name() string      { return KindPeak.String() }
func (p *PeakShaving) UsesBattery() bool { return true }

func (p *PeakShaving) Step(ctx Context) Flow {
	switch Resolve(ctx.Row.Time, p.Intervals) {
	case model.ActionChargeFromGrid:
		return chargeFromGrid(ctx.Row, ctx.Battery, p.ProbeKWh, false)
	case model.ActionDischargeToGrid:
		return dischargeToGrid(ctx.Row, ctx.Battery, p.ProbeKWh)
	case model.ActionIdle, model.ActionSelfConsumption:
		return idle(ctx.Row)
	default:
		return idle(ctx.Row)
	}
}
