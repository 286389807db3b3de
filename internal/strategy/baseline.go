package strategy

import "math"

// Baseline is the household without a battery: solar serves the load, the
// grid covers the rest and takes any surplus.
type Baseline struct{}

func (Baseline) Name() string      { return "baseline" }
func (Baseline) UsesBattery() bool { return false }

func (Baseline) Step(ctx Context) Flow {
	c, s := ctx.Row.ConsumptionKWh, ctx.Row.PVProductionKWh
	return Flow{
		FromGridKWh: math.Max(0, c-s),
		ToGridKWh:   math.Max(0, s-c),
	}
}
