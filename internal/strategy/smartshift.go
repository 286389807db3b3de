package strategy

import "battery-savings/internal/model"

// SmartShift follows a user-authored schedule with all four actions.
type SmartShift struct {
	Intervals []model.Interval
	ProbeKWh  float64
}

func (s *SmartShift) Name() string      { return KindSmartShift.String() }
func (s *SmartShift) UsesBattery() bool { return true }

func (s *SmartShift) Step(ctx Context) Flow {
	return smartShiftStep(Resolve(ctx.Row.Time, s.Intervals), ctx.Row, ctx.Battery, s.ProbeKWh)
}

func smartShiftStep(action model.Action, row model.DataRow, b *model.Battery, probe float64) Flow {
	switch action {
	case model.ActionChargeFromGrid:
		return chargeFromGrid(row, b, probe, true)
	case model.ActionSelfConsumption:
		return selfConsume(row, b)
	case model.ActionDischargeToGrid:
		return dischargeToGrid(row, b, probe)
	case model.ActionIdle:
		return idle(row)
	default:
		return idle(row)
	}
}
