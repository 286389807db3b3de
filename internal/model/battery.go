package model

import (
	"errors"
	"math"
)

// BatteryParams defines the physical parameters of the home battery.
// Units:
// - CapacityKWh: kWh
// - MaxPowerKW: kW, applied symmetrically to charge and discharge
// - Efficiency: (0, 1], applied as a one-way loss on every charge and every discharge
type BatteryParams struct {
	CapacityKWh float64
	Efficiency  float64
	MaxPowerKW  float64
}

func (p BatteryParams) Validate() error {
	if p.CapacityKWh <= 0 {
		return errors.New("CapacityKWh must be > 0")
	}
	if p.Efficiency <= 0 || p.Efficiency > 1 {
		return errors.New("Efficiency must be in (0, 1]")
	}
	if p.MaxPowerKW <= 0 {
		return errors.New("MaxPowerKW must be > 0")
	}
	return nil
}

// BatteryState captures mutable state.
type BatteryState struct {
	// Charge is the stored energy in kWh, within [0, CapacityKWh].
	Charge float64
}

// Battery bundles params + state for a single evaluation. It starts half full
// and is never shared between evaluations.
type Battery struct {
	Params BatteryParams
	State  BatteryState

	periodHours float64
}

// NewBattery returns a battery at 50% charge whose per-call power cap is
// MaxPowerKW × periodHours.
func NewBattery(params BatteryParams, periodHours float64) *Battery {
	return &Battery{
		Params:      params,
		State:       BatteryState{Charge: params.CapacityKWh / 2},
		periodHours: periodHours,
	}
}

// PowerCapKWh is the most energy one call may move in either direction.
func (b *Battery) PowerCapKWh() float64 {
	return b.Params.MaxPowerKW * b.periodHours
}

// SOC returns the state of charge as a fraction [0,1].
func (b *Battery) SOC() float64 {
	return b.State.Charge / b.Params.CapacityKWh
}

// AddEnergy charges the battery with up to requestedKWh drawn from a source
// and returns the amount actually drawn, before efficiency loss. The stored
// energy grows by the returned amount × Efficiency.
//
// requestedKWh must be a non-negative number; other inputs yield undefined results.
func (b *Battery) AddEnergy(requestedKWh float64) float64 {
	headroom := (b.Params.CapacityKWh - b.State.Charge) / b.Params.Efficiency
	accepted := math.Min(requestedKWh, math.Min(headroom, b.PowerCapKWh()))
	if accepted < 0 {
		accepted = 0
	}
	b.setCharge(b.State.Charge + accepted*b.Params.Efficiency)
	return accepted
}

// TakeEnergy discharges up to requestedKWh and returns the amount delivered to
// the load or grid, after efficiency loss. The stored energy shrinks by the
// returned amount / Efficiency.
//
// requestedKWh must be a non-negative number; other inputs yield undefined results.
func (b *Battery) TakeEnergy(requestedKWh float64) float64 {
	available := b.State.Charge * b.Params.Efficiency
	delivered := math.Min(requestedKWh, math.Min(available, b.PowerCapKWh()))
	if delivered < 0 {
		delivered = 0
	}
	b.setCharge(b.State.Charge - delivered/b.Params.Efficiency)
	return delivered
}

// setCharge clamps numeric drift into [0, capacity].
func (b *Battery) setCharge(kwh float64) {
	switch {
	case kwh < 0:
		kwh = 0
	case kwh > b.Params.CapacityKWh:
		kwh = b.Params.CapacityKWh
	}
	b.State.Charge = kwh
}
