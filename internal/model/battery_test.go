package model

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaultParams = BatteryParams{CapacityKWh: 10, Efficiency: 0.9, MaxPowerKW: 5}

func TestNewBatteryStartsHalfFull(t *testing.T) {
	b := NewBattery(defaultParams, 0.25)
	assert.InDelta(t, 5, b.State.Charge, 1e-12)
	assert.InDelta(t, 0.5, b.SOC(), 1e-12)
	assert.InDelta(t, 1.25, b.PowerCapKWh(), 1e-12)
}

func TestAddEnergyCaps(t *testing.T) {
	cases := []struct {
		name      string
		charge    float64
		request   float64
		accepted  float64
		endCharge float64
	}{
		{"request binds", 5, 0.5, 0.5, 5.45},
		{"power cap binds", 5, 3, 1.25, 6.125},
		{"headroom binds", 9.5, 3, 0.5 / 0.9, 10},
		{"full battery", 10, 1, 0, 10},
		{"zero request", 5, 0, 0, 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := NewBattery(defaultParams, 0.25)
			b.State.Charge = tc.charge
			got := b.AddEnergy(tc.request)
			assert.InDelta(t, tc.accepted, got, 1e-9)
			assert.InDelta(t, tc.endCharge, b.State.Charge, 1e-9)
		})
	}
}

func TestTakeEnergyCaps(t *testing.T) {
	cases := []struct {
		name      string
		charge    float64
		request   float64
		delivered float64
		endCharge float64
	}{
		{"request binds", 5, 0.9, 0.9, 4},
		{"power cap binds", 5, 2, 1.25, 5 - 1.25/0.9},
		{"available binds", 0.5, 2, 0.45, 0},
		{"empty battery", 0, 1, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := NewBattery(defaultParams, 0.25)
			b.State.Charge = tc.charge
			got := b.TakeEnergy(tc.request)
			assert.InDelta(t, tc.delivered, got, 1e-9)
			assert.InDelta(t, tc.endCharge, b.State.Charge, 1e-9)
		})
	}
}

func TestBatteryStaysWithinBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for run := 0; run < 50; run++ {
		params := BatteryParams{
			CapacityKWh: 1 + rng.Float64()*20,
			Efficiency:  0.5 + rng.Float64()*0.5,
			MaxPowerKW:  0.5 + rng.Float64()*10,
		}
		b := NewBattery(params, 0.25)
		for i := 0; i < 500; i++ {
			amount := rng.Float64() * 5
			if rng.Intn(2) == 0 {
				b.AddEnergy(amount)
			} else {
				b.TakeEnergy(amount)
			}
			require.GreaterOrEqual(t, b.State.Charge, 0.0)
			require.LessOrEqual(t, b.State.Charge, params.CapacityKWh)
		}
	}
}

func TestRoundTripLoss(t *testing.T) {
	for _, x := range []float64{0.1, 0.5, 1, 1.25} {
		b := NewBattery(defaultParams, 0.25)
		b.State.Charge = 0
		in := b.AddEnergy(x)
		require.InDelta(t, x, in, 1e-12)
		out := b.TakeEnergy(x)
		assert.LessOrEqual(t, out, x*0.9*0.9+1e-12)
		assert.InDelta(t, x*0.81, out, 1e-9)
	}
}

func TestBatteryParamsValidate(t *testing.T) {
	require.NoError(t, defaultParams.Validate())

	bad := []BatteryParams{
		{CapacityKWh: 0, Efficiency: 0.9, MaxPowerKW: 5},
		{CapacityKWh: 10, Efficiency: 0, MaxPowerKW: 5},
		{CapacityKWh: 10, Efficiency: 1.1, MaxPowerKW: 5},
		{CapacityKWh: 10, Efficiency: 0.9, MaxPowerKW: -1},
	}
	for _, p := range bad {
		assert.Error(t, p.Validate(), "%+v", p)
	}
}
