package model

import (
	"errors"
	"fmt"
)

// Settings carries every tunable constant of an evaluation. Nothing in the
// engines reads package-level configuration, so differently configured
// evaluations never interfere.
type Settings struct {
	Battery BatteryParams

	// PeriodHours is the fraction of an hour one row spans (0.25 for 15-minute rows).
	// Zero derives it from the row count, assuming the rows cover one day.
	PeriodHours float64

	// ExportFactor is the share of the buy price credited for exported energy.
	ExportFactor float64

	// ProbeKWh is what the scheduled strategies try to move per row while an
	// active charge/discharge action is in force. Zero ties it to the battery's
	// per-period power cap.
	ProbeKWh float64
}

// DefaultSettings mirrors a 10 kWh / 5 kW home battery on 15-minute data.
func DefaultSettings() Settings {
	return Settings{
		Battery: BatteryParams{
			CapacityKWh: 10,
			Efficiency:  0.9,
			MaxPowerKW:  5,
		},
		PeriodHours:  0.25,
		ExportFactor: 0.7,
	}
}

// Period resolves the period length in hours for a series of n rows.
func (s Settings) Period(n int) float64 {
	if s.PeriodHours > 0 {
		return s.PeriodHours
	}
	if n <= 0 {
		return 0
	}
	return 24 / float64(n)
}

// Probe resolves the probe amount for the given period length.
func (s Settings) Probe(periodHours float64) float64 {
	if s.ProbeKWh > 0 {
		return s.ProbeKWh
	}
	return s.Battery.MaxPowerKW * periodHours
}

func (s Settings) Validate() error {
	if err := s.Battery.Validate(); err != nil {
		return fmt.Errorf("battery: %w", err)
	}
	if s.PeriodHours < 0 || s.PeriodHours > 24 {
		return errors.New("PeriodHours must be within [0, 24]")
	}
	if s.ExportFactor < 0 {
		return errors.New("ExportFactor must be >= 0")
	}
	if s.ProbeKWh < 0 {
		return errors.New("ProbeKWh must be >= 0")
	}
	return nil
}
