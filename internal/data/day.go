package data

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"battery-savings/internal/model"
)

// SlotsPerDay is the number of quarter-hour rows in a day.
const SlotsPerDay = 96

// Unit is the unit of the stored load profile.
type Unit string

const (
	UnitWh  Unit = "wh"
	UnitKWh Unit = "kwh"
)

func (u Unit) factor() (float64, error) {
	switch u {
	case UnitWh, "":
		return 0.001, nil
	case UnitKWh:
		return 1, nil
	default:
		return 0, fmt.Errorf("unknown load profile unit %q", string(u))
	}
}

type BuildOptions struct {
	// LoadUnit defaults to Wh.
	LoadUnit Unit
	// PVScale multiplies the synthetic PV curve. Zero disables PV.
	PVScale float64
}

func DefaultBuildOptions() BuildOptions {
	return BuildOptions{LoadUnit: UnitWh, PVScale: 1}
}

// PVCurve is the synthetic clear-sky production of slot i, in kWh.
func PVCurve(i int) float64 {
	if i <= 0 || i >= SlotsPerDay {
		return 0
	}
	return 3 * float64(i) * float64(SlotsPerDay-i) / 100000
}

// BuildDay zips the load profile and prices into at most SlotsPerDay
// quarter-hour rows starting at 00:00.
func BuildDay(load, prices []float64, opts BuildOptions) ([]model.DataRow, error) {
	f, err := opts.LoadUnit.factor()
	if err != nil {
		return nil, err
	}
	n := min(len(load), len(prices), SlotsPerDay)
	step := model.MinutesPerDay / SlotsPerDay
	rows := make([]model.DataRow, n)
	for i := range rows {
		rows[i] = model.DataRow{
			Time:            model.ClockTime(i * step),
			ConsumptionKWh:  load[i] * f,
			PVProductionKWh: opts.PVScale * PVCurve(i),
			PriceEURPerKWh:  prices[i],
		}
	}
	return rows, nil
}

// DayLoader produces the rows of the day to evaluate.
type DayLoader interface {
	LoadDay(ctx context.Context) ([]model.DataRow, error)
}

// StoreDay builds the day from a Store.
type StoreDay struct {
	Store   *Store
	Options BuildOptions
}

func (d StoreDay) LoadDay(ctx context.Context) ([]model.DataRow, error) {
	load, err := d.Store.LoadProfile(ctx)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	prices, err := d.Store.Prices(ctx)
	if err != nil {
		return nil, fmt.Errorf("prices: %w", err)
	}
	return BuildDay(load, prices, d.Options)
}

// FileDay reads the day from a JSON day file.
type FileDay struct {
	Path string
}

func (d FileDay) LoadDay(context.Context) ([]model.DataRow, error) {
	f, err := LoadDayJSON(d.Path)
	if err != nil {
		return nil, err
	}
	return f.Data, nil
}

// SyntheticDay generates a plausible household day: cheap night prices with
// a negative window at 02:00-05:00, an evening peak at 17:00-20:00 and a
// morning and evening consumption bump. The same seed yields the same day.
type SyntheticDay struct {
	Seed uint64
}

func (d SyntheticDay) LoadDay(context.Context) ([]model.DataRow, error) {
	load, prices := d.Slots()
	return BuildDay(load, prices, BuildOptions{LoadUnit: UnitWh, PVScale: 4})
}

// Slots returns the raw load profile in Wh and the prices in EUR/kWh.
func (d SyntheticDay) Slots() (load, prices []float64) {
	r := rand.New(rand.NewPCG(d.Seed, d.Seed^0x9e3779b97f4a7c15))
	load = make([]float64, SlotsPerDay)
	prices = make([]float64, SlotsPerDay)
	for i := range SlotsPerDay {
		hour := float64(i) / 4

		wh := 90 + 40*r.Float64()
		wh += 250 * math.Exp(-math.Pow(hour-7.5, 2)/2)
		wh += 400 * math.Exp(-math.Pow(hour-19, 2)/3)
		load[i] = math.Round(wh)

		p := 0.22 + 0.04*r.Float64()
		switch {
		case hour >= 2 && hour < 5:
			p = -0.02 - 0.03*r.Float64()
		case hour < 6:
			p = 0.10 + 0.03*r.Float64()
		case hour >= 17 && hour < 20:
			p = 0.42 + 0.08*r.Float64()
		}
		prices[i] = math.Round(p*10000) / 10000
	}
	return load, prices
}
