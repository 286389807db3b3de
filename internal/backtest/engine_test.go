package backtest

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"battery-savings/internal/model"
	"battery-savings/internal/strategy"
)

func quarterHourDay(consumption, pv, price float64) []model.DataRow {
	rows := make([]model.DataRow, 96)
	for i := range rows {
		rows[i] = model.DataRow{
			Time:            model.ClockTime(i * 15),
			ConsumptionKWh:  consumption,
			PVProductionKWh: pv,
			PriceEURPerKWh:  price,
		}
	}
	return rows
}

func TestRunBaselineSingleRow(t *testing.T) {
	e := New(model.DefaultSettings())
	rows := []model.DataRow{{ConsumptionKWh: 2, PriceEURPerKWh: 0.30}}

	res, err := e.Run(rows, strategy.Baseline{})
	require.NoError(t, err)
	assert.Equal(t, 0.6, res.TotalCost)
	assert.Equal(t, "baseline", res.Strategy)
	require.Len(t, res.Ledger, 1)
	assert.InDelta(t, 2, res.Ledger[0].FromGridKWh, 1e-12)
	assert.Equal(t, 0.0, res.FinalChargeKWh)
}

func TestRunEcoSingleRow(t *testing.T) {
	e := New(model.DefaultSettings())
	rows := []model.DataRow{{ConsumptionKWh: 2, PriceEURPerKWh: 0.30}}

	res, err := e.Run(rows, strategy.Eco{})
	require.NoError(t, err)
	assert.Equal(t, 0.22, res.TotalCost)
	assert.InDelta(t, 0.225, res.RawCost, 1e-9)

	row := res.Ledger[0]
	assert.InDelta(t, 5, row.ChargeStartKWh, 1e-12)
	assert.InDelta(t, 5-1.25/0.9, row.ChargeEndKWh, 1e-9)
	assert.InDelta(t, 1.25, res.Totals.DischargedKWh, 1e-12)
}

func TestRunEmptySeries(t *testing.T) {
	e := New(model.DefaultSettings())
	for _, s := range []strategy.Strategy{strategy.Baseline{}, strategy.Eco{}, &strategy.SmartShift{}, &strategy.PeakShaving{}} {
		res, err := e.Run(nil, s)
		require.NoError(t, err)
		assert.Equal(t, 0.0, res.TotalCost)
		assert.Empty(t, res.Ledger)
	}
}

func TestRunRejectsNilStrategy(t *testing.T) {
	_, err := New(model.DefaultSettings()).Run(nil, nil)
	assert.Error(t, err)
}

func TestRunAllZeroDay(t *testing.T) {
	rows := quarterHourDay(0, 0, 0)
	e := New(model.DefaultSettings())
	intervals := []model.Interval{
		{Start: model.Clock(0, 0), End: model.Clock(6, 0), Action: model.ActionChargeFromGrid},
		{Start: model.Clock(17, 0), End: model.Clock(21, 0), Action: model.ActionDischargeToGrid},
	}
	for _, s := range []strategy.Strategy{
		strategy.Baseline{},
		strategy.Eco{},
		&strategy.SmartShift{Intervals: intervals, ProbeKWh: 1.25},
		&strategy.PeakShaving{Intervals: intervals, ProbeKWh: 1.25},
	} {
		res, err := e.Run(rows, s)
		require.NoError(t, err)
		assert.Equal(t, 0.0, res.TotalCost, s.Name())
	}
}

func TestRunBaselineMonotonicInConsumption(t *testing.T) {
	e := New(model.DefaultSettings())
	rows := quarterHourDay(0.3, 0.2, 0.25)
	base, err := e.Run(rows, strategy.Baseline{})
	require.NoError(t, err)

	for _, idx := range []int{0, 40, 95} {
		for _, bump := range []float64{0.01, 0.5, 3} {
			bumped := append([]model.DataRow(nil), rows...)
			bumped[idx].ConsumptionKWh += bump
			res, err := e.Run(bumped, strategy.Baseline{})
			require.NoError(t, err)
			assert.GreaterOrEqual(t, res.RawCost, base.RawCost)
		}
	}
}

func TestLedgerCumulativeCost(t *testing.T) {
	e := New(model.DefaultSettings())
	rows := quarterHourDay(0.4, 0.1, 0.2)
	res, err := e.Run(rows, strategy.Eco{})
	require.NoError(t, err)

	sum := 0.0
	for _, r := range res.Ledger {
		sum += r.Cost
		assert.InDelta(t, sum, r.CumCost, 1e-9)
	}
	assert.InDelta(t, res.RawCost, sum, 1e-9)
}

func TestWriteLedgerCSV(t *testing.T) {
	e := New(model.DefaultSettings())
	res, err := e.Run(quarterHourDay(0.4, 0, 0.2)[:3], strategy.Eco{})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "ledger.csv")
	require.NoError(t, WriteLedgerCSV(path, res.Ledger))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(raw)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, "time", records[0][1])
	assert.Equal(t, "00:15", records[2][1])
	assert.Equal(t, "self_consumption", records[1][5])
}
