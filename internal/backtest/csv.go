package backtest

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
)

// WriteLedgerCSV writes the ledger to path, creating or truncating the file.
func WriteLedgerCSV(path string, ledger []LedgerRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return EncodeLedgerCSV(f, ledger)
}

// EncodeLedgerCSV writes a header plus one record per ledger row.
func EncodeLedgerCSV(out io.Writer, ledger []LedgerRow) error {
	w := csv.NewWriter(out)

	header := []string{
		"index",
		"time",
		"price_eur_per_kwh",
		"consumption_kwh",
		"pv_production_kwh",
		"action",
		"from_grid_kwh",
		"to_grid_kwh",
		"charged_kwh",
		"discharged_kwh",
		"curtailed_kwh",
		"charge_start_kwh",
		"charge_end_kwh",
		"cost",
		"cum_cost",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range ledger {
		row := []string{
			strconv.Itoa(r.Index),
			r.Time.String(),
			fmtFloat(r.Price),
			fmtFloat(r.ConsumptionKWh),
			fmtFloat(r.PVProductionKWh),
			r.Action.String(),
			fmtFloat(r.FromGridKWh),
			fmtFloat(r.ToGridKWh),
			fmtFloat(r.ChargedKWh),
			fmtFloat(r.DischargedKWh),
			fmtFloat(r.CurtailedKWh),
			fmtFloat(r.ChargeStartKWh),
			fmtFloat(r.ChargeEndKWh),
			fmtFloat(r.Cost),
			fmtFloat(r.CumCost),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
