package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"battery-savings/internal/backtest"
	"battery-savings/internal/config"
	"battery-savings/internal/data"
	"battery-savings/internal/model"
	"battery-savings/internal/savings"
	"battery-savings/internal/strategy"
)

// Demo:
// - Generate a synthetic household day (or load a day file)
// - Evaluate every strategy against the no-battery baseline
// - Print the first rows of one ledger to show how the pieces fit together
func main() {
	var (
		cfgPath  string
		dataPath string
		seed     uint64
		n        int
		show     string
		outCSV   string
	)
	cmd := &cobra.Command{
		Use:          "demo",
		Short:        "Run every strategy on a synthetic day",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Defaults (can be overridden via --config).
			settings := model.DefaultSettings()
			if cfgPath != "" {
				cfg, err := config.Load(cfgPath)
				if err != nil {
					return err
				}
				settings = cfg.Settings()
			}

			var (
				rows []model.DataRow
				err  error
			)
			if dataPath != "" {
				rows, err = data.FileDay{Path: dataPath}.LoadDay(cmd.Context())
			} else {
				rows, err = data.SyntheticDay{Seed: seed}.LoadDay(cmd.Context())
			}
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				return fmt.Errorf("no rows to evaluate")
			}

			// The schedule the mobile app ships as its SmartShift preset.
			intervals := []model.Interval{
				{Start: model.Clock(2, 0), End: model.Clock(6, 0), Action: model.ActionChargeFromGrid},
				{Start: model.Clock(6, 0), End: model.Clock(17, 0), Action: model.ActionSelfConsumption},
				{Start: model.Clock(17, 0), End: model.Clock(21, 0), Action: model.ActionDischargeToGrid},
				{Start: model.Clock(21, 0), End: model.Clock(2, 0), Action: model.ActionIdle},
			}

			calc := savings.New(settings)
			fmt.Printf("Loaded %d rows (%s-%s), battery %.1f kWh / %.1f kW\n\n",
				len(rows), rows[0].Time, rows[len(rows)-1].Time,
				settings.Battery.CapacityKWh, settings.Battery.MaxPowerKW)

			var shown *backtest.Result
			for _, k := range strategy.Kinds() {
				rep, err := calc.Evaluate(rows, intervals, k)
				if err != nil {
					return err
				}
				fmt.Printf("%-11s baseline=%6.2f  cost=%6.2f  savings=%6.2f EUR\n",
					k, rep.Baseline.TotalCost, rep.Result.TotalCost, rep.Savings)
				if k.String() == show {
					shown = rep.Result
				}
			}
			if shown == nil {
				return fmt.Errorf("unknown strategy %q", show)
			}

			fmt.Printf("\n%s, first %d rows:\n", show, min(n, len(shown.Ledger)))
			for _, r := range shown.Ledger[:min(n, len(shown.Ledger))] {
				fmt.Printf("%s price=%6.3f  action=%-17s  grid=%5.2f/%5.2f  charge=%5.2f→%5.2f  cost=%6.3f  cum=%6.2f\n",
					r.Time, r.Price, r.Action, r.FromGridKWh, r.ToGridKWh,
					r.ChargeStartKWh, r.ChargeEndKWh, r.Cost, r.CumCost)
			}

			if outCSV != "" {
				if err := backtest.WriteLedgerCSV(outCSV, shown.Ledger); err != nil {
					return err
				}
				fmt.Printf("\nWrote CSV: %s\n", outCSV)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&cfgPath, "config", "", "Path to YAML config (optional)")
	f.StringVar(&dataPath, "data", "", "Day file to use instead of the synthetic day")
	f.Uint64Var(&seed, "seed", 1, "Synthetic day seed")
	f.IntVarP(&n, "n", "n", 12, "Number of ledger rows to print")
	f.StringVar(&show, "show", "smartshift", "Strategy whose ledger is printed")
	f.StringVar(&outCSV, "out", "", "Optional path to write ledger CSV (e.g. results/ledger.csv)")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
