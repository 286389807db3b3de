package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"battery-savings/internal/backtest"
)

func newLedgerCmd(opts *options) *cobra.Command {
	var (
		strategyName string
		outPath      string
	)
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Write the per-row ledger of a strategy as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}
			if strategyName == "" {
				strategyName = e.cfg.Strategy
			}
			rep, err := e.calculator().EvaluateByName(e.rows, e.intervals, strategyName)
			if err != nil {
				return err
			}

			if outPath == "-" {
				return backtest.EncodeLedgerCSV(cmd.OutOrStdout(), rep.Result.Ledger)
			}
			// ensure output dir exists
			if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
				return err
			}
			if err := backtest.WriteLedgerCSV(outPath, rep.Result.Ledger); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows to %s\n", len(rep.Result.Ledger), outPath)
			fmt.Fprintf(cmd.OutOrStdout(), "Cost=%.2f EUR Savings=%.2f EUR Final charge=%.2f kWh\n",
				rep.Result.TotalCost, rep.Savings, rep.Result.FinalChargeKWh)
			return nil
		},
	}
	cmd.Flags().StringVarP(&strategyName, "strategy", "s", "", "smartshift, eco or peak (default from config)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "results/ledger.csv", "output CSV path, - for stdout")
	return cmd
}
