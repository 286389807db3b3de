package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"battery-savings/internal/strategy"
)

func newPlanCmd(opts *options) *cobra.Command {
	var (
		steps   int
		outPath string
	)
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Find the cheapest SmartShift schedule for the day",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}
			plan, err := strategy.PlanSmartShift(e.rows, e.cfg.Settings(), strategy.PlanParams{ChargeSteps: steps})
			if err != nil {
				return err
			}
			rep, err := e.calculator().Evaluate(e.rows, plan.Intervals, strategy.KindSmartShift)
			if err != nil {
				return err
			}

			if outPath != "" {
				raw, err := json.MarshalIndent(plan.Intervals, "", "  ")
				if err != nil {
					return err
				}
				if err := os.WriteFile(outPath, raw, 0o644); err != nil {
					return err
				}
			}
			if opts.jsonOut {
				return printJSON(cmd, map[string]any{
					"intervals":     plan.Intervals,
					"expected_cost": plan.ExpectedCost,
					"savings":       rep.Savings,
				})
			}
			out := cmd.OutOrStdout()
			for _, iv := range plan.Intervals {
				fmt.Fprintf(out, "%s-%s  %s\n", iv.Start, iv.End, iv.Action)
			}
			fmt.Fprintf(out, "Baseline cost: %.2f EUR  Planned cost: %.2f EUR  Savings: %.2f EUR\n",
				rep.Baseline.TotalCost, rep.Result.TotalCost, rep.Savings)
			if outPath != "" {
				fmt.Fprintf(out, "Wrote %d intervals to %s\n", len(plan.Intervals), outPath)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 200, "charge grid resolution")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the interval list as JSON")
	return cmd
}
