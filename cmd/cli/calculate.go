package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCalculateCmd(opts *options) *cobra.Command {
	var strategyName string
	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Savings of one strategy over the no-battery baseline",
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
			if opts.jsonOut {
				return printJSON(cmd, map[string]any{
					"strategy":      rep.Kind.String(),
					"baseline_cost": rep.Baseline.TotalCost,
					"strategy_cost": rep.Result.TotalCost,
					"savings":       rep.Savings,
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Rows: %d  Intervals: %d\n", len(e.rows), len(e.intervals))
			fmt.Fprintf(out, "Baseline cost: %.2f EUR\n", rep.Baseline.TotalCost)
			fmt.Fprintf(out, "%s cost: %.2f EUR\n", rep.Kind, rep.Result.TotalCost)
			fmt.Fprintf(out, "Savings: %.2f EUR\n", rep.Savings)
			return nil
		},
	}
	cmd.Flags().StringVarP(&strategyName, "strategy", "s", "", "smartshift, eco or peak (default from config)")
	return cmd
}
