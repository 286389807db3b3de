package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"battery-savings/internal/analysis"
)

func newCompareCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "compare",
		Short: "Rank every strategy by savings on the same day",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}
			ranked, err := analysis.RankStrategies(e.calculator(), e.rows, e.intervals)
			if err != nil {
				return err
			}
			profile := analysis.Profile(e.rows)
			if opts.jsonOut {
				return printJSON(cmd, map[string]any{"ranking": ranked, "profile": profile})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Price EUR/kWh: min=%.3f p05=%.3f mean=%.3f p95=%.3f max=%.3f\n",
				profile.MinPrice, profile.P05Price, profile.MeanPrice, profile.P95Price, profile.MaxPrice)
			fmt.Fprintf(out, "Consumption=%.2f kWh PV=%.2f kWh self-sufficiency=%.0f%%\n\n",
				profile.ConsumptionKWh, profile.PVProductionKWh, profile.SelfSufficiency*100)

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RANK\tSTRATEGY\tBASELINE\tCOST\tSAVINGS")
			for i, r := range ranked {
				fmt.Fprintf(tw, "%d\t%s\t%.2f\t%.2f\t%.2f\n", i+1, r.Strategy, r.BaselineCost, r.StrategyCost, r.Savings)
			}
			return tw.Flush()
		},
	}
}
