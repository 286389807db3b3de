package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"battery-savings/internal/app"
	"battery-savings/internal/config"
	"battery-savings/internal/data"
	"battery-savings/internal/logger"
	"battery-savings/internal/model"
	"battery-savings/internal/savings"
)

// options holds the flags shared by every subcommand.
type options struct {
	cfgPath       string
	dataPath      string
	intervalsPath string
	jsonOut       bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "cli",
		Short:        "Estimate what a home battery saves under different strategies",
		SilenceUsage: true,
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&opts.cfgPath, "config", "c", "", "configuration file (YAML or JSON)")
	pf.StringVarP(&opts.dataPath, "data", "d", "", "day file ({data, intervals}); defaults to the configured data source")
	pf.StringVarP(&opts.intervalsPath, "intervals", "i", "", "JSON file with an interval list; overrides the day file's intervals")
	pf.BoolVar(&opts.jsonOut, "json", false, "print JSON instead of text")

	root.AddCommand(
		newCalculateCmd(opts),
		newCompareCmd(opts),
		newPlanCmd(opts),
		newLedgerCmd(opts),
		newSeedCmd(opts),
	)
	return root
}

// env is what a subcommand works on once flags are resolved.
type env struct {
	cfg       *config.Config
	rows      []model.DataRow
	intervals []model.Interval
}

func (o *options) load(ctx context.Context) (*env, error) {
	cfg, err := config.Load(o.cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger.SetLevel(cfg.Logging.Level)

	e := &env{cfg: cfg}
	if o.dataPath != "" {
		f, err := data.LoadDayJSON(o.dataPath)
		if err != nil {
			return nil, err
		}
		e.rows, e.intervals = f.Data, f.Intervals
	} else {
		day, closeDay, err := app.DaySource(cfg)
		if err != nil {
			return nil, err
		}
		defer func() { _ = closeDay() }()
		if e.rows, err = day.LoadDay(ctx); err != nil {
			return nil, fmt.Errorf("load day: %w", err)
		}
	}

	if o.intervalsPath != "" {
		raw, err := os.ReadFile(o.intervalsPath)
		if err != nil {
			return nil, err
		}
		e.intervals = nil
		if err := json.Unmarshal(raw, &e.intervals); err != nil {
			return nil, fmt.Errorf("decode %s: %w", o.intervalsPath, err)
		}
	}
	return e, nil
}

func (e *env) calculator() *savings.Calculator {
	return savings.New(e.cfg.Settings(), savings.WithLogger(logger.New("cli")))
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
