package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"battery-savings/internal/config"
	"battery-savings/internal/data"
)

func newSeedCmd(opts *options) *cobra.Command {
	var seed uint64
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the tables and fill them with a synthetic day",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			store, err := data.NewStore(cfg.Database.Driver, cfg.Database.DSN)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			ctx := cmd.Context()
			if err := store.Migrate(ctx); err != nil {
				return err
			}
			load, prices := data.SyntheticDay{Seed: seed}.Slots()
			if err := store.ReplaceDay(ctx, load, prices); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d slots into %s\n", len(load), store.Driver())
			return nil
		},
	}
	cmd.Flags().Uint64Var(&seed, "seed", 1, "synthetic day seed")
	return cmd
}
