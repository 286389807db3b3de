// Package app assembles the runtime pieces shared by the binaries.
package app

import (
	"fmt"

	"battery-savings/internal/config"
	"battery-savings/internal/data"
)

// DaySource builds the loader for the configured day, wrapped in a TTL
// cache. The returned close function releases the database connection, if
// any, and is never nil.
func DaySource(cfg *config.Config) (data.DayLoader, func() error, error) {
	noop := func() error { return nil }
	var loader data.DayLoader
	closeFn := noop

	switch cfg.Data.Source {
	case config.SourceSynthetic:
		loader = data.SyntheticDay{Seed: cfg.Data.Seed}
	case config.SourceFile:
		loader = data.FileDay{Path: cfg.Data.File}
	case config.SourceDatabase:
		store, err := data.NewStore(cfg.Database.Driver, cfg.Database.DSN)
		if err != nil {
			return nil, noop, err
		}
		loader = data.StoreDay{Store: store, Options: cfg.BuildOptions()}
		closeFn = store.Close
	default:
		return nil, noop, fmt.Errorf("unknown data.source %q", cfg.Data.Source)
	}
	return data.NewDayCache(loader, cfg.Data.CacheTTL), closeFn, nil
}
