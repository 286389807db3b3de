package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"battery-savings/internal/config"
	"battery-savings/internal/data"
)

func TestDaySourceSynthetic(t *testing.T) {
	cfg := config.Default()
	day, closeFn, err := DaySource(cfg)
	require.NoError(t, err)
	defer func() { assert.NoError(t, closeFn()) }()

	rows, err := day.LoadDay(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, data.SlotsPerDay)
}

func TestDaySourceDatabase(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "day.db")

	seed, err := data.NewStore(data.DriverSQLite, dsn)
	require.NoError(t, err)
	require.NoError(t, seed.Migrate(ctx))
	require.NoError(t, seed.ReplaceDay(ctx, []float64{2000, 1000}, []float64{0.3, 0.2}))
	require.NoError(t, seed.Close())

	cfg := config.Default()
	cfg.Data.Source = config.SourceDatabase
	cfg.Database = config.DatabaseConfig{Driver: data.DriverSQLite, DSN: dsn}

	day, closeFn, err := DaySource(cfg)
	require.NoError(t, err)
	defer func() { assert.NoError(t, closeFn()) }()

	rows, err := day.LoadDay(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 2.0, rows[0].ConsumptionKWh)
	assert.Equal(t, 0.2, rows[1].PriceEURPerKWh)
}

func TestDaySourceUnknown(t *testing.T) {
	cfg := config.Default()
	cfg.Data.Source = "ftp"
	_, closeFn, err := DaySource(cfg)
	assert.Error(t, err)
	assert.NotNil(t, closeFn)
}
