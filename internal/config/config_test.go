package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"battery-savings/internal/data"
	"battery-savings/internal/model"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSettings(), c.Settings())
	assert.Equal(t, "smartshift", c.Strategy)
	assert.Equal(t, SourceSynthetic, c.Data.Source)
	assert.Equal(t, 5*time.Minute, c.Data.CacheTTL)
	assert.Equal(t, data.DefaultBuildOptions(), c.BuildOptions())
}

func TestLoadYAMLWithBatteryFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "home.yaml", `
battery:
  name: Home 13.5
  capacity_kwh: 13.5
  efficiency: 0.92
  max_power_kw: 5
`)
	path := writeFile(t, dir, "config.yaml", `
battery_file: home.yaml
battery:
  max_power_kw: 7
engine:
  export_factor: 0.5
strategy: eco
data:
  source: file
  file: day.json
  cache_ttl: 30s
  pv_scale: 0
`)
	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, BatteryConfig{Name: "Home 13.5", CapacityKWh: 13.5, Efficiency: 0.92, MaxPowerKW: 7}, c.Battery)
	assert.Equal(t, 0.5, c.Engine.ExportFactor)
	assert.Equal(t, 0.25, c.Engine.PeriodHours)
	assert.Equal(t, "eco", c.Strategy)
	assert.Equal(t, 30*time.Second, c.Data.CacheTTL)
	assert.Equal(t, 0.0, c.BuildOptions().PVScale)
}

func TestLoadJSONAndEnvOverrides(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.json", `{"battery": {"capacity_kwh": 8}, "logging": {"level": "warn"}}`)
	t.Setenv("BS_ENGINE__EXPORT_FACTOR", "0.3")
	t.Setenv("BS_BATTERY__EFFICIENCY", "0.95")
	t.Setenv("BS_SERVER__PORT", "9090")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8.0, c.Battery.CapacityKWh)
	assert.Equal(t, 0.95, c.Battery.Efficiency)
	assert.Equal(t, 5.0, c.Battery.MaxPowerKW)
	assert.Equal(t, 0.3, c.Engine.ExportFactor)
	assert.Equal(t, "9090", c.Server.Port)
	assert.Equal(t, "warn", c.Logging.Level)
}

func TestLoadRejects(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"unknown strategy":  "strategy: turbo\n",
		"bad efficiency":    "battery:\n  efficiency: 1.5\n",
		"file without path": "data:\n  source: file\n",
		"db without dsn":    "data:\n  source: database\n",
		"unknown source":    "data:\n  source: ftp\n",
		"unknown driver":    "database:\n  driver: mysql\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, dir, "c.yaml", body))
			assert.Error(t, err)
		})
	}

	_, err := Load(writeFile(t, dir, "c.toml", "x = 1"))
	assert.Error(t, err)
	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestMergeBattery(t *testing.T) {
	base := BatteryConfig{Name: "a", CapacityKWh: 10, Efficiency: 0.9, MaxPowerKW: 5}
	got := MergeBattery(base, BatteryConfig{CapacityKWh: 6})
	assert.Equal(t, BatteryConfig{Name: "a", CapacityKWh: 6, Efficiency: 0.9, MaxPowerKW: 5}, got)
	assert.Equal(t, base, MergeBattery(base, BatteryConfig{}))
}

func TestLoadBatteryFile(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "b.yaml", "battery:\n  name: x\n  capacity_kwh: 5\n")
	b, err := LoadBatteryFile(p)
	require.NoError(t, err)
	assert.Equal(t, "x", b.Name)
	assert.Equal(t, 5.0, b.CapacityKWh)

	_, err = LoadBatteryFile(writeFile(t, dir, "bad.yaml", "battery: [1, 2"))
	assert.Error(t, err)
}

func TestLoadExampleConfig(t *testing.T) {
	c, err := Load(filepath.Join("..", "..", "examples", "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "Home 10 kWh", c.Battery.Name)
	assert.Equal(t, model.DefaultSettings(), c.Settings())
	assert.Equal(t, SourceSynthetic, c.Data.Source)
}
