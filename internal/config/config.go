package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"

	"battery-savings/internal/data"
	"battery-savings/internal/model"
	"battery-savings/internal/strategy"
)

// EnvPrefix marks environment overrides. Nested keys use "__", e.g.
// BS_ENGINE__EXPORT_FACTOR=0.5.
const EnvPrefix = "BS_"

// Config is the on-disk configuration shape (YAML or JSON).
type Config struct {
	// Optional: load battery parameters from a separate YAML (e.g. examples/batteries/*.yaml).
	// If both BatteryFile and Battery are provided, Battery overrides BatteryFile.
	BatteryFile string         `json:"battery_file"`
	Battery     BatteryConfig  `json:"battery"`
	Engine      EngineConfig   `json:"engine"`
	Strategy    string         `json:"strategy"`
	Server      ServerConfig   `json:"server"`
	Logging     LoggingConfig  `json:"logging"`
	Database    DatabaseConfig `json:"database"`
	Data        DataConfig     `json:"data"`
	Insights    InsightsConfig `json:"insights"`
}

type BatteryConfig struct {
	Name        string  `json:"name" yaml:"name"`
	CapacityKWh float64 `json:"capacity_kwh" yaml:"capacity_kwh"`
	Efficiency  float64 `json:"efficiency" yaml:"efficiency"`
	MaxPowerKW  float64 `json:"max_power_kw" yaml:"max_power_kw"`
}

type EngineConfig struct {
	PeriodHours  float64 `json:"period_hours"`
	ExportFactor float64 `json:"export_factor"`
	ProbeKWh     float64 `json:"probe_kwh"`
}

type ServerConfig struct {
	Port        string   `json:"port"`
	Env         string   `json:"env"`
	StaticDir   string   `json:"static_dir"`
	BatteryDir  string   `json:"battery_dir"`
	CORSOrigins []string `json:"cors_origins"`
}

type LoggingConfig struct {
	Level string `json:"level"`
}

type DatabaseConfig struct {
	Driver string `json:"driver"`
	DSN    string `json:"dsn"`
}

const (
	SourceDatabase  = "database"
	SourceFile      = "file"
	SourceSynthetic = "synthetic"
)

type DataConfig struct {
	Source          string        `json:"source"`
	File            string        `json:"file"`
	LoadProfileUnit string        `json:"load_profile_unit"`
	PVScale         *float64      `json:"pv_scale"`
	Seed            uint64        `json:"seed"`
	CacheTTL        time.Duration `json:"cache_ttl"`
}

type InsightsConfig struct {
	CO2KgPerKWh float64 `json:"co2_kg_per_kwh"`
}

// Default returns a config that runs without any file or database.
func Default() *Config {
	s := model.DefaultSettings()
	pv := 1.0
	return &Config{
		Battery: BatteryConfig{
			Name:        "default",
			CapacityKWh: s.Battery.CapacityKWh,
			Efficiency:  s.Battery.Efficiency,
			MaxPowerKW:  s.Battery.MaxPowerKW,
		},
		Engine: EngineConfig{
			PeriodHours:  s.PeriodHours,
			ExportFactor: s.ExportFactor,
		},
		Strategy: strategy.KindSmartShift.String(),
		Server: ServerConfig{
			Port:       "8080",
			Env:        "development",
			StaticDir:  "./web/dist",
			BatteryDir: "./examples/batteries",
		},
		Logging:  LoggingConfig{Level: "info"},
		Database: DatabaseConfig{Driver: data.DriverPostgres},
		Data: DataConfig{
			Source:          SourceSynthetic,
			LoadProfileUnit: string(data.UnitWh),
			PVScale:         &pv,
			CacheTTL:        5 * time.Minute,
		},
		Insights: InsightsConfig{CO2KgPerKWh: 0.4},
	}
}

// Load reads path (may be empty) on top of the defaults, applies BS_
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		var parser koanf.Parser
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			parser = kyaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", filepath.Ext(path))
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}

	c := Default()
	explicit := c.Battery
	c.Battery = BatteryConfig{}
	if err := k.UnmarshalWithConf("", c, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	// If battery_file is set, load it and merge in any explicit overrides from c.Battery.
	if c.BatteryFile != "" {
		batteryPath := c.BatteryFile
		if !filepath.IsAbs(batteryPath) && path != "" {
			// Prefer interpreting relative paths as relative to the config file directory,
			// but fall back to the provided path (relative to cwd) if that doesn't exist.
			cand := filepath.Join(filepath.Dir(path), batteryPath)
			if _, err := os.Stat(cand); err == nil {
				batteryPath = cand
			}
		}
		loaded, err := LoadBatteryFile(batteryPath)
		if err != nil {
			return nil, err
		}
		c.Battery = MergeBattery(loaded, c.Battery)
	}
	c.Battery = MergeBattery(explicit, c.Battery)
	return c, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if _, err := strategy.ParseKind(c.Strategy); err != nil {
		return fmt.Errorf("strategy: %w", err)
	}
	if err := c.Settings().Validate(); err != nil {
		return fmt.Errorf("engine config invalid: %w", err)
	}
	switch c.Data.Source {
	case SourceSynthetic:
	case SourceFile:
		if c.Data.File == "" {
			return errors.New("data.file is required when data.source is file")
		}
	case SourceDatabase:
		if c.Database.DSN == "" {
			return errors.New("database.dsn is required when data.source is database")
		}
	default:
		return fmt.Errorf("unknown data.source %q", c.Data.Source)
	}
	if _, err := data.NewStore(c.Database.Driver, c.Database.DSN); err != nil {
		return err
	}
	if c.Insights.CO2KgPerKWh < 0 {
		return errors.New("insights.co2_kg_per_kwh must be >= 0")
	}
	return nil
}

// Settings converts the battery and engine sections to evaluation settings.
func (c *Config) Settings() model.Settings {
	return model.Settings{
		Battery:      c.Battery.ToModelParams(),
		PeriodHours:  c.Engine.PeriodHours,
		ExportFactor: c.Engine.ExportFactor,
		ProbeKWh:     c.Engine.ProbeKWh,
	}
}

// BuildOptions converts the data section to data.BuildOptions.
func (c *Config) BuildOptions() data.BuildOptions {
	opts := data.BuildOptions{LoadUnit: data.Unit(strings.ToLower(c.Data.LoadProfileUnit)), PVScale: 1}
	if c.Data.PVScale != nil {
		opts.PVScale = *c.Data.PVScale
	}
	return opts
}

func (b BatteryConfig) ToModelParams() model.BatteryParams {
	return model.BatteryParams{
		CapacityKWh: b.CapacityKWh,
		Efficiency:  b.Efficiency,
		MaxPowerKW:  b.MaxPowerKW,
	}
}

type batteryFileWrapper struct {
	Battery BatteryConfig `yaml:"battery"`
}

// LoadBatteryFile reads a battery preset: a YAML document with a top-level
// "battery" key.
func LoadBatteryFile(path string) (BatteryConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return BatteryConfig{}, err
	}
	var w batteryFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return BatteryConfig{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return w.Battery, nil
}

// MergeBattery overlays non-zero fields from override onto base.
// This is used when loading a battery file and then applying overrides from the request.
func MergeBattery(base, override BatteryConfig) BatteryConfig {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.CapacityKWh != 0 {
		out.CapacityKWh = override.CapacityKWh
	}
	if override.Efficiency != 0 {
		out.Efficiency = override.Efficiency
	}
	if override.MaxPowerKW != 0 {
		out.MaxPowerKW = override.MaxPowerKW
	}
	return out
}
