// Package config loads and validates backtest run configuration from YAML
// or JSON files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration of a backtest invocation.
type Config struct {
	Run      RunConfig      `json:"run" yaml:"run"`
	Data     DataConfig     `json:"data" yaml:"data"`
	Strategy StrategyConfig `json:"strategy" yaml:"strategy"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
}

// RunConfig contains the ledger and driver parameters of a run.
type RunConfig struct {
	InitialCapital      float64 `json:"initial_capital" yaml:"initial_capital"`
	CommissionPerTrade  float64 `json:"commission_per_trade" yaml:"commission_per_trade"`
	MaxPositionFraction float64 `json:"max_position_fraction" yaml:"max_position_fraction"`
	WarmupPeriod        int     `json:"warmup_period" yaml:"warmup_period"`
}

// DataConfig locates the bar series to replay.
type DataConfig struct {
	BarsFile string `json:"bars_file" yaml:"bars_file"`
	Symbol   string `json:"symbol" yaml:"symbol"`
}

// StrategyConfig names the strategy and its tunables.
type StrategyConfig struct {
	Name         string  `json:"name" yaml:"name"`
	PositionSize float64 `json:"position_size" yaml:"position_size"`
	ShortWindow  int     `json:"short_window,omitempty" yaml:"short_window,omitempty"`
	LongWindow   int     `json:"long_window,omitempty" yaml:"long_window,omitempty"`
	Period       int     `json:"period,omitempty" yaml:"period,omitempty"`
	Oversold     float64 `json:"oversold,omitempty" yaml:"oversold,omitempty"`
	Overbought   float64 `json:"overbought,omitempty" yaml:"overbought,omitempty"`
	Lookback     int     `json:"lookback,omitempty" yaml:"lookback,omitempty"`
}

// JournalConfig selects where run output is persisted.
type JournalConfig struct {
	Type   string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	Dir    string `json:"dir,omitempty" yaml:"dir,omitempty"`
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LoadFromFile loads configuration from a file (YAML or JSON).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON.
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file, picking the format from the
// extension (.yaml/.yml for YAML, anything else JSON).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Run.InitialCapital <= 0 {
		return fmt.Errorf("run.initial_capital must be positive")
	}
	if c.Run.CommissionPerTrade < 0 {
		return fmt.Errorf("run.commission_per_trade must not be negative")
	}
	if c.Run.MaxPositionFraction <= 0 || c.Run.MaxPositionFraction > 1 {
		return fmt.Errorf("run.max_position_fraction must be in (0, 1]")
	}
	if c.Run.WarmupPeriod < 0 {
		return fmt.Errorf("run.warmup_period must not be negative")
	}
	if c.Data.Symbol == "" {
		return fmt.Errorf("data.symbol is required")
	}
	if c.Data.BarsFile == "" {
		return fmt.Errorf("data.bars_file is required")
	}
	if c.Strategy.Name == "" {
		return fmt.Errorf("strategy.name is required")
	}
	if c.Strategy.PositionSize <= 0 || c.Strategy.PositionSize > 1 {
		return fmt.Errorf("strategy.position_size must be in (0, 1]")
	}
	switch c.Journal.Type {
	case "", "none":
	case "csv":
		if c.Journal.Dir == "" {
			return fmt.Errorf("journal.dir required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal.db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}
	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Run: RunConfig{
			InitialCapital:      100000,
			CommissionPerTrade:  0,
			MaxPositionFraction: 0.25,
			WarmupPeriod:        0,
		},
		Data: DataConfig{
			BarsFile: "./bars.csv",
			Symbol:   "AAPL",
		},
		Strategy: StrategyConfig{
			Name:         "sma",
			PositionSize: 0.95,
			ShortWindow:  20,
			LongWindow:   50,
			Period:       14,
			Oversold:     30,
			Overbought:   70,
			Lookback:     20,
		},
		Journal: JournalConfig{
			Type: "none",
		},
	}
}
