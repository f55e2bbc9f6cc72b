package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/momentum/logger"
	"github.com/rustyeddy/momentum/market"
	"github.com/rustyeddy/momentum/market/strategies"
)

// Environment variables applied by LoadEnv.
const (
	EnvLogLevel    = "MOMENTUM_LOG_LEVEL"
	EnvDB          = "MOMENTUM_DB"
	EnvStrategy    = "MOMENTUM_STRATEGY"
	EnvMetricsAddr = "MOMENTUM_METRICS_ADDR"
)

// Config is the complete momentum tool configuration.
type Config struct {
	Strategy StrategyConfig `json:"strategy" yaml:"strategy"`
	Signals  SignalsConfig  `json:"signals" yaml:"signals"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
	Log      LogConfig      `json:"log" yaml:"log"`
}

// StrategyConfig picks a registered strategy and tunes it.
type StrategyConfig struct {
	Name   string            `json:"name" yaml:"name"`
	Params strategies.Params `json:"params" yaml:"params"`
}

// SignalsConfig controls a signals run.
type SignalsConfig struct {
	Pair      string `json:"pair" yaml:"pair"`
	Timeframe string `json:"timeframe" yaml:"timeframe"`

	// Tail keeps only the last N trusted rows in the journal; 0 keeps all.
	Tail int `json:"tail" yaml:"tail"`

	// Workers bounds how many frames RunAll evaluates at once.
	Workers int `json:"workers" yaml:"workers"`

	MetricsAddr string `json:"metrics_addr,omitempty" yaml:"metrics_addr,omitempty"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type    string `json:"type" yaml:"type"` // "", "csv" or "sqlite"
	DBPath  string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	CSVPath string `json:"csv_path,omitempty" yaml:"csv_path,omitempty"`
}

type LogConfig struct {
	Level string `json:"level" yaml:"level"`
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Strategy: StrategyConfig{
			Name:   strategies.MomentumName,
			Params: strategies.DefaultParams(),
		},
		Signals: SignalsConfig{
			Pair:      "BTC/USDT",
			Timeframe: "5m",
			Workers:   4,
		},
		Log: LogConfig{Level: "info"},
	}
}

// LoadFromFile loads configuration from a YAML or JSON file. Fields the
// file leaves out keep their Default values.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, cfg); err != nil {
		cfg = Default()
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes YAML for .yaml/.yml paths and indented JSON otherwise.
func (c *Config) SaveToFile(path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
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

// Validate returns the first invalid field, named by its path.
func (c *Config) Validate() error {
	if c.Strategy.Name == "" {
		return fmt.Errorf("strategy.name is required")
	}
	if _, ok := strategies.Get(c.Strategy.Name); !ok {
		return fmt.Errorf("strategy.name: unknown strategy %q", c.Strategy.Name)
	}
	if err := c.Strategy.Params.Validate(); err != nil {
		return fmt.Errorf("strategy.params.%w", err)
	}

	if c.Signals.Pair == "" {
		return fmt.Errorf("signals.pair is required")
	}
	if _, err := market.ParseTimeframe(c.Signals.Timeframe); err != nil {
		return fmt.Errorf("signals.timeframe: %w", err)
	}
	if c.Signals.Tail < 0 {
		return fmt.Errorf("signals.tail must be >= 0")
	}
	if c.Signals.Workers <= 0 {
		return fmt.Errorf("signals.workers must be positive")
	}

	switch c.Journal.Type {
	case "":
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal.db_path required for SQLite type")
		}
	case "csv":
		if c.Journal.CSVPath == "" {
			return fmt.Errorf("journal.csv_path required for CSV type")
		}
	default:
		return fmt.Errorf("journal.type must be '', 'csv' or 'sqlite'")
	}

	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// LoadEnv loads .env files (default ".env") into the process environment
// without overriding variables already set, then applies MOMENTUM_*
// overrides to cfg. Missing .env files are not an error.
func LoadEnv(cfg *Config, files ...string) error {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load env: %w", err)
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv(EnvStrategy); v != "" {
		cfg.Strategy.Name = v
	}
	if v := os.Getenv(EnvDB); v != "" {
		cfg.Journal.Type = "sqlite"
		cfg.Journal.DBPath = v
	}
	if v := os.Getenv(EnvMetricsAddr); v != "" {
		cfg.Signals.MetricsAddr = v
	}
	return nil
}
