package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/momentum/market/strategies"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.Equal(t, strategies.MomentumName, cfg.Strategy.Name)
	assert.Equal(t, 9, cfg.Strategy.Params.EMAFast)
	assert.Equal(t, "5m", cfg.Signals.Timeframe)
	assert.Equal(t, "", cfg.Journal.Type)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mod    func(c *Config)
		errMsg string
	}{
		{"valid config", func(c *Config) {}, ""},
		{"missing strategy", func(c *Config) { c.Strategy.Name = "" }, "strategy.name is required"},
		{"unknown strategy", func(c *Config) { c.Strategy.Name = "moon" }, "unknown strategy"},
		{"bad params", func(c *Config) { c.Strategy.Params.EMASlow = 5 }, "strategy.params.ema_fast"},
		{"missing pair", func(c *Config) { c.Signals.Pair = "" }, "signals.pair is required"},
		{"bad timeframe", func(c *Config) { c.Signals.Timeframe = "7m" }, "signals.timeframe"},
		{"negative tail", func(c *Config) { c.Signals.Tail = -1 }, "signals.tail"},
		{"no workers", func(c *Config) { c.Signals.Workers = 0 }, "signals.workers"},
		{"sqlite without path", func(c *Config) { c.Journal.Type = "sqlite" }, "journal.db_path"},
		{"csv without path", func(c *Config) { c.Journal.Type = "csv" }, "journal.csv_path"},
		{"unknown journal", func(c *Config) { c.Journal.Type = "redis" }, "journal.type"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mod(cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	for _, name := range []string{"cfg.yaml", "cfg.yml", "cfg.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)

			cfg := Default()
			cfg.Signals.Pair = "ETH/USDT"
			cfg.Strategy.Params.ADXThreshold = 20
			cfg.Journal = JournalConfig{Type: "sqlite", DBPath: "signals.db"}
			require.NoError(t, cfg.SaveToFile(path))

			got, err := LoadFromFile(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, got)
		})
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	data := "signals:\n  pair: SOL/USDT\nstrategy:\n  params:\n    rsi_period: 21\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "SOL/USDT", cfg.Signals.Pair)
	assert.Equal(t, "5m", cfg.Signals.Timeframe)
	assert.Equal(t, 21, cfg.Strategy.Params.RSIPeriod)
	assert.Equal(t, 9, cfg.Strategy.Params.EMAFast)
	assert.Equal(t, strategies.MomentumName, cfg.Strategy.Name)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFromFile(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "read config file")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("signals: [unclosed"), 0644))
	_, err = LoadFromFile(bad)
	assert.ErrorContains(t, err, "parse config")

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("journal:\n  type: sqlite\n"), 0644))
	_, err = LoadFromFile(invalid)
	assert.ErrorContains(t, err, "invalid config")
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	content := EnvLogLevel + "=debug\n" + EnvDB + "=" + filepath.Join(dir, "j.db") + "\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0644))

	for _, k := range []string{EnvLogLevel, EnvDB, EnvStrategy, EnvMetricsAddr} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	// an explicit variable wins over the file
	t.Setenv(EnvMetricsAddr, ":9100")

	cfg := Default()
	require.NoError(t, LoadEnv(cfg, envFile))
	t.Cleanup(func() {
		os.Unsetenv(EnvLogLevel)
		os.Unsetenv(EnvDB)
	})

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "sqlite", cfg.Journal.Type)
	assert.Equal(t, filepath.Join(dir, "j.db"), cfg.Journal.DBPath)
	assert.Equal(t, ":9100", cfg.Signals.MetricsAddr)
	assert.Equal(t, strategies.MomentumName, cfg.Strategy.Name)
	assert.NoError(t, cfg.Validate())

	// missing files are fine
	require.NoError(t, LoadEnv(Default(), filepath.Join(dir, "nope.env")))
}
