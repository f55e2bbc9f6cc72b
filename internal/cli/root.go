package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/momentum/config"
	"github.com/rustyeddy/momentum/logger"
	"github.com/rustyeddy/momentum/market/strategies"
)

// RootConfig carries the persistent flags and what PersistentPreRunE
// builds from them.
type RootConfig struct {
	ConfigPath string
	LogLevel   string
	Strategy   string
	EnvFiles   []string

	Cfg *config.Config
	Log logger.Logger
}

// NewStrategy builds the configured strategy.
func (rc *RootConfig) NewStrategy() (strategies.Strategy, error) {
	return strategies.New(rc.Cfg.Strategy.Name, rc.Cfg.Strategy.Params)
}

func NewRootCmd() *cobra.Command {
	rc := &RootConfig{}

	cmd := &cobra.Command{
		Use:   "momentum",
		Short: "Momentum: short-term signal evaluation for a trading host",
		Long: `Momentum computes the ShortTermMomentum indicators and entry/exit
signals over OHLCV candles, reports the profit-dependent stoploss, and keeps
a journal of evaluated runs. Orders, exchanges and trade bookkeeping belong
to the trading host.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&rc.ConfigPath, "config", "", "Path to config file (YAML or JSON, optional)")
	cmd.PersistentFlags().StringVar(&rc.LogLevel, "log-level", "", "Log level: debug|info|warn|error")
	cmd.PersistentFlags().StringVar(&rc.Strategy, "strategy", "", "Registered strategy name")
	cmd.PersistentFlags().StringSliceVar(&rc.EnvFiles, "env-file", nil, ".env files to load (default .env)")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return rc.load(cmd)
	}
	cmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if rc.Log != nil {
			_ = rc.Log.Sync()
		}
	}

	cmd.AddCommand(
		newSignalsCmd(rc),
		newStoplossCmd(rc),
		newSettingsCmd(rc),
		newRunsCmd(rc),
		newConfigCmd(rc),
		newVersionCmd(),
	)
	return cmd
}

// load applies defaults, then the config file, then the environment, then
// flags that were set explicitly.
func (rc *RootConfig) load(cmd *cobra.Command) error {
	cfg := config.Default()
	if rc.ConfigPath != "" {
		var err error
		if cfg, err = config.LoadFromFile(rc.ConfigPath); err != nil {
			return err
		}
	}
	if err := config.LoadEnv(cfg, rc.EnvFiles...); err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = rc.LogLevel
	}
	if flags.Changed("strategy") {
		cfg.Strategy.Name = rc.Strategy
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	l, err := logger.New(cfg.Log.Level)
	if err != nil {
		return err
	}
	rc.Cfg = cfg
	rc.Log = l
	return nil
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func out(cmd *cobra.Command) io.Writer { return cmd.OutOrStdout() }
