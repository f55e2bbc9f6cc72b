package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/momentum/config"
	"github.com/rustyeddy/momentum/market"
)

func newConfigCmd(rc *RootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Generate or validate configuration files",
		Long: `Manage momentum configuration files.

Subcommands:
  init     - Generate a default configuration file
  validate - Validate an existing configuration file

Examples:
  momentum config init -o momentum.yaml
  momentum config validate -f momentum.yaml`,
	}

	var output string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Default().SaveToFile(output); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			fmt.Fprintf(out(cmd), "✓ Created default configuration: %s\n", output)
			return nil
		},
	}
	initCmd.Flags().StringVarP(&output, "output", "o", "momentum.yaml", "output config file path")

	var path string
	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFromFile(path)
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
			fmt.Fprintf(out(cmd), "✓ Configuration valid: %s\n", path)
			fmt.Fprintf(out(cmd), "  Strategy: %s\n", cfg.Strategy.Name)
			tf, err := market.BrokerTimeframe(cfg.Signals.Timeframe)
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
			fmt.Fprintf(out(cmd), "  Signals:  %s %s (%s)\n", cfg.Signals.Pair, cfg.Signals.Timeframe, tf)
			journalType := cfg.Journal.Type
			if journalType == "" {
				journalType = "none"
			}
			fmt.Fprintf(out(cmd), "  Journal:  %s\n", journalType)
			return nil
		},
	}
	validateCmd.Flags().StringVarP(&path, "file", "f", "", "path to config file (required)")
	_ = validateCmd.MarkFlagRequired("file")

	cmd.AddCommand(initCmd, validateCmd)
	return cmd
}
