package cli

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newSettingsCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "settings",
		Short: "Print the strategy settings a host consumes, as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			strat, err := rc.NewStrategy()
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(out(cmd))
			enc.SetIndent(2)
			if err := enc.Encode(struct {
				Name     string `yaml:"name"`
				Settings any    `yaml:"settings"`
			}{strat.Name(), strat.Settings()}); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}
