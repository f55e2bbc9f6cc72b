package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/momentum/market/strategies"
)

func newStoplossCmd(rc *RootConfig) *cobra.Command {
	var (
		profit float64
		pair   string
	)

	cmd := &cobra.Command{
		Use:   "stoploss",
		Short: "Print the stoploss fraction for a given current profit",
		Long: `Evaluate the strategy's custom stoploss for a position.

Example:
  momentum stoploss --profit 0.015 --pair BTC/USDT`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			strat, err := rc.NewStrategy()
			if err != nil {
				return err
			}
			if pair == "" {
				pair = rc.Cfg.Signals.Pair
			}
			pos := strategies.Position{Pair: pair}
			sl := strat.CustomStoploss(pair, pos, time.Now().UTC(), 0, profit)
			fmt.Fprintf(out(cmd), "%s profit=%.4f stoploss=%.4f\n", pair, profit, sl)
			return nil
		},
	}

	cmd.Flags().Float64Var(&profit, "profit", 0, "current profit as a fraction, e.g. 0.015")
	cmd.Flags().StringVar(&pair, "pair", "", "pair (defaults to signals.pair)")
	_ = cmd.MarkFlagRequired("profit")
	return cmd
}
