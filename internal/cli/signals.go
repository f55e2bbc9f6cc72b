package cli

import (
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/momentum/config"
	"github.com/rustyeddy/momentum/journal"
	"github.com/rustyeddy/momentum/market"
	"github.com/rustyeddy/momentum/market/strategies"
	"github.com/rustyeddy/momentum/metrics"
	"github.com/rustyeddy/momentum/signals"
)

func newSignalsCmd(rc *RootConfig) *cobra.Command {
	var (
		candles     []string
		pair        string
		timeframe   string
		dbPath      string
		csvPath     string
		tail        int
		show        int
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "signals",
		Short: "Evaluate indicators and entry/exit signals over candle files",
		Long: `Run the configured strategy over one or more OHLCV CSV files
(time,open,high,low,close,volume). Rows inside the warm-up window are
computed but not counted.

With several --candles files each file is one pair, named after the file.

Examples:
  momentum signals --candles btc_5m.csv --pair BTC/USDT
  momentum signals --candles btc.csv --candles eth.csv --db signals.db`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rc.Cfg
			flags := cmd.Flags()
			if flags.Changed("pair") {
				cfg.Signals.Pair = pair
			}
			if flags.Changed("timeframe") {
				cfg.Signals.Timeframe = timeframe
			}
			if flags.Changed("tail") {
				cfg.Signals.Tail = tail
			}
			if flags.Changed("metrics-addr") {
				cfg.Signals.MetricsAddr = metricsAddr
			}
			if flags.Changed("db") {
				cfg.Journal = journalFor("sqlite", dbPath)
			}
			if flags.Changed("csv") {
				cfg.Journal = journalFor("csv", csvPath)
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("config: %w", err)
			}

			strat, err := rc.NewStrategy()
			if err != nil {
				return err
			}

			frames := make([]*market.Frame, 0, len(candles))
			for _, path := range candles {
				cs, err := market.LoadCandlesCSV(path)
				if err != nil {
					return err
				}
				p := cfg.Signals.Pair
				if len(candles) > 1 {
					p = pairFromPath(path)
				}
				frames = append(frames, market.NewFrame(p, cfg.Signals.Timeframe, cs))
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			var srv *http.Server
			if cfg.Signals.MetricsAddr != "" {
				srv = serveMetrics(cfg.Signals.MetricsAddr, rc)
				defer srv.Close()
			}

			opts := []signals.Option{
				signals.WithLogger(rc.Log),
				signals.WithWorkers(cfg.Signals.Workers),
				signals.WithTail(cfg.Signals.Tail),
				signals.WithDataset(strings.Join(candles, ",")),
			}
			j, err := openJournal(cfg.Journal.Type, cfg.Journal.DBPath, cfg.Journal.CSVPath)
			if err != nil {
				return err
			}
			if j != nil {
				defer j.Close()
				opts = append(opts, signals.WithJournal(j))
			}

			results, err := signals.NewRunner(strat, opts...).RunAll(ctx, frames)
			if err != nil {
				return err
			}
			printResults(cmd, results, show)

			if srv != nil {
				fmt.Fprintf(out(cmd), "serving metrics on %s, interrupt to exit\n", cfg.Signals.MetricsAddr)
				<-ctx.Done()
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&candles, "candles", nil, "OHLCV CSV file (repeatable)")
	cmd.Flags().StringVar(&pair, "pair", "", "pair name for a single candles file")
	cmd.Flags().StringVar(&timeframe, "timeframe", "", "candle timeframe, e.g. 5m")
	cmd.Flags().StringVar(&dbPath, "db", "", "record runs in this SQLite journal")
	cmd.Flags().StringVar(&csvPath, "csv", "", "record rows in this CSV file (runs go to <name>.runs.csv)")
	cmd.Flags().IntVar(&tail, "tail", 0, "journal only the last N trusted rows (0 = all)")
	cmd.Flags().IntVar(&show, "show", 10, "print the last N rows that carry an entry signal")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address after the run")
	_ = cmd.MarkFlagRequired("candles")
	cmd.MarkFlagsMutuallyExclusive("db", "csv")

	return cmd
}

func journalFor(kind, path string) config.JournalConfig {
	if kind == "sqlite" {
		return config.JournalConfig{Type: kind, DBPath: path}
	}
	return config.JournalConfig{Type: kind, CSVPath: path}
}

func openJournal(kind, dbPath, csvPath string) (journal.Journal, error) {
	switch kind {
	case "sqlite":
		j, err := journal.NewSQLite(dbPath)
		if err != nil {
			return nil, fmt.Errorf("open journal: %w", err)
		}
		return j, nil
	case "csv":
		j, err := journal.NewCSV(csvPath, journal.RunsPathFor(csvPath))
		if err != nil {
			return nil, fmt.Errorf("open journal: %w", err)
		}
		return j, nil
	}
	return nil, nil
}

func serveMetrics(addr string, rc *RootConfig) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			rc.Log.Error("metrics server", zap.String("addr", addr), zap.Error(err))
		}
	}()
	return srv
}

func pairFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func printResults(cmd *cobra.Command, results []signals.Result, show int) {
	w := tabwriter.NewWriter(out(cmd), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PAIR\tTF\tROWS\tWARMUP\tENTER_LONG\tENTER_SHORT\tEXIT_LONG\tEXIT_SHORT\tRUN")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%s\n",
			r.Pair, r.Frame.Timeframe, r.Frame.Len(), r.Warmup,
			r.Counts[strategies.EnterLong], r.Counts[strategies.EnterShort],
			r.Counts[strategies.ExitLong], r.Counts[strategies.ExitShort], r.RunID)
	}
	w.Flush()

	if show <= 0 {
		return
	}
	for _, r := range results {
		entries := entryRows(r.Trusted(), show)
		if len(entries) == 0 {
			continue
		}
		fmt.Fprintf(out(cmd), "\n%s entries:\n", r.Pair)
		w := tabwriter.NewWriter(out(cmd), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TIME\tCLOSE\tSIGNAL\tRSI\tADX")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%.5f\t%s\t%.1f\t%.1f\n", e.time.Format(time.RFC3339), e.close, e.signal, e.rsi, e.adx)
		}
		w.Flush()
	}
}

type entryRow struct {
	time     time.Time
	close    float64
	signal   string
	rsi, adx float64
}

// entryRows returns the last n rows of f with an entry signal.
func entryRows(f *market.Frame, n int) []entryRow {
	var (
		long  = f.Flags(strategies.EnterLong)
		short = f.Flags(strategies.EnterShort)
		rsi   = f.Column(strategies.ColRSI)
		adx   = f.Column(strategies.ColADX)
		rows  []entryRow
	)
	for i := f.Len() - 1; i >= 0 && len(rows) < n; i-- {
		var sig string
		switch {
		case long[i]:
			sig = strategies.EnterLong
		case short[i]:
			sig = strategies.EnterShort
		default:
			continue
		}
		rows = append(rows, entryRow{time: f.Time[i], close: f.Close[i], signal: sig, rsi: rsi[i], adx: adx[i]})
	}
	slices.Reverse(rows)
	return rows
}
