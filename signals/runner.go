// Package signals runs a strategy over candle frames and reports what fired.
package signals

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rustyeddy/momentum/journal"
	"github.com/rustyeddy/momentum/logger"
	"github.com/rustyeddy/momentum/market"
	"github.com/rustyeddy/momentum/market/strategies"
	"github.com/rustyeddy/momentum/metrics"
	"github.com/rustyeddy/momentum/pkg/id"
)

// Result is the outcome of one frame.
type Result struct {
	RunID string
	Pair  string

	// Frame is the fully populated frame, warm-up rows included.
	Frame  *market.Frame
	Warmup int

	// Counts holds signal counts over the rows after warm-up.
	Counts map[string]int
	Took   time.Duration
}

// Trusted returns the rows after warm-up.
func (r Result) Trusted() *market.Frame {
	return r.Frame.Skip(r.Warmup)
}

type Runner struct {
	strategy strategies.Strategy
	log      logger.Logger
	journal  journal.Journal
	dataset  string
	tail     int
	workers  int
	now      func() time.Time

	// journal writes are serialised; CSV writers and SQLite transactions
	// do not interleave well.
	jmu sync.Mutex
}

type Option func(*Runner)

func WithLogger(l logger.Logger) Option { return func(r *Runner) { r.log = l } }

// WithJournal records every run, plus its trusted rows, in j.
func WithJournal(j journal.Journal) Option { return func(r *Runner) { r.journal = j } }

// WithDataset names the source recorded with each run.
func WithDataset(name string) Option { return func(r *Runner) { r.dataset = name } }

// WithTail limits journaled rows to the last n trusted rows.
func WithTail(n int) Option { return func(r *Runner) { r.tail = n } }

// WithWorkers bounds RunAll concurrency.
func WithWorkers(n int) Option { return func(r *Runner) { r.workers = n } }

func NewRunner(s strategies.Strategy, opts ...Option) *Runner {
	r := &Runner{
		strategy: s,
		log:      logger.Nop(),
		workers:  4,
		now:      time.Now,
	}
	for _, o := range opts {
		o(r)
	}
	if r.workers <= 0 {
		r.workers = 1
	}
	return r
}

// Run populates f in place and journals the result.
func (r *Runner) Run(ctx context.Context, f *market.Frame) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	name := r.strategy.Name()
	start := time.Now()
	if err := strategies.Populate(r.strategy, f); err != nil {
		metrics.FrameErrors.Inc()
		r.log.Error("evaluate frame", zap.String("pair", f.Pair), zap.Error(err))
		return Result{}, fmt.Errorf("signals %s: %w", f.Pair, err)
	}
	took := time.Since(start)

	warmup := r.strategy.Settings().StartupCandleCount
	trusted := f.Skip(warmup)
	counts := make(map[string]int, len(strategies.SignalNames))
	for _, s := range strategies.SignalNames {
		counts[s] = trusted.Count(s)
	}

	res := Result{
		RunID:  id.NewAt(r.now()),
		Pair:   f.Pair,
		Frame:  f,
		Warmup: warmup,
		Counts: counts,
		Took:   took,
	}

	metrics.ObserveFrame(name, took, counts)
	r.log.Info("frame evaluated",
		zap.String("run_id", res.RunID),
		zap.String("strategy", name),
		zap.String("pair", f.Pair),
		zap.String("timeframe", f.Timeframe),
		zap.Int("rows", f.Len()),
		zap.Int("warmup", warmup),
		zap.Int(strategies.EnterLong, counts[strategies.EnterLong]),
		zap.Int(strategies.EnterShort, counts[strategies.EnterShort]),
		zap.Int(strategies.ExitLong, counts[strategies.ExitLong]),
		zap.Int(strategies.ExitShort, counts[strategies.ExitShort]),
		zap.Duration("took", took),
	)
	if f.Len() <= warmup {
		r.log.Warn("frame shorter than warm-up, no trusted rows",
			zap.String("pair", f.Pair), zap.Int("rows", f.Len()), zap.Int("warmup", warmup))
	}

	if r.journal != nil {
		if err := r.record(ctx, res, trusted); err != nil {
			r.log.Error("journal run", zap.String("run_id", res.RunID), zap.Error(err))
			return res, fmt.Errorf("journal %s: %w", f.Pair, err)
		}
	}
	return res, nil
}

// RunAll evaluates independent frames concurrently. Results keep the order
// of frames. The first error cancels the frames not yet started.
func (r *Runner) RunAll(ctx context.Context, frames []*market.Frame) ([]Result, error) {
	results := make([]Result, len(frames))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, f := range frames {
		i, f := i, f
		g.Go(func() error {
			res, err := r.Run(gctx, f)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *Runner) record(ctx context.Context, res Result, trusted *market.Frame) error {
	f := res.Frame
	run := journal.SignalRun{
		RunID:      res.RunID,
		Created:    r.now().UTC(),
		Strategy:   r.strategy.Name(),
		Pair:       f.Pair,
		Timeframe:  f.Timeframe,
		Dataset:    r.dataset,
		Rows:       f.Len(),
		Warmup:     res.Warmup,
		EnterLong:  res.Counts[strategies.EnterLong],
		EnterShort: res.Counts[strategies.EnterShort],
		ExitLong:   res.Counts[strategies.ExitLong],
		ExitShort:  res.Counts[strategies.ExitShort],
	}
	if f.Len() > 0 {
		run.Start = f.Time[0]
		run.End = f.Time[f.Len()-1]
	}
	if p, ok := r.strategy.(interface{ Params() strategies.Params }); ok {
		if b, err := json.Marshal(p.Params()); err == nil {
			run.Config = b
		}
	}

	if r.tail > 0 {
		trusted = trusted.Tail(r.tail)
	}

	r.jmu.Lock()
	defer r.jmu.Unlock()
	return r.journal.Record(ctx, run, journal.NewRows(res.RunID, trusted))
}
