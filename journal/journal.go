// Package journal stores evaluated signal runs for later inspection.
package journal

import (
	"context"
	"time"

	"github.com/rustyeddy/momentum/market"
	"github.com/rustyeddy/momentum/market/strategies"
)

// SignalRun summarises one evaluation of a strategy over a dataset.
type SignalRun struct {
	RunID     string
	Created   time.Time
	Strategy  string
	Pair      string
	Timeframe string
	Dataset   string
	Config    []byte // strategy params as JSON

	Start time.Time
	End   time.Time

	Rows   int
	Warmup int

	// Signal counts over rows after warm-up.
	EnterLong  int
	EnterShort int
	ExitLong   int
	ExitShort  int
}

// SignalRow is one evaluated bar. Undefined indicator values are NaN.
type SignalRow struct {
	RunID string
	Time  time.Time

	Close  float64
	Volume float64

	EMA9       float64
	EMA21      float64
	MACD       float64
	MACDSignal float64
	RSI        float64
	ADX        float64
	BBUpper    float64
	BBLower    float64

	EnterLong  bool
	EnterShort bool
	ExitLong   bool
	ExitShort  bool
}

// Journal records runs and their rows.
type Journal interface {
	RecordRun(ctx context.Context, run SignalRun) error
	RecordRows(ctx context.Context, rows []SignalRow) error

	// Record stores a run together with its rows. SQLite keeps both or
	// neither; CSV appends the run line before the rows.
	Record(ctx context.Context, run SignalRun, rows []SignalRow) error
	Close() error
}

// NewRows converts a populated frame to journal rows. Columns the frame
// lacks read as NaN or false.
func NewRows(runID string, f *market.Frame) []SignalRow {
	col := func(name string) market.Series {
		if s := f.Column(name); s != nil {
			return s
		}
		return market.NaNSeries(f.Len())
	}
	flag := func(name string) []bool {
		if b := f.Flags(name); b != nil {
			return b
		}
		return make([]bool, f.Len())
	}

	var (
		ema9   = col(strategies.ColEMA9)
		ema21  = col(strategies.ColEMA21)
		macd   = col(strategies.ColMACD)
		signal = col(strategies.ColMACDSignal)
		rsi    = col(strategies.ColRSI)
		adx    = col(strategies.ColADX)
		upper  = col(strategies.ColBBUpper)
		lower  = col(strategies.ColBBLower)
		el     = flag(strategies.EnterLong)
		es     = flag(strategies.EnterShort)
		xl     = flag(strategies.ExitLong)
		xs     = flag(strategies.ExitShort)
	)

	out := make([]SignalRow, f.Len())
	for i := range out {
		out[i] = SignalRow{
			RunID:      runID,
			Time:       f.Time[i],
			Close:      f.Close[i],
			Volume:     f.Volume[i],
			EMA9:       ema9[i],
			EMA21:      ema21[i],
			MACD:       macd[i],
			MACDSignal: signal[i],
			RSI:        rsi[i],
			ADX:        adx[i],
			BBUpper:    upper[i],
			BBLower:    lower[i],
			EnterLong:  el[i],
			EnterShort: es[i],
			ExitLong:   xl[i],
			ExitShort:  xs[i],
		}
	}
	return out
}
