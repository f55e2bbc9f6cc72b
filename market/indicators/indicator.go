// Package indicators provides streaming technical indicators and batch
// helpers that run them over a whole column.
package indicators

import "github.com/rustyeddy/momentum/market"

// Indicator computes a single streaming value from candles.
// It is deterministic and safe to use in live, replay, and backtests.
type Indicator interface {
	// Name returns a stable identifier like "EMA(20)" or "RSI(14)".
	Name() string

	// Warmup returns how many updates are needed before Ready() can be true.
	Warmup() int

	// Reset clears all internal state.
	Reset()

	// Update consumes the next *closed* candle and updates internal state.
	Update(c market.Candle)

	// Ready reports whether Float64() is meaningful (warmup completed).
	Ready() bool

	// Float64 returns the current value. If !Ready() it returns 0;
	// callers should always check Ready().
	Float64() float64
}

// ValueIndicator is an Indicator that can also be fed plain values, which
// lets it run over derived columns (volume, typical price, MACD line).
type ValueIndicator interface {
	Indicator
	Push(x float64)
}
