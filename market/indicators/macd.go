package indicators

import (
	"fmt"

	"github.com/rustyeddy/momentum/market"
)

// MACD is Moving Average Convergence Divergence.
//
//	line   = EMA(fast) - EMA(slow)
//	signal = EMA(signal) of line
//	hist   = line - signal
//
// Both EMAs start on the same bar: the fast EMA ignores the first
// slow-fast inputs, so it is seeded with the SMA of the fast window that
// ends where the slow EMA is seeded. This is how TA-Lib aligns them.
// The line exists once the slow EMA is ready; the indicator is Ready only
// once the signal EMA has seen enough line values, so all three outputs
// become available on the same bar (slow+signal-1 updates).
type MACD struct {
	fast   *EMA
	slow   *EMA
	signal *EMA

	skip int
	seen int

	line float64
	name string
}

func NewMACD(fast, slow, signal int) *MACD {
	if fast <= 0 || slow <= 0 || signal <= 0 {
		panic("MACD periods must be > 0")
	}
	if fast >= slow {
		panic("MACD requires fast < slow")
	}
	return &MACD{
		fast:   NewEMA(fast),
		slow:   NewEMA(slow),
		signal: NewEMA(signal),
		skip:   slow - fast,
		name:   fmt.Sprintf("MACD(%d,%d,%d)", fast, slow, signal),
	}
}

func (m *MACD) Name() string { return m.name }
func (m *MACD) Warmup() int  { return m.slow.Warmup() + m.signal.Warmup() - 1 }
func (m *MACD) Ready() bool  { return m.signal.Ready() }

func (m *MACD) Reset() {
	m.fast.Reset()
	m.slow.Reset()
	m.signal.Reset()
	m.seen = 0
	m.line = 0
}

func (m *MACD) Update(c market.Candle) { m.Push(c.Close) }

func (m *MACD) Push(x float64) {
	m.seen++
	if m.seen > m.skip {
		m.fast.Push(x)
	}
	m.slow.Push(x)
	if !m.slow.Ready() {
		return
	}
	m.line = m.fast.Float64() - m.slow.Float64()
	m.signal.Push(m.line)
}

// Float64 returns the MACD line.
func (m *MACD) Float64() float64 { return m.Line() }

func (m *MACD) Line() float64 {
	if !m.Ready() {
		return 0
	}
	return m.line
}

func (m *MACD) Signal() float64 {
	if !m.Ready() {
		return 0
	}
	return m.signal.Float64()
}

func (m *MACD) Hist() float64 {
	if !m.Ready() {
		return 0
	}
	return m.line - m.signal.Float64()
}
