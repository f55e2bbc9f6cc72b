package indicators

import (
	"fmt"

	"github.com/rustyeddy/momentum/market"
)

// EMA computes an Exponential Moving Average.
//
// alpha = 2/(n+1). The first value is the simple average of the first n
// inputs, so the EMA becomes ready on the n-th update. This matches the
// TA-Lib seeding used by most charting packages.
type EMA struct {
	n     int
	alpha float64

	seen  int
	sum   float64
	value float64

	name string
}

func NewEMA(period int) *EMA {
	if period <= 0 {
		panic("EMA period must be > 0")
	}
	return &EMA{
		n:     period,
		alpha: 2.0 / float64(period+1),
		name:  fmt.Sprintf("EMA(%d)", period),
	}
}

func (e *EMA) Name() string { return e.name }
func (e *EMA) Warmup() int  { return e.n }
func (e *EMA) Ready() bool  { return e.seen >= e.n }

func (e *EMA) Float64() float64 {
	if !e.Ready() {
		return 0
	}
	return e.value
}

func (e *EMA) Reset() {
	e.seen = 0
	e.sum = 0
	e.value = 0
}

// Update feeds the candle close.
func (e *EMA) Update(c market.Candle) { e.Push(c.Close) }

func (e *EMA) Push(x float64) {
	e.seen++
	if e.seen <= e.n {
		e.sum += x
		if e.seen == e.n {
			e.value = e.sum / float64(e.n)
		}
		return
	}
	e.value = e.alpha*x + (1.0-e.alpha)*e.value
}
