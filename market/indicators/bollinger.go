package indicators

import (
	"fmt"
	"math"

	"github.com/rustyeddy/momentum/market"
)

// Bollinger computes Bollinger Bands over the candle typical price
// (high+low+close)/3: middle = SMA(n), upper/lower = middle ± k·σ where σ
// is the sample standard deviation (ddof=1) of the same window.
type Bollinger struct {
	n    int
	k    float64
	win  window
	name string
}

func NewBollinger(period int, stds float64) *Bollinger {
	if period <= 0 {
		panic("Bollinger period must be > 0")
	}
	if stds <= 0 {
		panic("Bollinger stds must be > 0")
	}
	return &Bollinger{
		n:    period,
		k:    stds,
		win:  newWindow(period),
		name: fmt.Sprintf("BB(%d,%.1f)", period, stds),
	}
}

func (b *Bollinger) Name() string { return b.name }
func (b *Bollinger) Warmup() int  { return b.n }
func (b *Bollinger) Ready() bool  { return b.win.full }
func (b *Bollinger) Reset()       { b.win.reset() }

// Float64 returns the middle band.
func (b *Bollinger) Float64() float64 { return b.Middle() }

func (b *Bollinger) Update(c market.Candle) { b.Push(c.TypicalPrice()) }
func (b *Bollinger) Push(x float64)         { b.win.push(x) }

func (b *Bollinger) Middle() float64 {
	if !b.Ready() {
		return 0
	}
	return b.win.mean()
}

// Bands returns lower, middle and upper.
func (b *Bollinger) Bands() (lower, middle, upper float64) {
	if !b.Ready() {
		return 0, 0, 0
	}
	middle = b.win.mean()
	dev := b.k * b.win.sampleStd()
	return middle - dev, middle, middle + dev
}

// Width is (upper-lower)/middle.
func (b *Bollinger) Width() float64 {
	lower, middle, upper := b.Bands()
	return bandWidth(lower, middle, upper)
}

// PercentB locates price inside the bands: 0 at the lower band, 1 at the
// upper band. NaN when the bands have collapsed.
func (b *Bollinger) PercentB(price float64) float64 {
	lower, _, upper := b.Bands()
	return percentB(price, lower, upper)
}

func bandWidth(lower, middle, upper float64) float64 {
	if middle == 0 {
		return math.NaN()
	}
	return (upper - lower) / middle
}

func percentB(price, lower, upper float64) float64 {
	span := upper - lower
	if span == 0 {
		return math.NaN()
	}
	return (price - lower) / span
}
