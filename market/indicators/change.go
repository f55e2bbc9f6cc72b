package indicators

import (
	"fmt"

	"github.com/rustyeddy/momentum/market"
)

// PctChange is the percent change of a value over the last k updates:
// (x_i / x_{i-k} - 1) * 100.
type PctChange struct {
	k    int
	hist []float64
	name string
}

func NewPctChange(k int) *PctChange {
	if k <= 0 {
		panic("PctChange lookback must be > 0")
	}
	return &PctChange{
		k:    k,
		hist: make([]float64, 0, k+1),
		name: fmt.Sprintf("PCTCHANGE(%d)", k),
	}
}

func (p *PctChange) Name() string { return p.name }
func (p *PctChange) Warmup() int  { return p.k + 1 }
func (p *PctChange) Ready() bool  { return len(p.hist) == p.k+1 }
func (p *PctChange) Reset()       { p.hist = p.hist[:0] }

func (p *PctChange) Update(c market.Candle) { p.Push(c.Close) }

func (p *PctChange) Push(x float64) {
	p.hist = append(p.hist, x)
	if len(p.hist) > p.k+1 {
		p.hist = p.hist[1:]
	}
}

// Float64 may be ±Inf or NaN when the base value is zero.
func (p *PctChange) Float64() float64 {
	if !p.Ready() {
		return 0
	}
	return (p.hist[p.k]/p.hist[0] - 1) * 100
}

// Ratio is the current value divided by the previous one.
type Ratio struct {
	prev  float64
	cur   float64
	count int
}

func NewRatio() *Ratio { return &Ratio{} }

func (r *Ratio) Name() string { return "RATIO(1)" }
func (r *Ratio) Warmup() int  { return 2 }
func (r *Ratio) Ready() bool  { return r.count >= 2 }
func (r *Ratio) Reset()       { *r = Ratio{} }

func (r *Ratio) Update(c market.Candle) { r.Push(c.Close) }

func (r *Ratio) Push(x float64) {
	r.prev = r.cur
	r.cur = x
	r.count++
}

// Float64 follows IEEE division: x/0 is ±Inf and 0/0 is NaN.
func (r *Ratio) Float64() float64 {
	if !r.Ready() {
		return 0
	}
	return r.cur / r.prev
}
