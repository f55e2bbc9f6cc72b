package indicators

import (
	"fmt"

	"github.com/rustyeddy/momentum/market"
)

// RSI is Wilder's Relative Strength Index.
//
// The first value averages the first n close-to-close changes, so RSI is
// ready after n+1 updates. After that gains and losses are Wilder-smoothed:
// avg = (avg*(n-1) + x) / n.
//
// A window with no movement at all reads 50 (neutral); a window with gains
// and no losses reads 100.
type RSI struct {
	n int

	prev    float64
	hasPrev bool
	changes int

	sumGain float64
	sumLoss float64
	avgGain float64
	avgLoss float64

	name string
}

func NewRSI(period int) *RSI {
	if period <= 0 {
		panic("RSI period must be > 0")
	}
	return &RSI{
		n:    period,
		name: fmt.Sprintf("RSI(%d)", period),
	}
}

func (r *RSI) Name() string { return r.name }
func (r *RSI) Warmup() int  { return r.n + 1 }
func (r *RSI) Ready() bool  { return r.changes >= r.n }

func (r *RSI) Reset() {
	*r = RSI{n: r.n, name: r.name}
}

func (r *RSI) Update(c market.Candle) { r.Push(c.Close) }

func (r *RSI) Push(x float64) {
	if !r.hasPrev {
		r.prev = x
		r.hasPrev = true
		return
	}

	change := x - r.prev
	r.prev = x

	var gain, loss float64
	if change > 0 {
		gain = change
	} else if change < 0 {
		loss = -change
	}

	r.changes++
	nf := float64(r.n)

	if r.changes <= r.n {
		r.sumGain += gain
		r.sumLoss += loss
		if r.changes == r.n {
			r.avgGain = r.sumGain / nf
			r.avgLoss = r.sumLoss / nf
		}
		return
	}

	r.avgGain = (r.avgGain*(nf-1) + gain) / nf
	r.avgLoss = (r.avgLoss*(nf-1) + loss) / nf
}

func (r *RSI) Float64() float64 {
	if !r.Ready() {
		return 0
	}
	total := r.avgGain + r.avgLoss
	if total == 0 {
		return 50
	}
	return 100.0 * r.avgGain / total
}
