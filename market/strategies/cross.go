package strategies

import (
	"math"

	"github.com/rustyeddy/momentum/market"
)

// Crossover remembers the previous pair of values so it can tell when a
// moves from one side of b to the other.
type Crossover struct {
	prevA, prevB float64
	seen         bool
}

// Update feeds the next pair and reports whether a crossed above or below
// b on this row. A NaN in the current or previous pair reports neither.
func (c *Crossover) Update(a, b float64) (above, below bool) {
	if c.seen && !anyNaN(a, b, c.prevA, c.prevB) {
		above = a > b && c.prevA <= c.prevB
		below = a < b && c.prevA >= c.prevB
	}
	c.prevA, c.prevB = a, b
	c.seen = true
	return above, below
}

func (c *Crossover) Reset() { *c = Crossover{} }

// CrossedAbove flags rows where a moved from at or below b to above it.
func CrossedAbove(a, b market.Series) []bool {
	up, _ := crossings(a, b)
	return up
}

// CrossedBelow flags rows where a moved from at or above b to below it.
func CrossedBelow(a, b market.Series) []bool {
	_, down := crossings(a, b)
	return down
}

func crossings(a, b market.Series) (up, down []bool) {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	up = make([]bool, n)
	down = make([]bool, n)
	var c Crossover
	for i := 0; i < n; i++ {
		up[i], down[i] = c.Update(a[i], b[i])
	}
	return up, down
}

func anyNaN(xs ...float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) {
			return true
		}
	}
	return false
}
