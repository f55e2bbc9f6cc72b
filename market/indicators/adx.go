package indicators

import (
	"fmt"
	"math"

	"github.com/rustyeddy/momentum/market"
)

// ADX computes the Average Directional Index (Wilder) over candle OHLC,
// seeded the way TA-Lib seeds it.
//
// Readiness / warmup:
//  1. N-1 periods are summed to start the TR/+DM/-DM accumulators
//  2. from period N on they are Wilder smoothed and a DX is produced
//  3. the first ADX is the average of the DX values of periods N..2N-1
//
// A period is the difference between two candles, so ADX is ready on
// candle 2N (index 2N-1). A DX is undefined while the smoothed true range
// or DI sum is zero; it adds nothing to the seed and leaves a ready ADX
// unchanged.
type ADX struct {
	n    int
	name string

	prev    market.Candle
	hasPrev bool
	ready   bool
	adx     float64
	plusDI  float64
	minusDI float64
	lastDX  float64
	periods int

	// Wilder smoothed values; plain sums until period N
	smTR      float64
	smPlusDM  float64
	smMinusDM float64

	// seeding ADX: DX values of periods N..2N-1
	dxSum float64
}

func NewADX(period int) *ADX {
	if period <= 0 {
		panic("ADX period must be > 0")
	}
	return &ADX{
		n:    period,
		name: fmt.Sprintf("ADX(%d)", period),
	}
}

func (a *ADX) Name() string { return a.name }
func (a *ADX) Warmup() int  { return 2 * a.n }
func (a *ADX) Ready() bool  { return a.ready }

func (a *ADX) Float64() float64 {
	if !a.ready {
		return 0
	}
	return a.adx
}

func (a *ADX) Reset() {
	*a = ADX{
		n:    a.n,
		name: a.name,
	}
}

// Update consumes the next closed candle.
func (a *ADX) Update(c market.Candle) {
	// Need a previous candle to form a "period"
	if !a.hasPrev {
		a.prev = c
		a.hasPrev = true
		return
	}

	tr := trueRange(c, a.prev)

	// Directional Movement
	upMove := c.High - a.prev.High
	downMove := a.prev.Low - c.Low

	var plusDM, minusDM float64
	if upMove > downMove && upMove > 0 {
		plusDM = upMove
	}
	if downMove > upMove && downMove > 0 {
		minusDM = downMove
	}

	a.periods++
	a.prev = c

	if a.periods < a.n {
		a.smTR += tr
		a.smPlusDM += plusDM
		a.smMinusDM += minusDM
		return
	}

	// smoothed = prior_smoothed - (prior_smoothed / N) + current
	nf := float64(a.n)
	a.smTR = a.smTR - (a.smTR / nf) + tr
	a.smPlusDM = a.smPlusDM - (a.smPlusDM / nf) + plusDM
	a.smMinusDM = a.smMinusDM - (a.smMinusDM / nf) + minusDM

	a.plusDI, a.minusDI = di(a.smPlusDM, a.smMinusDM, a.smTR)
	dxVal, ok := dx(a.plusDI, a.minusDI)
	a.lastDX = dxVal

	if !a.ready {
		if ok {
			a.dxSum += dxVal
		}
		if a.periods == 2*a.n-1 {
			a.adx = a.dxSum / nf
			a.ready = true
		}
		return
	}

	// ADX Wilder smoothing: (prevADX*(N-1) + DX) / N
	if ok {
		a.adx = (a.adx*(nf-1.0) + dxVal) / nf
	}
}

func (a *ADX) PlusDI() float64  { return a.plusDI }
func (a *ADX) MinusDI() float64 { return a.minusDI }
func (a *ADX) DX() float64      { return a.lastDX }

func di(smPlusDM, smMinusDM, smTR float64) (plusDI, minusDI float64) {
	if smTR <= 0 {
		return 0, 0
	}
	plusDI = 100.0 * (smPlusDM / smTR)
	minusDI = 100.0 * (smMinusDM / smTR)
	return plusDI, minusDI
}

// dx reports false when the DI sum is zero and DX is undefined.
func dx(plusDI, minusDI float64) (float64, bool) {
	den := plusDI + minusDI
	if den <= 0 {
		return 0, false
	}
	return 100.0 * (math.Abs(plusDI-minusDI) / den), true
}

// trueRange is the widest of high-low and the gaps from the previous close.
func trueRange(current, previous market.Candle) float64 {
	highLow := current.High - current.Low
	highClose := math.Abs(current.High - previous.Close)
	lowClose := math.Abs(current.Low - previous.Close)

	return math.Max(highLow, math.Max(highClose, lowClose))
}
