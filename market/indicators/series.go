package indicators

import (
	"math"

	"github.com/rustyeddy/momentum/market"
)

// The *Series helpers run a streaming indicator over a whole column and
// return a result aligned row-for-row with the input. Rows before the
// indicator is ready are NaN. Row i only ever depends on rows 0..i.

func runValues(ind ValueIndicator, src market.Series) market.Series {
	out := make(market.Series, len(src))
	for i, x := range src {
		ind.Push(x)
		if ind.Ready() {
			out[i] = ind.Float64()
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

func SMASeries(src market.Series, period int) market.Series {
	return runValues(NewSMA(period), src)
}

func StdDevSeries(src market.Series, period int) market.Series {
	return runValues(NewStdDev(period), src)
}

func EMASeries(src market.Series, period int) market.Series {
	return runValues(NewEMA(period), src)
}

func RSISeries(src market.Series, period int) market.Series {
	return runValues(NewRSI(period), src)
}

// PctChangeSeries reports percent change over k rows. Rows without a
// defined value (warm-up, 0/0) are filled with 0.
func PctChangeSeries(src market.Series, k int) market.Series {
	out := runValues(NewPctChange(k), src)
	for i, v := range out {
		if math.IsNaN(v) {
			out[i] = 0
		}
	}
	return out
}

// RatioSeries divides each value by the previous one. The first row is NaN.
func RatioSeries(src market.Series) market.Series {
	return runValues(NewRatio(), src)
}

// MACDResult holds the three MACD columns.
type MACDResult struct {
	Line   market.Series
	Signal market.Series
	Hist   market.Series
}

func MACDSeries(src market.Series, fast, slow, signal int) MACDResult {
	m := NewMACD(fast, slow, signal)
	res := MACDResult{
		Line:   market.NaNSeries(len(src)),
		Signal: market.NaNSeries(len(src)),
		Hist:   market.NaNSeries(len(src)),
	}
	for i, x := range src {
		m.Push(x)
		if !m.Ready() {
			continue
		}
		res.Line[i] = m.Line()
		res.Signal[i] = m.Signal()
		res.Hist[i] = m.Hist()
	}
	return res
}

// BollingerResult holds the band columns plus the derived width and %B.
type BollingerResult struct {
	Upper  market.Series
	Middle market.Series
	Lower  market.Series
	Width  market.Series
	PctB   market.Series
}

// BollingerSeries computes bands over src and locates price inside them.
// src and price must have the same length.
func BollingerSeries(src, price market.Series, period int, stds float64) BollingerResult {
	b := NewBollinger(period, stds)
	n := len(src)
	res := BollingerResult{
		Upper:  market.NaNSeries(n),
		Middle: market.NaNSeries(n),
		Lower:  market.NaNSeries(n),
		Width:  market.NaNSeries(n),
		PctB:   market.NaNSeries(n),
	}
	for i, x := range src {
		b.Push(x)
		if !b.Ready() {
			continue
		}
		lower, middle, upper := b.Bands()
		res.Upper[i] = upper
		res.Middle[i] = middle
		res.Lower[i] = lower
		res.Width[i] = bandWidth(lower, middle, upper)
		res.PctB[i] = percentB(price[i], lower, upper)
	}
	return res
}

// TypicalPriceSeries returns (high+low+close)/3 per row.
func TypicalPriceSeries(f *market.Frame) market.Series {
	out := make(market.Series, f.Len())
	for i := range out {
		out[i] = (f.High[i] + f.Low[i] + f.Close[i]) / 3.0
	}
	return out
}

// ADXSeries runs ADX over the frame candles.
func ADXSeries(f *market.Frame, period int) market.Series {
	a := NewADX(period)
	out := market.NaNSeries(f.Len())
	for i := 0; i < f.Len(); i++ {
		a.Update(f.Candle(i))
		if a.Ready() {
			out[i] = a.Float64()
		}
	}
	return out
}
