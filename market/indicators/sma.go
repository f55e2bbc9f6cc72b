package indicators

import (
	"fmt"
	"math"

	"github.com/rustyeddy/momentum/market"
)

// window is a fixed-size ring of the most recent n inputs.
type window struct {
	buf  []float64
	next int
	full bool
}

func newWindow(n int) window {
	return window{buf: make([]float64, n)}
}

func (w *window) push(x float64) {
	w.buf[w.next] = x
	w.next++
	if w.next == len(w.buf) {
		w.next = 0
		w.full = true
	}
}

func (w *window) reset() {
	for i := range w.buf {
		w.buf[i] = 0
	}
	w.next = 0
	w.full = false
}

// mean sums the whole window on every call. Windows are short and a fresh
// sum keeps a NaN from poisoning the result after it leaves the window.
func (w *window) mean() float64 {
	sum := 0.0
	for _, v := range w.buf {
		sum += v
	}
	return sum / float64(len(w.buf))
}

// std is the population standard deviation (ddof=0).
func (w *window) std() float64 {
	return math.Sqrt(w.squares() / float64(len(w.buf)))
}

// sampleStd is the sample standard deviation (ddof=1), what a pandas
// rolling std reports. A window of one is NaN.
func (w *window) sampleStd() float64 {
	n := len(w.buf)
	if n < 2 {
		return math.NaN()
	}
	return math.Sqrt(w.squares() / float64(n-1))
}

func (w *window) squares() float64 {
	m := w.mean()
	ss := 0.0
	for _, v := range w.buf {
		d := v - m
		ss += d * d
	}
	return ss
}

// SMA is a streaming Simple Moving Average.
type SMA struct {
	n    int
	win  window
	name string
}

func NewSMA(period int) *SMA {
	if period <= 0 {
		panic("SMA period must be > 0")
	}
	return &SMA{
		n:    period,
		win:  newWindow(period),
		name: fmt.Sprintf("SMA(%d)", period),
	}
}

func (s *SMA) Name() string { return s.name }
func (s *SMA) Warmup() int  { return s.n }
func (s *SMA) Ready() bool  { return s.win.full }
func (s *SMA) Reset()       { s.win.reset() }

func (s *SMA) Float64() float64 {
	if !s.Ready() {
		return 0
	}
	return s.win.mean()
}

// Update feeds the candle close.
func (s *SMA) Update(c market.Candle) { s.Push(c.Close) }
func (s *SMA) Push(x float64)         { s.win.push(x) }

// StdDev is a streaming rolling population standard deviation.
type StdDev struct {
	n    int
	win  window
	name string
}

func NewStdDev(period int) *StdDev {
	if period <= 0 {
		panic("StdDev period must be > 0")
	}
	return &StdDev{
		n:    period,
		win:  newWindow(period),
		name: fmt.Sprintf("STDDEV(%d)", period),
	}
}

func (s *StdDev) Name() string { return s.name }
func (s *StdDev) Warmup() int  { return s.n }
func (s *StdDev) Ready() bool  { return s.win.full }
func (s *StdDev) Reset()       { s.win.reset() }

func (s *StdDev) Float64() float64 {
	if !s.Ready() {
		return 0
	}
	return s.win.std()
}

func (s *StdDev) Update(c market.Candle) { s.Push(c.Close) }
func (s *StdDev) Push(x float64)         { s.win.push(x) }
