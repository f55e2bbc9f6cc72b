package market

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrColumnExists   = errors.New("column already exists")
	ErrLengthMismatch = errors.New("column length does not match frame")
	ErrMissingColumn  = errors.New("missing column")
)

// Raw column names. They are always present on a Frame.
const (
	ColOpen   = "open"
	ColHigh   = "high"
	ColLow    = "low"
	ColClose  = "close"
	ColVolume = "volume"
)

// Series is one numeric column. Undefined values are NaN.
type Series []float64

// Valid reports whether the value at i exists and is a real number.
func (s Series) Valid(i int) bool {
	if i < 0 || i >= len(s) {
		return false
	}
	v := s[i]
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// At returns the value at i, or NaN when i is out of range.
func (s Series) At(i int) float64 {
	if i < 0 || i >= len(s) {
		return math.NaN()
	}
	return s[i]
}

// NaNSeries returns a series of length n filled with NaN.
func NaNSeries(n int) Series {
	s := make(Series, n)
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}

// Frame is a column-oriented OHLCV table indexed by bar time.
//
// Raw columns are fixed at construction. Derived columns and boolean flag
// columns can only be appended; an existing column is never rewritten. Every
// column has exactly Len() values and row i of a derived column may only
// depend on rows 0..i.
type Frame struct {
	Pair      string
	Timeframe string

	Time   []time.Time
	Open   Series
	High   Series
	Low    Series
	Close  Series
	Volume Series

	columns map[string]Series
	flags   map[string][]bool
	colSeq  []string
	flagSeq []string
}

// NewFrame builds a frame from candles ordered oldest first.
func NewFrame(pair, timeframe string, candles []Candle) *Frame {
	n := len(candles)
	f := &Frame{
		Pair:      pair,
		Timeframe: timeframe,
		Time:      make([]time.Time, n),
		Open:      make(Series, n),
		High:      make(Series, n),
		Low:       make(Series, n),
		Close:     make(Series, n),
		Volume:    make(Series, n),
		columns:   make(map[string]Series),
		flags:     make(map[string][]bool),
	}
	for i, c := range candles {
		f.Time[i] = c.Time
		f.Open[i] = c.Open
		f.High[i] = c.High
		f.Low[i] = c.Low
		f.Close[i] = c.Close
		f.Volume[i] = c.Volume
	}
	return f
}

func (f *Frame) Len() int { return len(f.Close) }

// Candle returns row i as a Candle.
func (f *Frame) Candle(i int) Candle {
	return Candle{
		Time:   f.Time[i],
		Open:   f.Open[i],
		High:   f.High[i],
		Low:    f.Low[i],
		Close:  f.Close[i],
		Volume: f.Volume[i],
	}
}

// Candles returns every row as a Candle slice.
func (f *Frame) Candles() []Candle {
	out := make([]Candle, f.Len())
	for i := range out {
		out[i] = f.Candle(i)
	}
	return out
}

// Column returns a raw or derived column, nil when it does not exist.
func (f *Frame) Column(name string) Series {
	switch name {
	case ColOpen:
		return f.Open
	case ColHigh:
		return f.High
	case ColLow:
		return f.Low
	case ColClose:
		return f.Close
	case ColVolume:
		return f.Volume
	}
	return f.columns[name]
}

// Flags returns a boolean column, nil when it does not exist.
func (f *Frame) Flags(name string) []bool {
	return f.flags[name]
}

// Columns lists the derived columns in the order they were added.
func (f *Frame) Columns() []string {
	return append([]string(nil), f.colSeq...)
}

// FlagNames lists the flag columns in the order they were added.
func (f *Frame) FlagNames() []string {
	return append([]string(nil), f.flagSeq...)
}

// Has reports whether a raw, derived or flag column called name exists.
func (f *Frame) Has(name string) bool {
	switch name {
	case ColOpen, ColHigh, ColLow, ColClose, ColVolume:
		return true
	}
	if _, ok := f.columns[name]; ok {
		return true
	}
	_, ok := f.flags[name]
	return ok
}

// AddColumn appends a derived numeric column.
func (f *Frame) AddColumn(name string, s Series) error {
	if f.Has(name) {
		return fmt.Errorf("add column %q: %w", name, ErrColumnExists)
	}
	if len(s) != f.Len() {
		return fmt.Errorf("add column %q (%d != %d): %w", name, len(s), f.Len(), ErrLengthMismatch)
	}
	f.columns[name] = s
	f.colSeq = append(f.colSeq, name)
	return nil
}

// AddFlags appends a derived boolean column.
func (f *Frame) AddFlags(name string, b []bool) error {
	if f.Has(name) {
		return fmt.Errorf("add flags %q: %w", name, ErrColumnExists)
	}
	if len(b) != f.Len() {
		return fmt.Errorf("add flags %q (%d != %d): %w", name, len(b), f.Len(), ErrLengthMismatch)
	}
	f.flags[name] = b
	f.flagSeq = append(f.flagSeq, name)
	return nil
}

// Require returns ErrMissingColumn naming the first absent column.
func (f *Frame) Require(names ...string) error {
	for _, n := range names {
		if !f.Has(n) {
			return fmt.Errorf("%w: %s", ErrMissingColumn, n)
		}
	}
	return nil
}

// Skip returns a copy of the frame without its first n rows. Hosts use it
// to drop the warm-up rows before trusting signals.
func (f *Frame) Skip(n int) *Frame {
	if n < 0 {
		n = 0
	}
	if n > f.Len() {
		n = f.Len()
	}
	return f.slice(n, f.Len())
}

// Tail returns a copy of the last n rows.
func (f *Frame) Tail(n int) *Frame {
	if n < 0 {
		n = 0
	}
	if n > f.Len() {
		n = f.Len()
	}
	return f.slice(f.Len()-n, f.Len())
}

func (f *Frame) slice(from, to int) *Frame {
	out := &Frame{
		Pair:      f.Pair,
		Timeframe: f.Timeframe,
		Time:      append([]time.Time(nil), f.Time[from:to]...),
		Open:      append(Series(nil), f.Open[from:to]...),
		High:      append(Series(nil), f.High[from:to]...),
		Low:       append(Series(nil), f.Low[from:to]...),
		Close:     append(Series(nil), f.Close[from:to]...),
		Volume:    append(Series(nil), f.Volume[from:to]...),
		columns:   make(map[string]Series, len(f.columns)),
		flags:     make(map[string][]bool, len(f.flags)),
		colSeq:    f.Columns(),
		flagSeq:   f.FlagNames(),
	}
	for k, v := range f.columns {
		out.columns[k] = append(Series(nil), v[from:to]...)
	}
	for k, v := range f.flags {
		out.flags[k] = append([]bool(nil), v[from:to]...)
	}
	return out
}

// Count returns how many rows of a flag column are set.
func (f *Frame) Count(flag string) int {
	n := 0
	for _, b := range f.flags[flag] {
		if b {
			n++
		}
	}
	return n
}
