package strategies

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rustyeddy/momentum/market"
)

// Signal column names written by PopulateEntryTrend and PopulateExitTrend.
const (
	EnterLong  = "enter_long"
	EnterShort = "enter_short"
	ExitLong   = "exit_long"
	ExitShort  = "exit_short"
)

// SignalNames lists the four flag columns in the order they are written.
var SignalNames = []string{EnterLong, EnterShort, ExitLong, ExitShort}

var ErrUnknownStrategy = errors.New("unknown strategy")

// Strategy is what a trading host needs from a signal strategy. Each
// Populate step appends columns to the frame it is handed and never
// rewrites existing ones. The host owns orders, trades and risk.
type Strategy interface {
	Name() string
	Settings() Settings

	// PopulateIndicators appends the indicator columns.
	PopulateIndicators(f *market.Frame) error

	// PopulateEntryTrend appends enter_long and enter_short.
	PopulateEntryTrend(f *market.Frame) error

	// PopulateExitTrend appends exit_long and exit_short.
	PopulateExitTrend(f *market.Frame) error

	// CustomStoploss returns the stop distance as a fraction of the rate.
	CustomStoploss(pair string, pos Position, now time.Time, rate, profit float64) float64
}

// Position is the part of the host's open trade a strategy may look at.
type Position struct {
	Pair       string
	EntryPrice float64
	OpenTime   time.Time
	IsShort    bool
	Amount     float64
}

// Factory builds a strategy from tunable parameters.
type Factory func(p Params) (Strategy, error)

var (
	mu       sync.RWMutex
	registry = make(map[string]Factory)
)

func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	registry[name] = f
}

// Get returns the factory registered under name.
func Get(name string) (Factory, bool) {
	mu.RLock()
	defer mu.RUnlock()
	f, ok := registry[name]
	return f, ok
}

// New builds the named strategy.
func New(name string, p Params) (Strategy, error) {
	f, ok := Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %v)", ErrUnknownStrategy, name, Names())
	}
	return f(p)
}

// Names returns the registered strategy names, sorted.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(registry))
	for n := range registry {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Populate runs the three column steps in order.
func Populate(s Strategy, f *market.Frame) error {
	if err := s.PopulateIndicators(f); err != nil {
		return fmt.Errorf("%s indicators: %w", s.Name(), err)
	}
	if err := s.PopulateEntryTrend(f); err != nil {
		return fmt.Errorf("%s entry: %w", s.Name(), err)
	}
	if err := s.PopulateExitTrend(f); err != nil {
		return fmt.Errorf("%s exit: %w", s.Name(), err)
	}
	return nil
}
