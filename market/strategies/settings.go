package strategies

import (
	"sort"
	"time"
)

// Settings are the constants a host reads to drive orders and trade exits
// for a strategy. The strategy itself never acts on them.
type Settings struct {
	InterfaceVersion int `yaml:"interface_version" json:"interface_version"`

	MinimalROI MinimalROI `yaml:"minimal_roi" json:"minimal_roi"`

	Stoploss          float64  `yaml:"stoploss" json:"stoploss"`
	Trailing          Trailing `yaml:"trailing" json:"trailing"`
	UseCustomStoploss bool     `yaml:"use_custom_stoploss" json:"use_custom_stoploss"`

	Timeframe             string `yaml:"timeframe" json:"timeframe"`
	ProcessOnlyNewCandles bool   `yaml:"process_only_new_candles" json:"process_only_new_candles"`
	StartupCandleCount    int    `yaml:"startup_candle_count" json:"startup_candle_count"`
	CanShort              bool   `yaml:"can_short" json:"can_short"`

	OrderTypes       OrderTypes       `yaml:"order_types" json:"order_types"`
	OrderTimeInForce OrderTimeInForce `yaml:"order_time_in_force" json:"order_time_in_force"`

	PlotConfig PlotConfig `yaml:"plot_config" json:"plot_config"`
}

// MinimalROI maps minutes since entry to the return that closes the trade.
type MinimalROI map[int]float64

// RequiredReturn returns the ROI of the largest step not after elapsed.
// ok is false when no step applies yet.
func (m MinimalROI) RequiredReturn(elapsed time.Duration) (roi float64, ok bool) {
	mins := int(elapsed / time.Minute)
	best := -1
	for k := range m {
		if k <= mins && k > best {
			best = k
		}
	}
	if best < 0 {
		return 0, false
	}
	return m[best], true
}

// Steps returns the table keys in ascending order.
func (m MinimalROI) Steps() []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

type Trailing struct {
	Enabled             bool    `yaml:"enabled" json:"enabled"`
	Positive            float64 `yaml:"positive" json:"positive"`
	PositiveOffset      float64 `yaml:"positive_offset" json:"positive_offset"`
	OnlyOffsetIsReached bool    `yaml:"only_offset_is_reached" json:"only_offset_is_reached"`
}

type OrderTypes struct {
	Entry              string `yaml:"entry" json:"entry"`
	Exit               string `yaml:"exit" json:"exit"`
	Stoploss           string `yaml:"stoploss" json:"stoploss"`
	StoplossOnExchange bool   `yaml:"stoploss_on_exchange" json:"stoploss_on_exchange"`
}

type OrderTimeInForce struct {
	Entry string `yaml:"entry" json:"entry"`
	Exit  string `yaml:"exit" json:"exit"`
}

// PlotStyle is how a host chart draws one column.
type PlotStyle struct {
	Color string `yaml:"color" json:"color"`
}

type PlotConfig struct {
	MainPlot map[string]PlotStyle            `yaml:"main_plot" json:"main_plot"`
	Subplots map[string]map[string]PlotStyle `yaml:"subplots" json:"subplots"`
}
