package strategies

import "fmt"

// Params holds the tunable periods and thresholds of ShortTermMomentum.
// The zero value is not usable; start from DefaultParams.
type Params struct {
	VolumeMeanPeriod int `yaml:"volume_mean_period" json:"volume_mean_period"`
	EMAFast          int `yaml:"ema_fast" json:"ema_fast"`
	EMASlow          int `yaml:"ema_slow" json:"ema_slow"`
	EMATrend         int `yaml:"ema_trend" json:"ema_trend"`

	MACDFast   int `yaml:"macd_fast" json:"macd_fast"`
	MACDSlow   int `yaml:"macd_slow" json:"macd_slow"`
	MACDSignal int `yaml:"macd_signal" json:"macd_signal"`

	BBPeriod int     `yaml:"bb_period" json:"bb_period"`
	BBStds   float64 `yaml:"bb_stds" json:"bb_stds"`

	RSIPeriod       int `yaml:"rsi_period" json:"rsi_period"`
	ADXPeriod       int `yaml:"adx_period" json:"adx_period"`
	PriceChangeBars int `yaml:"price_change_bars" json:"price_change_bars"`

	LongRSIMin   float64 `yaml:"long_rsi_min" json:"long_rsi_min"`
	LongRSIMax   float64 `yaml:"long_rsi_max" json:"long_rsi_max"`
	ShortRSIMin  float64 `yaml:"short_rsi_min" json:"short_rsi_min"`
	ShortRSIMax  float64 `yaml:"short_rsi_max" json:"short_rsi_max"`
	ExitLongRSI  float64 `yaml:"exit_long_rsi" json:"exit_long_rsi"`
	ExitShortRSI float64 `yaml:"exit_short_rsi" json:"exit_short_rsi"`

	ADXThreshold float64 `yaml:"adx_threshold" json:"adx_threshold"`
	VolumeFactor float64 `yaml:"volume_factor" json:"volume_factor"`

	// Stoploss policy: past ProfitLock profit the stop tightens to LockedStop.
	Stoploss   float64 `yaml:"stoploss" json:"stoploss"`
	ProfitLock float64 `yaml:"profit_lock" json:"profit_lock"`
	LockedStop float64 `yaml:"locked_stop" json:"locked_stop"`
}

func DefaultParams() Params {
	return Params{
		VolumeMeanPeriod: 10,
		EMAFast:          9,
		EMASlow:          21,
		EMATrend:         50,
		MACDFast:         12,
		MACDSlow:         26,
		MACDSignal:       9,
		BBPeriod:         20,
		BBStds:           2,
		RSIPeriod:        14,
		ADXPeriod:        14,
		PriceChangeBars:  12,
		LongRSIMin:       50,
		LongRSIMax:       70,
		ShortRSIMin:      30,
		ShortRSIMax:      50,
		ExitLongRSI:      75,
		ExitShortRSI:     25,
		ADXThreshold:     25,
		VolumeFactor:     0.8,
		Stoploss:         -0.025,
		ProfitLock:       0.01,
		LockedStop:       0.005,
	}
}

// Validate returns the first problem found.
func (p Params) Validate() error {
	periods := []struct {
		name string
		v    int
	}{
		{"volume_mean_period", p.VolumeMeanPeriod},
		{"ema_fast", p.EMAFast},
		{"ema_slow", p.EMASlow},
		{"ema_trend", p.EMATrend},
		{"macd_fast", p.MACDFast},
		{"macd_slow", p.MACDSlow},
		{"macd_signal", p.MACDSignal},
		{"bb_period", p.BBPeriod},
		{"rsi_period", p.RSIPeriod},
		{"adx_period", p.ADXPeriod},
		{"price_change_bars", p.PriceChangeBars},
	}
	for _, pr := range periods {
		if pr.v <= 0 {
			return fmt.Errorf("%s must be > 0 (got %d)", pr.name, pr.v)
		}
	}

	if p.EMAFast >= p.EMASlow {
		return fmt.Errorf("ema_fast (%d) must be < ema_slow (%d)", p.EMAFast, p.EMASlow)
	}
	if p.MACDFast >= p.MACDSlow {
		return fmt.Errorf("macd_fast (%d) must be < macd_slow (%d)", p.MACDFast, p.MACDSlow)
	}
	if p.BBPeriod < 2 {
		return fmt.Errorf("bb_period must be >= 2 for a sample std (got %d)", p.BBPeriod)
	}
	if p.BBStds <= 0 {
		return fmt.Errorf("bb_stds must be > 0 (got %v)", p.BBStds)
	}

	if p.LongRSIMin >= p.LongRSIMax {
		return fmt.Errorf("long_rsi_min (%v) must be < long_rsi_max (%v)", p.LongRSIMin, p.LongRSIMax)
	}
	if p.ShortRSIMin >= p.ShortRSIMax {
		return fmt.Errorf("short_rsi_min (%v) must be < short_rsi_max (%v)", p.ShortRSIMin, p.ShortRSIMax)
	}
	for _, r := range []struct {
		name string
		v    float64
	}{
		{"long_rsi_min", p.LongRSIMin},
		{"long_rsi_max", p.LongRSIMax},
		{"short_rsi_min", p.ShortRSIMin},
		{"short_rsi_max", p.ShortRSIMax},
		{"exit_long_rsi", p.ExitLongRSI},
		{"exit_short_rsi", p.ExitShortRSI},
	} {
		if r.v < 0 || r.v > 100 {
			return fmt.Errorf("%s must be within [0,100] (got %v)", r.name, r.v)
		}
	}

	if p.ADXThreshold < 0 {
		return fmt.Errorf("adx_threshold must be >= 0 (got %v)", p.ADXThreshold)
	}
	if p.VolumeFactor < 0 {
		return fmt.Errorf("volume_factor must be >= 0 (got %v)", p.VolumeFactor)
	}
	if p.Stoploss >= 0 {
		return fmt.Errorf("stoploss must be < 0 (got %v)", p.Stoploss)
	}
	if p.ProfitLock <= 0 || p.LockedStop <= 0 {
		return fmt.Errorf("profit_lock and locked_stop must be > 0")
	}
	return nil
}

// Warmup is the number of leading rows whose indicators are not all defined.
func (p Params) Warmup() int {
	w := p.EMATrend
	for _, n := range []int{
		p.MACDSlow + p.MACDSignal - 1,
		p.BBPeriod,
		p.RSIPeriod + 1,
		2 * p.ADXPeriod,
		p.VolumeMeanPeriod,
	} {
		if n > w {
			w = n
		}
	}
	return w
}
