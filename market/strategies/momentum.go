package strategies

import (
	"fmt"
	"time"

	"github.com/rustyeddy/momentum/market"
	"github.com/rustyeddy/momentum/market/indicators"
)

const MomentumName = "short-term-momentum"

// Indicator columns appended by ShortTermMomentum, in order.
const (
	ColVolumeMean    = "volume_mean"
	ColEMA9          = "ema9"
	ColEMA21         = "ema21"
	ColEMA50         = "ema50"
	ColMACD          = "macd"
	ColMACDSignal    = "macdsignal"
	ColMACDHist      = "macdhist"
	ColBBUpper       = "bb_upperband"
	ColBBMiddle      = "bb_middleband"
	ColBBLower       = "bb_lowerband"
	ColBBWidth       = "bb_width"
	ColBBPct         = "bb_pct"
	ColRSI           = "rsi"
	ColADX           = "adx"
	ColPriceChange1h = "price_change_1h"
	ColVolumeChange  = "volume_change"
)

// MomentumColumns lists the indicator columns in the order they are added.
var MomentumColumns = []string{
	ColVolumeMean, ColEMA9, ColEMA21, ColEMA50,
	ColMACD, ColMACDSignal, ColMACDHist,
	ColBBUpper, ColBBMiddle, ColBBLower, ColBBWidth, ColBBPct,
	ColRSI, ColADX, ColPriceChange1h, ColVolumeChange,
}

func init() {
	Register(MomentumName, func(p Params) (Strategy, error) {
		return NewShortTermMomentum(p)
	})
}

// ShortTermMomentum trades 5m trends: EMA direction confirmed by MACD, an
// RSI band, Bollinger headroom, volume and ADX trend strength. It exits on
// trend loss, RSI extremes, band breaks or a MACD cross.
type ShortTermMomentum struct {
	p    Params
	name string
}

func NewShortTermMomentum(p Params) (*ShortTermMomentum, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", MomentumName, err)
	}
	return &ShortTermMomentum{
		p: p,
		name: fmt.Sprintf("SHORT_TERM_MOMENTUM(EMA%d/%d,RSI%d,ADX%d@%.0f)",
			p.EMAFast, p.EMASlow, p.RSIPeriod, p.ADXPeriod, p.ADXThreshold),
	}, nil
}

func (s *ShortTermMomentum) Name() string   { return s.name }
func (s *ShortTermMomentum) Params() Params { return s.p }

func (s *ShortTermMomentum) Settings() Settings {
	return Settings{
		InterfaceVersion: 3,
		MinimalROI: MinimalROI{
			0:  0.025,
			10: 0.02,
			20: 0.015,
			30: 0.01,
			60: 0.005,
		},
		Stoploss: s.p.Stoploss,
		Trailing: Trailing{
			Enabled:             true,
			Positive:            0.01,
			PositiveOffset:      0.02,
			OnlyOffsetIsReached: true,
		},
		UseCustomStoploss:     true,
		Timeframe:             "5m",
		ProcessOnlyNewCandles: true,
		StartupCandleCount:    s.p.Warmup(),
		OrderTypes: OrderTypes{
			Entry:    "market",
			Exit:     "market",
			Stoploss: "market",
		},
		OrderTimeInForce: OrderTimeInForce{Entry: "GTC", Exit: "GTC"},
		PlotConfig: PlotConfig{
			MainPlot: map[string]PlotStyle{
				ColEMA9:    {Color: "red"},
				ColEMA21:   {Color: "green"},
				ColBBUpper: {Color: "blue"},
				ColBBLower: {Color: "blue"},
			},
			Subplots: map[string]map[string]PlotStyle{
				"RSI":    {ColRSI: {Color: "orange"}},
				"MACD":   {ColMACD: {Color: "blue"}, ColMACDSignal: {Color: "orange"}},
				"VOLUME": {market.ColVolume: {Color: "blue"}},
			},
		},
	}
}

// PopulateIndicators appends MomentumColumns to f. It fails without
// touching f if any of those columns already exist.
func (s *ShortTermMomentum) PopulateIndicators(f *market.Frame) error {
	if err := absent(f, MomentumColumns...); err != nil {
		return err
	}

	p := s.p
	macd := indicators.MACDSeries(f.Close, p.MACDFast, p.MACDSlow, p.MACDSignal)
	bb := indicators.BollingerSeries(indicators.TypicalPriceSeries(f), f.Close, p.BBPeriod, p.BBStds)

	cols := []struct {
		name string
		s    market.Series
	}{
		{ColVolumeMean, indicators.SMASeries(f.Volume, p.VolumeMeanPeriod)},
		{ColEMA9, indicators.EMASeries(f.Close, p.EMAFast)},
		{ColEMA21, indicators.EMASeries(f.Close, p.EMASlow)},
		{ColEMA50, indicators.EMASeries(f.Close, p.EMATrend)},
		{ColMACD, macd.Line},
		{ColMACDSignal, macd.Signal},
		{ColMACDHist, macd.Hist},
		{ColBBUpper, bb.Upper},
		{ColBBMiddle, bb.Middle},
		{ColBBLower, bb.Lower},
		{ColBBWidth, bb.Width},
		{ColBBPct, bb.PctB},
		{ColRSI, indicators.RSISeries(f.Close, p.RSIPeriod)},
		{ColADX, indicators.ADXSeries(f, p.ADXPeriod)},
		{ColPriceChange1h, indicators.PctChangeSeries(f.Close, p.PriceChangeBars)},
		{ColVolumeChange, indicators.RatioSeries(f.Volume)},
	}
	for _, c := range cols {
		if err := f.AddColumn(c.name, c.s); err != nil {
			return err
		}
	}
	return nil
}

// PopulateEntryTrend appends enter_long and enter_short. A row with any
// undefined operand gets no signal.
func (s *ShortTermMomentum) PopulateEntryTrend(f *market.Frame) error {
	if err := f.Require(ColEMA9, ColEMA21, ColMACD, ColMACDSignal, ColRSI,
		ColBBUpper, ColBBLower, ColVolumeMean, ColADX); err != nil {
		return err
	}
	if err := absent(f, EnterLong, EnterShort); err != nil {
		return err
	}

	var (
		p      = s.p
		ema9   = f.Column(ColEMA9)
		ema21  = f.Column(ColEMA21)
		macd   = f.Column(ColMACD)
		signal = f.Column(ColMACDSignal)
		rsi    = f.Column(ColRSI)
		upper  = f.Column(ColBBUpper)
		lower  = f.Column(ColBBLower)
		volM   = f.Column(ColVolumeMean)
		adx    = f.Column(ColADX)
	)

	long := make([]bool, f.Len())
	short := make([]bool, f.Len())
	for i := range long {
		if anyNaN(ema9[i], ema21[i], macd[i], signal[i], rsi[i], f.Close[i], f.Volume[i], volM[i], adx[i]) {
			continue
		}
		active := f.Volume[i] > p.VolumeFactor*volM[i] && adx[i] > p.ADXThreshold
		if !active {
			continue
		}

		long[i] = ema9[i] > ema21[i] &&
			macd[i] > signal[i] &&
			rsi[i] > p.LongRSIMin && rsi[i] < p.LongRSIMax &&
			f.Close[i] < upper[i]

		short[i] = ema9[i] < ema21[i] &&
			macd[i] < signal[i] &&
			rsi[i] > p.ShortRSIMin && rsi[i] < p.ShortRSIMax &&
			f.Close[i] > lower[i]
	}

	if err := f.AddFlags(EnterLong, long); err != nil {
		return err
	}
	return f.AddFlags(EnterShort, short)
}

// PopulateExitTrend appends exit_long and exit_short. Each is an OR of its
// conditions; a condition with an undefined operand is false.
func (s *ShortTermMomentum) PopulateExitTrend(f *market.Frame) error {
	if err := f.Require(ColEMA9, ColEMA21, ColMACD, ColMACDSignal, ColRSI,
		ColBBUpper, ColBBLower); err != nil {
		return err
	}
	if err := absent(f, ExitLong, ExitShort); err != nil {
		return err
	}

	var (
		p     = s.p
		ema9  = f.Column(ColEMA9)
		ema21 = f.Column(ColEMA21)
		rsi   = f.Column(ColRSI)
		upper = f.Column(ColBBUpper)
		lower = f.Column(ColBBLower)
		px    = f.Close
	)
	crossUp, crossDown := crossings(f.Column(ColMACD), f.Column(ColMACDSignal))

	// NaN compares false, so each condition is already false on an
	// undefined operand.
	exitLong := make([]bool, f.Len())
	exitShort := make([]bool, f.Len())
	for i := range exitLong {
		exitLong[i] = ema9[i] < ema21[i] ||
			rsi[i] > p.ExitLongRSI ||
			px[i] > upper[i] ||
			crossDown[i]

		exitShort[i] = ema9[i] > ema21[i] ||
			rsi[i] < p.ExitShortRSI ||
			px[i] < lower[i] ||
			crossUp[i]
	}

	if err := f.AddFlags(ExitLong, exitLong); err != nil {
		return err
	}
	return f.AddFlags(ExitShort, exitShort)
}

// CustomStoploss tightens the stop to LockedStop once profit passes
// ProfitLock, otherwise it keeps the static stoploss.
func (s *ShortTermMomentum) CustomStoploss(pair string, pos Position, now time.Time, rate, profit float64) float64 {
	if profit > s.p.ProfitLock {
		return s.p.LockedStop
	}
	return s.p.Stoploss
}

// absent fails before any column is written if one of names is taken.
func absent(f *market.Frame, names ...string) error {
	for _, n := range names {
		if f.Has(n) {
			return fmt.Errorf("add column %q: %w", n, market.ErrColumnExists)
		}
	}
	return nil
}
