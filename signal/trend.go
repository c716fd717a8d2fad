package signal

import (
	"github.com/Vitaliy-Finiuk/sol-signal-bot/indicators"
	"github.com/Vitaliy-Finiuk/sol-signal-bot/market"
)

// TrendConfig parameterizes the 1d pullback-in-trend strategy.
type TrendConfig struct {
	FastEMA   int // 20
	MidEMA    int // 50
	SlowEMA   int // 100
	RSIPeriod int
	ATRPeriod int

	// Pullback bands around the fast EMA, as multiples of it. Longs buy a
	// dip to [LongLow, LongHigh]*EMA20; shorts fade a bounce into
	// [ShortLow, ShortHigh]*EMA20.
	LongLow   float64 // 0.97
	LongHigh  float64 // 1.02
	ShortLow  float64 // 0.98
	ShortHigh float64 // 1.03

	RSIMin    float64 // 40
	RSIMax    float64 // 60
	StopATR   float64
	TargetATR float64
}

func TrendDefaults() TrendConfig {
	return TrendConfig{
		FastEMA:   20,
		MidEMA:    50,
		SlowEMA:   100,
		RSIPeriod: 14,
		ATRPeriod: 14,
		LongLow:   0.97,
		LongHigh:  1.02,
		ShortLow:  0.98,
		ShortHigh: 1.03,
		RSIMin:    40,
		RSIMax:    60,
		StopATR:   3.0,
		TargetATR: 8.0,
	}
}

// Trend signals a pullback entry when the EMA stack shows an established
// trend, price has retraced into a band around the fast EMA, and RSI sits
// in the neutral zone.
type Trend struct {
	cfg TrendConfig
}

func NewTrend(cfg TrendConfig) *Trend { return &Trend{cfg: cfg} }

func (t *Trend) Name() string { return "1d Strong Trend Following" }

func (t *Trend) Warmup() int { return t.cfg.SlowEMA }

func (t *Trend) Evaluate(history []market.Bar) (Advice, bool) {
	n := len(history)
	if n < t.Warmup() {
		return Advice{}, false
	}

	closes := market.Closes(history)
	fast, err := indicators.EMA(closes, t.cfg.FastEMA)
	if err != nil {
		return Advice{}, false
	}
	mid, err := indicators.EMA(closes, t.cfg.MidEMA)
	if err != nil {
		return Advice{}, false
	}
	slow, err := indicators.EMA(closes, t.cfg.SlowEMA)
	if err != nil {
		return Advice{}, false
	}
	rsi, err := indicators.RSI(closes, t.cfg.RSIPeriod)
	if err != nil {
		return Advice{}, false
	}
	atr, err := indicators.ATR(history, t.cfg.ATRPeriod)
	if err != nil {
		return Advice{}, false
	}

	if rsi <= t.cfg.RSIMin || rsi >= t.cfg.RSIMax {
		return Advice{}, false
	}

	close := history[n-1].Close
	adv := Advice{
		StopDistance:   atr * t.cfg.StopATR,
		TargetDistance: atr * t.cfg.TargetATR,
	}

	uptrend := fast > mid && mid > slow
	downtrend := fast < mid && mid < slow

	switch {
	case uptrend && close >= fast*t.cfg.LongLow && close <= fast*t.cfg.LongHigh:
		adv.Signal = market.SignalLong
		return adv, true
	case downtrend && close >= fast*t.cfg.ShortLow && close <= fast*t.cfg.ShortHigh:
		adv.Signal = market.SignalShort
		return adv, true
	}
	return Advice{}, false
}
