package signal

import (
	"github.com/Vitaliy-Finiuk/sol-signal-bot/indicators"
	"github.com/Vitaliy-Finiuk/sol-signal-bot/market"
)

// MomentumConfig parameterizes the 12h Bollinger-breakout strategy.
type MomentumConfig struct {
	BBPeriod  int     // 20
	BBDev     float64 // 2
	FastEMA   int     // 9
	MidEMA    int     // 21
	SlowEMA   int     // 50
	RSIPeriod int
	ATRPeriod int
	RSIMin    float64 // 30
	RSIMax    float64 // 70
	MinWidth  float64 // minimum band width relative to the close
	StopATR   float64
	TargetATR float64
}

func MomentumDefaults() MomentumConfig {
	return MomentumConfig{
		BBPeriod:  20,
		BBDev:     2,
		FastEMA:   9,
		MidEMA:    21,
		SlowEMA:   50,
		RSIPeriod: 14,
		ATRPeriod: 14,
		RSIMin:    30,
		RSIMax:    70,
		MinWidth:  0.02,
		StopATR:   2.2,
		TargetATR: 6.5,
	}
}

// Momentum signals on a close outside the Bollinger bands when the EMA
// stack agrees, RSI is mid-range, and the bands are wide enough to rule
// out a squeeze fakeout.
type Momentum struct {
	cfg MomentumConfig
}

func NewMomentum(cfg MomentumConfig) *Momentum { return &Momentum{cfg: cfg} }

func (m *Momentum) Name() string { return "12h Momentum Breakout" }

func (m *Momentum) Warmup() int { return m.cfg.SlowEMA }

func (m *Momentum) Evaluate(history []market.Bar) (Advice, bool) {
	n := len(history)
	if n < m.Warmup() {
		return Advice{}, false
	}

	closes := market.Closes(history)
	upper, lower, err := indicators.Bollinger(closes, m.cfg.BBPeriod, m.cfg.BBDev)
	if err != nil {
		return Advice{}, false
	}
	fast, err := indicators.EMA(closes, m.cfg.FastEMA)
	if err != nil {
		return Advice{}, false
	}
	mid, err := indicators.EMA(closes, m.cfg.MidEMA)
	if err != nil {
		return Advice{}, false
	}
	slow, err := indicators.EMA(closes, m.cfg.SlowEMA)
	if err != nil {
		return Advice{}, false
	}
	rsi, err := indicators.RSI(closes, m.cfg.RSIPeriod)
	if err != nil {
		return Advice{}, false
	}
	atr, err := indicators.ATR(history, m.cfg.ATRPeriod)
	if err != nil {
		return Advice{}, false
	}

	close := history[n-1].Close
	width := (upper - lower) / close
	if width <= m.cfg.MinWidth || rsi <= m.cfg.RSIMin || rsi >= m.cfg.RSIMax {
		return Advice{}, false
	}

	adv := Advice{
		StopDistance:   atr * m.cfg.StopATR,
		TargetDistance: atr * m.cfg.TargetATR,
	}

	switch {
	case close > upper && fast > mid && mid > slow:
		adv.Signal = market.SignalLong
		return adv, true
	case close < lower && fast < mid && mid < slow:
		adv.Signal = market.SignalShort
		return adv, true
	}
	return Advice{}, false
}
