package signal

import (
	"github.com/Vitaliy-Finiuk/sol-signal-bot/indicators"
	"github.com/Vitaliy-Finiuk/sol-signal-bot/market"
)

// TurtleConfig parameterizes the 4h channel-breakout strategy.
type TurtleConfig struct {
	ChannelPeriod int     // donchian channel length, measured up to the previous bar
	FastEMA       int     // 21
	SlowEMA       int     // 55
	RSIPeriod     int     // 14
	ATRPeriod     int     // 14
	RSILongMax    float64 // block longs when RSI is already overbought
	RSIShortMin   float64 // block shorts when RSI is already oversold
	StopATR       float64 // stop distance as an ATR multiple
	TargetATR     float64 // target distance as an ATR multiple
}

func TurtleDefaults() TurtleConfig {
	return TurtleConfig{
		ChannelPeriod: 15,
		FastEMA:       21,
		SlowEMA:       55,
		RSIPeriod:     14,
		ATRPeriod:     14,
		RSILongMax:    75,
		RSIShortMin:   25,
		StopATR:       1.8,
		TargetATR:     5.5,
	}
}

// Turtle signals when the close breaks out of the previous bar's
// high/low channel in the direction of the EMA trend, with an RSI guard
// against chasing exhausted moves.
type Turtle struct {
	cfg TurtleConfig
}

func NewTurtle(cfg TurtleConfig) *Turtle { return &Turtle{cfg: cfg} }

func (t *Turtle) Name() string { return "4h Aggressive Turtle" }

func (t *Turtle) Warmup() int { return t.cfg.SlowEMA }

func (t *Turtle) Evaluate(history []market.Bar) (Advice, bool) {
	n := len(history)
	if n < t.Warmup() || n < t.cfg.ChannelPeriod+1 {
		return Advice{}, false
	}

	closes := market.Closes(history)
	fast, err := indicators.EMA(closes, t.cfg.FastEMA)
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

	// Channel ends at the previous bar so the current close can break it.
	prev := history[:n-1]
	channelHigh, err := indicators.Highest(highs(prev), t.cfg.ChannelPeriod)
	if err != nil {
		return Advice{}, false
	}
	channelLow, err := indicators.Lowest(lows(prev), t.cfg.ChannelPeriod)
	if err != nil {
		return Advice{}, false
	}

	close := history[n-1].Close
	adv := Advice{
		StopDistance:   atr * t.cfg.StopATR,
		TargetDistance: atr * t.cfg.TargetATR,
	}

	switch {
	case close > channelHigh && fast > slow && rsi < t.cfg.RSILongMax:
		adv.Signal = market.SignalLong
		return adv, true
	case close < channelLow && fast < slow && rsi > t.cfg.RSIShortMin:
		adv.Signal = market.SignalShort
		return adv, true
	}
	return Advice{}, false
}
