// Package signal provides the strategies that annotate bars with trade
// signals and risk distances. Strategies are forward-only: Evaluate sees
// the history up to and including the bar under evaluation, never beyond.
package signal

import (
	"fmt"
	"strings"

	"github.com/Vitaliy-Finiuk/sol-signal-bot/market"
)

// Advice is a strategy's verdict for the last bar of a history.
type Advice struct {
	Signal         market.Signal
	StopDistance   float64
	TargetDistance float64
}

// Strategy evaluates the bar history ending at the current bar. Evaluate
// returns ok=false when the strategy has no signal, which includes any
// history shorter than Warmup bars.
type Strategy interface {
	Name() string
	Warmup() int
	Evaluate(history []market.Bar) (Advice, bool)
}

// ByName resolves a strategy by its registry key.
func ByName(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "turtle":
		return NewTurtle(TurtleDefaults()), nil
	case "momentum":
		return NewMomentum(MomentumDefaults()), nil
	case "trend":
		return NewTrend(TrendDefaults()), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q (supported: turtle, momentum, trend)", name)
	}
}

// ByTimeframe picks the strategy the bot pairs with each timeframe:
// turtle on 4h, momentum on 12h, trend on 1d.
func ByTimeframe(timeframe string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(timeframe)) {
	case "4h":
		return NewTurtle(TurtleDefaults()), nil
	case "12h":
		return NewMomentum(MomentumDefaults()), nil
	case "1d":
		return NewTrend(TrendDefaults()), nil
	default:
		return nil, fmt.Errorf("no strategy for timeframe %q (supported: 4h, 12h, 1d)", timeframe)
	}
}

// Annotate runs the strategy over every prefix of bars and returns a copy
// with Signal, StopDistance and TargetDistance filled in. Bar i is
// annotated from bars[0..i] only.
func Annotate(s Strategy, bars []market.Bar) []market.Bar {
	out := make([]market.Bar, len(bars))
	copy(out, bars)
	for i := range out {
		adv, ok := s.Evaluate(out[:i+1])
		if !ok {
			continue
		}
		out[i].Signal = adv.Signal
		out[i].StopDistance = adv.StopDistance
		out[i].TargetDistance = adv.TargetDistance
	}
	return out
}

func highs(bars []market.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.High
	}
	return out
}

func lows(bars []market.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Low
	}
	return out
}
