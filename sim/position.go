package sim

import (
	"time"

	"github.com/Vitaliy-Finiuk/sol-signal-bot/market"
)

// Trailing-stop ratchet parameters. The stop only ever tightens:
// past +5% unrealized the stop moves to break-even plus a small buffer,
// past +10% it locks in 70% of the open profit.
const (
	trailArmPct       = 0.05
	trailLockPct      = 0.10
	breakEvenBuffer   = 0.015
	profitLockPortion = 0.7
)

// Position is the single live position owned by the engine. Only StopLoss
// mutates while the position is open, and only in the tightening direction.
type Position struct {
	Side       market.Side
	EntryPrice float64
	EntryTime  time.Time
	StopLoss   float64
	TakeProfit float64
	Size       float64
	Leverage   float64
}

// UnrealizedPct is the raw price return from entry to the given close,
// positive when the position is in profit. Pre-leverage, pre-commission.
func (p *Position) UnrealizedPct(close float64) float64 {
	if p.Side == market.SideShort {
		return (p.EntryPrice - close) / p.EntryPrice
	}
	return (close - p.EntryPrice) / p.EntryPrice
}

// trail ratchets the stop toward the close as unrealized profit grows.
// Proposed stops that would loosen the current stop are discarded.
func (p *Position) trail(close float64) {
	profit := p.UnrealizedPct(close)

	if p.Side == market.SideLong {
		if profit > trailArmPct {
			p.StopLoss = maxf(p.StopLoss, p.EntryPrice*(1+breakEvenBuffer))
		}
		if profit > trailLockPct {
			p.StopLoss = maxf(p.StopLoss, p.EntryPrice+profitLockPortion*(close-p.EntryPrice))
		}
		return
	}

	if profit > trailArmPct {
		p.StopLoss = minf(p.StopLoss, p.EntryPrice*(1-breakEvenBuffer))
	}
	if profit > trailLockPct {
		p.StopLoss = minf(p.StopLoss, p.EntryPrice-profitLockPortion*(p.EntryPrice-close))
	}
}

// exitReason reports whether the close price triggers an exit, and why.
// Exits are evaluated on close only; intrabar paths are not modeled.
func (p *Position) exitReason(close float64) (string, bool) {
	if p.Side == market.SideLong {
		switch {
		case close <= p.StopLoss:
			return ReasonStopLoss, true
		case close >= p.TakeProfit:
			return ReasonTakeProfit, true
		}
		return "", false
	}

	switch {
	case close >= p.StopLoss:
		return ReasonStopLoss, true
	case close <= p.TakeProfit:
		return ReasonTakeProfit, true
	}
	return "", false
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
