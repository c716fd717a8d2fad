// Package stats reduces a trade ledger to summary statistics. It owns no
// state: Compute is a pure function over the ledger and tolerates an
// empty one by returning a zeroed Summary.
package stats

import (
	"math"

	"github.com/Vitaliy-Finiuk/sol-signal-bot/sim"
)

// Summary is the full statistics block for one run's ledger.
//
// ProfitFactor is +Inf when there are winners and no losers, and 0 when
// the ledger is empty. MaxDrawdownPct is the most negative peak-to-trough
// move of the balance trace, so it is always <= 0.
type Summary struct {
	TotalTrades int
	Wins        int
	Losses      int
	WinRate     float64 // fraction, 0..1

	TotalPnL   float64
	AvgWin     float64
	AvgLoss    float64
	BestTrade  float64
	WorstTrade float64

	ProfitFactor   float64
	ROIPct         float64
	MaxDrawdownPct float64
	MaxWinStreak   int
	MaxLossStreak  int

	AvgLeverage       float64
	AvgPositiveRetPct float64
}

// Compute reduces the ledger, ordered by exit time, against the run's
// starting balance.
func Compute(initialBalance float64, trades []sim.Trade) Summary {
	var s Summary
	s.TotalTrades = len(trades)
	if len(trades) == 0 {
		return s
	}

	var grossWin, grossLoss float64
	var levSum, posRetSum float64
	posRetCount := 0
	for _, tr := range trades {
		s.TotalPnL += tr.PnL
		levSum += tr.Leverage
		if tr.PnL > 0 {
			s.Wins++
			grossWin += tr.PnL
		} else {
			s.Losses++
			grossLoss += -tr.PnL
		}
		if tr.ReturnPct > 0 {
			posRetSum += tr.ReturnPct
			posRetCount++
		}
		if tr.PnL > s.BestTrade {
			s.BestTrade = tr.PnL
		}
		if tr.PnL < s.WorstTrade {
			s.WorstTrade = tr.PnL
		}
	}

	s.WinRate = float64(s.Wins) / float64(s.TotalTrades)
	if s.Wins > 0 {
		s.AvgWin = grossWin / float64(s.Wins)
	}
	if s.Losses > 0 {
		s.AvgLoss = -grossLoss / float64(s.Losses)
	}
	switch {
	case grossLoss > 0:
		s.ProfitFactor = grossWin / grossLoss
	case grossWin > 0:
		s.ProfitFactor = math.Inf(1)
	}

	s.AvgLeverage = levSum / float64(s.TotalTrades)
	if posRetCount > 0 {
		s.AvgPositiveRetPct = posRetSum / float64(posRetCount)
	}

	final := trades[len(trades)-1].BalanceAfter
	if initialBalance > 0 {
		s.ROIPct = (final - initialBalance) / initialBalance * 100
	}

	s.MaxDrawdownPct = maxDrawdown(trades)
	s.MaxWinStreak, s.MaxLossStreak = streaks(trades)
	return s
}

// maxDrawdown walks the balanceAfter trace and returns the most negative
// percentage distance below the running peak.
func maxDrawdown(trades []sim.Trade) float64 {
	peak := trades[0].BalanceAfter
	worst := 0.0
	for _, tr := range trades {
		if tr.BalanceAfter > peak {
			peak = tr.BalanceAfter
		}
		dd := (tr.BalanceAfter - peak) / peak * 100
		if dd < worst {
			worst = dd
		}
	}
	return worst
}

// streaks run-length-encodes the win/loss sequence and returns the
// longest winning and losing runs.
func streaks(trades []sim.Trade) (maxWin, maxLoss int) {
	run := 0
	winning := false
	for i, tr := range trades {
		w := tr.PnL > 0
		if i == 0 || w != winning {
			winning = w
			run = 1
		} else {
			run++
		}
		if winning && run > maxWin {
			maxWin = run
		}
		if !winning && run > maxLoss {
			maxLoss = run
		}
	}
	return maxWin, maxLoss
}
