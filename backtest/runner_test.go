package backtest

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vitaliy-Finiuk/sol-signal-bot/journal"
	"github.com/Vitaliy-Finiuk/sol-signal-bot/market"
	"github.com/Vitaliy-Finiuk/sol-signal-bot/risk"
	"github.com/Vitaliy-Finiuk/sol-signal-bot/signal"
	"github.com/Vitaliy-Finiuk/sol-signal-bot/sim"
)

var runBase = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func simConfig() sim.Config {
	return sim.Config{
		Symbol:         "SOLUSDT",
		Timeframe:      "4h",
		InitialBalance: 100,
		RiskPerTrade:   0.03,
		MaxLeverage:    7,
		CommissionRate: 0.0006,
		MinRiskReward:  2.0,
		Policy:         risk.PolicyImpliedLeverage,
	}
}

func runBar(n int, close float64) market.Bar {
	return market.Bar{
		Time:  runBase.Add(time.Duration(n) * 4 * time.Hour),
		Open:  close,
		High:  close + 1,
		Low:   close - 1,
		Close: close,
	}
}

func runSignalBar(n int, close float64, sig market.Signal, stop, target float64) market.Bar {
	b := runBar(n, close)
	b.Signal = sig
	b.StopDistance = stop
	b.TargetDistance = target
	return b
}

func TestRunnerPreAnnotatedFeed(t *testing.T) {
	t.Parallel()

	bars := []market.Bar{
		runSignalBar(0, 100, market.SignalLong, 2, 6),
		runBar(1, 103),
		runBar(2, 106),
	}

	r := NewRunner(RunConfig{Sim: simConfig(), Dataset: "inline"})
	sum, err := r.Run(NewSliceFeed(bars))
	require.NoError(t, err)

	assert.NotEmpty(t, sum.RunID)
	assert.Equal(t, "SOLUSDT", sum.Symbol)
	assert.Equal(t, "implied-leverage", sum.Policy)
	assert.Equal(t, 3, sum.Bars)
	assert.True(t, sum.Start.Equal(bars[0].Time))
	assert.True(t, sum.End.Equal(bars[2].Time))

	require.Len(t, sum.Trades, 1)
	assert.InDelta(t, 13.2219, sum.Trades[0].PnL, 1e-9)
	assert.InDelta(t, 113.2219, sum.FinalBalance, 1e-9)
	assert.InDelta(t, 13.2219, sum.Stats.ROIPct, 1e-9)
	assert.Nil(t, sum.Open)
}

func TestRunnerReportsOpenPosition(t *testing.T) {
	t.Parallel()

	bars := []market.Bar{
		runSignalBar(0, 100, market.SignalLong, 2, 20),
		runBar(1, 103),
	}

	r := NewRunner(RunConfig{Sim: simConfig()})
	sum, err := r.Run(NewSliceFeed(bars))
	require.NoError(t, err)

	assert.Empty(t, sum.Trades)
	require.NotNil(t, sum.Open)
	assert.Equal(t, market.SideLong, sum.Open.Side)
	assert.InDelta(t, 103.0, sum.Open.LastClose, 1e-9)
	assert.InDelta(t, 3.0, sum.Open.UnrealizedPct, 1e-9)
	assert.InDelta(t, 3*2.25, sum.Open.UnrealizedPnL, 1e-9)
}

func TestRunnerAnnotatesWithStrategy(t *testing.T) {
	t.Parallel()

	// Slow zigzag uptrend, then a close above the 15-bar channel: the
	// turtle strategy should open a long on the breakout bar.
	bars := make([]market.Bar, 0, 60)
	close := 100.0
	for i := 0; i < 59; i++ {
		if i > 0 {
			if i%2 == 1 {
				close += 0.4
			} else {
				close -= 0.3
			}
		}
		b := runBar(i, close)
		b.High = close + 0.5
		b.Low = close - 0.5
		bars = append(bars, b)
	}
	high := 0.0
	for _, b := range bars[len(bars)-15:] {
		if b.High > high {
			high = b.High
		}
	}
	b := runBar(59, high+1)
	b.High = high + 1.5
	b.Low = high + 0.5
	bars = append(bars, b)

	strat, err := signal.ByTimeframe("4h")
	require.NoError(t, err)

	r := NewRunner(RunConfig{Sim: simConfig(), Strategy: strat})
	sum, err := r.Run(NewSliceFeed(bars))
	require.NoError(t, err)

	assert.Equal(t, "4h Aggressive Turtle", sum.Strategy)
	require.NotNil(t, sum.Open)
	assert.Equal(t, market.SideLong, sum.Open.Side)
	assert.InDelta(t, high+1, sum.Open.EntryPrice, 1e-9)
}

func TestRunnerRejectsOutOfOrderBars(t *testing.T) {
	t.Parallel()

	bars := []market.Bar{
		runBar(1, 100),
		runBar(0, 101),
	}

	r := NewRunner(RunConfig{Sim: simConfig()})
	_, err := r.Run(NewSliceFeed(bars))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of order")

	// Duplicate timestamps are rejected too.
	bars = []market.Bar{runBar(0, 100), runBar(0, 101)}
	_, err = r.Run(NewSliceFeed(bars))
	assert.Error(t, err)
}

func TestRunnerRecordsJournal(t *testing.T) {
	t.Parallel()

	j, err := journal.NewSQLite(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	defer j.Close()

	bars := []market.Bar{
		runSignalBar(0, 100, market.SignalLong, 2, 6),
		runBar(1, 106),
	}

	r := NewRunner(RunConfig{Sim: simConfig(), Dataset: "inline", Journal: j})
	sum, err := r.Run(NewSliceFeed(bars))
	require.NoError(t, err)

	trades, err := j.ListTradesByRun(sum.RunID)
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, sum.Trades[0].ID, trades[0].TradeID)

	runs, err := j.ListRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, sum.RunID, runs[0].RunID)
	assert.InDelta(t, sum.FinalBalance, runs[0].EndBalance, 1e-9)
}

func TestRunAllParallel(t *testing.T) {
	t.Parallel()

	winning := []market.Bar{
		runSignalBar(0, 100, market.SignalLong, 2, 6),
		runBar(1, 106),
	}
	losing := []market.Bar{
		runSignalBar(0, 100, market.SignalLong, 2, 6),
		runBar(1, 97),
	}

	cfg12h := simConfig()
	cfg12h.Timeframe = "12h"

	jobs := []Job{
		{Runner: NewRunner(RunConfig{Sim: simConfig()}), Feed: NewSliceFeed(winning)},
		{Runner: NewRunner(RunConfig{Sim: cfg12h}), Feed: NewSliceFeed(losing)},
	}

	outcomes := RunAll(jobs)
	require.Len(t, outcomes, 2)
	require.NoError(t, outcomes[0].Err)
	require.NoError(t, outcomes[1].Err)

	// Job order is preserved regardless of completion order.
	assert.Equal(t, "4h", outcomes[0].Summary.Timeframe)
	assert.Equal(t, "12h", outcomes[1].Summary.Timeframe)
	assert.Greater(t, outcomes[0].Summary.FinalBalance, 100.0)
	assert.Less(t, outcomes[1].Summary.FinalBalance, 100.0)

	best, ok := BestByROI(outcomes)
	require.True(t, ok)
	assert.Equal(t, "4h", best.Timeframe)
}

func TestPrintRunSummary(t *testing.T) {
	t.Parallel()

	bars := []market.Bar{
		runSignalBar(0, 100, market.SignalLong, 2, 6),
		runBar(1, 106),
		runSignalBar(2, 106, market.SignalShort, 2, 20),
		runBar(3, 105),
	}

	r := NewRunner(RunConfig{Sim: simConfig(), Dataset: "inline"})
	sum, err := r.Run(NewSliceFeed(bars))
	require.NoError(t, err)

	var buf bytes.Buffer
	PrintRunSummary(&buf, sum)
	out := buf.String()

	assert.Contains(t, out, "Backtest Result")
	assert.Contains(t, out, "SOLUSDT")
	assert.Contains(t, out, "Open Position")
	assert.Contains(t, out, "SHORT")
}

func TestPrintComparison(t *testing.T) {
	t.Parallel()

	bars := []market.Bar{
		runSignalBar(0, 100, market.SignalLong, 2, 6),
		runBar(1, 106),
	}
	r := NewRunner(RunConfig{Sim: simConfig()})
	sum, err := r.Run(NewSliceFeed(bars))
	require.NoError(t, err)

	var buf bytes.Buffer
	PrintComparison(&buf, []Outcome{{Summary: sum}})
	out := buf.String()

	assert.Contains(t, out, "SOLUSDT")
	assert.True(t, strings.Contains(out, "Best run"))
}
