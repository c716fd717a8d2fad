package backtest

import (
	"fmt"
	"sync"
	"time"

	"github.com/Vitaliy-Finiuk/sol-signal-bot/internal/id"
	"github.com/Vitaliy-Finiuk/sol-signal-bot/journal"
	"github.com/Vitaliy-Finiuk/sol-signal-bot/market"
	"github.com/Vitaliy-Finiuk/sol-signal-bot/signal"
	"github.com/Vitaliy-Finiuk/sol-signal-bot/sim"
	"github.com/Vitaliy-Finiuk/sol-signal-bot/stats"
)

// RunConfig describes one backtest run.
type RunConfig struct {
	Sim     sim.Config
	Dataset string // label recorded in the journal

	// Strategy annotates bars from the growing history. Nil means the
	// feed's bars already carry their signals.
	Strategy signal.Strategy

	// Journal receives every closed trade plus the run record. Optional.
	Journal journal.Journal

	// Listener is forwarded to the engine, e.g. a console notifier.
	// Optional.
	Listener sim.Listener
}

// OpenPosition reports a position still live when the feed ran out.
type OpenPosition struct {
	sim.Position
	LastClose     float64
	UnrealizedPnL float64 // gross, at the last close
	UnrealizedPct float64
}

// RunSummary is the complete result of one run: the statistics block,
// balances, the full ledger, and any position left open at the end.
type RunSummary struct {
	RunID     string
	Symbol    string
	Timeframe string
	Strategy  string
	Dataset   string
	Policy    string

	Start time.Time
	End   time.Time
	Bars  int

	InitialBalance float64
	FinalBalance   float64
	Stats          stats.Summary
	Trades         []sim.Trade
	Open           *OpenPosition
}

// Runner folds one feed through one engine. Bars within a run are
// strictly sequential; parallelism belongs across runs (see RunAll).
type Runner struct {
	cfg RunConfig
}

func NewRunner(cfg RunConfig) *Runner {
	return &Runner{cfg: cfg}
}

// Run consumes the feed to exhaustion. Bars must arrive strictly
// increasing in time; an out-of-order bar aborts the run.
func (r *Runner) Run(feed BarFeed) (RunSummary, error) {
	engine, err := sim.NewEngine(r.cfg.Sim)
	if err != nil {
		return RunSummary{}, err
	}
	if r.cfg.Listener != nil {
		engine.SetListener(r.cfg.Listener)
	}

	sum := RunSummary{
		RunID:          id.New(),
		Symbol:         r.cfg.Sim.Symbol,
		Timeframe:      r.cfg.Sim.Timeframe,
		Dataset:        r.cfg.Dataset,
		Policy:         r.cfg.Sim.Policy.String(),
		InitialBalance: r.cfg.Sim.InitialBalance,
	}
	if r.cfg.Strategy != nil {
		sum.Strategy = r.cfg.Strategy.Name()
	}

	var history []market.Bar
	var lastClose float64
	var lastTime time.Time

	for {
		b, ok, err := feed.Next()
		if err != nil {
			return RunSummary{}, fmt.Errorf("feed: %w", err)
		}
		if !ok {
			break
		}

		if !lastTime.IsZero() && !b.Time.After(lastTime) {
			return RunSummary{}, fmt.Errorf("bar out of order: %s after %s",
				b.Time.Format(time.RFC3339), lastTime.Format(time.RFC3339))
		}
		lastTime = b.Time

		if r.cfg.Strategy != nil {
			history = append(history, b)
			if adv, ok := r.cfg.Strategy.Evaluate(history); ok {
				b.Signal = adv.Signal
				b.StopDistance = adv.StopDistance
				b.TargetDistance = adv.TargetDistance
			}
		}

		if err := engine.OnBar(b); err != nil {
			return RunSummary{}, err
		}

		if sum.Bars == 0 {
			sum.Start = b.Time
		}
		sum.End = b.Time
		sum.Bars++
		lastClose = b.Close
	}

	sum.Trades = engine.Trades()
	sum.FinalBalance = engine.Balance()
	sum.Stats = stats.Compute(sum.InitialBalance, sum.Trades)

	if pos, open := engine.Position(); open {
		pnl := (lastClose - pos.EntryPrice) * pos.Size
		if pos.Side == market.SideShort {
			pnl = (pos.EntryPrice - lastClose) * pos.Size
		}
		sum.Open = &OpenPosition{
			Position:      pos,
			LastClose:     lastClose,
			UnrealizedPnL: pnl,
			UnrealizedPct: pos.UnrealizedPct(lastClose) * 100,
		}
	}

	if r.cfg.Journal != nil {
		if err := r.record(sum); err != nil {
			return RunSummary{}, fmt.Errorf("journal: %w", err)
		}
	}
	return sum, nil
}

func (r *Runner) record(sum RunSummary) error {
	for _, tr := range sum.Trades {
		if err := r.cfg.Journal.RecordTrade(journal.NewTradeRecord(sum.RunID, tr)); err != nil {
			return err
		}
	}
	return r.cfg.Journal.RecordRun(journal.RunRecord{
		RunID:          sum.RunID,
		Created:        time.Now().UTC(),
		Symbol:         sum.Symbol,
		Timeframe:      sum.Timeframe,
		Strategy:       sum.Strategy,
		Dataset:        sum.Dataset,
		Policy:         sum.Policy,
		RiskPerTrade:   r.cfg.Sim.RiskPerTrade,
		MaxLeverage:    r.cfg.Sim.MaxLeverage,
		CommissionRate: r.cfg.Sim.CommissionRate,
		MinRiskReward:  r.cfg.Sim.MinRiskReward,
		Start:          sum.Start,
		End:            sum.End,
		StartBalance:   sum.InitialBalance,
		EndBalance:     sum.FinalBalance,
		Trades:         sum.Stats.TotalTrades,
		Wins:           sum.Stats.Wins,
		Losses:         sum.Stats.Losses,
		NetPL:          sum.Stats.TotalPnL,
		ROIPct:         sum.Stats.ROIPct,
		WinRate:        sum.Stats.WinRate,
		ProfitFactor:   sum.Stats.ProfitFactor,
		MaxDrawdownPct: sum.Stats.MaxDrawdownPct,
	})
}

// Job pairs a runner with its feed for RunAll.
type Job struct {
	Runner *Runner
	Feed   BarFeed
}

// Outcome is one job's result.
type Outcome struct {
	Summary RunSummary
	Err     error
}

// RunAll executes jobs concurrently, one goroutine per run. Runs share no
// mutable state; a shared journal must be wrapped in journal.NewLocked.
// Outcomes are returned in job order.
func RunAll(jobs []Job) []Outcome {
	out := make([]Outcome, len(jobs))

	var wg sync.WaitGroup
	for i, job := range jobs {
		wg.Add(1)
		go func(i int, job Job) {
			defer wg.Done()
			defer job.Feed.Close()
			out[i].Summary, out[i].Err = job.Runner.Run(job.Feed)
		}(i, job)
	}
	wg.Wait()
	return out
}
