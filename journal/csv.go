package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

type CSV struct {
	trades *csv.Writer
	runs   *csv.Writer
	tf, rf *os.File
}

func NewCSV(tradesPath, runsPath string) (*CSV, error) {
	tf, err := os.Create(tradesPath)
	if err != nil {
		return nil, err
	}
	rf, err := os.Create(runsPath)
	if err != nil {
		tf.Close()
		return nil, err
	}

	tw := csv.NewWriter(tf)
	rw := csv.NewWriter(rf)

	if err := tw.Write([]string{
		"trade_id", "run_id", "symbol", "timeframe", "side",
		"entry_price", "entry_time", "exit_price", "exit_time",
		"size", "leverage", "pnl", "balance_after", "return_pct", "reason",
	}); err != nil {
		return nil, err
	}
	if err := rw.Write([]string{
		"run_id", "created", "symbol", "timeframe", "strategy", "dataset", "policy",
		"risk_per_trade", "max_leverage", "commission_rate", "min_risk_reward",
		"start", "end", "start_balance", "end_balance", "trades", "wins", "losses",
		"net_pl", "roi_pct", "win_rate", "profit_factor", "max_drawdown_pct",
	}); err != nil {
		return nil, err
	}

	tw.Flush()
	if err := tw.Error(); err != nil {
		return nil, err
	}
	rw.Flush()
	if err := rw.Error(); err != nil {
		return nil, err
	}

	return &CSV{trades: tw, runs: rw, tf: tf, rf: rf}, nil
}

func (j *CSV) RecordTrade(t TradeRecord) error {
	if err := j.trades.Write([]string{
		t.TradeID,
		t.RunID,
		t.Symbol,
		t.Timeframe,
		t.Side,
		f(t.EntryPrice),
		t.EntryTime.Format(time.RFC3339),
		f(t.ExitPrice),
		t.ExitTime.Format(time.RFC3339),
		f(t.Size),
		f(t.Leverage),
		f(t.PnL),
		f(t.BalanceAfter),
		f(t.ReturnPct),
		t.Reason,
	}); err != nil {
		return err
	}
	j.trades.Flush()
	return j.trades.Error()
}

func (j *CSV) RecordRun(r RunRecord) error {
	if err := j.runs.Write([]string{
		r.RunID,
		r.Created.Format(time.RFC3339),
		r.Symbol,
		r.Timeframe,
		r.Strategy,
		r.Dataset,
		r.Policy,
		f(r.RiskPerTrade),
		f(r.MaxLeverage),
		f(r.CommissionRate),
		f(r.MinRiskReward),
		r.Start.Format(time.RFC3339),
		r.End.Format(time.RFC3339),
		f(r.StartBalance),
		f(r.EndBalance),
		strconv.Itoa(r.Trades),
		strconv.Itoa(r.Wins),
		strconv.Itoa(r.Losses),
		f(r.NetPL),
		f(r.ROIPct),
		f(r.WinRate),
		f(r.ProfitFactor),
		f(r.MaxDrawdownPct),
	}); err != nil {
		return err
	}
	j.runs.Flush()
	return j.runs.Error()
}

func (j *CSV) Close() error {
	j.trades.Flush()
	if err := j.trades.Error(); err != nil {
		return err
	}
	j.runs.Flush()
	if err := j.runs.Error(); err != nil {
		return err
	}

	if err := j.tf.Close(); err != nil {
		return err
	}
	return j.rf.Close()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
