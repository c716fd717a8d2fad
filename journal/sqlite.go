package journal

import (
	"database/sql"
	"math"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, run_id, symbol, timeframe, side, entry_price, entry_time,
		 exit_price, exit_time, size, leverage, pnl, balance_after, return_pct, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TradeID, t.RunID, t.Symbol, t.Timeframe, t.Side,
		t.EntryPrice, t.EntryTime, t.ExitPrice, t.ExitTime,
		t.Size, t.Leverage, t.PnL, t.BalanceAfter, t.ReturnPct, t.Reason,
	)
	return err
}

func (j *SQLite) RecordRun(r RunRecord) error {
	// SQLite REAL has no +Inf literal on the way back out of some tools,
	// so an all-winners profit factor is stored as -1 and restored on read.
	pf := r.ProfitFactor
	if math.IsInf(pf, 1) {
		pf = -1
	}

	_, err := j.db.Exec(`
		INSERT INTO runs
		(run_id, created, symbol, timeframe, strategy, dataset, policy,
		 risk_per_trade, max_leverage, commission_rate, min_risk_reward,
		 start_time, end_time, start_balance, end_balance, trades, wins, losses,
		 net_pl, roi_pct, win_rate, profit_factor, max_drawdown_pct)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Created, r.Symbol, r.Timeframe, r.Strategy, r.Dataset, r.Policy,
		r.RiskPerTrade, r.MaxLeverage, r.CommissionRate, r.MinRiskReward,
		r.Start, r.End, r.StartBalance, r.EndBalance, r.Trades, r.Wins, r.Losses,
		r.NetPL, r.ROIPct, r.WinRate, pf, r.MaxDrawdownPct,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
