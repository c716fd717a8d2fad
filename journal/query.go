package journal

import (
	"database/sql"
	"fmt"
	"math"
)

// GetTrade returns a single trade record by ID.
func (j *SQLite) GetTrade(tradeID string) (TradeRecord, error) {
	row := j.db.QueryRow(`
		SELECT trade_id, run_id, symbol, timeframe, side, entry_price, entry_time,
		       exit_price, exit_time, size, leverage, pnl, balance_after, return_pct, reason
		FROM trades
		WHERE trade_id = ?`, tradeID)

	rec, err := scanTrade(row)
	if err == sql.ErrNoRows {
		return TradeRecord{}, fmt.Errorf("trade %q not found", tradeID)
	}
	return rec, err
}

// ListTradesByRun returns a run's trades in exit-time order.
func (j *SQLite) ListTradesByRun(runID string) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT trade_id, run_id, symbol, timeframe, side, entry_price, entry_time,
		       exit_price, exit_time, size, leverage, pnl, balance_after, return_pct, reason
		FROM trades
		WHERE run_id = ?
		ORDER BY exit_time ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		rec, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ListRuns returns all recorded runs, newest first.
func (j *SQLite) ListRuns() ([]RunRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, created, symbol, timeframe, strategy, dataset, policy,
		       risk_per_trade, max_leverage, commission_rate, min_risk_reward,
		       start_time, end_time, start_balance, end_balance, trades, wins, losses,
		       net_pl, roi_pct, win_rate, profit_factor, max_drawdown_pct
		FROM runs
		ORDER BY created DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(
			&r.RunID, &r.Created, &r.Symbol, &r.Timeframe, &r.Strategy, &r.Dataset, &r.Policy,
			&r.RiskPerTrade, &r.MaxLeverage, &r.CommissionRate, &r.MinRiskReward,
			&r.Start, &r.End, &r.StartBalance, &r.EndBalance, &r.Trades, &r.Wins, &r.Losses,
			&r.NetPL, &r.ROIPct, &r.WinRate, &r.ProfitFactor, &r.MaxDrawdownPct,
		); err != nil {
			return nil, err
		}
		if r.ProfitFactor == -1 {
			r.ProfitFactor = math.Inf(1)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrade(row rowScanner) (TradeRecord, error) {
	var rec TradeRecord
	err := row.Scan(
		&rec.TradeID, &rec.RunID, &rec.Symbol, &rec.Timeframe, &rec.Side,
		&rec.EntryPrice, &rec.EntryTime, &rec.ExitPrice, &rec.ExitTime,
		&rec.Size, &rec.Leverage, &rec.PnL, &rec.BalanceAfter, &rec.ReturnPct, &rec.Reason,
	)
	return rec, err
}
