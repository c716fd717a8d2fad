// Package journal persists closed trades and run summaries. Two backends
// are provided: CSV files for quick inspection and SQLite for queries
// across runs.
package journal

import (
	"time"

	"github.com/Vitaliy-Finiuk/sol-signal-bot/sim"
)

// TradeRecord mirrors the trades table / trades CSV.
type TradeRecord struct {
	TradeID      string
	RunID        string
	Symbol       string
	Timeframe    string
	Side         string
	EntryPrice   float64
	EntryTime    time.Time
	ExitPrice    float64
	ExitTime     time.Time
	Size         float64
	Leverage     float64
	PnL          float64
	BalanceAfter float64
	ReturnPct    float64
	Reason       string
}

// NewTradeRecord converts a closed trade into its journal row.
func NewTradeRecord(runID string, tr sim.Trade) TradeRecord {
	return TradeRecord{
		TradeID:      tr.ID,
		RunID:        runID,
		Symbol:       tr.Symbol,
		Timeframe:    tr.Timeframe,
		Side:         tr.Side.String(),
		EntryPrice:   tr.EntryPrice,
		EntryTime:    tr.EntryTime,
		ExitPrice:    tr.ExitPrice,
		ExitTime:     tr.ExitTime,
		Size:         tr.Size,
		Leverage:     tr.Leverage,
		PnL:          tr.PnL,
		BalanceAfter: tr.BalanceAfter,
		ReturnPct:    tr.ReturnPct,
		Reason:       tr.Reason,
	}
}

// RunRecord mirrors the runs table: one row per completed backtest run.
type RunRecord struct {
	RunID     string
	Created   time.Time
	Symbol    string
	Timeframe string
	Strategy  string
	Dataset   string

	Policy         string
	RiskPerTrade   float64
	MaxLeverage    float64
	CommissionRate float64
	MinRiskReward  float64

	Start time.Time
	End   time.Time

	StartBalance float64
	EndBalance   float64
	Trades       int
	Wins         int
	Losses       int

	NetPL          float64
	ROIPct         float64
	WinRate        float64
	ProfitFactor   float64
	MaxDrawdownPct float64
}

type Journal interface {
	RecordTrade(TradeRecord) error
	RecordRun(RunRecord) error
	Close() error
}
