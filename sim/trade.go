package sim

import (
	"time"

	"github.com/Vitaliy-Finiuk/sol-signal-bot/market"
)

// Close reasons recorded on trades.
const (
	ReasonStopLoss   = "StopLoss"
	ReasonTakeProfit = "TakeProfit"
)

// Trade is a closed position. Immutable once appended to the ledger.
//
// PnL is net of commissions on both legs. ReturnPct is the raw price
// return of the trade in percent, pre-leverage and pre-commission; it is
// deliberately a separate figure from PnL/balance.
type Trade struct {
	ID         string
	Symbol     string
	Timeframe  string
	Side       market.Side
	EntryPrice float64
	EntryTime  time.Time
	ExitPrice  float64
	ExitTime   time.Time
	Size       float64
	Leverage   float64

	PnL          float64
	BalanceAfter float64
	ReturnPct    float64
	Reason       string
}
