package sim

import (
	"time"

	"github.com/Vitaliy-Finiuk/sol-signal-bot/market"
)

// OpenEvent describes a position the engine just opened, with the
// projections a human alert wants: reward:risk, net profit if the target
// is hit, net loss if the stop is hit, and the round-trip commission cost
// estimated at the entry price.
type OpenEvent struct {
	Symbol     string
	Timeframe  string
	Side       market.Side
	Time       time.Time
	EntryPrice float64
	StopLoss   float64
	TakeProfit float64
	Size       float64
	Leverage   float64

	RiskReward         float64
	RiskAmount         float64
	ProjectedNetProfit float64
	ProjectedNetLoss   float64
	CommissionCost     float64
}

// Listener is notified as the engine opens and closes positions. Both
// callbacks run synchronously inside the bar fold; implementations must
// not call back into the engine.
type Listener interface {
	PositionOpened(OpenEvent)
	TradeClosed(Trade)
}
