// Package sim holds the position state machine: a single-position,
// close-to-close simulation that turns signal-annotated bars into a
// ledger of closed trades.
package sim

import (
	"fmt"

	"github.com/Vitaliy-Finiuk/sol-signal-bot/internal/id"
	"github.com/Vitaliy-Finiuk/sol-signal-bot/market"
	"github.com/Vitaliy-Finiuk/sol-signal-bot/risk"
)

// Config holds everything a single simulation run needs. One Engine per
// (symbol, timeframe) combination; engines share nothing.
type Config struct {
	Symbol    string
	Timeframe string

	InitialBalance float64
	RiskPerTrade   float64 // fraction, e.g. 0.03
	MaxLeverage    float64
	CommissionRate float64 // per leg of notional, e.g. 0.0006
	MinRiskReward  float64
	Policy         risk.Policy
}

func (c Config) validate() error {
	if c.InitialBalance <= 0 {
		return fmt.Errorf("sim: initial balance must be positive, got %v", c.InitialBalance)
	}
	if c.RiskPerTrade <= 0 || c.RiskPerTrade > 1 {
		return fmt.Errorf("sim: risk per trade must be in (0, 1], got %v", c.RiskPerTrade)
	}
	if c.MaxLeverage < 1 {
		return fmt.Errorf("sim: max leverage must be at least 1, got %v", c.MaxLeverage)
	}
	if c.CommissionRate < 0 {
		return fmt.Errorf("sim: commission rate must not be negative, got %v", c.CommissionRate)
	}
	if c.MinRiskReward <= 0 {
		return fmt.Errorf("sim: min reward:risk must be positive, got %v", c.MinRiskReward)
	}
	return nil
}

// Engine folds bars into trades. It owns the single live position, the
// account balance, and the append-only trade ledger for one run.
//
// Bars must arrive in non-decreasing timestamp order; that is the
// caller's precondition (the backtest runner enforces it) and behavior on
// unordered input is undefined.
type Engine struct {
	cfg      Config
	balance  float64
	peak     float64
	pos      *Position
	trades   []Trade
	listener Listener
}

func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Engine{
		cfg:     cfg,
		balance: cfg.InitialBalance,
		peak:    cfg.InitialBalance,
	}, nil
}

// SetListener installs an optional listener for open/close events.
func (e *Engine) SetListener(l Listener) { e.listener = l }

// Balance is the current account balance (realized PnL only).
func (e *Engine) Balance() float64 { return e.balance }

// PeakBalance is the highest balance seen so far.
func (e *Engine) PeakBalance() float64 { return e.peak }

// Position returns a copy of the live position, if any.
func (e *Engine) Position() (Position, bool) {
	if e.pos == nil {
		return Position{}, false
	}
	return *e.pos, true
}

// Trades is the ledger of closed trades in exit order. The returned slice
// is the engine's own; callers must not modify it.
func (e *Engine) Trades() []Trade { return e.trades }

// OnBar advances the state machine by one bar. Strict order per bar:
//
//  1. trail the stop of an open position on the bar close
//  2. evaluate exit on the bar close
//  3. if the machine was flat coming into the bar, evaluate entry on the
//     bar's signal
//
// A position is never opened and closed within one bar: an exit in
// step 2 suppresses step 3, so a same-bar reversal signal is deferred to
// the next flat bar, and a position opened in step 3 is not
// exit-evaluated until the next bar.
func (e *Engine) OnBar(b market.Bar) error {
	if err := b.Validate(); err != nil {
		return fmt.Errorf("sim: %w", err)
	}

	exited := false
	if e.pos != nil {
		e.pos.trail(b.Close)
		if reason, hit := e.pos.exitReason(b.Close); hit {
			e.closePosition(b, reason)
			exited = true
		}
	}

	if e.pos == nil && !exited && b.Signal != market.SignalFlat {
		e.tryOpen(b)
	}
	return nil
}

// tryOpen evaluates an entry. All rejections here are silent declines,
// not errors: a filtered or unsizeable signal is an expected outcome.
func (e *Engine) tryOpen(b market.Bar) {
	rr := risk.RR(b.StopDistance, b.TargetDistance)
	if rr < e.cfg.MinRiskReward {
		return
	}

	sizing, ok := risk.Size(e.cfg.Policy, risk.Inputs{
		Balance:      e.balance,
		EntryPrice:   b.Close,
		StopDistance: b.StopDistance,
		RiskFraction: e.cfg.RiskPerTrade,
		MaxLeverage:  e.cfg.MaxLeverage,
	})
	if !ok || sizing.Size <= 0 {
		return
	}

	side := b.Signal.Side()
	pos := &Position{
		Side:       side,
		EntryPrice: b.Close,
		EntryTime:  b.Time,
		Size:       sizing.Size,
		Leverage:   sizing.Leverage,
	}
	if side == market.SideLong {
		pos.StopLoss = b.Close - b.StopDistance
		pos.TakeProfit = b.Close + b.TargetDistance
	} else {
		pos.StopLoss = b.Close + b.StopDistance
		pos.TakeProfit = b.Close - b.TargetDistance
	}
	e.pos = pos

	if e.listener != nil {
		commission := sizing.Size * b.Close * e.cfg.CommissionRate * 2
		e.listener.PositionOpened(OpenEvent{
			Symbol:             e.cfg.Symbol,
			Timeframe:          e.cfg.Timeframe,
			Side:               side,
			Time:               b.Time,
			EntryPrice:         pos.EntryPrice,
			StopLoss:           pos.StopLoss,
			TakeProfit:         pos.TakeProfit,
			Size:               sizing.Size,
			Leverage:           sizing.Leverage,
			RiskReward:         rr,
			RiskAmount:         sizing.RiskAmount,
			ProjectedNetProfit: b.TargetDistance*sizing.Size - commission,
			ProjectedNetLoss:   b.StopDistance*sizing.Size + commission,
			CommissionCost:     commission,
		})
	}
}

// closePosition realizes the position at the bar close: gross PnL minus
// commission on both legs of notional, balance update, ledger append.
func (e *Engine) closePosition(b market.Bar, reason string) {
	pos := e.pos
	exit := b.Close

	gross := (exit - pos.EntryPrice) * pos.Size
	if pos.Side == market.SideShort {
		gross = (pos.EntryPrice - exit) * pos.Size
	}
	commission := pos.Size*pos.EntryPrice*e.cfg.CommissionRate +
		pos.Size*exit*e.cfg.CommissionRate
	net := gross - commission

	e.balance += net
	if e.balance > e.peak {
		e.peak = e.balance
	}

	trade := Trade{
		ID:           id.New(),
		Symbol:       e.cfg.Symbol,
		Timeframe:    e.cfg.Timeframe,
		Side:         pos.Side,
		EntryPrice:   pos.EntryPrice,
		EntryTime:    pos.EntryTime,
		ExitPrice:    exit,
		ExitTime:     b.Time,
		Size:         pos.Size,
		Leverage:     pos.Leverage,
		PnL:          net,
		BalanceAfter: e.balance,
		ReturnPct:    pos.UnrealizedPct(exit) * 100,
		Reason:       reason,
	}
	e.trades = append(e.trades, trade)
	e.pos = nil

	if e.listener != nil {
		e.listener.TradeClosed(trade)
	}
}
