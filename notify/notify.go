// Package notify turns engine events into human-readable alerts.
// Delivery is pluggable behind Notifier; only a console transport is
// built in.
package notify

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/Vitaliy-Finiuk/sol-signal-bot/sim"
)

type Notifier interface {
	Notify(text string) error
}

// Console writes alerts to a writer, one blank line between alerts.
// Safe for concurrent use.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

func NewConsole(w io.Writer) *Console { return &Console{w: w} }

func (c *Console) Notify(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintf(c.w, "%s\n\n", strings.TrimRight(text, "\n"))
	return err
}

// AlertListener adapts a Notifier to the engine's listener interface.
// Notification failures are counted but never propagate into the fold.
type AlertListener struct {
	n            Notifier
	riskPerTrade float64

	mu      sync.Mutex
	dropped int
}

func NewAlertListener(n Notifier, riskPerTrade float64) *AlertListener {
	return &AlertListener{n: n, riskPerTrade: riskPerTrade}
}

func (l *AlertListener) PositionOpened(ev sim.OpenEvent) {
	l.send(FormatOpen(ev, l.riskPerTrade))
}

func (l *AlertListener) TradeClosed(tr sim.Trade) {
	l.send(FormatClose(tr))
}

// Dropped reports how many alerts failed to deliver.
func (l *AlertListener) Dropped() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dropped
}

func (l *AlertListener) send(text string) {
	if err := l.n.Notify(text); err != nil {
		l.mu.Lock()
		l.dropped++
		l.mu.Unlock()
	}
}

// FormatOpen renders the entry alert: entry parameters, position block,
// and the profit/loss projection net of round-trip commissions.
func FormatOpen(ev sim.OpenEvent, riskPerTrade float64) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s SIGNAL  %s %s\n", ev.Side, ev.Symbol, ev.Timeframe)
	fmt.Fprintf(&b, "%s\n", ev.Time.Format("2006-01-02 15:04"))
	b.WriteString("\n")

	b.WriteString("Entry parameters:\n")
	fmt.Fprintf(&b, "  Entry:       %.4f\n", ev.EntryPrice)
	fmt.Fprintf(&b, "  Stop-Loss:   %.4f\n", ev.StopLoss)
	fmt.Fprintf(&b, "  Take-Profit: %.4f\n", ev.TakeProfit)
	b.WriteString("\n")

	b.WriteString("Position:\n")
	fmt.Fprintf(&b, "  Size:     %.2f\n", ev.Size)
	fmt.Fprintf(&b, "  Leverage: %.1fx\n", ev.Leverage)
	fmt.Fprintf(&b, "  R:R:      %.2f:1\n", ev.RiskReward)
	b.WriteString("\n")

	b.WriteString("Projection:\n")
	if riskPerTrade > 0 {
		balance := ev.RiskAmount / riskPerTrade
		fmt.Fprintf(&b, "  Profit: +%.2f (+%.1f%%)\n", ev.ProjectedNetProfit, ev.ProjectedNetProfit/balance*100)
		fmt.Fprintf(&b, "  Loss:   -%.2f (-%.1f%%)\n", ev.ProjectedNetLoss, ev.ProjectedNetLoss/balance*100)
		fmt.Fprintf(&b, "  Risk:   %.0f%% of balance\n", riskPerTrade*100)
	} else {
		fmt.Fprintf(&b, "  Profit: +%.2f\n", ev.ProjectedNetProfit)
		fmt.Fprintf(&b, "  Loss:   -%.2f\n", ev.ProjectedNetLoss)
	}
	fmt.Fprintf(&b, "  Fees:   %.2f\n", ev.CommissionCost)

	return b.String()
}

// FormatClose renders the exit alert.
func FormatClose(tr sim.Trade) string {
	var b strings.Builder

	fmt.Fprintf(&b, "TRADE CLOSED (%s)  %s %s %s\n", tr.Reason, tr.Symbol, tr.Timeframe, tr.Side)
	fmt.Fprintf(&b, "Entry %.4f -> Exit %.4f\n", tr.EntryPrice, tr.ExitPrice)
	fmt.Fprintf(&b, "PnL: %+.2f  Balance: %.2f\n", tr.PnL, tr.BalanceAfter)
	fmt.Fprintf(&b, "Return: %+.2f%%\n", tr.ReturnPct)

	return b.String()
}
