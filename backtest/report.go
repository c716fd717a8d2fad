package backtest

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/olekukonko/tablewriter"
)

// PrintRunSummary writes the single-run report.
func PrintRunSummary(w io.Writer, s RunSummary) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Backtest Result")
	fmt.Fprintln(w, "==================================================")

	fmt.Fprintf(w, "Run ID:        %s\n", s.RunID)
	fmt.Fprintf(w, "Symbol:        %s\n", s.Symbol)
	fmt.Fprintf(w, "Timeframe:     %s\n", s.Timeframe)
	if s.Strategy != "" {
		fmt.Fprintf(w, "Strategy:      %s\n", s.Strategy)
	}
	if s.Dataset != "" {
		fmt.Fprintf(w, "Dataset:       %s\n", s.Dataset)
	}
	fmt.Fprintf(w, "Policy:        %s\n", s.Policy)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Period")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Start:         %s\n", s.Start.Format(time.RFC3339))
	fmt.Fprintf(w, "End:           %s\n", s.End.Format(time.RFC3339))
	fmt.Fprintf(w, "Bars:          %d\n", s.Bars)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Trade Statistics")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Trades:        %d\n", s.Stats.TotalTrades)
	fmt.Fprintf(w, "Wins:          %d\n", s.Stats.Wins)
	fmt.Fprintf(w, "Losses:        %d\n", s.Stats.Losses)
	fmt.Fprintf(w, "Win Rate:      %.2f%%\n", s.Stats.WinRate*100)
	fmt.Fprintf(w, "Profit Factor: %s\n", formatPF(s.Stats.ProfitFactor))
	fmt.Fprintf(w, "Win Streak:    %d\n", s.Stats.MaxWinStreak)
	fmt.Fprintf(w, "Loss Streak:   %d\n", s.Stats.MaxLossStreak)
	fmt.Fprintf(w, "Avg Leverage:  %.2fx\n", s.Stats.AvgLeverage)
	if s.Stats.AvgPositiveRetPct > 0 {
		fmt.Fprintf(w, "Avg Win Move:  %.2f%%\n", s.Stats.AvgPositiveRetPct)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Account Performance")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Start Balance: %.2f\n", s.InitialBalance)
	fmt.Fprintf(w, "End Balance:   %.2f\n", s.FinalBalance)
	fmt.Fprintf(w, "Net P/L:       %.2f\n", s.Stats.TotalPnL)
	fmt.Fprintf(w, "Return:        %.2f%%\n", s.Stats.ROIPct)
	fmt.Fprintf(w, "Max Drawdown:  %.2f%%\n", s.Stats.MaxDrawdownPct)

	if s.Open != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Open Position (not realized)")
		fmt.Fprintln(w, "--------------------------------------------------")
		fmt.Fprintf(w, "Side:          %s\n", s.Open.Side)
		fmt.Fprintf(w, "Entry:         %.4f (%s)\n", s.Open.EntryPrice, s.Open.EntryTime.Format(time.RFC3339))
		fmt.Fprintf(w, "Stop/Target:   %.4f / %.4f\n", s.Open.StopLoss, s.Open.TakeProfit)
		fmt.Fprintf(w, "Last Close:    %.4f\n", s.Open.LastClose)
		fmt.Fprintf(w, "Unrealized:    %.2f (%.2f%%)\n", s.Open.UnrealizedPnL, s.Open.UnrealizedPct)
	}

	fmt.Fprintln(w)
}

// PrintComparison renders the cross-run table and names the best run by
// ROI. Failed runs are listed under the table with their errors.
func PrintComparison(w io.Writer, outcomes []Outcome) {
	table := tablewriter.NewWriter(w)
	table.Header("Symbol", "TF", "Strategy", "Trades", "Win%", "PF", "MaxDD%", "ROI%")

	for _, o := range outcomes {
		if o.Err != nil {
			continue
		}
		s := o.Summary
		table.Append(
			s.Symbol,
			s.Timeframe,
			s.Strategy,
			fmt.Sprintf("%d", s.Stats.TotalTrades),
			fmt.Sprintf("%.1f", s.Stats.WinRate*100),
			formatPF(s.Stats.ProfitFactor),
			fmt.Sprintf("%.1f", s.Stats.MaxDrawdownPct),
			fmt.Sprintf("%.1f", s.Stats.ROIPct),
		)
	}
	table.Render()

	if best, ok := BestByROI(outcomes); ok {
		fmt.Fprintf(w, "\nBest run: %s %s (%s) ROI %.2f%%\n",
			best.Symbol, best.Timeframe, best.Strategy, best.Stats.ROIPct)
	}

	for _, o := range outcomes {
		if o.Err != nil {
			fmt.Fprintf(w, "run %s %s failed: %v\n",
				o.Summary.Symbol, o.Summary.Timeframe, o.Err)
		}
	}
}

// BestByROI picks the successful run with the highest ROI.
func BestByROI(outcomes []Outcome) (RunSummary, bool) {
	var best RunSummary
	found := false
	for _, o := range outcomes {
		if o.Err != nil {
			continue
		}
		if !found || o.Summary.Stats.ROIPct > best.Stats.ROIPct {
			best = o.Summary
			found = true
		}
	}
	return best, found
}

func formatPF(pf float64) string {
	if math.IsInf(pf, 1) {
		return "INF"
	}
	return fmt.Sprintf("%.2f", pf)
}
