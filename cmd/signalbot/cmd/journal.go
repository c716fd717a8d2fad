package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/Vitaliy-Finiuk/sol-signal-bot/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Inspect journaled runs and trades",
	Long: `Query a SQLite journal written by backtest runs.

Examples:
  signalbot journal runs --db backtests.sqlite
  signalbot journal trades --db backtests.sqlite --run 01HZ...`,
}

var journalRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded runs, newest first",
	RunE:  runJournalRuns,
}

var journalTradesCmd = &cobra.Command{
	Use:   "trades",
	Short: "List a run's trades in exit-time order",
	RunE:  runJournalTrades,
}

var (
	journalDBPath string
	journalRunID  string
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalRunsCmd)
	journalCmd.AddCommand(journalTradesCmd)

	journalCmd.PersistentFlags().StringVar(&journalDBPath, "db", "", "SQLite journal file (or $SIGNALBOT_DB)")
	journalTradesCmd.Flags().StringVar(&journalRunID, "run", "", "run ID (required)")
	journalTradesCmd.MarkFlagRequired("run")
}

func openJournalDB() (*journal.SQLite, error) {
	path := journalDBPath
	if path == "" {
		path = os.Getenv("SIGNALBOT_DB")
	}
	if path == "" {
		return nil, fmt.Errorf("--db or $SIGNALBOT_DB is required")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("journal %s: %w", path, err)
	}
	return journal.NewSQLite(path)
}

func runJournalRuns(cmd *cobra.Command, args []string) error {
	j, err := openJournalDB()
	if err != nil {
		return err
	}
	defer j.Close()

	runs, err := j.ListRuns()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded")
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Run ID", "Created", "Symbol", "TF", "Strategy", "Trades", "Win%", "Net P/L", "ROI%")
	for _, r := range runs {
		table.Append(
			r.RunID,
			r.Created.Format("2006-01-02 15:04"),
			r.Symbol,
			r.Timeframe,
			r.Strategy,
			fmt.Sprintf("%d", r.Trades),
			fmt.Sprintf("%.1f", r.WinRate*100),
			fmt.Sprintf("%.2f", r.NetPL),
			fmt.Sprintf("%.2f", r.ROIPct),
		)
	}
	table.Render()
	return nil
}

func runJournalTrades(cmd *cobra.Command, args []string) error {
	j, err := openJournalDB()
	if err != nil {
		return err
	}
	defer j.Close()

	trades, err := j.ListTradesByRun(journalRunID)
	if err != nil {
		return err
	}
	if len(trades) == 0 {
		fmt.Printf("No trades recorded for run %s\n", journalRunID)
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Trade ID", "Side", "Entry", "Exit", "Exit Time", "Size", "Lev", "P/L", "Ret%", "Reason")
	for _, t := range trades {
		table.Append(
			t.TradeID,
			t.Side,
			fmt.Sprintf("%.4f", t.EntryPrice),
			fmt.Sprintf("%.4f", t.ExitPrice),
			t.ExitTime.Format(time.RFC3339),
			fmt.Sprintf("%.4f", t.Size),
			fmt.Sprintf("%.2f", t.Leverage),
			fmt.Sprintf("%.4f", t.PnL),
			fmt.Sprintf("%.2f", t.ReturnPct),
			t.Reason,
		)
	}
	table.Render()
	return nil
}
