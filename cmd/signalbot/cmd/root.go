package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "signalbot",
	Short: "Rule-based signal backtesting for crypto OHLCV data",
	Long: `Signalbot simulates rule-based trading signals over historical OHLCV
bars and accounts for the results.

It provides tools for:
  - Backtesting the built-in strategies (turtle, momentum, trend)
  - Risk-based position sizing with a leverage cap
  - Trailing-stop simulation with commission-aware PnL
  - Journaling trades and runs to CSV or SQLite
  - Comparing runs across symbols and timeframes`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
