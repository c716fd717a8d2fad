package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/xyproto/unzip"

	"github.com/Vitaliy-Finiuk/sol-signal-bot/backtest"
)

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Inspect and unpack OHLCV datasets",
}

var dataUnpackCmd = &cobra.Command{
	Use:   "unpack <archive.zip> [dest]",
	Short: "Extract a zip archive of datasets",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runDataUnpack,
}

var dataHeadCmd = &cobra.Command{
	Use:   "head <dataset>",
	Short: "Print the first bars of a dataset (plain CSV or .xz)",
	Args:  cobra.ExactArgs(1),
	RunE:  runDataHead,
}

var dataHeadCount int

func init() {
	rootCmd.AddCommand(dataCmd)
	dataCmd.AddCommand(dataUnpackCmd)
	dataCmd.AddCommand(dataHeadCmd)

	dataHeadCmd.Flags().IntVarP(&dataHeadCount, "count", "n", 10, "number of bars to print")
}

func runDataUnpack(cmd *cobra.Command, args []string) error {
	dest := "."
	if len(args) > 1 {
		dest = args[1]
	}
	if err := unzip.Extract(args[0], dest); err != nil {
		return fmt.Errorf("unpack %s: %w", args[0], err)
	}
	fmt.Printf("Extracted %s to %s\n", args[0], dest)
	return nil
}

func runDataHead(cmd *cobra.Command, args []string) error {
	feed, err := backtest.NewCSVFeed(args[0], time.Time{}, time.Time{})
	if err != nil {
		return err
	}
	defer feed.Close()

	w := os.Stdout
	fmt.Fprintln(w, "time                      open        high        low         close       volume")
	for i := 0; i < dataHeadCount; i++ {
		b, ok, err := feed.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		fmt.Fprintf(w, "%-25s %-11.4f %-11.4f %-11.4f %-11.4f %.2f\n",
			b.Time.Format(time.RFC3339), b.Open, b.High, b.Low, b.Close, b.Volume)
	}
	return nil
}
