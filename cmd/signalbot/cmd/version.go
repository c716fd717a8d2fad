package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "0.3.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the signalbot version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("signalbot %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
