package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/Vitaliy-Finiuk/sol-signal-bot/cmd/signalbot/cmd"
)

func main() {
	// Local .env is optional; flags and config files take precedence.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
