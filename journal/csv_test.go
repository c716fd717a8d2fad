package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVWritesRows(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tradesPath := filepath.Join(dir, "trades.csv")
	runsPath := filepath.Join(dir, "runs.csv")

	j, err := NewCSV(tradesPath, runsPath)
	require.NoError(t, err)

	exit := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	require.NoError(t, j.RecordTrade(sampleTrade("01TRADE", "01RUN", exit)))
	require.NoError(t, j.RecordRun(sampleRun("01RUN")))
	require.NoError(t, j.Close())

	rows := readCSV(t, tradesPath)
	require.Len(t, rows, 2) // header + one trade
	assert.Equal(t, "trade_id", rows[0][0])
	assert.Equal(t, "01TRADE", rows[1][0])
	assert.Equal(t, "01RUN", rows[1][1])
	assert.Equal(t, "LONG", rows[1][4])
	assert.Equal(t, "TakeProfit", rows[1][14])

	rows = readCSV(t, runsPath)
	require.Len(t, rows, 2)
	assert.Equal(t, "run_id", rows[0][0])
	assert.Equal(t, "01RUN", rows[1][0])
	assert.Equal(t, "4h Aggressive Turtle", rows[1][4])
}

func TestLockedJournalConcurrentTrades(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	backend, err := NewCSV(filepath.Join(dir, "trades.csv"), filepath.Join(dir, "runs.csv"))
	require.NoError(t, err)
	j := NewLocked(backend)

	exit := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	done := make(chan error)
	for i := 0; i < 8; i++ {
		go func(n int) {
			done <- j.RecordTrade(sampleTrade(string(rune('A'+n)), "RUN", exit))
		}(i)
	}
	for i := 0; i < 8; i++ {
		require.NoError(t, <-done)
	}
	require.NoError(t, j.Close())

	rows := readCSV(t, filepath.Join(dir, "trades.csv"))
	assert.Len(t, rows, 9) // header + 8 trades
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}
