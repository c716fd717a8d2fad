package backtest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"

	"github.com/Vitaliy-Finiuk/sol-signal-bot/market"
)

const sampleCSV = `timestamp,open,high,low,close,volume
1709251200000,100,101,99,100.5,1200
1709265600000,100.5,102,100,101.5,900
2024-03-01T08:00:00Z,101.5,103,101,102.5,1100
`

func writeDataset(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func drain(t *testing.T, f BarFeed) []market.Bar {
	t.Helper()
	var out []market.Bar
	for {
		b, ok, err := f.Next()
		require.NoError(t, err)
		if !ok {
			return out
		}
		out = append(out, b)
	}
}

func TestCSVFeedParsesRows(t *testing.T) {
	t.Parallel()

	f, err := NewCSVFeed(writeDataset(t, "bars.csv", sampleCSV), time.Time{}, time.Time{})
	require.NoError(t, err)
	defer f.Close()

	bars := drain(t, f)
	require.Len(t, bars, 3)

	// 1709251200000 ms = 2024-03-01T00:00:00Z
	assert.True(t, bars[0].Time.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.InDelta(t, 100.5, bars[0].Close, 1e-9)
	assert.InDelta(t, 1200.0, bars[0].Volume, 1e-9)

	// RFC3339 rows parse too
	assert.True(t, bars[2].Time.Equal(time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)))
	assert.InDelta(t, 102.5, bars[2].Close, 1e-9)
}

func TestCSVFeedRangeFilter(t *testing.T) {
	t.Parallel()

	from := time.Date(2024, 3, 1, 4, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	f, err := NewCSVFeed(writeDataset(t, "bars.csv", sampleCSV), from, to)
	require.NoError(t, err)
	defer f.Close()

	bars := drain(t, f)
	require.Len(t, bars, 1)
	assert.InDelta(t, 101.5, bars[0].Close, 1e-9)
}

func TestCSVFeedXZ(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bars.csv.xz")
	out, err := os.Create(path)
	require.NoError(t, err)
	xw, err := xz.NewWriter(out)
	require.NoError(t, err)
	_, err = xw.Write([]byte(sampleCSV))
	require.NoError(t, err)
	require.NoError(t, xw.Close())
	require.NoError(t, out.Close())

	f, err := NewCSVFeed(path, time.Time{}, time.Time{})
	require.NoError(t, err)
	defer f.Close()

	bars := drain(t, f)
	assert.Len(t, bars, 3)
}

func TestCSVFeedBadRow(t *testing.T) {
	t.Parallel()

	f, err := NewCSVFeed(writeDataset(t, "bars.csv",
		"1709251200000,100,101,99,not-a-price,1200\n"), time.Time{}, time.Time{})
	require.NoError(t, err)
	defer f.Close()

	_, _, err = f.Next()
	assert.Error(t, err)
}

func TestSliceFeed(t *testing.T) {
	t.Parallel()

	want := []market.Bar{
		{Time: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Open: 100, High: 101, Low: 99, Close: 100.5},
	}
	f := NewSliceFeed(want)
	got := drain(t, f)
	assert.Equal(t, want, got)
	assert.NoError(t, f.Close())
}
