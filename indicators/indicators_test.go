package indicators

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vitaliy-Finiuk/sol-signal-bot/market"
)

func TestSMA(t *testing.T) {
	t.Parallel()

	v, err := SMA([]float64{1, 2, 3, 4, 5}, 3)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, v, 1e-9)

	_, err = SMA([]float64{1, 2}, 3)
	assert.Error(t, err)

	_, err = SMA([]float64{1, 2, 3}, 0)
	assert.Error(t, err)
}

func TestEMA(t *testing.T) {
	t.Parallel()

	// Constant series: EMA equals the constant regardless of period.
	v, err := EMA([]float64{5, 5, 5, 5, 5, 5}, 3)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, v, 1e-9)

	// Rising series: EMA lags behind the last value but exceeds the SMA seed.
	v, err = EMA([]float64{1, 2, 3, 4, 5, 6, 7, 8}, 4)
	require.NoError(t, err)
	assert.Greater(t, v, 5.0)
	assert.Less(t, v, 8.0)

	_, err = EMA([]float64{1, 2}, 3)
	assert.Error(t, err)
}

func TestRSI(t *testing.T) {
	t.Parallel()

	t.Run("all gains saturates at 100", func(t *testing.T) {
		closes := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}
		v, err := RSI(closes, 14)
		require.NoError(t, err)
		assert.InDelta(t, 100.0, v, 1e-9)
	})

	t.Run("flat series is neutral", func(t *testing.T) {
		closes := make([]float64, 15)
		for i := range closes {
			closes[i] = 100
		}
		v, err := RSI(closes, 14)
		require.NoError(t, err)
		assert.InDelta(t, 50.0, v, 1e-9)
	})

	t.Run("equal gains and losses is 50", func(t *testing.T) {
		closes := []float64{100}
		for i := 0; i < 7; i++ {
			closes = append(closes, closes[len(closes)-1]+1)
			closes = append(closes, closes[len(closes)-1]-1)
		}
		v, err := RSI(closes, 14)
		require.NoError(t, err)
		assert.InDelta(t, 50.0, v, 1e-9)
	})

	t.Run("not enough values", func(t *testing.T) {
		_, err := RSI([]float64{1, 2, 3}, 14)
		assert.Error(t, err)
	})
}

func TestATR(t *testing.T) {
	t.Parallel()

	bars := makeBars(t, []float64{100, 100, 100, 100}, 1.0)
	v, err := ATR(bars, 3)
	require.NoError(t, err)
	// Each bar spans high-low = 2 with unchanged closes, so TR = 2.
	assert.InDelta(t, 2.0, v, 1e-9)

	_, err = ATR(bars, 4)
	assert.Error(t, err)
}

func TestHighestLowest(t *testing.T) {
	t.Parallel()

	values := []float64{3, 9, 1, 7, 5}

	hi, err := Highest(values, 3)
	require.NoError(t, err)
	assert.Equal(t, 7.0, hi)

	lo, err := Lowest(values, 3)
	require.NoError(t, err)
	assert.Equal(t, 1.0, lo)

	hi, err = Highest(values, 5)
	require.NoError(t, err)
	assert.Equal(t, 9.0, hi)

	_, err = Highest(values, 6)
	assert.Error(t, err)
}

func TestBollinger(t *testing.T) {
	t.Parallel()

	closes := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	upper, lower, err := Bollinger(closes, 8, 2)
	require.NoError(t, err)

	// Mean 5, population stddev 2 for this classic series.
	assert.InDelta(t, 9.0, upper, 1e-9)
	assert.InDelta(t, 1.0, lower, 1e-9)

	_, _, err = Bollinger(closes, 9, 2)
	assert.Error(t, err)
}

// makeBars builds bars with the given closes and a symmetric high/low span.
func makeBars(t *testing.T, closes []float64, span float64) []market.Bar {
	t.Helper()

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]market.Bar, len(closes))
	for i, c := range closes {
		bars[i] = market.Bar{
			Time:   start.Add(time.Duration(i) * 4 * time.Hour),
			Open:   c,
			High:   c + span,
			Low:    c - span,
			Close:  c,
			Volume: 1000,
		}
	}
	return bars
}
