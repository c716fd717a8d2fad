// Package indicators provides the technical indicators the signal
// strategies are built from. All functions operate on the full history
// up to and including the bar under evaluation; none look ahead.
package indicators

import (
	"fmt"
	"math"

	"github.com/Vitaliy-Finiuk/sol-signal-bot/market"
)

// SMA calculates the Simple Moving Average of the last period values.
func SMA(values []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(values) < period {
		return 0, fmt.Errorf("not enough values: need %d, got %d", period, len(values))
	}

	sum := 0.0
	for i := len(values) - period; i < len(values); i++ {
		sum += values[i]
	}
	return sum / float64(period), nil
}

// EMA calculates the Exponential Moving Average for the given period,
// seeded with the SMA of the first period values.
func EMA(values []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(values) < period {
		return 0, fmt.Errorf("not enough values: need %d, got %d", period, len(values))
	}

	multiplier := 2.0 / float64(period+1)

	sma := 0.0
	for i := 0; i < period; i++ {
		sma += values[i]
	}
	ema := sma / float64(period)

	for i := period; i < len(values); i++ {
		ema = (values[i]-ema)*multiplier + ema
	}
	return ema, nil
}

// RSI calculates the Relative Strength Index using rolling-mean gains and
// losses over the last period deltas (the simple variant, not Wilder
// smoothing). When there are no losses in the window the RSI saturates
// at 100; when there are no moves at all it returns the neutral 50.
func RSI(closes []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(closes) < period+1 {
		return 0, fmt.Errorf("not enough values: need %d, got %d", period+1, len(closes))
	}

	var gains, losses float64
	for i := len(closes) - period; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gains += delta
		} else {
			losses -= delta
		}
	}
	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	if avgLoss == 0 {
		if avgGain == 0 {
			return 50, nil
		}
		return 100, nil
	}
	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs)), nil
}

// ATR calculates the Average True Range as a rolling mean of true ranges
// over the last period bars. Needs period+1 bars because the true range of
// a bar references the previous close.
func ATR(bars []market.Bar, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(bars) < period+1 {
		return 0, fmt.Errorf("not enough bars: need %d, got %d", period+1, len(bars))
	}

	sum := 0.0
	for i := len(bars) - period; i < len(bars); i++ {
		sum += trueRange(bars[i], bars[i-1])
	}
	return sum / float64(period), nil
}

func trueRange(current, previous market.Bar) float64 {
	highLow := current.High - current.Low
	highClose := math.Abs(current.High - previous.Close)
	lowClose := math.Abs(current.Low - previous.Close)
	return math.Max(highLow, math.Max(highClose, lowClose))
}

// Highest returns the maximum of the last period values.
func Highest(values []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(values) < period {
		return 0, fmt.Errorf("not enough values: need %d, got %d", period, len(values))
	}

	max := values[len(values)-period]
	for i := len(values) - period + 1; i < len(values); i++ {
		if values[i] > max {
			max = values[i]
		}
	}
	return max, nil
}

// Lowest returns the minimum of the last period values.
func Lowest(values []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(values) < period {
		return 0, fmt.Errorf("not enough values: need %d, got %d", period, len(values))
	}

	min := values[len(values)-period]
	for i := len(values) - period + 1; i < len(values); i++ {
		if values[i] < min {
			min = values[i]
		}
	}
	return min, nil
}

// StdDev calculates the population standard deviation of the last period
// values, used for Bollinger bands.
func StdDev(values []float64, period int) (float64, error) {
	mean, err := SMA(values, period)
	if err != nil {
		return 0, err
	}

	var sumSq float64
	for i := len(values) - period; i < len(values); i++ {
		d := values[i] - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(period)), nil
}

// Bollinger returns the upper and lower Bollinger bands for the given
// period and deviation multiple.
func Bollinger(closes []float64, period int, dev float64) (upper, lower float64, err error) {
	mid, err := SMA(closes, period)
	if err != nil {
		return 0, 0, err
	}
	sd, err := StdDev(closes, period)
	if err != nil {
		return 0, 0, err
	}
	return mid + dev*sd, mid - dev*sd, nil
}
