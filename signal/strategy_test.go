package signal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vitaliy-Finiuk/sol-signal-bot/market"
)

var testBase = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func mkBar(n int, close float64) market.Bar {
	return market.Bar{
		Time:  testBase.Add(time.Duration(n) * 4 * time.Hour),
		Open:  close,
		High:  close + 0.5,
		Low:   close - 0.5,
		Close: close,
	}
}

// zigzag builds n bars whose closes alternate +up/+dn around a drift,
// starting at 100. Keeps RSI off its saturation bounds while trending.
func zigzag(n int, up, dn float64) []market.Bar {
	bars := make([]market.Bar, 0, n)
	close := 100.0
	for i := 0; i < n; i++ {
		if i > 0 {
			if i%2 == 1 {
				close += up
			} else {
				close += dn
			}
		}
		bars = append(bars, mkBar(i, close))
	}
	return bars
}

func appendClose(bars []market.Bar, close float64) []market.Bar {
	return append(bars, mkBar(len(bars), close))
}

func TestTurtleLongBreakout(t *testing.T) {
	t.Parallel()

	bars := zigzag(59, 0.4, -0.3)
	high := 0.0
	for _, b := range bars[len(bars)-15:] {
		if b.High > high {
			high = b.High
		}
	}
	bars = appendClose(bars, high+1)

	strat := NewTurtle(TurtleDefaults())
	adv, ok := strat.Evaluate(bars)
	require.True(t, ok)
	assert.Equal(t, market.SignalLong, adv.Signal)
	assert.Positive(t, adv.StopDistance)
	assert.InDelta(t, 5.5/1.8, adv.TargetDistance/adv.StopDistance, 1e-9)
}

func TestTurtleShortBreakdown(t *testing.T) {
	t.Parallel()

	bars := zigzag(59, -0.4, 0.3)
	low := bars[len(bars)-15].Low
	for _, b := range bars[len(bars)-15:] {
		if b.Low < low {
			low = b.Low
		}
	}
	bars = appendClose(bars, low-1)

	strat := NewTurtle(TurtleDefaults())
	adv, ok := strat.Evaluate(bars)
	require.True(t, ok)
	assert.Equal(t, market.SignalShort, adv.Signal)
}

func TestTurtleNoSignalInsideChannel(t *testing.T) {
	t.Parallel()

	strat := NewTurtle(TurtleDefaults())
	_, ok := strat.Evaluate(zigzag(60, 0.4, -0.3))
	assert.False(t, ok)
}

func TestTurtleWarmup(t *testing.T) {
	t.Parallel()

	strat := NewTurtle(TurtleDefaults())
	_, ok := strat.Evaluate(zigzag(54, 0.4, -0.3))
	assert.False(t, ok)
}

func TestMomentumLongBreakout(t *testing.T) {
	t.Parallel()

	bars := zigzag(54, 0.6, -0.5)
	bars = appendClose(bars, bars[len(bars)-1].Close+2)

	strat := NewMomentum(MomentumDefaults())
	adv, ok := strat.Evaluate(bars)
	require.True(t, ok)
	assert.Equal(t, market.SignalLong, adv.Signal)
	assert.InDelta(t, 6.5/2.2, adv.TargetDistance/adv.StopDistance, 1e-9)
}

func TestMomentumNoSignalInsideBands(t *testing.T) {
	t.Parallel()

	strat := NewMomentum(MomentumDefaults())
	_, ok := strat.Evaluate(zigzag(55, 0.6, -0.5))
	assert.False(t, ok)
}

func TestTrendLongPullback(t *testing.T) {
	t.Parallel()

	// Long uptrend, then a six-bar dip back toward the fast EMA.
	bars := zigzag(105, 0.4, -0.3)
	close := bars[len(bars)-1].Close
	for i := 0; i < 6; i++ {
		if i%2 == 0 {
			close -= 0.4
		} else {
			close += 0.3
		}
		bars = appendClose(bars, close)
	}

	strat := NewTrend(TrendDefaults())
	adv, ok := strat.Evaluate(bars)
	require.True(t, ok)
	assert.Equal(t, market.SignalLong, adv.Signal)
	assert.InDelta(t, 8.0/3.0, adv.TargetDistance/adv.StopDistance, 1e-9)
}

func TestTrendWarmup(t *testing.T) {
	t.Parallel()

	strat := NewTrend(TrendDefaults())
	_, ok := strat.Evaluate(zigzag(99, 0.4, -0.3))
	assert.False(t, ok)
}

func TestByTimeframe(t *testing.T) {
	t.Parallel()

	for tf, want := range map[string]string{
		"4h":  "4h Aggressive Turtle",
		"12h": "12h Momentum Breakout",
		"1d":  "1d Strong Trend Following",
	} {
		s, err := ByTimeframe(tf)
		require.NoError(t, err)
		assert.Equal(t, want, s.Name())
	}

	_, err := ByTimeframe("3m")
	assert.Error(t, err)
}

func TestByName(t *testing.T) {
	t.Parallel()

	s, err := ByName(" Turtle ")
	require.NoError(t, err)
	assert.Equal(t, "4h Aggressive Turtle", s.Name())

	_, err = ByName("martingale")
	assert.Error(t, err)
}

// Annotating a prefix and annotating the full series must agree on the
// shared bars: a strategy may not peek at future bars.
func TestAnnotateNoLookahead(t *testing.T) {
	t.Parallel()

	bars := zigzag(59, 0.4, -0.3)
	high := 0.0
	for _, b := range bars[len(bars)-15:] {
		if b.High > high {
			high = b.High
		}
	}
	bars = appendClose(bars, high+1)
	bars = appendClose(bars, bars[len(bars)-1].Close-8)

	strat := NewTurtle(TurtleDefaults())
	full := Annotate(strat, bars)
	prefix := Annotate(strat, bars[:len(bars)-1])

	assert.Equal(t, prefix, full[:len(full)-1])

	// The breakout bar itself carries the long signal.
	assert.Equal(t, market.SignalLong, full[len(full)-2].Signal)
}

func TestAnnotateLeavesInputUntouched(t *testing.T) {
	t.Parallel()

	bars := zigzag(60, 0.4, -0.3)
	_ = Annotate(NewTurtle(TurtleDefaults()), bars)
	for _, b := range bars {
		assert.Equal(t, market.SignalFlat, b.Signal)
	}
}
