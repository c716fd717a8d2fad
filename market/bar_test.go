package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSignal(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want Signal
		ok   bool
	}{
		{"LONG", SignalLong, true},
		{"long", SignalLong, true},
		{"1", SignalLong, true},
		{"SHORT", SignalShort, true},
		{"-1", SignalShort, true},
		{"FLAT", SignalFlat, true},
		{"0", SignalFlat, true},
		{"", SignalFlat, true},
		{"sideways", SignalFlat, false},
	}

	for _, c := range cases {
		got, err := ParseSignal(c.in)
		if c.ok {
			require.NoError(t, err, "input %q", c.in)
			assert.Equal(t, c.want, got, "input %q", c.in)
		} else {
			assert.Error(t, err, "input %q", c.in)
		}
	}
}

func TestBarValidate(t *testing.T) {
	t.Parallel()

	base := Bar{
		Time:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Open:  100, High: 101, Low: 99, Close: 100.5, Volume: 1000,
	}

	t.Run("flat bar ignores distances", func(t *testing.T) {
		b := base
		assert.NoError(t, b.Validate())
	})

	t.Run("signal requires positive distances", func(t *testing.T) {
		b := base
		b.Signal = SignalLong
		assert.Error(t, b.Validate())

		b.StopDistance = 2
		assert.Error(t, b.Validate())

		b.TargetDistance = 6
		assert.NoError(t, b.Validate())
	})

	t.Run("high below low rejected", func(t *testing.T) {
		b := base
		b.High, b.Low = b.Low, b.High
		assert.Error(t, b.Validate())
	})

	t.Run("zero timestamp rejected", func(t *testing.T) {
		b := base
		b.Time = time.Time{}
		assert.Error(t, b.Validate())
	})
}

func TestSignalSide(t *testing.T) {
	t.Parallel()

	assert.Equal(t, SideLong, SignalLong.Side())
	assert.Equal(t, SideShort, SignalShort.Side())
	assert.Equal(t, "LONG", SideLong.String())
	assert.Equal(t, "SHORT", SideShort.String())
}
