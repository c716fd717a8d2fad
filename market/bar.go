// Package market defines the bar and signal types shared by the signal
// strategies, the simulation engine, and the backtest feeds.
package market

import (
	"fmt"
	"strings"
	"time"
)

// Signal is the directional advice attached to a bar by a signal provider.
type Signal int

const (
	SignalFlat Signal = iota
	SignalLong
	SignalShort
)

func (s Signal) String() string {
	switch s {
	case SignalLong:
		return "LONG"
	case SignalShort:
		return "SHORT"
	default:
		return "FLAT"
	}
}

// ParseSignal accepts the textual and numeric encodings used in datasets:
// "LONG"/"SHORT"/"FLAT" (any case) or 1/-1/0.
func ParseSignal(s string) (Signal, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LONG", "1":
		return SignalLong, nil
	case "SHORT", "-1":
		return SignalShort, nil
	case "FLAT", "0", "":
		return SignalFlat, nil
	default:
		return SignalFlat, fmt.Errorf("unknown signal %q", s)
	}
}

// Side reports the position side a non-flat signal opens.
// Calling Side on a flat signal is a programming error; it returns SideLong.
func (s Signal) Side() Side {
	if s == SignalShort {
		return SideShort
	}
	return SideLong
}

// Side of an open position.
type Side int

const (
	SideLong Side = iota
	SideShort
)

func (s Side) String() string {
	if s == SideShort {
		return "SHORT"
	}
	return "LONG"
}

// Bar is one OHLCV candle plus the signal annotation produced for it.
// StopDistance and TargetDistance are absolute price offsets and are only
// meaningful when Signal is not flat.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64

	Signal         Signal
	StopDistance   float64
	TargetDistance float64
}

// Validate checks the bar is internally consistent: positive prices,
// high/low bracketing, and positive risk distances whenever a signal is set.
func (b Bar) Validate() error {
	if b.Time.IsZero() {
		return fmt.Errorf("bar has zero timestamp")
	}
	if b.Open <= 0 || b.High <= 0 || b.Low <= 0 || b.Close <= 0 {
		return fmt.Errorf("bar at %s has non-positive price", b.Time.Format(time.RFC3339))
	}
	if b.High < b.Low {
		return fmt.Errorf("bar at %s has high %.8f below low %.8f", b.Time.Format(time.RFC3339), b.High, b.Low)
	}
	if b.Signal != SignalFlat {
		if b.StopDistance <= 0 {
			return fmt.Errorf("bar at %s has %s signal with non-positive stop distance", b.Time.Format(time.RFC3339), b.Signal)
		}
		if b.TargetDistance <= 0 {
			return fmt.Errorf("bar at %s has %s signal with non-positive target distance", b.Time.Format(time.RFC3339), b.Signal)
		}
	}
	return nil
}

// Closes extracts the close series from a bar slice.
func Closes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}
