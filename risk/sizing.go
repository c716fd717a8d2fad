// Package risk derives position size and leverage from the account risk
// budget and the stop distance of a signal.
package risk

import (
	"fmt"
	"math"
	"strings"
)

// Policy selects how leverage is derived when sizing a position.
//
// The two policies are not numerically equivalent: implied-leverage derives
// leverage from the risk budget and only caps it, while max-leverage always
// runs at the cap and instead caps total notional exposure.
type Policy int

const (
	// PolicyImpliedLeverage sizes from the risk budget; leverage is
	// (baseSize × entry) / balance capped at the maximum. In quiet markets
	// with a tight stop this can come out far below the cap.
	PolicyImpliedLeverage Policy = iota

	// PolicyMaxLeverage always uses the configured maximum leverage and
	// caps the position so total notional never exceeds balance × max.
	PolicyMaxLeverage
)

func (p Policy) String() string {
	if p == PolicyMaxLeverage {
		return "max-leverage"
	}
	return "implied-leverage"
}

// ParsePolicy maps the configuration strings onto a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "implied-leverage", "implied", "":
		return PolicyImpliedLeverage, nil
	case "max-leverage", "max":
		return PolicyMaxLeverage, nil
	default:
		return PolicyImpliedLeverage, fmt.Errorf("unknown sizing policy %q (supported: implied-leverage, max-leverage)", s)
	}
}

// Inputs for a sizing decision.
type Inputs struct {
	Balance      float64
	EntryPrice   float64
	StopDistance float64
	RiskFraction float64 // e.g. 0.03
	MaxLeverage  float64 // e.g. 7
}

// Sizing is the result of a sizing decision. Leverage is the effective
// leverage of the position as reported, which under PolicyMaxLeverage may
// be below the cap when the notional limit binds.
type Sizing struct {
	Size       float64
	Leverage   float64
	RiskAmount float64
}

// Size computes position size and leverage under the given policy.
// It declines (ok=false) on non-positive balance, entry price, or stop
// distance; a decline is an expected no-op, not an error.
func Size(policy Policy, in Inputs) (Sizing, bool) {
	if in.Balance <= 0 || in.EntryPrice <= 0 || in.StopDistance <= 0 {
		return Sizing{}, false
	}

	riskAmount := in.Balance * in.RiskFraction

	switch policy {
	case PolicyMaxLeverage:
		size := math.Min(
			riskAmount*in.MaxLeverage/in.StopDistance,
			in.Balance*in.MaxLeverage/in.EntryPrice,
		)
		return Sizing{
			Size:       size,
			Leverage:   size * in.EntryPrice / in.Balance,
			RiskAmount: riskAmount,
		}, true

	default:
		baseSize := riskAmount / in.StopDistance
		implied := baseSize * in.EntryPrice / in.Balance
		leverage := math.Min(in.MaxLeverage, implied)
		return Sizing{
			Size:       riskAmount * leverage / in.StopDistance,
			Leverage:   leverage,
			RiskAmount: riskAmount,
		}, true
	}
}

// RR is the reward:risk ratio of a signal's distances.
func RR(stopDistance, targetDistance float64) float64 {
	if stopDistance <= 0 {
		return 0
	}
	return targetDistance / stopDistance
}
