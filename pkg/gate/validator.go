// Package gate implements the real-mode proposal validator (spec.md §4.7):
// a hard-bounds sanity gate that runs only when a proposal is about to be
// executed against real capital.
package gate

import (
	"fmt"
	"math"
	"regexp"

	"github.com/clmmsim/pipeline/pkg/model"
)

// ValidationError reports a single hard-bound violation. Grounded on the
// teacher's pkg/config error-wrapper convention (a named error type
// carrying the offending field, implementing Error()/Unwrap()).
type ValidationError struct {
	Field string
	Value any
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("gate: %s=%v: %s", e.Field, e.Value, e.Msg)
}

var poolAddressRE = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// Bounds are the documented hard limits a Proposal's parameters must sit
// within to be accepted in real mode.
type Bounds struct {
	RecognizedChains     map[string]bool
	MaxSpreadBps         float64
	MinSpreadBps         float64
	MaxOrderSize         float64
	MinRefreshIntervalS  int64
	MaxRefreshIntervalS  int64
	MaxPosition          float64
	MaxRebalanceThresh   float64
}

// DefaultBounds returns a conservative bound set for CLMM episode
// parameters.
func DefaultBounds() Bounds {
	return Bounds{
		RecognizedChains:    map[string]bool{"ethereum": true, "arbitrum": true, "base": true},
		MaxSpreadBps:        500,
		MinSpreadBps:        1,
		MaxOrderSize:        1_000_000,
		MinRefreshIntervalS: 5,
		MaxRefreshIntervalS: 3600,
		MaxPosition:         10_000_000,
		MaxRebalanceThresh:  0.5,
	}
}

// Validator enforces Bounds against a Proposal (spec.md §4.7).
type Validator struct {
	bounds Bounds
}

// New builds a Validator with the given bounds.
func New(bounds Bounds) *Validator {
	return &Validator{bounds: bounds}
}

// Validate checks proposal against the configured bounds and the named
// chain. It returns the first violation found as a *ValidationError, or
// nil if the proposal is acceptable.
func (v *Validator) Validate(chain string, proposal model.Proposal) error {
	if !v.bounds.RecognizedChains[chain] {
		return &ValidationError{Field: "chain", Value: chain, Msg: "chain not recognized"}
	}
	if !poolAddressRE.MatchString(proposal.Pool) {
		return &ValidationError{Field: "pool", Value: proposal.Pool, Msg: "pool address malformed"}
	}

	p := proposal.Params
	for field, val := range map[string]float64{
		"range_width_bps":      p.RangeWidthBps,
		"spread_bps":           p.SpreadBps,
		"order_size":           p.OrderSize,
		"rebalance_threshold":  p.RebalanceThreshold,
		"max_position":         p.MaxPosition,
	} {
		if math.IsNaN(val) {
			return &ValidationError{Field: field, Value: val, Msg: "NaN is not a valid numeric parameter"}
		}
	}

	if p.SpreadBps < v.bounds.MinSpreadBps || p.SpreadBps > v.bounds.MaxSpreadBps {
		return &ValidationError{Field: "spread_bps", Value: p.SpreadBps, Msg: "out of documented range"}
	}
	if p.OrderSize <= 0 || p.OrderSize > v.bounds.MaxOrderSize {
		return &ValidationError{Field: "order_size", Value: p.OrderSize, Msg: "out of documented range"}
	}
	if p.RefreshIntervalSecs < v.bounds.MinRefreshIntervalS || p.RefreshIntervalSecs > v.bounds.MaxRefreshIntervalS {
		return &ValidationError{Field: "refresh_interval_seconds", Value: p.RefreshIntervalSecs, Msg: "out of documented range"}
	}
	if p.MaxPosition <= 0 || p.MaxPosition > v.bounds.MaxPosition {
		return &ValidationError{Field: "max_position", Value: p.MaxPosition, Msg: "out of documented range"}
	}
	if p.RebalanceThreshold < 0 || p.RebalanceThreshold > v.bounds.MaxRebalanceThresh {
		return &ValidationError{Field: "rebalance_threshold", Value: p.RebalanceThreshold, Msg: "out of documented range"}
	}
	return nil
}
