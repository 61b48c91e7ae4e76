// Package noise applies random perturbations to lists of values while
// honoring variable bounds. The sampling function is injected by the
// caller together with its random state, so noise sequences are
// reproducible for a fixed seed and call order.
package noise

import (
	"fmt"
	"math"
)

// Func draws a perturbed value around a nominal value with the given
// spread parameter.
type Func func(nominal, param float64) float64

// BoundOption selects how a sampled value that violates its bounds is
// handled.
type BoundOption int

const (
	// Discard redraws a violating sample, up to a maximum number of
	// consecutive discards per value.
	Discard BoundOption = iota
	// Push clamps a violating sample to the violated bound, pushed
	// strictly inside by the bound push.
	Push
	// Fail aborts on the first violating sample.
	Fail
)

// String implements the Stringer interface.
func (o BoundOption) String() string {
	switch o {
	case Discard:
		return "discard"
	case Push:
		return "push"
	case Fail:
		return "fail"
	}
	return fmt.Sprintf("BoundOption(%d)", int(o))
}

// Bounds is a lower/upper bound pair. Missing bounds are -Inf and +Inf.
type Bounds struct {
	Lower float64
	Upper float64
}

// NoBounds returns an unbounded pair.
func NoBounds() Bounds {
	return Bounds{Lower: math.Inf(-1), Upper: math.Inf(1)}
}

// ViolatedBound returns the bound violated by val and the direction of
// the violation: 1 when val is below the lower bound, -1 when val is
// above the upper bound and 0 when no bound is violated.
func ViolatedBound(val float64, b Bounds) (float64, int) {
	if val < b.Lower {
		return b.Lower, 1
	}
	if val > b.Upper {
		return b.Upper, -1
	}
	return 0, 0
}

// MaxDiscardError reports that a value exhausted its discard budget.
type MaxDiscardError struct {
	// Value is the nominal value the noise was applied to
	Value float64
	// MaxDiscards is the exhausted budget
	MaxDiscards int
}

// Error implements the error interface.
func (e *MaxDiscardError) Error() string {
	return fmt.Sprintf(
		"max number of discards (%d) exceeded when applying noise to value %v",
		e.MaxDiscards, e.Value,
	)
}

// BoundViolationError reports that a sample violated a bound under the
// Fail option.
type BoundViolationError struct {
	// Value is the nominal value the noise was applied to
	Value float64
	// Sample is the offending draw
	Sample float64
	// Bound is the violated bound
	Bound float64
}

// Error implements the error interface.
func (e *BoundViolationError) Error() string {
	return fmt.Sprintf(
		"applying noise to value %v caused a bound to be violated: sample %v exceeds bound %v",
		e.Value, e.Sample, e.Bound,
	)
}

// Apply draws one perturbed value per entry of vals using the sampling
// function fn and per-entry spread parameters. The returned list
// preserves order and length. It fails if the parameter list length does
// not match the value list.
func Apply(vals, params []float64, fn Func) ([]float64, error) {
	if len(params) != len(vals) {
		return nil, fmt.Errorf(
			"got %d noise parameters for %d values", len(params), len(vals),
		)
	}
	out := make([]float64, len(vals))
	for i, val := range vals {
		out[i] = fn(val, params[i])
	}
	return out, nil
}

// ApplyWithBounds draws one perturbed value per entry of vals, handling
// bound violations according to opt. Each entry has its own bound pair
// and its own discard budget; a single exhausted budget or failed bound
// check aborts the whole call. The returned list preserves order and
// length.
func ApplyWithBounds(
	vals, params []float64,
	fn Func,
	bounds []Bounds,
	opt BoundOption,
	maxDiscards int,
	boundPush float64,
) ([]float64, error) {
	if len(params) != len(vals) {
		return nil, fmt.Errorf(
			"got %d noise parameters for %d values", len(params), len(vals),
		)
	}
	if len(bounds) != len(vals) {
		return nil, fmt.Errorf(
			"got %d bound pairs for %d values", len(bounds), len(vals),
		)
	}
	out := make([]float64, len(vals))
	for i, val := range vals {
		v, err := applyOne(val, params[i], fn, bounds[i], opt, maxDiscards, boundPush)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func applyOne(
	val, param float64,
	fn Func,
	b Bounds,
	opt BoundOption,
	maxDiscards int,
	boundPush float64,
) (float64, error) {
	discards := 0
	for {
		sample := fn(val, param)
		bound, direction := ViolatedBound(sample, b)
		if direction == 0 {
			return sample, nil
		}
		switch opt {
		case Discard:
			if discards >= maxDiscards {
				return 0, &MaxDiscardError{Value: val, MaxDiscards: maxDiscards}
			}
			discards++
		case Push:
			return bound + float64(direction)*boundPush, nil
		case Fail:
			return 0, &BoundViolationError{Value: val, Sample: sample, Bound: bound}
		default:
			return 0, fmt.Errorf("unrecognized bound option: %v", opt)
		}
	}
}
