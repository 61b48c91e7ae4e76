// Package link transfers values between time-indexed model instances.
// A Linker pairs variables in a source model with variables in a target
// model once, so repeated transfers in a rolling-horizon loop do not pay
// for component lookups, and the two models are free to use different
// names and different time sets.
package link

import (
	"fmt"

	horizon "github.com/dynoptics/go-horizon"
	"github.com/dynoptics/go-horizon/noise"
)

// Linker transfers values from a list of source variables to a paired
// list of target variables. Transfers only ever mutate the targets.
type Linker struct {
	sources []horizon.Variable
	targets []horizon.Variable
	// default time points used when a transfer does not provide any
	sourceTime []float64
	targetTime []float64
}

// Option configures a Linker.
type Option func(*Linker)

// WithSourceTime sets default source time points for transfers.
func WithSourceTime(ts []float64) Option {
	return func(l *Linker) {
		l.sourceTime = append([]float64(nil), ts...)
	}
}

// WithTargetTime sets default target time points for transfers.
func WithTargetTime(ts []float64) Option {
	return func(l *Linker) {
		l.targetTime = append([]float64(nil), ts...)
	}
}

// NewLinker creates a linker from paired source and target variables.
// It fails if the two lists have different lengths.
func NewLinker(sources, targets []horizon.Variable, opts ...Option) (*Linker, error) {
	if len(sources) != len(targets) {
		return nil, fmt.Errorf(
			"must be provided two lists of time-indexed variables of equal length: got %d and %d",
			len(sources), len(targets),
		)
	}
	l := &Linker{
		sources: append([]horizon.Variable(nil), sources...),
		targets: append([]horizon.Variable(nil), targets...),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

func (l *Linker) resolveTimes(tSource, tTarget []float64) ([]float64, []float64, error) {
	if tSource == nil {
		if l.sourceTime == nil {
			return nil, nil, fmt.Errorf(
				"source time points were not provided in the transfer call or in the constructor",
			)
		}
		tSource = l.sourceTime
	}
	if tTarget == nil {
		if l.targetTime == nil {
			return nil, nil, fmt.Errorf(
				"target time points were not provided in the transfer call or in the constructor",
			)
		}
		tTarget = l.targetTime
	}
	return tSource, tTarget, nil
}

// Extract reads each source variable at each of the given time points and
// returns one value list per source variable, keyed by variable identity.
func (l *Linker) Extract(tSource []float64) (map[horizon.Variable][]float64, error) {
	out := make(map[horizon.Variable][]float64, len(l.sources))
	for _, v := range l.sources {
		vals := make([]float64, 0, len(tSource))
		for _, t := range tSource {
			slot, ok := v.At(t)
			if !ok {
				return nil, fmt.Errorf("variable %q is not indexed by time point %v", v.Name(), t)
			}
			val, ok := slot.Value()
			if !ok {
				return nil, fmt.Errorf("variable %q has no value at time point %v", v.Name(), t)
			}
			vals = append(vals, val)
		}
		out[v] = vals
	}
	return out, nil
}

// ApplyNoise perturbs extracted data. Each source variable has one noise
// parameter and one bound pair, applied to every value in its list.
func (l *Linker) ApplyNoise(
	data map[horizon.Variable][]float64,
	params []float64,
	fn noise.Func,
	bounds []noise.Bounds,
	opt noise.BoundOption,
	maxDiscards int,
	boundPush float64,
) (map[horizon.Variable][]float64, error) {
	if len(params) != len(l.sources) {
		return nil, fmt.Errorf(
			"got %d noise parameters for %d linked variables", len(params), len(l.sources),
		)
	}
	if len(bounds) != len(l.sources) {
		return nil, fmt.Errorf(
			"got %d bound pairs for %d linked variables", len(bounds), len(l.sources),
		)
	}
	out := make(map[horizon.Variable][]float64, len(data))
	for i, v := range l.sources {
		vals, ok := data[v]
		if !ok {
			return nil, fmt.Errorf("extracted data has no entry for variable %q", v.Name())
		}
		n := len(vals)
		paramList := make([]float64, n)
		boundList := make([]noise.Bounds, n)
		for j := 0; j < n; j++ {
			paramList[j] = params[i]
			boundList[j] = bounds[i]
		}
		noised, err := noise.ApplyWithBounds(vals, paramList, fn, boundList, opt, maxDiscards, boundPush)
		if err != nil {
			return nil, fmt.Errorf("applying noise to variable %q: %w", v.Name(), err)
		}
		out[v] = noised
	}
	return out, nil
}

// Load writes extracted data into the target variables at the given time
// points. A value list of length one is broadcast to every target time
// point; any other length must match the number of target time points.
func (l *Linker) Load(data map[horizon.Variable][]float64, tTarget []float64) error {
	n := len(tTarget)
	for i, src := range l.sources {
		tgt := l.targets[i]
		vals, ok := data[src]
		if !ok {
			return fmt.Errorf("extracted data has no entry for variable %q", src.Name())
		}
		if len(vals) != 1 && len(vals) != n {
			return fmt.Errorf(
				"cannot load %d values into %d target time points for variable %q",
				len(vals), n, tgt.Name(),
			)
		}
		for j, t := range tTarget {
			val := vals[0]
			if len(vals) > 1 {
				val = vals[j]
			}
			slot, ok := tgt.At(t)
			if !ok {
				return fmt.Errorf("variable %q is not indexed by time point %v", tgt.Name(), t)
			}
			slot.SetValue(val)
		}
	}
	return nil
}

// Transfer copies values from the source variables at the source time
// points to the target variables at the target time points. Nil time
// points fall back to the constructor defaults; a side with neither is a
// configuration error.
func (l *Linker) Transfer(tSource, tTarget []float64) error {
	tSource, tTarget, err := l.resolveTimes(tSource, tTarget)
	if err != nil {
		return err
	}
	data, err := l.Extract(tSource)
	if err != nil {
		return err
	}
	return l.Load(data, tTarget)
}

// TransferWithNoise copies values from source to target variables, adding
// noise drawn by fn on the way. The time point lists must have equal
// length, or the source list must have length one (broadcast). Samples
// violating a variable's bounds are redrawn, up to five consecutive
// discards per value.
func (l *Linker) TransferWithNoise(
	params []float64,
	fn noise.Func,
	bounds []noise.Bounds,
	tSource, tTarget []float64,
) error {
	tSource, tTarget, err := l.resolveTimes(tSource, tTarget)
	if err != nil {
		return err
	}
	if len(tSource) != len(tTarget) && len(tSource) != 1 {
		return fmt.Errorf(
			"transfer with noise needs time point lists of equal length or a single source time point: got %d and %d",
			len(tSource), len(tTarget),
		)
	}
	data, err := l.Extract(tSource)
	if err != nil {
		return err
	}
	noised, err := l.ApplyNoise(data, params, fn, bounds, noise.Discard, 5, 0.0)
	if err != nil {
		return err
	}
	return l.Load(noised, tTarget)
}
