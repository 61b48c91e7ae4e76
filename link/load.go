package link

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	horizon "github.com/dynoptics/go-horizon"
	"github.com/dynoptics/go-horizon/data"
)

func findVariable(m horizon.Model, name string) (horizon.Variable, error) {
	v, ok := m.Variable(name)
	if !ok {
		return nil, fmt.Errorf("cannot find a component %q on model %q", name, m.Name())
	}
	return v, nil
}

// LoadFromScalar writes each value in d into the like-named variable on m
// at every given time point.
func LoadFromScalar(d *data.ScalarData, m horizon.Model, time []float64) error {
	for _, name := range d.Keys() {
		v, err := findVariable(m, name)
		if err != nil {
			return err
		}
		val, _ := d.Get(name)
		for _, t := range time {
			slot, ok := v.At(t)
			if !ok {
				return fmt.Errorf("variable %q is not indexed by time point %v", name, t)
			}
			slot.SetValue(val)
		}
	}
	return nil
}

// LoadFromSeries writes each series in d into the like-named variable on
// m. The series time points must match the given time points exactly.
func LoadFromSeries(d *data.TimeSeriesData, m horizon.Model, time []float64) error {
	points := d.TimePoints()
	if len(points) != len(time) || !floats.Equal(points, time) {
		return fmt.Errorf("cannot load time series data when time sets differ")
	}
	for _, name := range d.Keys() {
		v, err := findVariable(m, name)
		if err != nil {
			return err
		}
		vals, _ := d.Get(name)
		for i, t := range time {
			slot, ok := v.At(t)
			if !ok {
				return fmt.Errorf("variable %q is not indexed by time point %v", name, t)
			}
			slot.SetValue(vals[i])
		}
	}
	return nil
}

// IntervalLoadOptions controls how time points are matched to intervals
// when loading interval data.
type IntervalLoadOptions struct {
	// Tolerance for deciding whether a time point lies in an interval
	Tolerance float64
	// PreferLeft selects the left interval when a time point sits on a
	// shared boundary
	PreferLeft bool
	// ExcludeLeftEndpoint skips time points that are only the left
	// endpoint of an interval
	ExcludeLeftEndpoint bool
	// ExcludeRightEndpoint skips time points that are only the right
	// endpoint of an interval
	ExcludeRightEndpoint bool
}

// DefaultIntervalLoadOptions treats intervals as half-open on the left.
func DefaultIntervalLoadOptions() IntervalLoadOptions {
	return IntervalLoadOptions{
		Tolerance:            0.0,
		PreferLeft:           true,
		ExcludeLeftEndpoint:  true,
		ExcludeRightEndpoint: false,
	}
}

// LoadFromInterval writes each per-interval value in d into the
// like-named variable on m, at the time points falling inside each
// interval. Time points outside every interval are skipped; the interval
// data is not required to cover the whole time set.
func LoadFromInterval(d *data.IntervalData, m horizon.Model, time []float64, opts IntervalLoadOptions) error {
	if opts.PreferLeft && opts.ExcludeRightEndpoint && !opts.ExcludeLeftEndpoint {
		return fmt.Errorf(
			"cannot prefer left intervals while excluding only right endpoints",
		)
	}
	if !opts.PreferLeft && opts.ExcludeLeftEndpoint && !opts.ExcludeRightEndpoint {
		return fmt.Errorf(
			"cannot prefer right intervals while excluding only left endpoints",
		)
	}

	intervals := d.Intervals()
	leftEndpoints := make([]float64, len(intervals))
	rightEndpoints := make([]float64, len(intervals))
	for i, iv := range intervals {
		leftEndpoints[i] = iv[0]
		rightEndpoints[i] = iv[1]
	}

	// One interval index per time point; -1 marks a skipped point.
	indices := make([]int, len(time))
	for i, t := range time {
		idx, ok := data.FindNearestIntervalIndex(intervals, t, opts.Tolerance, opts.PreferLeft)
		if !ok {
			indices[i] = -1
			continue
		}
		indices[i] = idx

		_, isLeft := data.FindNearestIndex(leftEndpoints, t, opts.Tolerance)
		_, isRight := data.FindNearestIndex(rightEndpoints, t, opts.Tolerance)
		switch {
		case opts.ExcludeLeftEndpoint && isLeft && !isRight:
			indices[i] = -1
		case opts.ExcludeRightEndpoint && isRight && !isLeft:
			indices[i] = -1
		case opts.ExcludeLeftEndpoint && opts.ExcludeRightEndpoint && isLeft && isRight:
			indices[i] = -1
		}
	}

	for _, name := range d.Keys() {
		v, err := findVariable(m, name)
		if err != nil {
			return err
		}
		vals, _ := d.Get(name)
		for i, t := range time {
			if indices[i] < 0 {
				continue
			}
			slot, ok := v.At(t)
			if !ok {
				return fmt.Errorf("variable %q is not indexed by time point %v", name, t)
			}
			slot.SetValue(vals[indices[i]])
		}
	}
	return nil
}
