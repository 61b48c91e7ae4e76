package data

import (
	"fmt"
	"sort"
)

// IntervalData maps variable names to piecewise constant values, one per
// interval. Intervals are sorted, non-overlapping [lo, hi] pairs.
type IntervalData struct {
	data      map[string][]float64
	intervals [][2]float64
}

// NewIntervalData creates interval data from a name-to-values map and the
// shared intervals. Every series must have one value per interval.
func NewIntervalData(values map[string][]float64, intervals [][2]float64) (*IntervalData, error) {
	data := make(map[string][]float64, len(values))
	for k, vals := range values {
		if len(vals) != len(intervals) {
			return nil, fmt.Errorf(
				"interval data for %q has %d values but there are %d intervals",
				k, len(vals), len(intervals),
			)
		}
		data[k] = append([]float64(nil), vals...)
	}
	return &IntervalData{
		data:      data,
		intervals: append([][2]float64(nil), intervals...),
	}, nil
}

// Intervals returns the ordered intervals of the data.
func (d *IntervalData) Intervals() [][2]float64 {
	return append([][2]float64(nil), d.intervals...)
}

// ContainsKey reports whether the data holds values for name.
func (d *IntervalData) ContainsKey(name string) bool {
	_, ok := d.data[name]
	return ok
}

// Get returns the per-interval values stored for name.
func (d *IntervalData) Get(name string) ([]float64, bool) {
	vals, ok := d.data[name]
	if !ok {
		return nil, false
	}
	return append([]float64(nil), vals...), true
}

// Data returns a copy of the underlying name-to-values map.
func (d *IntervalData) Data() map[string][]float64 {
	out := make(map[string][]float64, len(d.data))
	for k, vals := range d.data {
		out[k] = append([]float64(nil), vals...)
	}
	return out
}

// Keys returns the stored names in sorted order.
func (d *IntervalData) Keys() []string {
	keys := make([]string, 0, len(d.data))
	for k := range d.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ToSeries samples the interval data at the given time points and returns
// the result as series data. Every time point must fall inside some
// interval (within tol). preferLeft selects the interval when a time
// point sits on a shared boundary.
func (d *IntervalData) ToSeries(timePoints []float64, tol float64, preferLeft bool) (*TimeSeriesData, error) {
	indices := make([]int, len(timePoints))
	for i, t := range timePoints {
		idx, ok := FindNearestIntervalIndex(d.intervals, t, tol, preferLeft)
		if !ok {
			return nil, fmt.Errorf("time point %v is not contained in any interval", t)
		}
		indices[i] = idx
	}
	values := make(map[string][]float64, len(d.data))
	for k, vals := range d.data {
		series := make([]float64, len(timePoints))
		for i, idx := range indices {
			series[i] = vals[idx]
		}
		values[k] = series
	}
	return NewTimeSeriesData(values, timePoints)
}
