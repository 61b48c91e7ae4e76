package data

import (
	"fmt"
	"sort"
)

// TimeSeriesData maps variable names to ordered lists of values, one per
// time point.
type TimeSeriesData struct {
	data map[string][]float64
	time []float64
}

// NewTimeSeriesData creates series data from a name-to-values map and the
// shared time points. Every series must have one value per time point.
func NewTimeSeriesData(values map[string][]float64, timePoints []float64) (*TimeSeriesData, error) {
	data := make(map[string][]float64, len(values))
	for k, vals := range values {
		if len(vals) != len(timePoints) {
			return nil, fmt.Errorf(
				"series for %q has %d values but there are %d time points",
				k, len(vals), len(timePoints),
			)
		}
		data[k] = append([]float64(nil), vals...)
	}
	return &TimeSeriesData{
		data: data,
		time: append([]float64(nil), timePoints...),
	}, nil
}

// TimePoints returns the ordered time points of the series.
func (d *TimeSeriesData) TimePoints() []float64 {
	return append([]float64(nil), d.time...)
}

// ContainsKey reports whether the data holds a series for name.
func (d *TimeSeriesData) ContainsKey(name string) bool {
	_, ok := d.data[name]
	return ok
}

// Get returns the series stored for name.
func (d *TimeSeriesData) Get(name string) ([]float64, bool) {
	vals, ok := d.data[name]
	if !ok {
		return nil, false
	}
	return append([]float64(nil), vals...), true
}

// Data returns a copy of the underlying name-to-series map.
func (d *TimeSeriesData) Data() map[string][]float64 {
	out := make(map[string][]float64, len(d.data))
	for k, vals := range d.data {
		out[k] = append([]float64(nil), vals...)
	}
	return out
}

// Keys returns the stored names in sorted order.
func (d *TimeSeriesData) Keys() []string {
	keys := make([]string, 0, len(d.data))
	for k := range d.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// AtTime returns the values at the time point nearest to t as scalar
// data. It fails when t is farther than tol from every time point; a
// negative tol disables the check.
func (d *TimeSeriesData) AtTime(t float64, tol float64) (*ScalarData, error) {
	i, ok := FindNearestIndex(d.time, t, tol)
	if !ok {
		return nil, fmt.Errorf("time point %v not found in series data", t)
	}
	values := make(map[string]float64, len(d.data))
	for k, vals := range d.data {
		values[k] = vals[i]
	}
	return NewScalarData(values), nil
}

// ShiftTimePoints adds dt to every time point.
func (d *TimeSeriesData) ShiftTimePoints(dt float64) {
	for i := range d.time {
		d.time[i] += dt
	}
}

// Concatenate appends the other series to this one. The two series must
// hold the same keys, and the appended time points must start after the
// current final time point.
func (d *TimeSeriesData) Concatenate(other *TimeSeriesData) error {
	if len(d.time) > 0 && len(other.time) > 0 && other.time[0] <= d.time[len(d.time)-1] {
		return fmt.Errorf(
			"cannot concatenate series starting at %v onto series ending at %v",
			other.time[0], d.time[len(d.time)-1],
		)
	}
	for k := range d.data {
		vals, ok := other.data[k]
		if !ok {
			return fmt.Errorf("concatenated series is missing a series for %q", k)
		}
		d.data[k] = append(d.data[k], vals...)
	}
	d.time = append(d.time, other.time...)
	return nil
}
