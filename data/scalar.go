package data

import (
	"sort"

	horizon "github.com/dynoptics/go-horizon"
)

// ScalarData maps variable names to single values. It is the portable
// form for values that do not vary in time, such as setpoints and
// weights. Keys are component names so that the same data can be loaded
// into different model instances.
type ScalarData struct {
	data map[string]float64
}

// NewScalarData creates scalar data from a name-to-value map.
func NewScalarData(values map[string]float64) *ScalarData {
	data := make(map[string]float64, len(values))
	for k, v := range values {
		data[k] = v
	}
	return &ScalarData{data: data}
}

// ScalarDataFromVariables creates scalar data keyed by the names of the
// given variables, all mapped to the same value.
func ScalarDataFromVariables(vars []horizon.Variable, value float64) *ScalarData {
	data := make(map[string]float64, len(vars))
	for _, v := range vars {
		data[v.Name()] = value
	}
	return &ScalarData{data: data}
}

// ContainsKey reports whether the data holds a value for name.
func (d *ScalarData) ContainsKey(name string) bool {
	_, ok := d.data[name]
	return ok
}

// Get returns the value stored for name.
func (d *ScalarData) Get(name string) (float64, bool) {
	v, ok := d.data[name]
	return v, ok
}

// Data returns a copy of the underlying name-to-value map.
func (d *ScalarData) Data() map[string]float64 {
	out := make(map[string]float64, len(d.data))
	for k, v := range d.data {
		out[k] = v
	}
	return out
}

// Keys returns the stored names in sorted order.
func (d *ScalarData) Keys() []string {
	keys := make([]string, 0, len(d.data))
	for k := range d.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
