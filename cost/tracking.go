// Package cost builds weighted tracking-cost expressions for time-indexed
// variables and constraints. All builders validate their weight and
// setpoint data for every variable before constructing any expression.
package cost

import (
	"fmt"
	"math"

	horizon "github.com/dynoptics/go-horizon"
	"github.com/dynoptics/go-horizon/data"
	"github.com/dynoptics/go-horizon/model"
)

func slotValue(s horizon.Slot) float64 {
	v, ok := s.Value()
	if !ok {
		return math.NaN()
	}
	return v
}

func resolveWeights(vars []horizon.Variable, weights *data.ScalarData) ([]float64, error) {
	if weights == nil {
		weights = data.ScalarDataFromVariables(vars, 1.0)
	}
	w := make([]float64, len(vars))
	for i, v := range vars {
		wi, ok := weights.Get(v.Name())
		if !ok {
			return nil, fmt.Errorf(
				"tracking weight data does not contain a key for variable %q", v.Name(),
			)
		}
		w[i] = wi
	}
	return w, nil
}

func resolveSlots(vars []horizon.Variable, time []float64) ([]map[float64]horizon.Slot, error) {
	slots := make([]map[float64]horizon.Slot, len(vars))
	for i, v := range vars {
		slots[i] = make(map[float64]horizon.Slot, len(time))
		for _, t := range time {
			s, ok := v.At(t)
			if !ok {
				return nil, fmt.Errorf(
					"variable %q is not indexed by time point %v", v.Name(), t,
				)
			}
			slots[i][t] = s
		}
	}
	return slots, nil
}

// TrackingCostFromConstantSetpoint returns a time-indexed expression for
// the weighted squared difference between each variable and its constant
// setpoint:
//
//	cost(t) = sum_i w_i * (var_i(t) - setpoint_i)^2
//
// Setpoints and weights are looked up by variable name; a nil weights
// argument uses a weight of one for every variable. Missing setpoint or
// weight entries are errors, raised before any expression is built.
func TrackingCostFromConstantSetpoint(
	vars []horizon.Variable,
	time []float64,
	setpoints *data.ScalarData,
	weights *data.ScalarData,
) (*model.Expression, error) {
	sp := make([]float64, len(vars))
	for i, v := range vars {
		val, ok := setpoints.Get(v.Name())
		if !ok {
			return nil, fmt.Errorf(
				"setpoint data does not contain a key for variable %q", v.Name(),
			)
		}
		sp[i] = val
	}
	w, err := resolveWeights(vars, weights)
	if err != nil {
		return nil, err
	}
	slots, err := resolveSlots(vars, time)
	if err != nil {
		return nil, err
	}

	expr := model.NewExpression("tracking_cost", time, func(t float64) horizon.Expr {
		atT := make([]horizon.Slot, len(vars))
		for i := range vars {
			atT[i] = slots[i][t]
		}
		return func() float64 {
			total := 0.0
			for i, s := range atT {
				diff := slotValue(s) - sp[i]
				total += w[i] * diff * diff
			}
			return total
		}
	})
	return expr, nil
}

// TrackingCostFromTimeVaryingSetpoint returns a time-indexed expression
// for the weighted squared difference between each variable and its
// setpoint trajectory. The setpoint series must be indexed by exactly the
// given time points.
func TrackingCostFromTimeVaryingSetpoint(
	vars []horizon.Variable,
	time []float64,
	setpoints *data.TimeSeriesData,
	weights *data.ScalarData,
) (*model.Expression, error) {
	points := setpoints.TimePoints()
	if len(points) != len(time) {
		return nil, fmt.Errorf(
			"mismatch in time points between time set and points in the setpoint data",
		)
	}
	for i := range points {
		if points[i] != time[i] {
			return nil, fmt.Errorf(
				"mismatch in time points between time set and points in the setpoint data",
			)
		}
	}

	sp := make([][]float64, len(vars))
	for i, v := range vars {
		vals, ok := setpoints.Get(v.Name())
		if !ok {
			return nil, fmt.Errorf(
				"setpoint data does not contain a key for variable %q", v.Name(),
			)
		}
		sp[i] = vals
	}
	w, err := resolveWeights(vars, weights)
	if err != nil {
		return nil, err
	}
	slots, err := resolveSlots(vars, time)
	if err != nil {
		return nil, err
	}

	// Index of each time point within the expression's time set.
	index := make(map[float64]int, len(time))
	for i, t := range time {
		index[t] = i
	}

	expr := model.NewExpression("tracking_cost", time, func(t float64) horizon.Expr {
		k := index[t]
		atT := make([]horizon.Slot, len(vars))
		for i := range vars {
			atT[i] = slots[i][t]
		}
		return func() float64 {
			total := 0.0
			for i, s := range atT {
				diff := slotValue(s) - sp[i][k]
				total += w[i] * diff * diff
			}
			return total
		}
	})
	return expr, nil
}

// TrackingCostFromPiecewiseConstantSetpoint returns a time-indexed
// tracking cost against a piecewise constant setpoint, sampling the
// interval data at the given time points first. preferLeft selects the
// interval when a time point sits on a shared boundary.
func TrackingCostFromPiecewiseConstantSetpoint(
	vars []horizon.Variable,
	time []float64,
	setpoints *data.IntervalData,
	weights *data.ScalarData,
	tol float64,
	preferLeft bool,
) (*model.Expression, error) {
	series, err := setpoints.ToSeries(time, tol, preferLeft)
	if err != nil {
		return nil, err
	}
	return TrackingCostFromTimeVaryingSetpoint(vars, time, series, weights)
}
