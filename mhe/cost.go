package mhe

import (
	"fmt"

	horizon "github.com/dynoptics/go-horizon"
	"github.com/dynoptics/go-horizon/data"
	"github.com/dynoptics/go-horizon/model"
)

// CostFromErrorVariables returns a time-indexed expression penalizing the
// square of each error variable:
//
//	cost(t) = sum_i w_i * var_i(t)^2
//
// Weights are looked up by variable name; a nil weights argument uses a
// weight of one for every variable. A variable missing from a non-nil
// weights map is an error, raised before any expression is built.
func CostFromErrorVariables(vars []horizon.Variable, time []float64, weights *data.ScalarData) (*model.Expression, error) {
	if weights == nil {
		weights = data.ScalarDataFromVariables(vars, 1.0)
	}
	w := make([]float64, len(vars))
	for i, v := range vars {
		wi, ok := weights.Get(v.Name())
		if !ok {
			return nil, fmt.Errorf(
				"error weight data does not contain a key for variable %q", v.Name(),
			)
		}
		w[i] = wi
	}

	slots := make([]map[float64]horizon.Slot, len(vars))
	for i, v := range vars {
		slots[i] = make(map[float64]horizon.Slot, len(time))
		for _, t := range time {
			s, ok := v.At(t)
			if !ok {
				return nil, fmt.Errorf(
					"error variable %q is not indexed by time point %v", v.Name(), t,
				)
			}
			slots[i][t] = s
		}
	}

	expr := model.NewExpression("error_cost", time, func(t float64) horizon.Expr {
		atT := make([]horizon.Slot, len(vars))
		for i := range vars {
			atT[i] = slots[i][t]
		}
		return func() float64 {
			total := 0.0
			for i, s := range atT {
				v := slotValue(s)
				total += w[i] * v * v
			}
			return total
		}
	})
	return expr, nil
}
