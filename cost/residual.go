package cost

import (
	"fmt"
	"math"

	horizon "github.com/dynoptics/go-horizon"
	"github.com/dynoptics/go-horizon/data"
	"github.com/dynoptics/go-horizon/model"
)

// ConstraintResidualExpressions returns one time-indexed expression per
// constraint holding its weighted squared residual. The residual of an
// equality is body minus the right-hand side; for a one-sided inequality
// it is the (signed) violation of the finite bound. Ranged inequalities
// are rejected. Weights are looked up by constraint name; a nil weights
// argument uses a weight of one for every constraint.
func ConstraintResidualExpressions(
	cons []horizon.Constraint,
	time []float64,
	weights *data.ScalarData,
) ([]*model.Expression, error) {
	if weights == nil {
		values := make(map[string]float64, len(cons))
		for _, c := range cons {
			values[c.Name()] = 1.0
		}
		weights = data.NewScalarData(values)
	}
	w := make([]float64, len(cons))
	for i, c := range cons {
		wi, ok := weights.Get(c.Name())
		if !ok {
			return nil, fmt.Errorf(
				"residual weight data does not contain a key for constraint %q", c.Name(),
			)
		}
		w[i] = wi
	}

	// Build the signed residual for every constraint and time point
	// before constructing any expression, so sense errors abort the
	// whole call cleanly.
	residuals := make([]map[float64]horizon.Expr, len(cons))
	for i, c := range cons {
		residuals[i] = make(map[float64]horizon.Expr, len(time))
		for _, t := range time {
			d, ok := c.At(t)
			if !ok {
				return nil, fmt.Errorf(
					"constraint %q is not indexed by time point %v", c.Name(), t,
				)
			}
			lo, hi := d.Bounds()
			body := d.Body()
			switch {
			case d.IsEquality():
				rhs := hi
				residuals[i][t] = func() float64 { return body() - rhs }
			case math.IsInf(hi, 1) && !math.IsInf(lo, -1):
				bound := lo
				residuals[i][t] = func() float64 { return bound - body() }
			case math.IsInf(lo, -1) && !math.IsInf(hi, 1):
				bound := hi
				residuals[i][t] = func() float64 { return body() - bound }
			default:
				return nil, fmt.Errorf(
					"cannot construct a residual expression from a ranged inequality: %q at time point %v",
					c.Name(), t,
				)
			}
		}
	}

	out := make([]*model.Expression, len(cons))
	for i, c := range cons {
		weight := w[i]
		resid := residuals[i]
		out[i] = model.NewExpression(
			fmt.Sprintf("%s_residual_cost", c.Name()),
			time,
			func(t float64) horizon.Expr {
				r := resid[t]
				return func() float64 {
					v := r()
					return weight * v * v
				}
			},
		)
	}
	return out, nil
}
