package mhe

import (
	"fmt"
	"math"

	horizon "github.com/dynoptics/go-horizon"
	"github.com/dynoptics/go-horizon/model"
)

func slotValue(s horizon.Slot) float64 {
	v, ok := s.Value()
	if !ok {
		return math.NaN()
	}
	return v
}

// MeasurementComponents holds the per-measured-variable components built
// by ConstructMeasurementComponents. All component lists are indexed in
// the order of the measured variables they were built from.
type MeasurementComponents struct {
	// SamplePoints the components are indexed by
	SamplePoints []float64
	// Measurements are the measurement value variables, fixed at every
	// sample point and overwritten by the rolling-horizon loop
	Measurements []*model.Var
	// Errors are the free measurement error variables, default 0
	Errors []*model.Var
	// Constraints tie each measurement to the measured variable plus its
	// error: measurement == measured + error at every sample point
	Constraints []*model.Constraint
}

// ConstructMeasurementComponents builds, for every measured variable, a
// fixed measurement variable, a free error variable with default value
// zero, and the equality constraint
//
//	measurement[i][j] == measured[i][j] + error[i][j]
//
// at every sample point j. Measurement variables start without a value;
// the estimation loop fills them in before every solve.
func ConstructMeasurementComponents(samplePoints []float64, measured []horizon.Variable) (*MeasurementComponents, error) {
	// Resolve every slot first so a missing sample point fails before
	// any component is created.
	slots := make([]map[float64]horizon.Slot, len(measured))
	for i, v := range measured {
		slots[i] = make(map[float64]horizon.Slot, len(samplePoints))
		for _, j := range samplePoints {
			s, ok := v.At(j)
			if !ok {
				return nil, fmt.Errorf(
					"measured variable %q is not indexed by sample point %v", v.Name(), j,
				)
			}
			slots[i][j] = s
		}
	}

	mc := &MeasurementComponents{
		SamplePoints: append([]float64(nil), samplePoints...),
	}
	for i, v := range measured {
		meas := model.NewVar(fmt.Sprintf("%s_measurement", v.Name()), samplePoints)
		meas.Fix()

		errVar := model.NewVar(fmt.Sprintf("%s_measurement_error", v.Name()), samplePoints)
		errVar.Initialize(func(float64) float64 { return 0.0 })

		measured := slots[i]
		con := model.NewEquality(
			fmt.Sprintf("%s_measurement_con", v.Name()),
			samplePoints,
			func(j float64) (horizon.Expr, float64) {
				measSlot, _ := meas.At(j)
				errSlot, _ := errVar.At(j)
				varSlot := measured[j]
				body := func() float64 {
					return slotValue(measSlot) - slotValue(varSlot) - slotValue(errSlot)
				}
				return body, 0.0
			},
		)

		mc.Measurements = append(mc.Measurements, meas)
		mc.Errors = append(mc.Errors, errVar)
		mc.Constraints = append(mc.Constraints, con)
	}
	return mc, nil
}
