package mhe

import (
	"fmt"

	horizon "github.com/dynoptics/go-horizon"
	"github.com/dynoptics/go-horizon/model"
)

// DisturbanceComponents holds the per-constraint components built by
// ConstructDisturbedConstraints. All component lists are indexed in the
// order of the constraints they were built from.
type DisturbanceComponents struct {
	// SamplePoints the disturbance variables are indexed by
	SamplePoints []float64
	// Disturbances are the free disturbance variables, one slot per
	// sample point, default 0
	Disturbances []*model.Var
	// Constraints are the rebuilt model constraints, one per fine time
	// point, each equal to the original constraint plus the disturbance
	// of the sample interval containing that time point
	Constraints []*model.Constraint
}

// ConstructDisturbedConstraints rebuilds each given equality constraint
// with an additive disturbance term:
//
//	body(t) + disturbance[i][currSamplePoint(t)] == rhs(t)
//
// at every fine time point t. With the disturbance fixed at zero the
// rebuilt constraint is equivalent to the original. Every targeted
// constraint must be an equality at every fine time point; any other
// constraint aborts the call before any component is created.
func ConstructDisturbedConstraints(timePoints, samplePoints []float64, cons []horizon.Constraint) (*DisturbanceComponents, error) {
	// Map every fine time point to its sample interval up front.
	sample := make(map[float64]float64, len(timePoints))
	for _, t := range timePoints {
		sp, err := CurrSamplePoint(t, samplePoints)
		if err != nil {
			return nil, err
		}
		sample[t] = sp
	}

	// Validate every constraint at every time point before building
	// anything, so a failed call leaves no partial state.
	for _, con := range cons {
		for _, t := range timePoints {
			d, ok := con.At(t)
			if !ok {
				return nil, fmt.Errorf(
					"constraint %q is not indexed by time point %v", con.Name(), t,
				)
			}
			if !d.IsEquality() {
				return nil, fmt.Errorf(
					"not an equality constraint: %q at time point %v", con.Name(), t,
				)
			}
		}
	}

	dc := &DisturbanceComponents{
		SamplePoints: append([]float64(nil), samplePoints...),
	}
	for _, con := range cons {
		dist := model.NewVar(fmt.Sprintf("%s_disturbance", con.Name()), samplePoints)
		dist.Initialize(func(float64) float64 { return 0.0 })

		origCon := con
		newCon := model.NewEquality(
			fmt.Sprintf("%s_disturbed", con.Name()),
			timePoints,
			func(t float64) (horizon.Expr, float64) {
				orig, _ := origCon.At(t)
				distSlot, _ := dist.At(sample[t])
				_, rhs := orig.Bounds()
				origBody := orig.Body()
				body := func() float64 {
					return origBody() + slotValue(distSlot)
				}
				return body, rhs
			},
		)

		dc.Disturbances = append(dc.Disturbances, dist)
		dc.Constraints = append(dc.Constraints, newCon)
	}
	return dc, nil
}

// ActivateDisturbedConstraints mirrors the activation state of the
// original constraints onto the rebuilt ones: a rebuilt constraint is
// deactivated exactly where its original is inactive. When an original
// constraint is inactive at every fine time point of a sample interval,
// the disturbance variable of that interval is fixed to zero — an
// inactive constraint provides no information to identify its
// disturbance.
func ActivateDisturbedConstraints(
	timePoints, samplePoints []float64,
	disturbances []*model.Var,
	original []horizon.Constraint,
	disturbed []*model.Constraint,
) error {
	if len(disturbances) != len(original) || len(disturbed) != len(original) {
		return fmt.Errorf(
			"got %d disturbance variables and %d rebuilt constraints for %d original constraints",
			len(disturbances), len(disturbed), len(original),
		)
	}

	// Fine time points grouped by the sample interval containing them.
	bySample := make(map[float64][]float64, len(samplePoints))
	for _, t := range timePoints {
		sp, err := CurrSamplePoint(t, samplePoints)
		if err != nil {
			return err
		}
		bySample[sp] = append(bySample[sp], t)
	}

	for i, con := range original {
		for _, t := range timePoints {
			orig, ok := con.At(t)
			if !ok {
				return fmt.Errorf(
					"constraint %q is not indexed by time point %v", con.Name(), t,
				)
			}
			if orig.IsActive() {
				continue
			}
			d, ok := disturbed[i].DataAt(t)
			if !ok {
				return fmt.Errorf(
					"rebuilt constraint %q is not indexed by time point %v", disturbed[i].Name(), t,
				)
			}
			d.Deactivate()
		}

		for _, sp := range samplePoints {
			fine := bySample[sp]
			if len(fine) == 0 {
				continue
			}
			allInactive := true
			for _, t := range fine {
				orig, _ := con.At(t)
				if orig.IsActive() {
					allInactive = false
					break
				}
			}
			if !allInactive {
				continue
			}
			slot, ok := disturbances[i].SlotAt(sp)
			if !ok {
				return fmt.Errorf(
					"disturbance variable %q is not indexed by sample point %v",
					disturbances[i].Name(), sp,
				)
			}
			slot.SetValue(0.0)
			slot.Fix()
		}
	}
	return nil
}
