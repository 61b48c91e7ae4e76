package sim

import (
	"fmt"

	horizon "github.com/dynoptics/go-horizon"
	"github.com/dynoptics/go-horizon/data"
	"github.com/dynoptics/go-horizon/link"
	"github.com/dynoptics/go-horizon/noise"
)

// NoiseConfig adds measurement noise to the plant-to-estimator transfer.
// Parameters and bounds are per measured variable, in linker order.
type NoiseConfig struct {
	// Params are the per-variable noise spread parameters
	Params []float64
	// Func draws the noise samples
	Func noise.Func
	// Bounds are the per-variable bound pairs
	Bounds []noise.Bounds
}

// Runner is a rolling-horizon estimation loop. Each step solves the
// plant over one sample time, sends the (optionally noisy) measurements
// to the estimator, solves the estimator, and re-initializes both models
// for the next step.
type Runner struct {
	// Plant and Estimator are the two model instances the loop
	// alternates between
	Plant     horizon.Model
	Estimator horizon.Model
	// PlantSolver simulates the plant; EstimatorSolver solves the
	// estimation problem. Both are opaque: any error halts the loop.
	PlantSolver     horizon.Solver
	EstimatorSolver horizon.Solver
	// MeasurementLinker sends measured plant values into the estimator's
	// measurement slots; EstimateLinker seeds the estimator's measured
	// variables from those slots
	MeasurementLinker *link.Linker
	EstimateLinker    *link.Linker
	// RecordVars are plant variables recorded at the plant's final time
	// point after every step; EstimateVars likewise on the estimator
	RecordVars   []horizon.Variable
	EstimateVars []horizon.Variable
	// ShiftVars are estimator variables whose values are shifted back by
	// one sample time between steps
	ShiftVars []horizon.Variable
	// ReseedVars are plant variables re-initialized across the whole
	// plant horizon from their final values between steps
	ReseedVars []horizon.Variable
	// PlantTimes and EstimatorTimes are the fine time sets of the two
	// models; LastSampleTimes are the estimator times in its final
	// sample interval
	PlantTimes      []float64
	EstimatorTimes  []float64
	LastSampleTimes []float64
	// SampleTime is the length of one step in simulation time
	SampleTime float64
	// Inputs holds control inputs by simulation time; optional
	Inputs *data.TimeSeriesData
	// Noise configures measurement noise; nil transfers exact values
	Noise *NoiseConfig
}

func (r *Runner) validate() error {
	if r.Plant == nil || r.Estimator == nil {
		return fmt.Errorf("runner needs both a plant and an estimator model")
	}
	if r.PlantSolver == nil || r.EstimatorSolver == nil {
		return fmt.Errorf("runner needs both a plant and an estimator solver")
	}
	if r.MeasurementLinker == nil || r.EstimateLinker == nil {
		return fmt.Errorf("runner needs measurement and estimate linkers")
	}
	if len(r.PlantTimes) == 0 || len(r.EstimatorTimes) == 0 {
		return fmt.Errorf("runner needs non-empty plant and estimator time sets")
	}
	if r.SampleTime <= 0 {
		return fmt.Errorf("sample time must be positive, got %v", r.SampleTime)
	}
	return nil
}

// Run executes the given number of rolling-horizon steps and returns the
// recorded plant and estimator trajectories, indexed by simulation time.
func (r *Runner) Run(steps int) (states, estimates *data.TimeSeriesData, err error) {
	if err := r.validate(); err != nil {
		return nil, nil, err
	}

	tfPlant := r.PlantTimes[len(r.PlantTimes)-1]
	tfEstimator := r.EstimatorTimes[len(r.EstimatorTimes)-1]
	nonInitialPlantTimes := r.PlantTimes[1:]

	stateRec := newRecorder(r.RecordVars)
	estimateRec := newRecorder(r.EstimateVars)

	for i := 0; i < steps; i++ {
		simT0 := float64(i) * r.SampleTime
		simTF := float64(i+1) * r.SampleTime

		var current *data.ScalarData
		if r.Inputs != nil {
			current, err = r.Inputs.AtTime(simT0, -1)
			if err != nil {
				return nil, nil, fmt.Errorf("step %d: %w", i, err)
			}
			if err := link.LoadFromScalar(current, r.Plant, nonInitialPlantTimes); err != nil {
				return nil, nil, fmt.Errorf("step %d: loading plant inputs: %w", i, err)
			}
		}

		if err := r.PlantSolver.Solve(r.Plant); err != nil {
			return nil, nil, fmt.Errorf("step %d: plant solve failed: %w", i, err)
		}
		if err := stateRec.record(simTF, tfPlant); err != nil {
			return nil, nil, fmt.Errorf("step %d: %w", i, err)
		}

		if r.Noise != nil {
			err = r.MeasurementLinker.TransferWithNoise(
				r.Noise.Params, r.Noise.Func, r.Noise.Bounds,
				[]float64{tfPlant}, []float64{tfEstimator},
			)
		} else {
			err = r.MeasurementLinker.Transfer([]float64{tfPlant}, []float64{tfEstimator})
		}
		if err != nil {
			return nil, nil, fmt.Errorf("step %d: sending measurements: %w", i, err)
		}

		if len(r.LastSampleTimes) > 0 {
			if err := r.EstimateLinker.Transfer([]float64{tfEstimator}, r.LastSampleTimes); err != nil {
				return nil, nil, fmt.Errorf("step %d: seeding estimates: %w", i, err)
			}
			if current != nil {
				if err := link.LoadFromScalar(current, r.Estimator, r.LastSampleTimes); err != nil {
					return nil, nil, fmt.Errorf("step %d: loading estimator inputs: %w", i, err)
				}
			}
		}

		if err := r.EstimatorSolver.Solve(r.Estimator); err != nil {
			return nil, nil, fmt.Errorf("step %d: estimator solve failed: %w", i, err)
		}
		if err := estimateRec.record(simTF, tfEstimator); err != nil {
			return nil, nil, fmt.Errorf("step %d: %w", i, err)
		}

		if err := ShiftValues(r.ShiftVars, r.SampleTime); err != nil {
			return nil, nil, fmt.Errorf("step %d: shifting estimator values: %w", i, err)
		}
		if err := reseed(r.ReseedVars, tfPlant, r.PlantTimes); err != nil {
			return nil, nil, fmt.Errorf("step %d: re-seeding plant: %w", i, err)
		}
	}

	states, err = stateRec.series()
	if err != nil {
		return nil, nil, err
	}
	estimates, err = estimateRec.series()
	if err != nil {
		return nil, nil, err
	}
	return states, estimates, nil
}

// ShiftValues moves each variable's values earlier by dt: the value at
// t+dt becomes the value at t. Time points with no source point one dt
// later keep their current value.
func ShiftValues(vars []horizon.Variable, dt float64) error {
	for _, v := range vars {
		times := v.Times()
		for _, t := range times {
			i, ok := data.FindNearestIndex(times, t+dt, 1e-8)
			if !ok {
				continue
			}
			src, ok := v.At(times[i])
			if !ok {
				continue
			}
			val, ok := src.Value()
			if !ok {
				continue
			}
			dst, ok := v.At(t)
			if !ok {
				return fmt.Errorf("variable %q is not indexed by time point %v", v.Name(), t)
			}
			dst.SetValue(val)
		}
	}
	return nil
}

func reseed(vars []horizon.Variable, tSource float64, times []float64) error {
	if len(vars) == 0 {
		return nil
	}
	linker, err := link.NewLinker(vars, vars)
	if err != nil {
		return err
	}
	return linker.Transfer([]float64{tSource}, times)
}

// recorder accumulates values of a fixed variable list, one sample per
// step, into a time series.
type recorder struct {
	vars   []horizon.Variable
	times  []float64
	values map[string][]float64
}

func newRecorder(vars []horizon.Variable) *recorder {
	values := make(map[string][]float64, len(vars))
	for _, v := range vars {
		values[v.Name()] = nil
	}
	return &recorder{vars: vars, values: values}
}

func (r *recorder) record(simT, modelT float64) error {
	for _, v := range r.vars {
		slot, ok := v.At(modelT)
		if !ok {
			return fmt.Errorf("variable %q is not indexed by time point %v", v.Name(), modelT)
		}
		val, ok := slot.Value()
		if !ok {
			return fmt.Errorf("variable %q has no value at time point %v", v.Name(), modelT)
		}
		r.values[v.Name()] = append(r.values[v.Name()], val)
	}
	r.times = append(r.times, simT)
	return nil
}

func (r *recorder) series() (*data.TimeSeriesData, error) {
	return data.NewTimeSeriesData(r.values, r.times)
}
