package sim

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	horizon "github.com/dynoptics/go-horizon"
)

// Plant simulates a linear discrete-time system over the time set of a
// model instance. It implements horizon.Solver: a solve reads the state
// at the first time point and the inputs at every time point, propagates
// the system forward, and writes the resulting trajectory back into the
// model. For a linear system the propagation is the exact solution, so
// the solve always terminates optimally.
type Plant struct {
	sys *Discrete
	// names of the model variables carrying the state vector, in the
	// order matching the rows of the system matrix
	states []string
	// names of the model variables carrying the input vector
	inputs []string
}

// NewPlant creates a plant simulator over the named state and input
// variables.
func NewPlant(sys *Discrete, states, inputs []string) (*Plant, error) {
	nx, nu, _, _ := sys.SystemDims()
	if len(states) != nx {
		return nil, fmt.Errorf("got %d state variables for a %d-state system", len(states), nx)
	}
	if len(inputs) != nu {
		return nil, fmt.Errorf("got %d input variables for a %d-input system", len(inputs), nu)
	}
	return &Plant{sys: sys, states: states, inputs: inputs}, nil
}

func (p *Plant) lookup(m horizon.Model, names []string) ([]horizon.Variable, error) {
	vars := make([]horizon.Variable, len(names))
	for i, name := range names {
		v, ok := m.Variable(name)
		if !ok {
			return nil, fmt.Errorf("cannot find a component %q on model %q", name, m.Name())
		}
		vars[i] = v
	}
	return vars, nil
}

// Solve propagates the system through the model's time set, overwriting
// the state variables at every time point after the first.
func (p *Plant) Solve(m horizon.Model) error {
	stateVars, err := p.lookup(m, p.states)
	if err != nil {
		return err
	}
	inputVars, err := p.lookup(m, p.inputs)
	if err != nil {
		return err
	}

	times := stateVars[0].Times()
	if len(times) == 0 {
		return fmt.Errorf("state variable %q has an empty time set", stateVars[0].Name())
	}

	readVec := func(vars []horizon.Variable, t float64) (mat.Vector, error) {
		out := mat.NewVecDense(len(vars), nil)
		for i, v := range vars {
			slot, ok := v.At(t)
			if !ok {
				return nil, fmt.Errorf("variable %q is not indexed by time point %v", v.Name(), t)
			}
			val, ok := slot.Value()
			if !ok {
				return nil, fmt.Errorf("variable %q has no value at time point %v", v.Name(), t)
			}
			out.SetVec(i, val)
		}
		return out, nil
	}

	x, err := readVec(stateVars, times[0])
	if err != nil {
		return err
	}
	for _, t := range times[1:] {
		var u mat.Vector
		if len(inputVars) > 0 {
			u, err = readVec(inputVars, t)
			if err != nil {
				return err
			}
		}
		x, err = p.sys.Propagate(x, u)
		if err != nil {
			return fmt.Errorf("plant propagation failed: %v", err)
		}
		for i, v := range stateVars {
			slot, _ := v.At(t)
			slot.SetValue(x.AtVec(i))
		}
	}
	return nil
}
