// Package sim drives rolling-horizon simulations: a linear plant stands
// in for the process, an opaque solver produces estimates, and a Runner
// alternates plant solves, noisy measurement transfers and estimator
// solves the way a real-time loop would.
package sim

import (
	"fmt"

	"github.com/milosgajdos/matrix"
	"gonum.org/v1/gonum/mat"
)

// System defines a linear model of a plant using traditional matrices of
// modern control theory.
//
// It contains the system (A), input (B), observation/output (C),
// feedthrough (D) and disturbance (E) matrices.
type System struct {
	// System/State matrix A
	A *mat.Dense
	// Control/Input matrix B
	B *mat.Dense
	// Observation/Output matrix C
	C *mat.Dense
	// Feedthrough matrix D
	D *mat.Dense
	// Perturbation matrix E
	E *mat.Dense
}

func newSystem(A, B, C, D, E *mat.Dense) System {
	sys := System{A: mat.DenseCopyOf(A)}
	if B != nil {
		sys.B = mat.DenseCopyOf(B)
	}
	if C != nil {
		sys.C = mat.DenseCopyOf(C)
	}
	if D != nil {
		sys.D = mat.DenseCopyOf(D)
	}
	if E != nil {
		sys.E = mat.DenseCopyOf(E)
	}
	return sys
}

// SystemDims returns internal state length (nx), input vector length
// (nu), output state length (ny) and disturbance vector length (nz).
func (s System) SystemDims() (nx, nu, ny, nz int) {
	nx, _ = s.A.Dims()
	if s.B != nil {
		_, nu = s.B.Dims()
	}
	if s.C != nil {
		ny, _ = s.C.Dims()
	}
	if s.E != nil {
		_, nz = s.E.Dims()
	}
	return nx, nu, ny, nz
}

// Observe returns the observable state given internal state x and input
// u. wn is added to the output as a noise vector.
func (s System) Observe(x, u, wn mat.Vector) (y mat.Vector, err error) {
	nx, nu, ny, _ := s.SystemDims()
	if u != nil && u.Len() != nu {
		return nil, fmt.Errorf("invalid input vector")
	}

	if x.Len() != nx {
		return nil, fmt.Errorf("invalid state vector")
	}

	out := new(mat.Dense)
	out.Mul(s.C, x)

	if u != nil && s.D != nil {
		outU := new(mat.Dense)
		outU.Mul(s.D, u)

		out.Add(out, outU)
	}

	if wn != nil && wn.Len() == ny {
		out.Add(out, wn)
	}

	return out.ColView(0), nil
}

// Discrete is a linear, discrete-time, dynamical system.
//
//	x[n+1] = A*x[n] + B*u[n]
//	y[n]   = C*x[n] + D*u[n]
type Discrete struct {
	System
}

// NewDiscrete creates a linear discrete-time model from the given system
// matrices.
func NewDiscrete(A, B, C, D, E *mat.Dense) (*Discrete, error) {
	if A == nil {
		return nil, fmt.Errorf("system matrix must be defined for a model")
	}
	return &Discrete{System: newSystem(A, B, C, D, E)}, nil
}

// NewDiscreteFromContinuous discretizes the continuous-time system
// dx/dt = A*x + B*u with timestep dt using Euler's method:
//
//	Ad = I + dt*A
//	Bd = dt*B
//
// The approximation is valid for small timesteps.
func NewDiscreteFromContinuous(A, B, C, D, E *mat.Dense, dt float64) (*Discrete, error) {
	if A == nil {
		return nil, fmt.Errorf("system matrix must be defined for a model")
	}
	nx, _ := A.Dims()
	eye, err := matrix.NewDenseValIdentity(nx, 1.0)
	if err != nil {
		return nil, fmt.Errorf("failed to build identity matrix: %v", err)
	}

	Ad := new(mat.Dense)
	Ad.Scale(dt, A)
	Ad.Add(Ad, eye)

	var Bd *mat.Dense
	if B != nil {
		Bd = new(mat.Dense)
		Bd.Scale(dt, B)
	}

	return &Discrete{System: newSystem(Ad, Bd, C, D, E)}, nil
}

// Propagate returns the next internal state of the system given the
// current state x and input u.
func (d *Discrete) Propagate(x, u mat.Vector) (mat.Vector, error) {
	nx, nu, _, _ := d.SystemDims()
	if u != nil && u.Len() != nu {
		return nil, fmt.Errorf("invalid input vector")
	}

	if x.Len() != nx {
		return nil, fmt.Errorf("invalid state vector")
	}

	out := new(mat.Dense)
	out.Mul(d.A, x)
	if u != nil && d.B != nil {
		outU := new(mat.Dense)
		outU.Mul(d.B, u)

		out.Add(out, outU)
	}

	return out.ColView(0), nil
}
