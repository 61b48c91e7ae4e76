package model

import (
	horizon "github.com/dynoptics/go-horizon"
)

// ConData is a single time point of a time-indexed constraint.
// It implements horizon.ConstraintData.
type ConData struct {
	body   horizon.Expr
	lo, hi float64
	eq     bool
	active bool
}

// IsEquality reports whether the constraint is an equality.
func (c *ConData) IsEquality() bool {
	return c.eq
}

// Body returns the variable-dependent side of the constraint.
func (c *ConData) Body() horizon.Expr {
	return c.body
}

// Bounds returns the constant bounds on the body.
func (c *ConData) Bounds() (lo, hi float64) {
	return c.lo, c.hi
}

// IsActive reports whether the constraint is enforced.
func (c *ConData) IsActive() bool {
	return c.active
}

// Activate enforces the constraint.
func (c *ConData) Activate() {
	c.active = true
}

// Deactivate stops enforcing the constraint.
func (c *ConData) Deactivate() {
	c.active = false
}

// Residual returns body minus the equality right-hand side, which is zero
// when the constraint is satisfied exactly.
func (c *ConData) Residual() float64 {
	return c.body() - c.hi
}

// Constraint is a time-indexed constraint. Handles are *Constraint
// pointers with identity semantics, same as Var.
type Constraint struct {
	name  string
	times []float64
	data  map[float64]*ConData
}

// NewEquality creates an equality constraint body(t) == rhs(t) at every
// time point. The rule returns the body expression and the constant
// right-hand side for a time point.
func NewEquality(name string, times []float64, rule func(t float64) (horizon.Expr, float64)) *Constraint {
	data := make(map[float64]*ConData, len(times))
	for _, t := range times {
		body, rhs := rule(t)
		data[t] = &ConData{body: body, lo: rhs, hi: rhs, eq: true, active: true}
	}
	return &Constraint{
		name:  name,
		times: append([]float64(nil), times...),
		data:  data,
	}
}

// NewInequality creates an inequality constraint lo <= body(t) <= hi at
// every time point. Use -Inf or +Inf for a missing bound.
func NewInequality(name string, times []float64, body func(t float64) horizon.Expr, lo, hi float64) *Constraint {
	data := make(map[float64]*ConData, len(times))
	for _, t := range times {
		data[t] = &ConData{body: body(t), lo: lo, hi: hi, active: true}
	}
	return &Constraint{
		name:  name,
		times: append([]float64(nil), times...),
		data:  data,
	}
}

// Name returns the constraint name.
func (c *Constraint) Name() string {
	return c.name
}

// Times returns the ordered time points the constraint is indexed by.
func (c *Constraint) Times() []float64 {
	return append([]float64(nil), c.times...)
}

// At returns the constraint data at time t.
func (c *Constraint) At(t float64) (horizon.ConstraintData, bool) {
	d, ok := c.data[t]
	if !ok {
		return nil, false
	}
	return d, true
}

// DataAt returns the concrete constraint data at time t.
func (c *Constraint) DataAt(t float64) (*ConData, bool) {
	d, ok := c.data[t]
	return d, ok
}

// Deactivate stops enforcing the constraint at every time point.
func (c *Constraint) Deactivate() {
	for _, d := range c.data {
		d.active = false
	}
}

// Activate enforces the constraint at every time point.
func (c *Constraint) Activate() {
	for _, d := range c.data {
		d.active = true
	}
}
