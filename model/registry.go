package model

import (
	horizon "github.com/dynoptics/go-horizon"
)

// Model is a named collection of time-indexed components. It implements
// horizon.Model.
type Model struct {
	name  string
	vars  map[string]*Var
	cons  map[string]*Constraint
	exprs map[string]*Expression
}

// New creates an empty model.
func New(name string) *Model {
	return &Model{
		name:  name,
		vars:  make(map[string]*Var),
		cons:  make(map[string]*Constraint),
		exprs: make(map[string]*Expression),
	}
}

// Name returns the model name.
func (m *Model) Name() string {
	return m.name
}

// NewVar creates a variable on the model and returns it.
func (m *Model) NewVar(name string, times []float64) *Var {
	v := NewVar(name, times)
	m.vars[name] = v
	return v
}

// AddVar attaches an existing variable to the model.
func (m *Model) AddVar(v *Var) {
	m.vars[v.Name()] = v
}

// AddConstraint attaches an existing constraint to the model.
func (m *Model) AddConstraint(c *Constraint) {
	m.cons[c.Name()] = c
}

// AddExpression attaches an existing expression to the model.
func (m *Model) AddExpression(e *Expression) {
	m.exprs[e.Name()] = e
}

// Variable looks up a variable by name.
func (m *Model) Variable(name string) (horizon.Variable, bool) {
	v, ok := m.vars[name]
	if !ok {
		return nil, false
	}
	return v, true
}

// Constraint looks up a constraint by name.
func (m *Model) Constraint(name string) (horizon.Constraint, bool) {
	c, ok := m.cons[name]
	if !ok {
		return nil, false
	}
	return c, true
}

// Expression looks up an expression by name.
func (m *Model) Expression(name string) (*Expression, bool) {
	e, ok := m.exprs[name]
	return e, ok
}
