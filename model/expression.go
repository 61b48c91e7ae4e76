package model

import (
	horizon "github.com/dynoptics/go-horizon"
)

// Expression is a time-indexed expression. It implements
// horizon.Expression.
type Expression struct {
	name  string
	times []float64
	exprs map[float64]horizon.Expr
}

// NewExpression builds an expression at every time point from the rule.
func NewExpression(name string, times []float64, rule func(t float64) horizon.Expr) *Expression {
	exprs := make(map[float64]horizon.Expr, len(times))
	for _, t := range times {
		exprs[t] = rule(t)
	}
	return &Expression{
		name:  name,
		times: append([]float64(nil), times...),
		exprs: exprs,
	}
}

// Name returns the expression name.
func (e *Expression) Name() string {
	return e.name
}

// Times returns the ordered time points the expression is indexed by.
func (e *Expression) Times() []float64 {
	return append([]float64(nil), e.times...)
}

// At returns the expression at time t.
func (e *Expression) At(t float64) (horizon.Expr, bool) {
	x, ok := e.exprs[t]
	if !ok {
		return nil, false
	}
	return x, true
}
