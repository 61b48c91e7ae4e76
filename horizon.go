package horizon

// Slot is a mutable scalar value of a time-indexed quantity at a single
// time point.
type Slot interface {
	// Value returns the current value and whether one has been set
	Value() (float64, bool)
	// SetValue overwrites the current value
	SetValue(v float64)
	// Fix pins the slot to its current value
	Fix()
	// Unfix releases a fixed slot
	Unfix()
	// IsFixed reports whether the slot is fixed
	IsFixed() bool
	// Bounds returns the lower and upper bounds of the slot.
	// Missing bounds are reported as -Inf and +Inf.
	Bounds() (lo, hi float64)
}

// Variable is a handle to a time-indexed quantity owned by a model.
// Implementations must be comparable by identity: two handles to the same
// underlying quantity compare equal, so a Variable can key a map.
type Variable interface {
	// Name returns the name of the variable on its model
	Name() string
	// At returns the slot at time t
	At(t float64) (Slot, bool)
	// Times returns the ordered time points the variable is indexed by
	Times() []float64
}

// Expr evaluates an algebraic expression against the current model values.
type Expr func() float64

// Expression is a time-indexed expression.
type Expression interface {
	// At returns the expression at time t
	At(t float64) (Expr, bool)
	// Times returns the ordered time points the expression is indexed by
	Times() []float64
}

// ConstraintData is a single time point of a time-indexed constraint.
type ConstraintData interface {
	// IsEquality reports whether the constraint is an equality
	IsEquality() bool
	// Body returns the variable-dependent side of the constraint
	Body() Expr
	// Bounds returns the constant lower and upper bounds on the body.
	// An equality has lo == hi. Missing bounds are -Inf and +Inf.
	Bounds() (lo, hi float64)
	// Residual returns body minus the equality right-hand side, which is
	// zero when the constraint is satisfied exactly
	Residual() float64
	// IsActive reports whether the constraint is enforced
	IsActive() bool
	// Activate enforces the constraint
	Activate()
	// Deactivate stops enforcing the constraint
	Deactivate()
}

// Constraint is a handle to a time-indexed constraint owned by a model.
type Constraint interface {
	// Name returns the name of the constraint on its model
	Name() string
	// At returns the constraint data at time t
	At(t float64) (ConstraintData, bool)
	// Times returns the ordered time points the constraint is indexed by
	Times() []float64
}

// Model is a named collection of time-indexed components.
type Model interface {
	// Name returns the model name
	Name() string
	// Variable looks up a variable by name
	Variable(name string) (Variable, bool)
	// Constraint looks up a constraint by name
	Constraint(name string) (Constraint, bool)
}

// Solver solves a model in place. The solve is an opaque blocking call;
// any outcome other than nil is fatal to the current horizon step.
type Solver interface {
	// Solve solves the model
	Solve(m Model) error
}
