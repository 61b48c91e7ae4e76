package model

import (
	"math"

	horizon "github.com/dynoptics/go-horizon"
)

// Slot is a mutable scalar belonging to a variable at one time point.
// It implements horizon.Slot.
type Slot struct {
	val    float64
	hasVal bool
	fixed  bool
	lo, hi float64
}

func newSlot() *Slot {
	return &Slot{lo: math.Inf(-1), hi: math.Inf(1)}
}

// Value returns the current value and whether one has been set.
func (s *Slot) Value() (float64, bool) {
	return s.val, s.hasVal
}

// SetValue overwrites the current value.
func (s *Slot) SetValue(v float64) {
	s.val = v
	s.hasVal = true
}

// Fix pins the slot to its current value.
func (s *Slot) Fix() {
	s.fixed = true
}

// Unfix releases a fixed slot.
func (s *Slot) Unfix() {
	s.fixed = false
}

// IsFixed reports whether the slot is fixed.
func (s *Slot) IsFixed() bool {
	return s.fixed
}

// Bounds returns the slot bounds. Missing bounds are -Inf and +Inf.
func (s *Slot) Bounds() (lo, hi float64) {
	return s.lo, s.hi
}

// SetBounds sets the slot bounds.
func (s *Slot) SetBounds(lo, hi float64) {
	s.lo, s.hi = lo, hi
}

// Var is a time-indexed variable. It implements horizon.Variable; handles
// are *Var pointers, so identity comparison and map keying work the way
// the transfer layer expects.
type Var struct {
	name  string
	times []float64
	slots map[float64]*Slot
}

// NewVar creates a variable indexed by the given time points.
// All slots start without a value, free, and unbounded.
func NewVar(name string, times []float64) *Var {
	slots := make(map[float64]*Slot, len(times))
	for _, t := range times {
		slots[t] = newSlot()
	}
	return &Var{
		name:  name,
		times: append([]float64(nil), times...),
		slots: slots,
	}
}

// Name returns the variable name.
func (v *Var) Name() string {
	return v.name
}

// Times returns the ordered time points the variable is indexed by.
func (v *Var) Times() []float64 {
	return append([]float64(nil), v.times...)
}

// At returns the slot at time t.
func (v *Var) At(t float64) (horizon.Slot, bool) {
	s, ok := v.slots[t]
	if !ok {
		return nil, false
	}
	return s, true
}

// SlotAt returns the concrete slot at time t.
func (v *Var) SlotAt(t float64) (*Slot, bool) {
	s, ok := v.slots[t]
	return s, ok
}

// Initialize sets the value at every time point from the given rule.
func (v *Var) Initialize(rule func(t float64) float64) {
	for _, t := range v.times {
		v.slots[t].SetValue(rule(t))
	}
}

// Fix fixes the variable at every time point.
func (v *Var) Fix() {
	for _, t := range v.times {
		v.slots[t].Fix()
	}
}

// SetBounds sets the same bounds at every time point.
func (v *Var) SetBounds(lo, hi float64) {
	for _, t := range v.times {
		v.slots[t].SetBounds(lo, hi)
	}
}
