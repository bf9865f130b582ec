package system

import (
	"fmt"
	"strings"

	"github.com/kilianp07/horizon/core/state"
)

// Constraint is a global predicate over the state a branch produced. It is
// evaluated after every subsystem of every asset passed.
type Constraint interface {
	Name() string
	Accepts(s *state.SystemState) (bool, error)
}

// ConstraintType selects the comparison of a SingleConstraint.
type ConstraintType string

const (
	FailIfHigher        ConstraintType = "FAIL_IF_HIGHER"
	FailIfHigherOrEqual ConstraintType = "FAIL_IF_HIGHER_OR_EQUAL"
	FailIfLower         ConstraintType = "FAIL_IF_LOWER"
	FailIfLowerOrEqual  ConstraintType = "FAIL_IF_LOWER_OR_EQUAL"
	FailIfEqual         ConstraintType = "FAIL_IF_EQUAL"
	FailIfNotEqual      ConstraintType = "FAIL_IF_NOT_EQUAL"
)

// ParseConstraintType accepts any casing of the constraint type names.
func ParseConstraintType(s string) (ConstraintType, error) {
	t := ConstraintType(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case FailIfHigher, FailIfHigherOrEqual, FailIfLower, FailIfLowerOrEqual, FailIfEqual, FailIfNotEqual:
		return t, nil
	}
	return "", fmt.Errorf("unknown constraint type %q", s)
}

// SingleConstraint bounds one numeric state variable. Upper bounds apply to
// the largest value the profile ever held, lower bounds to the smallest and
// equality checks to the latest value.
type SingleConstraint struct {
	name  string
	key   state.Key[float64]
	value float64
	typ   ConstraintType
}

// NewSingleConstraint builds a constraint on key.
func NewSingleConstraint(name string, key state.Key[float64], value float64, typ ConstraintType) *SingleConstraint {
	return &SingleConstraint{name: name, key: key, value: value, typ: typ}
}

// Name implements Constraint.
func (c *SingleConstraint) Name() string { return c.name }

// Accepts implements Constraint.
func (c *SingleConstraint) Accepts(s *state.SystemState) (bool, error) {
	p, err := state.ProfileOf(s, c.key)
	if err != nil {
		return false, fmt.Errorf("constraint %s: %w", c.name, err)
	}
	if p.Len() == 0 {
		return true, nil
	}
	hi, _ := state.Max(p)
	lo, _ := state.Min(p)
	last, _ := p.Last()
	switch c.typ {
	case FailIfHigher:
		return hi <= c.value, nil
	case FailIfHigherOrEqual:
		return hi < c.value, nil
	case FailIfLower:
		return lo >= c.value, nil
	case FailIfLowerOrEqual:
		return lo > c.value, nil
	case FailIfEqual:
		return last.Value != c.value, nil
	case FailIfNotEqual:
		return last.Value == c.value, nil
	}
	return false, fmt.Errorf("constraint %s: unknown type %q", c.name, c.typ)
}
