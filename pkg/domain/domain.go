// Package domain defines enumerable value domains for workflow step
// parameters. A Domain describes every legal value a parameter may take,
// in a fixed iteration order, so exhaustive input generation can walk the
// Cartesian product of all active domains.
package domain

import (
	"fmt"
	"strings"
)

// Domain is an enumerable set of legal parameter values.
// Implementations are immutable value objects.
type Domain interface {
	// Values returns every legal value in a fixed, deterministic order.
	Values() []any
	// Size returns the number of legal values.
	Size() int
	// String returns a short human-readable description of the domain.
	String() string
}

// BoundedInt is an inclusive integer range [lo, hi].
type BoundedInt struct {
	lo, hi int
}

// NewBoundedInt constructs a BoundedInt. Returns an error if lo > hi.
func NewBoundedInt(lo, hi int) (BoundedInt, error) {
	if lo > hi {
		return BoundedInt{}, fmt.Errorf("domain: bounded int lo %d > hi %d", lo, hi)
	}
	return BoundedInt{lo: lo, hi: hi}, nil
}

// MustBoundedInt is NewBoundedInt that panics on invalid bounds.
// For statically known ranges in step definitions.
func MustBoundedInt(lo, hi int) BoundedInt {
	d, err := NewBoundedInt(lo, hi)
	if err != nil {
		panic(err)
	}
	return d
}

// Lo returns the inclusive lower bound.
func (d BoundedInt) Lo() int { return d.lo }

// Hi returns the inclusive upper bound.
func (d BoundedInt) Hi() int { return d.hi }

// Values enumerates the range in ascending order, both bounds included.
func (d BoundedInt) Values() []any {
	out := make([]any, 0, d.Size())
	for v := d.lo; v <= d.hi; v++ {
		out = append(out, v)
	}
	return out
}

func (d BoundedInt) Size() int { return d.hi - d.lo + 1 }

func (d BoundedInt) String() string {
	return fmt.Sprintf("int[%d..%d]", d.lo, d.hi)
}

// ChoiceSet is a fixed, ordered set of string choices.
type ChoiceSet struct {
	values []string
}

// NewChoiceSet constructs a ChoiceSet preserving input order.
func NewChoiceSet(values ...string) ChoiceSet {
	vs := make([]string, len(values))
	copy(vs, values)
	return ChoiceSet{values: vs}
}

// Choices returns the choices in declaration order.
func (d ChoiceSet) Choices() []string {
	out := make([]string, len(d.values))
	copy(out, d.values)
	return out
}

// Contains reports whether v is one of the declared choices.
func (d ChoiceSet) Contains(v string) bool {
	for _, c := range d.values {
		if c == v {
			return true
		}
	}
	return false
}

// Values enumerates the choices in declaration order.
func (d ChoiceSet) Values() []any {
	out := make([]any, len(d.values))
	for i, v := range d.values {
		out[i] = v
	}
	return out
}

func (d ChoiceSet) Size() int { return len(d.values) }

func (d ChoiceSet) String() string {
	return "choice{" + strings.Join(d.values, ",") + "}"
}

// Constant is a domain with exactly one legal value.
type Constant struct {
	value any
}

// NewConstant constructs a Constant domain.
func NewConstant(value any) Constant {
	return Constant{value: value}
}

// Value returns the single legal value.
func (d Constant) Value() any { return d.value }

func (d Constant) Values() []any { return []any{d.value} }

func (d Constant) Size() int { return 1 }

func (d Constant) String() string {
	return fmt.Sprintf("const(%v)", d.value)
}
