// Package op implements the run-list operations: the closed operator sets
// (set algebra, span transforms, range predicates) and the dispatchers that
// apply them over whole run-list documents.
package op

import (
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/runlist/interval"
)

// SetOp is a binary set-algebra operator.
type SetOp int

const (
	Intersect SetOp = iota
	Union
	Diff
	Xor
)

var setOpNames = []string{"intersect", "union", "diff", "xor"}

func (o SetOp) String() string { return setOpNames[o] }

// ParseSetOp maps an operator name to its SetOp.
func ParseSetOp(name string) (SetOp, error) {
	for i, n := range setOpNames {
		if n == name {
			return SetOp(i), nil
		}
	}
	return 0, errors.E(errors.NotSupported, fmt.Sprintf("Invalid IntSpan Op: %s", name))
}

// Apply computes a <op> b.  The operands are not modified.
func (o SetOp) Apply(a, b *interval.Set) *interval.Set {
	switch o {
	case Union:
		return a.Union(b)
	case Diff:
		return a.Diff(b)
	case Xor:
		return a.Xor(b)
	}
	return a.Intersect(b)
}

// SpanOp is a unary span transform parameterized by n.
type SpanOp int

const (
	Cover SpanOp = iota
	Fill
	Trim
	Pad
	Excise
)

var spanOpNames = []string{"cover", "fill", "trim", "pad", "excise"}

func (o SpanOp) String() string { return spanOpNames[o] }

// ParseSpanOp maps an operator name to its SpanOp.
func ParseSpanOp(name string) (SpanOp, error) {
	for i, n := range spanOpNames {
		if n == name {
			return SpanOp(i), nil
		}
	}
	return 0, errors.E(errors.NotSupported, fmt.Sprintf("Invalid IntSpan Op: %s", name))
}

// Apply returns the transform of s.  n is ignored by Cover.
func (o SpanOp) Apply(s *interval.Set, n int) *interval.Set {
	switch o {
	case Fill:
		return s.Fill(n)
	case Trim:
		return s.Trim(n)
	case Pad:
		return s.Pad(n)
	case Excise:
		return s.Excise(n)
	}
	return s.Cover()
}

// RangeOp is a predicate between a set and a closed range.
type RangeOp int

const (
	Overlap RangeOp = iota
	NonOverlap
	Superset
)

var rangeOpNames = []string{"overlap", "non-overlap", "superset"}

func (o RangeOp) String() string { return rangeOpNames[o] }

// ParseRangeOp maps an operator name to its RangeOp.
func ParseRangeOp(name string) (RangeOp, error) {
	for i, n := range rangeOpNames {
		if n == name {
			return RangeOp(i), nil
		}
	}
	return 0, errors.E(errors.NotSupported, fmt.Sprintf("Invalid Range Op: %s", name))
}

// Match reports whether s and [lo, hi] satisfy the predicate.
func (o RangeOp) Match(s *interval.Set, lo, hi interval.PosType) bool {
	switch o {
	case NonOverlap:
		return !s.Overlaps(lo, hi)
	case Superset:
		return s.Superset(lo, hi)
	}
	return s.Overlaps(lo, hi)
}
