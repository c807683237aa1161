package interval

import (
	"sort"
)

// Span is a single closed range [Lo, Hi] of a Set.
type Span struct {
	Lo, Hi PosType
}

// Len returns the number of positions covered by the span.
func (sp Span) Len() int {
	return int(sp.Hi) - int(sp.Lo) + 1
}

// Set is a finite set of integers, stored as a union of disjoint, non-adjacent
// ranges.  The zero value is an empty set.
//
// A Set is owned by whoever created it.  The Add* methods mutate the receiver
// and return it so that calls can be chained; every other operation returns a
// new Set and leaves its operands untouched.
type Set struct {
	// endpoints is a strictly increasing sequence of half-open interval
	// boundaries; see endpoint_index.go.
	endpoints []PosType
}

// NewSet returns an empty set.
func NewSet() *Set {
	return &Set{}
}

// NewSetFromSpans returns a set containing every position of the given
// (possibly unsorted or overlapping) spans.  Spans with Lo > Hi are ignored.
func NewSetFromSpans(spans ...Span) *Set {
	s := NewSet()
	for _, sp := range spans {
		s.AddRange(sp.Lo, sp.Hi)
	}
	return s
}

// AddRange inserts the closed range [lo, hi], merging it with any range it
// overlaps or touches.  It is a no-op when lo > hi.
func (s *Set) AddRange(lo, hi PosType) *Set {
	if lo > hi {
		return s
	}
	end := clampPos(int64(hi)) + 1
	e := s.endpoints
	// First endpoint >= lo.  An odd index means lo falls inside (or just
	// after) an existing range, which is then absorbed.
	i := int(SearchPosTypes(e, lo))
	// First endpoint > end.  An odd index means end falls inside an existing
	// range; an even one that the next range starts strictly after it.
	j := int(SearchPosTypes(e, end+1))
	if end == PosTypeMax {
		j = len(e)
	}
	start := lo
	if i&1 == 1 {
		i--
		start = e[i]
	}
	if j&1 == 1 {
		end = e[j]
		j++
	}
	merged := make([]PosType, 0, len(e)-(j-i)+2)
	merged = append(merged, e[:i]...)
	merged = append(merged, start, end)
	merged = append(merged, e[j:]...)
	s.endpoints = merged
	return s
}

// AddValue inserts a single position.
func (s *Set) AddValue(n PosType) *Set {
	return s.AddRange(n, n)
}

// AddValues inserts every given position.  Order and duplicates are
// irrelevant.
func (s *Set) AddValues(values ...PosType) *Set {
	if len(values) == 0 {
		return s
	}
	sorted := append([]PosType(nil), values...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	lo, hi := sorted[0], sorted[0]
	for _, v := range sorted[1:] {
		if int64(v) <= int64(hi)+1 {
			if v > hi {
				hi = v
			}
			continue
		}
		s.AddRange(lo, hi)
		lo, hi = v, v
	}
	return s.AddRange(lo, hi)
}

// Clone returns a deep copy of s.
func (s *Set) Clone() *Set {
	return &Set{endpoints: append([]PosType(nil), s.endpoints...)}
}

// IsEmpty returns whether the set has no elements.
func (s *Set) IsEmpty() bool {
	return len(s.endpoints) == 0
}

// Cardinality returns the number of integers in the set.
func (s *Set) Cardinality() int {
	n := 0
	for i := 0; i < len(s.endpoints); i += 2 {
		n += int(s.endpoints[i+1]) - int(s.endpoints[i])
	}
	return n
}

// SpanSize returns the number of disjoint ranges ("edges") in the set.
func (s *Set) SpanSize() int {
	return len(s.endpoints) / 2
}

// Min returns the smallest element.  ok is false iff the set is empty.
func (s *Set) Min() (min PosType, ok bool) {
	if s.IsEmpty() {
		return 0, false
	}
	return s.endpoints[0], true
}

// Max returns the largest element.  ok is false iff the set is empty.
func (s *Set) Max() (max PosType, ok bool) {
	if s.IsEmpty() {
		return 0, false
	}
	return s.endpoints[len(s.endpoints)-1] - 1, true
}

// Spans returns the ranges of the set in increasing order.
func (s *Set) Spans() []Span {
	spans := make([]Span, 0, s.SpanSize())
	for i := 0; i < len(s.endpoints); i += 2 {
		spans = append(spans, Span{Lo: s.endpoints[i], Hi: s.endpoints[i+1] - 1})
	}
	return spans
}

// Equal returns whether s and other contain the same elements.
func (s *Set) Equal(other *Set) bool {
	if len(s.endpoints) != len(other.endpoints) {
		return false
	}
	for i, pos := range s.endpoints {
		if other.endpoints[i] != pos {
			return false
		}
	}
	return true
}

// Contains returns whether n is an element of the set.
func (s *Set) Contains(n PosType) bool {
	if n >= PosTypeMax {
		return false
	}
	return NewEndpointIndex(n, s.endpoints).Contained()
}

// Overlaps returns whether the closed range [lo, hi] shares at least one
// position with the set.
func (s *Set) Overlaps(lo, hi PosType) bool {
	if lo > hi || lo >= PosTypeMax {
		return false
	}
	ei := NewEndpointIndex(lo, s.endpoints)
	if ei.Contained() {
		return true
	}
	next := ei.Begin()
	return !next.Finished(s.endpoints) && s.endpoints[next] <= hi
}

// Superset returns whether every position of the closed range [lo, hi] is in
// the set.
func (s *Set) Superset(lo, hi PosType) bool {
	if lo > hi || lo >= PosTypeMax {
		return false
	}
	ei := NewEndpointIndex(lo, s.endpoints)
	return ei.Contained() && int64(s.endpoints[ei]) > int64(hi)
}

// mergeScan walks the endpoints of a and b in a single pass and returns the
// endpoints of the set {x : keep(x in a, x in b)}.
func mergeScan(a, b []PosType, keep func(inA, inB bool) bool) []PosType {
	var out []PosType
	var inA, inB, in bool
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		var pos PosType
		switch {
		case j == len(b) || (i < len(a) && a[i] < b[j]):
			pos = a[i]
			inA = !inA
			i++
		case i == len(a) || b[j] < a[i]:
			pos = b[j]
			inB = !inB
			j++
		default:
			pos = a[i]
			inA = !inA
			inB = !inB
			i++
			j++
		}
		if now := keep(inA, inB); now != in {
			out = append(out, pos)
			in = now
		}
	}
	return out
}

// Union returns s ∪ other.
func (s *Set) Union(other *Set) *Set {
	return &Set{endpoints: mergeScan(s.endpoints, other.endpoints, func(a, b bool) bool { return a || b })}
}

// Intersect returns s ∩ other.
func (s *Set) Intersect(other *Set) *Set {
	return &Set{endpoints: mergeScan(s.endpoints, other.endpoints, func(a, b bool) bool { return a && b })}
}

// Diff returns s ∖ other.
func (s *Set) Diff(other *Set) *Set {
	return &Set{endpoints: mergeScan(s.endpoints, other.endpoints, func(a, b bool) bool { return a && !b })}
}

// Xor returns the symmetric difference of s and other.
func (s *Set) Xor(other *Set) *Set {
	return &Set{endpoints: mergeScan(s.endpoints, other.endpoints, func(a, b bool) bool { return a != b })}
}

// Cover returns the single range [min, max] spanning the set, or an empty set
// if s is empty.
func (s *Set) Cover() *Set {
	if s.IsEmpty() {
		return NewSet()
	}
	return &Set{endpoints: []PosType{s.endpoints[0], s.endpoints[len(s.endpoints)-1]}}
}

// Fill closes every hole of at most n missing positions.  n <= 0 leaves the
// set unchanged.
func (s *Set) Fill(n int) *Set {
	out := make([]PosType, 0, len(s.endpoints))
	for i := 0; i < len(s.endpoints); i += 2 {
		if last := len(out) - 1; last > 0 && int64(s.endpoints[i])-int64(out[last]) <= int64(n) {
			out[last] = s.endpoints[i+1]
			continue
		}
		out = append(out, s.endpoints[i], s.endpoints[i+1])
	}
	return &Set{endpoints: out}
}

// Trim removes n positions from both ends of every range.  Ranges shorter
// than 2n+1 disappear.  A negative n grows the ranges instead (see Pad).
func (s *Set) Trim(n int) *Set {
	return s.inset(int64(n))
}

// Pad adds n positions to both ends of every range, merging ranges that come
// to overlap or touch.  A negative n shrinks the ranges instead (see Trim).
func (s *Set) Pad(n int) *Set {
	return s.inset(-int64(n))
}

func (s *Set) inset(n int64) *Set {
	out := NewSet()
	for _, sp := range s.Spans() {
		lo, hi := int64(sp.Lo)+n, int64(sp.Hi)-n
		if lo > hi {
			continue
		}
		out.AddRange(clampPos(lo), clampPos(hi))
	}
	return out
}

// Excise drops every range shorter than minLength.
func (s *Set) Excise(minLength int) *Set {
	out := make([]PosType, 0, len(s.endpoints))
	for i := 0; i < len(s.endpoints); i += 2 {
		if int(s.endpoints[i+1])-int(s.endpoints[i]) >= minLength {
			out = append(out, s.endpoints[i], s.endpoints[i+1])
		}
	}
	return &Set{endpoints: out}
}
