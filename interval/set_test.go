package interval

import (
	"math/rand"
	"testing"

	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkInvariant verifies that the endpoints are strictly increasing, i.e.
// the ranges are sorted, disjoint and non-adjacent.
func checkInvariant(t *testing.T, s *Set) {
	t.Helper()
	require.True(t, len(s.endpoints)%2 == 0, "odd endpoint count: %v", s.endpoints)
	for i := 1; i < len(s.endpoints); i++ {
		require.True(t, s.endpoints[i-1] < s.endpoints[i], "endpoints not increasing: %v", s.endpoints)
	}
}

func TestBuilder(t *testing.T) {
	s := NewSet().AddRange(1, 5)
	expect.EQ(t, s.String(), "1-5")
	expect.False(t, s.IsEmpty())
	expect.EQ(t, s.SpanSize(), 1)
	expect.EQ(t, s.Cardinality(), 5)

	s.AddValue(9).AddValues(12, 16, 15, 15, 20)
	checkInvariant(t, s)
	expect.EQ(t, s.String(), "1-5,9,12,15-16,20")
	expect.EQ(t, s.Cardinality(), 10)
	expect.EQ(t, s.SpanSize(), 5)
	expect.False(t, s.IsEmpty())
	expect.EQ(t, s.Spans(), []Span{{1, 5}, {9, 9}, {12, 12}, {15, 16}, {20, 20}})

	min, ok := s.Min()
	expect.True(t, ok)
	expect.EQ(t, min, PosType(1))
	max, ok := s.Max()
	expect.True(t, ok)
	expect.EQ(t, max, PosType(20))
}

func TestEndpointIndex(t *testing.T) {
	endpoints := []PosType{5, 17, 20, 25}
	tests := []struct {
		pos       PosType
		contained bool
		begin     EndpointIndex
		finished  bool
	}{
		{1, false, 0, false},
		{5, true, 0, false},
		{16, true, 0, false},
		{17, false, 2, false},
		{22, true, 2, false},
		{24, true, 2, false},
		{25, false, 4, true},
	}
	for _, tt := range tests {
		ei := NewEndpointIndex(tt.pos, endpoints)
		expect.EQ(t, ei.Contained(), tt.contained, "pos=%d", tt.pos)
		expect.EQ(t, ei.Begin(), tt.begin, "pos=%d", tt.pos)
		expect.EQ(t, ei.Finished(endpoints), tt.finished, "pos=%d", tt.pos)
	}
}

func TestAddRange(t *testing.T) {
	tests := []struct {
		start string
		lo    PosType
		hi    PosType
		want  string
	}{
		{"-", 1, 5, "1-5"},
		{"5-9", 10, 12, "5-12"},
		{"5-9", 2, 4, "2-9"},
		{"5-9", 20, 25, "5-9,20-25"},
		{"5-9", 1, 2, "1-2,5-9"},
		{"5-9", 6, 7, "5-9"},
		{"5-9", 3, 11, "3-11"},
		{"1-3,5-7,9-11", 4, 8, "1-11"},
		{"1-3,7-9,20-30", 5, 5, "1-3,5,7-9,20-30"},
		{"1-3,7-9,20-30", 4, 6, "1-9,20-30"},
		{"1-3,7-9,20-30", 8, 19, "1-3,7-30"},
		{"5-9", 7, 3, "5-9"},
		{"-", -5, -2, "-5--2"},
	}
	for _, tt := range tests {
		s := MustParse(tt.start)
		s.AddRange(tt.lo, tt.hi)
		checkInvariant(t, s)
		expect.EQ(t, s.String(), tt.want, "start=%s add=%d-%d", tt.start, tt.lo, tt.hi)
	}
}

func TestContains(t *testing.T) {
	s := MustParse("1-5,9,12,15-16,20")
	for _, n := range []PosType{1, 3, 5, 9, 12, 15, 16, 20} {
		expect.True(t, s.Contains(n), "n=%d", n)
	}
	for _, n := range []PosType{-1, 0, 6, 8, 10, 13, 17, 21, PosTypeMax} {
		expect.False(t, s.Contains(n), "n=%d", n)
	}
	expect.False(t, NewSet().Contains(0))
}

func TestOverlapsSuperset(t *testing.T) {
	s := MustParse("21294-22075,30000-30010")
	tests := []struct {
		lo, hi             PosType
		overlaps, superset bool
	}{
		{21294, 22075, true, true},
		{21300, 21400, true, true},
		{21000, 21294, true, false},
		{22075, 23000, true, false},
		{1, 100, false, false},
		{22076, 29999, false, false},
		{22000, 30005, true, false},
		{30010, 30010, true, true},
		{40000, 40010, false, false},
	}
	for _, tt := range tests {
		expect.EQ(t, s.Overlaps(tt.lo, tt.hi), tt.overlaps, "%d-%d", tt.lo, tt.hi)
		expect.EQ(t, s.Superset(tt.lo, tt.hi), tt.superset, "%d-%d", tt.lo, tt.hi)
	}
}

func TestAlgebra(t *testing.T) {
	a := MustParse("1-10,20-30,35")
	b := MustParse("5-22,30-40")
	tests := []struct {
		name string
		got  *Set
		want string
	}{
		{"union", a.Union(b), "1-40"},
		{"intersect", a.Intersect(b), "5-10,20-22,30,35"},
		{"diff", a.Diff(b), "1-4,23-29"},
		{"diff reversed", b.Diff(a), "11-19,31-34,36-40"},
		{"xor", a.Xor(b), "1-4,11-19,23-29,31-34,36-40"},
		{"union adjacent", MustParse("1-5").Union(MustParse("6-9")), "1-9"},
		{"intersect disjoint", MustParse("1-5").Intersect(MustParse("6-9")), "-"},
		{"union empty", a.Union(NewSet()), "1-10,20-30,35"},
		{"intersect empty", a.Intersect(NewSet()), "-"},
		{"diff empty", NewSet().Diff(a), "-"},
	}
	for _, tt := range tests {
		checkInvariant(t, tt.got)
		expect.EQ(t, tt.got.String(), tt.want, tt.name)
	}
	// Operands are left untouched.
	expect.EQ(t, a.String(), "1-10,20-30,35")
	expect.EQ(t, b.String(), "5-22,30-40")
}

func randomSet(r *rand.Rand) *Set {
	s := NewSet()
	for i := r.Intn(8); i > 0; i-- {
		lo := PosType(r.Intn(200))
		s.AddRange(lo, lo+PosType(r.Intn(20)))
	}
	return s
}

// bruteForce evaluates keep over every position in [-1, 250].
func bruteForce(a, b *Set, keep func(bool, bool) bool) *Set {
	out := NewSet()
	for n := PosType(-1); n <= 250; n++ {
		if keep(a.Contains(n), b.Contains(n)) {
			out.AddValue(n)
		}
	}
	return out
}

func TestAlgebraLaws(t *testing.T) {
	r := rand.New(rand.NewSource(0))
	for iter := 0; iter < 200; iter++ {
		s, u, v := randomSet(r), randomSet(r), randomSet(r)
		checkInvariant(t, s)

		assert.True(t, s.Union(s).Equal(s))
		assert.True(t, s.Union(u).Equal(u.Union(s)))
		assert.True(t, s.Intersect(u).Equal(u.Intersect(s)))
		assert.True(t, s.Union(u).Union(v).Equal(s.Union(u.Union(v))))
		assert.True(t, s.Intersect(u).Intersect(v).Equal(s.Intersect(u.Intersect(v))))
		assert.True(t, s.Diff(s).IsEmpty())
		assert.True(t, s.Xor(s).IsEmpty())
		assert.True(t, s.Union(u.Diff(s)).Equal(s.Union(u)))
		assert.True(t, s.Xor(u).Equal(s.Union(u).Diff(s.Intersect(u))))

		assert.Equal(t, bruteForce(s, u, func(a, b bool) bool { return a || b }).String(), s.Union(u).String())
		assert.Equal(t, bruteForce(s, u, func(a, b bool) bool { return a && b }).String(), s.Intersect(u).String())
		assert.Equal(t, bruteForce(s, u, func(a, b bool) bool { return a && !b }).String(), s.Diff(u).String())
		assert.Equal(t, bruteForce(s, u, func(a, b bool) bool { return a != b }).String(), s.Xor(u).String())

		for _, got := range []*Set{s.Union(u), s.Intersect(u), s.Diff(u), s.Xor(u), s.Fill(3), s.Trim(2), s.Pad(3), s.Excise(4)} {
			checkInvariant(t, got)
		}
		assert.True(t, s.Fill(0).Equal(s))
		assert.True(t, s.Pad(0).Equal(s))
		assert.True(t, s.Trim(0).Equal(s))
	}
}

func TestSpanTransforms(t *testing.T) {
	s := MustParse("1-100,1001-1100,2201-2300")
	tests := []struct {
		name string
		got  *Set
		want string
	}{
		{"cover", s.Cover(), "1-2300"},
		{"cover empty", NewSet().Cover(), "-"},
		// Holes are 900 and 1100 positions wide.
		{"fill 1000", s.Fill(1000), "1-1100,2201-2300"},
		{"fill 1100", s.Fill(1100), "1-2300"},
		{"fill 899", s.Fill(899), "1-100,1001-1100,2201-2300"},
		{"fill negative", s.Fill(-5), "1-100,1001-1100,2201-2300"},
		{"trim 10", s.Trim(10), "11-90,1011-1090,2211-2290"},
		{"trim 49", s.Trim(49), "50-51,1050-1051,2250-2251"},
		{"trim 50", s.Trim(50), "-"},
		{"trim negative", s.Trim(-450), "-449-1550,1751-2750"},
		{"pad 10", s.Pad(10), "-9-110,991-1110,2191-2310"},
		{"pad 450", s.Pad(450), "-449-1550,1751-2750"},
		{"pad negative", s.Pad(-10), "11-90,1011-1090,2211-2290"},
		{"excise 100", s.Excise(100), "1-100,1001-1100,2201-2300"},
		{"excise 101", s.Excise(101), "-"},
		{"excise 0", MustParse("1,3-4").Excise(0), "1,3-4"},
		{"excise 2", MustParse("1,3-4").Excise(2), "3-4"},
	}
	for _, tt := range tests {
		checkInvariant(t, tt.got)
		expect.EQ(t, tt.got.String(), tt.want, tt.name)
	}
}

func TestClone(t *testing.T) {
	s := MustParse("1-5")
	c := s.Clone()
	c.AddValue(10)
	expect.EQ(t, s.String(), "1-5")
	expect.EQ(t, c.String(), "1-5,10")
	expect.True(t, NewSetFromSpans(Span{10, 10}, Span{1, 5}, Span{3, 2}).Equal(c))
}

func TestExtremes(t *testing.T) {
	s := NewSet().AddRange(PosTypeMax-10, PosTypeMax-1)
	checkInvariant(t, s)
	expect.EQ(t, s.Cardinality(), 10)
	expect.True(t, s.Contains(PosTypeMax-1))
	s.AddRange(PosTypeMax-20, PosTypeMax-11)
	expect.EQ(t, s.SpanSize(), 1)
	expect.EQ(t, s.Pad(5).Cardinality(), 25)
}
