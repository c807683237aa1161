package interval

import (
	"math"
	"sort"
)

// This file includes support datatypes and functions for representing an
// interval-union as a []PosType containing a sorted sequence of
// interval-endpoints.
//
// For example, given the one-based closed ranges
//   5-14
//   7-16
//   20-24
// the interval-union would be
//   5-16,20-24
// so the sorted sequence of half-open endpoints would be
//   {5, 17, 20, 25}.
//
// Element [2k] is the first position of range #k and element [2k+1] is one
// past its last position.  The sequence is strictly increasing, which means
// that two ranges never overlap and never touch.

// PosType is the type used to represent interval coordinates.  int32 should be
// wide enough for some time to come, since that's what BAM is limited to.
type PosType int32

const (
	// PosTypeMax is the maximum value that can be represented by a PosType.
	PosTypeMax = math.MaxInt32
	// PosTypeMin is the minimum value that can be represented by a PosType.
	PosTypeMin = math.MinInt32
)

// clampPos saturates x to the range of positions a Set can hold.  The last
// position must leave room for its half-open end.
func clampPos(x int64) PosType {
	if x > PosTypeMax-1 {
		return PosTypeMax - 1
	}
	if x < PosTypeMin {
		return PosTypeMin
	}
	return PosType(x)
}

// SearchPosTypes returns the index of x in a[], or the position where x would
// be inserted if x isn't in a (this could be len(a)).  It's exactly the same
// as sort.SearchInts(), except for PosType.
func SearchPosTypes(a []PosType, x PosType) EndpointIndex {
	return EndpointIndex(sort.Search(len(a), func(i int) bool { return a[i] >= x }))
}

// EndpointIndex is intended to represent the result of
// SearchPosTypes(endpoints, pos+1).
// NOTE THE "+1"!  This is necessary to get SearchPosTypes to line up with our
// left-closed right-open endpoints.
type EndpointIndex uint32

// NewEndpointIndex returns an EndpointIndex initialized to
// SearchPosTypes(endpoints, pos+1).
func NewEndpointIndex(pos PosType, endpoints []PosType) EndpointIndex {
	return SearchPosTypes(endpoints, pos+1)
}

// Contained returns whether we're inside an interval.
func (ei EndpointIndex) Contained() bool {
	return ei&1 != 0
}

// Finished returns whether we're past all the intervals.
func (ei EndpointIndex) Finished(endpoints []PosType) bool {
	return ei >= EndpointIndex(len(endpoints))
}

// Begin returns:
// - the index for the beginning of the current interval, if we're inside an
//   interval
// - otherwise, the index for the beginning of the next interval
func (ei EndpointIndex) Begin() EndpointIndex {
	return ei & (^EndpointIndex(1))
}
