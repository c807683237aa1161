// Package runlist holds named collections of interval.Sets, the run-list
// documents they are loaded from and stored to, and the chromosome-size
// tables used to complete them.
package runlist

import (
	"sort"

	"github.com/grailbio/runlist/interval"
)

// Map is a collection of sets keyed by chromosome (or sequence) name.
type Map map[string]*interval.Set

// Keys returns the keys of m in lexicographic order.
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// FillUp inserts an empty set for every key of universe absent from m.
// Existing entries are never touched.
func (m Map) FillUp(universe []string) {
	for _, key := range universe {
		if _, ok := m[key]; !ok {
			m[key] = interval.NewSet()
		}
	}
}

// Get returns the set stored under key, or an empty set if there is none.
func (m Map) Get(key string) *interval.Set {
	if s, ok := m[key]; ok && s != nil {
		return s
	}
	return interval.NewSet()
}

// Clone returns a deep copy of m.  Nil sets are copied as empty sets.
func (m Map) Clone() Map {
	c := make(Map, len(m))
	for key := range m {
		c[key] = m.Get(key).Clone()
	}
	return c
}

// SingleGroup is the name of the implicit group a flat document is viewed
// under when it takes part in a grouped computation.
const SingleGroup = "__single"

// Groups is a two-level collection: group (species/sample) name -> Map.
type Groups map[string]Map

// Names returns the group names in lexicographic order.
func (g Groups) Names() []string {
	names := make([]string, 0, len(g))
	for name := range g {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Keys returns the union of the keys of every group, in lexicographic order.
func (g Groups) Keys() []string {
	return KeysUnion(g)
}

// Clone returns a deep copy of g.
func (g Groups) Clone() Groups {
	c := make(Groups, len(g))
	for name, m := range g {
		c[name] = m.Clone()
	}
	return c
}

// FillUp calls Map.FillUp(universe) on every group.
func (g Groups) FillUp(universe []string) {
	for _, m := range g {
		m.FillUp(universe)
	}
}

// KeysUnion returns the sorted set of keys appearing in any group of any of
// the given collections.
func KeysUnion(groups ...Groups) []string {
	seen := map[string]bool{}
	for _, g := range groups {
		for _, m := range g {
			for key := range m {
				seen[key] = true
			}
		}
	}
	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
