package op

import (
	"fmt"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/runlist/interval"
	"github.com/grailbio/runlist/runlist"
)

// Input is a decoded document together with the name it was loaded under
// (usually the file stem).
type Input struct {
	Name string
	Doc  *runlist.Document
}

// Merge collects the inputs into one grouped collection.  A flat input becomes
// a group named after the input; a grouped input contributes each of its
// groups.  Two groups with the same name are an error.
func Merge(inputs []Input) (runlist.Groups, error) {
	merged := runlist.Groups{}
	add := func(name string, m runlist.Map, from string) error {
		if _, ok := merged[name]; ok {
			return errors.E(errors.Integrity, fmt.Sprintf("merge: group %q of %s is already defined", name, from))
		}
		merged[name] = m
		return nil
	}
	for _, in := range inputs {
		if in.Doc.Shape == runlist.Flat {
			if err := add(in.Name, in.Doc.Map, in.Name); err != nil {
				return nil, err
			}
			continue
		}
		for _, name := range in.Doc.Groups.Names() {
			if err := add(name, in.Doc.Groups[name], in.Name); err != nil {
				return nil, err
			}
		}
	}
	log.Debug.Printf("merge: %d input(s), %d group(s)", len(inputs), len(merged))
	return merged, nil
}

// Split is the inverse of Merge: it returns one flat map per group.  A flat
// input yields a single map named after the input.
func Split(in Input) runlist.Groups {
	if in.Doc.Shape == runlist.Flat {
		return runlist.Groups{in.Name: in.Doc.Map}
	}
	return in.Doc.Groups
}

// Combine unions, per key, the sets of every group of d.  A flat document is
// returned as is.
func Combine(d *runlist.Document) runlist.Map {
	if d.Shape == runlist.Flat {
		return d.Map
	}
	combined := runlist.Map{}
	for _, name := range d.Groups.Names() {
		for key, s := range d.Groups[name] {
			if prev, ok := combined[key]; ok {
				combined[key] = prev.Union(s)
			} else {
				combined[key] = s.Clone()
			}
		}
	}
	return combined
}

// Some keeps the top-level entries of d (keys of a flat document, groups of a
// grouped one) that are listed in names.  Names absent from d are ignored.
func Some(d *runlist.Document, names []string) *runlist.Document {
	want := make(map[string]bool, len(names))
	for _, name := range names {
		want[name] = true
	}
	if d.Shape == runlist.Grouped {
		g := runlist.Groups{}
		for name, m := range d.Groups {
			if want[name] {
				g[name] = m
			}
		}
		return runlist.NewGrouped(g)
	}
	m := runlist.Map{}
	for key, s := range d.Map {
		if want[key] {
			m[key] = s
		}
	}
	return runlist.NewFlat(m)
}

// TrimChrPrefix removes a leading "chr" or "chr0" (in any case) from a
// chromosome name: "chr01" -> "1", "ChrX" -> "X".
func TrimChrPrefix(name string) string {
	if len(name) <= 3 || !strings.EqualFold(name[:3], "chr") {
		return name
	}
	trimmed := name[3:]
	if len(trimmed) > 1 && trimmed[0] == '0' {
		trimmed = trimmed[1:]
	}
	return trimmed
}

// TrimKeys renames every key of m with TrimChrPrefix.  Keys that collapse onto
// the same name are unioned.
func TrimKeys(m runlist.Map) runlist.Map {
	trimmed := make(runlist.Map, len(m))
	for _, key := range m.Keys() {
		name := TrimChrPrefix(key)
		if prev, ok := trimmed[name]; ok {
			trimmed[name] = prev.Union(m[key])
		} else {
			trimmed[name] = m[key]
		}
	}
	return trimmed
}

// TrimDocumentKeys applies TrimKeys to every map of d.
func TrimDocumentKeys(d *runlist.Document) *runlist.Document {
	g := runlist.Groups{}
	for name, m := range d.AsGroups() {
		g[name] = TrimKeys(m)
	}
	return d.WithGroups(g)
}

// Genome returns the flat map holding, for every chromosome of sizes, the
// whole chromosome [1, length].  If remove is set, chromosome names go
// through TrimChrPrefix.
func Genome(sizes runlist.Sizes, remove bool) runlist.Map {
	m := runlist.Map{}
	for _, chr := range sizes.Keys() {
		s := interval.NewSet()
		if n := sizes[chr]; n > 0 {
			if n >= interval.PosTypeMax {
				n = interval.PosTypeMax - 1
			}
			s.AddRange(1, interval.PosType(n))
		}
		m[chr] = s
	}
	if remove {
		m = TrimKeys(m)
	}
	return m
}
