package op

import (
	"fmt"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/runlist/interval"
	"github.com/grailbio/runlist/runlist"
)

// Range returns, in input order, the entries that satisfy o against the set
// of their key in m.  A key absent from m is an empty set.
func Range(m runlist.Map, entries []interval.Entry, o RangeOp) []interval.Entry {
	var kept []interval.Entry
	for _, e := range entries {
		if o.Match(m.Get(e.ChrName), e.Start, e.End) {
			kept = append(kept, e)
		}
	}
	return kept
}

// Convert renders every range of d as a region string "key:lo-hi", keys in
// lexicographic order.  Ranges of a grouped document are prefixed with
// "group.".
func Convert(d *runlist.Document) []string {
	var lines []string
	each(d, func(group, key string, lo, hi interval.PosType) {
		if group != "" {
			key = group + "." + key
		}
		lines = append(lines, fmt.Sprintf("%s:%d-%d", key, lo, hi))
	})
	return lines
}

// ConvertTSV writes every range of d as a tab-separated "key lo hi" record,
// preceded by the group name for a grouped document.
func ConvertTSV(w io.Writer, d *runlist.Document) error {
	out := tsv.NewWriter(w)
	each(d, func(group, key string, lo, hi interval.PosType) {
		if group != "" {
			out.WriteString(group)
		}
		out.WriteString(key)
		out.WriteInt64(int64(lo))
		out.WriteInt64(int64(hi))
		out.EndLine() // nolint: errcheck
	})
	if err := out.Flush(); err != nil {
		return errors.E(err, "convert")
	}
	return nil
}

// each visits the ranges of d in output order.  group is empty for a flat
// document.
func each(d *runlist.Document, fn func(group, key string, lo, hi interval.PosType)) {
	groups := d.AsGroups()
	for _, name := range groups.Names() {
		group := name
		if d.Shape == runlist.Flat {
			group = ""
		}
		m := groups[name]
		for _, key := range m.Keys() {
			for _, sp := range m.Get(key).Spans() {
				fn(group, key, sp.Lo, sp.Hi)
			}
		}
	}
}
