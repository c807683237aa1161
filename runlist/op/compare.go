package op

import (
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/runlist/interval"
	"github.com/grailbio/runlist/runlist"
)

// cell addresses one set of a grouped collection.
type cell struct {
	group, key string
}

// eachCell evaluates fn over every (group, key) of cells in parallel and
// collects the results into a new grouped collection.
func eachCell(cells []cell, fn func(c cell) *interval.Set) (runlist.Groups, error) {
	results := make([]*interval.Set, len(cells))
	err := traverse.Each(len(cells), func(i int) error {
		results[i] = fn(cells[i])
		return nil
	})
	if err != nil {
		return nil, err
	}
	g := runlist.Groups{}
	for i, c := range cells {
		m, ok := g[c.group]
		if !ok {
			m = runlist.Map{}
			g[c.group] = m
		}
		m[c.key] = results[i]
	}
	return g, nil
}

// Compare folds o over docs, left to right, key by key.  The first document
// may be grouped, in which case every group is folded against the others;
// the remaining documents must be flat (a grouped document holding a single
// group is accepted).  Every operand is first filled up with the union of the
// keys of all the operands, so a missing key counts as an empty set.  The
// inputs are not modified.
func Compare(o SetOp, docs []*runlist.Document) (*runlist.Document, error) {
	if len(docs) < 2 {
		return nil, errors.E(errors.Invalid, fmt.Sprintf("compare: need at least two inputs, got %d", len(docs)))
	}
	first := docs[0].AsGroups()
	rest := make([]runlist.Map, len(docs)-1)
	all := []runlist.Groups{first}
	for i, d := range docs[1:] {
		m, err := d.FlatMap()
		if err != nil {
			return nil, errors.E(fmt.Sprintf("compare: input %d", i+2), err)
		}
		rest[i] = m
		all = append(all, runlist.Groups{runlist.SingleGroup: m})
	}
	keys := runlist.KeysUnion(all...)
	first = first.Clone()
	first.FillUp(keys)
	for i, m := range rest {
		rest[i] = m.Clone()
		rest[i].FillUp(keys)
	}
	var cells []cell
	for _, name := range first.Names() {
		for _, key := range keys {
			cells = append(cells, cell{name, key})
		}
	}
	g, err := eachCell(cells, func(c cell) *interval.Set {
		s := first[c.group][c.key]
		for _, m := range rest {
			s = o.Apply(s, m[c.key])
		}
		return s
	})
	if err != nil {
		return nil, err
	}
	for _, name := range first.Names() {
		if _, ok := g[name]; !ok {
			g[name] = runlist.Map{}
		}
	}
	log.Debug.Printf("compare: %s over %d input(s), %d key(s)", o, len(docs), len(keys))
	return docs[0].WithGroups(g), nil
}

// Span applies o, parameterized by n, to every set of d.  The result has the
// shape of d.
func Span(d *runlist.Document, o SpanOp, n int) (*runlist.Document, error) {
	groups := d.AsGroups()
	var cells []cell
	for _, name := range groups.Names() {
		for _, key := range groups[name].Keys() {
			cells = append(cells, cell{name, key})
		}
	}
	g, err := eachCell(cells, func(c cell) *interval.Set {
		return o.Apply(groups[c.group].Get(c.key), n)
	})
	if err != nil {
		return nil, err
	}
	for _, name := range groups.Names() {
		if _, ok := g[name]; !ok {
			g[name] = runlist.Map{}
		}
	}
	return d.WithGroups(g), nil
}
