package op

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/runlist/runlist"
)

// StatOpts configures Stat and StatOp.
type StatOpts struct {
	// All reports only the genome-wide aggregate, without per-chromosome rows.
	All bool
}

// table describes one statistics report: per-chromosome measures (set
// cardinalities) reported next to their coverage of the chromosome.
type table struct {
	sizes     runlist.Sizes
	groups    []string // nil for a flat report
	sizeCols  []string
	coverCols []string
	// measure returns one cardinality per size column.
	measure func(group, chr string) []int
}

func coverage(size, length int) string {
	if length <= 0 {
		return "0.0000"
	}
	return strconv.FormatFloat(float64(size)/float64(length), 'f', 4, 64)
}

func row(prefix []string, length int, sizes []int) string {
	fields := append([]string(nil), prefix...)
	fields = append(fields, strconv.Itoa(length))
	for _, n := range sizes {
		fields = append(fields, strconv.Itoa(n))
	}
	for _, n := range sizes {
		fields = append(fields, coverage(n, length))
	}
	return strings.Join(fields, ",")
}

func (t table) lines(opts StatOpts) []string {
	var header []string
	if t.groups != nil {
		header = append(header, "key")
	}
	if !opts.All {
		header = append(header, "chr")
	}
	header = append(header, "chrLength")
	header = append(header, t.sizeCols...)
	header = append(header, t.coverCols...)
	lines := []string{strings.Join(header, ",")}

	groups := t.groups
	if groups == nil {
		groups = []string{""}
	}
	for _, group := range groups {
		var prefix []string
		if t.groups != nil {
			prefix = []string{group}
		}
		totalLength := 0
		total := make([]int, len(t.sizeCols))
		for _, chr := range t.sizes.Keys() {
			length := t.sizes[chr]
			sizes := t.measure(group, chr)
			totalLength += length
			for i, n := range sizes {
				total[i] += n
			}
			if !opts.All {
				lines = append(lines, row(append(prefix, chr), length, sizes))
			}
		}
		if opts.All {
			lines = append(lines, row(prefix, totalLength, total))
		} else {
			lines = append(lines, row(append(prefix, "all"), totalLength, total))
		}
	}
	return lines
}

// Stat reports, for every chromosome of sizes, its length, the number of
// positions of d on it and their fraction of the chromosome, as CSV lines
// with a header.  Each group of a grouped document is reported separately,
// under a leading "key" column.  Keys of d that are absent from sizes are not
// reported.
func Stat(sizes runlist.Sizes, d *runlist.Document, opts StatOpts) []string {
	groups := d.AsGroups().Clone()
	groups.FillUp(sizes.Keys())
	t := table{
		sizes:     sizes,
		sizeCols:  []string{"size"},
		coverCols: []string{"coverage"},
		measure: func(group, chr string) []int {
			if group == "" {
				group = runlist.SingleGroup
			}
			return []int{groups[group][chr].Cardinality()}
		},
	}
	if d.Shape == runlist.Grouped {
		t.groups = groups.Names()
	}
	return t.lines(opts)
}

// StatOp reports, like Stat, the sizes of a, of b and of a <o> b.  a may be
// grouped; b must be flat.  Columns are named after a.Name, b.Name and o.
func StatOp(sizes runlist.Sizes, o SetOp, a, b Input, opts StatOpts) ([]string, error) {
	bm, err := b.Doc.FlatMap()
	if err != nil {
		return nil, errors.E(fmt.Sprintf("statop: %s", b.Name), err)
	}
	bm = bm.Clone()
	bm.FillUp(sizes.Keys())
	groups := a.Doc.AsGroups().Clone()
	groups.FillUp(sizes.Keys())
	t := table{
		sizes:     sizes,
		sizeCols:  []string{a.Name + "Length", b.Name + "Length", o.String() + "Length"},
		coverCols: []string{a.Name + "Coverage", b.Name + "Coverage", o.String() + "Coverage"},
		measure: func(group, chr string) []int {
			if group == "" {
				group = runlist.SingleGroup
			}
			sa, sb := groups[group][chr], bm[chr]
			return []int{sa.Cardinality(), sb.Cardinality(), o.Apply(sa, sb).Cardinality()}
		},
	}
	if a.Doc.Shape == runlist.Grouped {
		t.groups = groups.Names()
	}
	return t.lines(opts), nil
}
