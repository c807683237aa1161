package op

import (
	"fmt"

	"github.com/biogo/store/step"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/runlist/interval"
	"github.com/grailbio/runlist/runlist"
)

// depth is the coverage count stored in a step.Vector.
type depth int

func (d depth) Equal(e step.Equaler) bool { return d == e.(depth) }

func incDepth(e step.Equaler) step.Equaler { return e.(depth) + 1 }

type bounds struct {
	lo, hi interval.PosType
}

// Coverage computes, for every key, the positions covered by at least threshold
// of the given ranges.  Overlapping ranges are counted separately, so with
// threshold 1 the result is the plain union of the ranges.
func Coverage(entries []interval.Entry, threshold int) (runlist.Map, error) {
	if threshold < 1 {
		return nil, errors.E(errors.Invalid, fmt.Sprintf("cover: coverage threshold must be at least 1, got %d", threshold))
	}
	var (
		order  []string
		extent = map[string]bounds{}
	)
	for _, e := range entries {
		b, ok := extent[e.ChrName]
		if !ok {
			order = append(order, e.ChrName)
			extent[e.ChrName] = bounds{e.Start, e.End}
			continue
		}
		if e.Start < b.lo {
			b.lo = e.Start
		}
		if e.End > b.hi {
			b.hi = e.End
		}
		extent[e.ChrName] = b
	}
	vectors := make(map[string]*step.Vector, len(order))
	for _, chr := range order {
		b := extent[chr]
		v, err := step.New(int(b.lo), int(b.hi)+1, depth(0))
		if err != nil {
			return nil, errors.E(fmt.Sprintf("cover: %s", chr), err)
		}
		vectors[chr] = v
	}
	for _, e := range entries {
		if err := vectors[e.ChrName].ApplyRange(int(e.Start), int(e.End)+1, incDepth); err != nil {
			return nil, errors.E(fmt.Sprintf("cover: %s", e.Line), err)
		}
	}
	m := runlist.Map{}
	for _, chr := range order {
		var spans []interval.Span
		vectors[chr].Do(func(start, end int, e step.Equaler) {
			if int(e.(depth)) >= threshold {
				spans = append(spans, interval.Span{Lo: interval.PosType(start), Hi: interval.PosType(end - 1)})
			}
		})
		m[chr] = interval.NewSetFromSpans(spans...)
	}
	log.Debug.Printf("cover: %d range(s) on %d key(s), threshold %d", len(entries), len(order), threshold)
	return m, nil
}

// Gff unions, per sequence, the features of records whose type (third column)
// equals featureType, or of every record if featureType is empty.
func Gff(records []runlist.GFFRecord, featureType string, remove bool) runlist.Map {
	m := runlist.Map{}
	for _, r := range records {
		if featureType != "" && r.Type != featureType {
			continue
		}
		s, ok := m[r.SeqID]
		if !ok {
			s = interval.NewSet()
			m[r.SeqID] = s
		}
		s.AddRange(interval.PosType(r.Start), interval.PosType(r.End))
	}
	if remove {
		m = TrimKeys(m)
	}
	return m
}
