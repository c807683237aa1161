package runlist

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/tsv"
)

// GFFRecord is one feature line of a GFF3 file.  Start and End are one-based
// and closed.
type GFFRecord struct {
	SeqID      string
	Source     string
	Type       string
	Start      int
	End        int
	Score      string // "." when absent
	Strand     string
	Phase      string
	Attributes string
}

// ReadGFF reads the feature lines of a GFF3 stream.  Directives and comments
// ('#') are skipped, and reading stops at a "##FASTA" section.
func ReadGFF(r io.Reader) ([]GFFRecord, error) {
	scanner := tsv.NewReader(&gffFeatureReader{r: bufio.NewReaderSize(r, 64<<10)})
	scanner.Comment = '#'
	scanner.LazyQuotes = true
	var records []GFFRecord
	for {
		var rec GFFRecord
		if err := scanner.Read(&rec); err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.E(errors.Invalid, "runlist: malformed GFF", err)
		}
		if rec.Start > rec.End {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("runlist: GFF feature %s:%d-%d has start > end", rec.SeqID, rec.Start, rec.End))
		}
		records = append(records, rec)
	}
	return records, nil
}

// gffFeatureReader passes lines through until the "##FASTA" directive.
type gffFeatureReader struct {
	r    *bufio.Reader
	buf  []byte
	done bool
}

func (g *gffFeatureReader) Read(p []byte) (int, error) {
	for len(g.buf) == 0 {
		if g.done {
			return 0, io.EOF
		}
		line, err := g.r.ReadBytes('\n')
		if strings.HasPrefix(string(line), "##FASTA") {
			g.done = true
			return 0, io.EOF
		}
		g.buf = line
		if err == io.EOF {
			g.done = true
		} else if err != nil {
			return 0, err
		}
	}
	n := copy(p, g.buf)
	g.buf = g.buf[n:]
	return n, nil
}
