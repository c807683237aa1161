package runlist

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
)

// Sizes maps chromosome names to their lengths.  It defines the universe of
// keys for fill-up and the denominators for coverage statistics.
type Sizes map[string]int

// Keys returns the chromosome names in lexicographic order.
func (s Sizes) Keys() []string {
	keys := make([]string, 0, len(s))
	for key := range s {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

type sizeRecord struct {
	Chrom  string
	Length int
}

// ReadSizes reads a chromosome-size table: one "name<TAB>length" record per
// line.  Lines starting with '#' are ignored.  A repeated name keeps its last
// length.
func ReadSizes(r io.Reader) (Sizes, error) {
	scanner := tsv.NewReader(bufio.NewReaderSize(r, 64<<10))
	scanner.Comment = '#'
	scanner.LazyQuotes = true
	sizes := Sizes{}
	var rec sizeRecord
	for {
		if err := scanner.Read(&rec); err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.E(errors.Invalid, "runlist: malformed size table", err)
		}
		if rec.Chrom == "" || rec.Length < 0 {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("runlist: invalid size record %q %d", rec.Chrom, rec.Length))
		}
		sizes[rec.Chrom] = rec.Length
	}
	return sizes, nil
}

// ReadSizesPath reads the size table stored at path (or stdin, see Open).
func ReadSizesPath(ctx context.Context, path string, stdin io.Reader) (Sizes, error) {
	in, err := Open(ctx, path, stdin)
	if err != nil {
		return nil, err
	}
	sizes, err := ReadSizes(in)
	if err != nil {
		in.Close() // nolint: errcheck
		return nil, errors.E(err, path)
	}
	if err := in.Close(); err != nil {
		return nil, err
	}
	log.Debug.Printf("%s: %d chromosome size(s)", path, len(sizes))
	return sizes, nil
}
