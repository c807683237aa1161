package interval

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	gunsafe "github.com/grailbio/base/unsafe"
)

// Entry represents a single raw range record, with one-based closed
// coordinates.  Entries are not merged; overlapping entries are kept apart so
// that coverage depth can be computed from them.
type Entry struct {
	// ChrName is the key (chromosome/sequence name) the range belongs to.
	ChrName string
	// Name is the optional species/sample prefix of a region string
	// ("S288c" in "S288c.I(+):1-100"), or the optional fourth column of a
	// tabular record.
	Name string
	// Strand is the optional strand of a region string; empty if absent.
	Strand string
	Start  PosType
	End    PosType
	// Line is the record exactly as it was read.
	Line string
}

// ReadEntriesOpts defines behavior of ReadEntries.
type ReadEntriesOpts struct {
	// BED interprets tabular records as zero-based [start, end) instead of the
	// usual one-based [start, end].
	BED bool
}

// getTokens identifies up to the first len(tokens) tokens from curLine,
// returning the number of tokens saved.  Any (group of) characters <= ' ' is
// treated as a delimiter.
func getTokens(tokens [][]byte, curLine []byte) int {
	posEnd := 0
	lineLen := len(curLine)
	for tokenIdx := range tokens {
		pos := posEnd
		for ; pos != lineLen; pos++ {
			if curLine[pos] > ' ' {
				break
			}
		}
		if pos == lineLen {
			return tokenIdx
		}
		posEnd = pos
		for ; posEnd != lineLen; posEnd++ {
			if curLine[posEnd] <= ' ' {
				break
			}
		}
		tokens[tokenIdx] = curLine[pos:posEnd]
	}
	return len(tokens)
}

// ParseRegionString parses a region string of one of the forms
//   [name.]chr[(strand)]:start-end
//   [name.]chr[(strand)]:pos
// e.g. "S288c.I(+):1-100", "II:21294-22075" or "infile_0/1/0_514:19-499".
// Coordinates are one-based and closed.  The species/sample name ends at the
// first '.', so chromosome names containing '.' must be given without one.
func ParseRegionString(region string) (result Entry, err error) {
	result.Line = region
	colonPos := strings.LastIndexByte(region, ':')
	if colonPos == -1 {
		err = fmt.Errorf("interval.ParseRegionString: no ':' in region string %q", region)
		return
	}
	chr := region[:colonPos]
	if n := len(chr); n > 0 && chr[n-1] == ')' {
		if open := strings.LastIndexByte(chr, '('); open != -1 {
			result.Strand = chr[open+1 : n-1]
			chr = chr[:open]
		}
	}
	if dotPos := strings.IndexByte(chr, '.'); dotPos != -1 {
		result.Name = chr[:dotPos]
		chr = chr[dotPos+1:]
	}
	if chr == "" {
		err = fmt.Errorf("interval.ParseRegionString: empty contig ID in %q", region)
		return
	}
	result.ChrName = chr
	rangeStr := region[colonPos+1:]
	dashPos := strings.IndexByte(rangeStr, '-')
	if dashPos == -1 {
		var pos PosType
		if pos, err = parsePos(rangeStr); err != nil {
			return
		}
		result.Start, result.End = pos, pos
		return
	}
	if result.Start, err = parsePos(rangeStr[:dashPos]); err != nil {
		return
	}
	if result.End, err = parsePos(rangeStr[dashPos+1:]); err != nil {
		return
	}
	if result.End < result.Start {
		err = fmt.Errorf("interval.ParseRegionString: invalid range string %v", rangeStr)
	}
	return
}

// parseTabular parses "chr start end [name]" tokens.
func parseTabular(tokens [][]byte, opts ReadEntriesOpts) (result Entry, err error) {
	result.ChrName = string(tokens[0])
	var parsedStart, parsedEnd int
	if parsedStart, err = strconv.Atoi(gunsafe.BytesToString(tokens[1])); err != nil {
		return
	}
	if parsedEnd, err = strconv.Atoi(gunsafe.BytesToString(tokens[2])); err != nil {
		return
	}
	if opts.BED {
		// [start0, end) -> [start0+1, end]
		parsedStart++
	}
	if (parsedEnd < parsedStart) || (parsedEnd >= PosTypeMax) || (parsedStart <= PosTypeMin) {
		err = fmt.Errorf("invalid coordinate pair [%d, %d]", parsedStart, parsedEnd)
		return
	}
	result.Start = PosType(parsedStart)
	result.End = PosType(parsedEnd)
	if len(tokens) > 3 {
		result.Name = string(tokens[3])
	}
	return
}

// ReadEntries loads raw range records, one per line, in either region-string
// form (see ParseRegionString) or whitespace-separated tabular form
// "chr start end [name]".  Blank lines and lines starting with '#' are
// skipped.  Any malformed record fails the whole read.
func ReadEntries(reader io.Reader, opts ReadEntriesOpts) ([]Entry, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(nil, 1<<20)
	var (
		tokens  [4][]byte
		entries []Entry
	)
	lineIdx := 0
	for scanner.Scan() {
		lineIdx++
		curLine := scanner.Bytes()
		nToken := getTokens(tokens[:], curLine)
		if nToken == 0 || tokens[0][0] == '#' {
			continue
		}
		var (
			entry Entry
			err   error
		)
		switch {
		case nToken == 1:
			entry, err = ParseRegionString(string(tokens[0]))
		case nToken >= 3:
			entry, err = parseTabular(tokens[:nToken], opts)
		default:
			err = fmt.Errorf("expected a region string or at least 3 columns, got %d", nToken)
		}
		if err != nil {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("interval.ReadEntries: line %d", lineIdx), err)
		}
		entry.Line = strings.TrimSpace(string(curLine))
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.E(err, "interval.ReadEntries")
	}
	log.Debug.Printf("interval.ReadEntries: %d range(s) loaded", len(entries))
	return entries, nil
}

// String renders the entry as a region string "chr:start-end".
func (e Entry) String() string {
	return fmt.Sprintf("%s:%d-%d", e.ChrName, e.Start, e.End)
}
