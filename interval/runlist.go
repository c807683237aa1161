package interval

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/grailbio/base/errors"
)

// EmptyRunList is the run-list text of the empty set.
const EmptyRunList = "-"

// Parse parses a run list: a comma-separated list of tokens, each either a
// single integer or a closed range "lo-hi".  Whitespace is ignored, and both
// the empty string and EmptyRunList denote the empty set.  Negative numbers
// are written with a leading minus, e.g. "-5--2".
func Parse(runlist string) (*Set, error) {
	text := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, runlist)
	s := NewSet()
	if text == "" || text == EmptyRunList {
		return s, nil
	}
	for _, token := range strings.Split(text, ",") {
		lo, hi, err := parseToken(token)
		if err != nil {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("interval.Parse: run list %q", runlist), err)
		}
		s.AddRange(lo, hi)
	}
	return s, nil
}

func parseToken(token string) (lo, hi PosType, err error) {
	if token == "" {
		err = errors.E(errors.Invalid, "empty token")
		return
	}
	// A leading '-' is a sign, so look for the separator after it.
	sep := strings.IndexByte(token[1:], '-')
	if sep == -1 {
		if lo, err = parsePos(token); err != nil {
			return
		}
		return lo, lo, nil
	}
	sep++
	if lo, err = parsePos(token[:sep]); err != nil {
		return
	}
	if hi, err = parsePos(token[sep+1:]); err != nil {
		return
	}
	if lo > hi {
		err = errors.E(errors.Invalid, fmt.Sprintf("token %q: start is larger than end", token))
	}
	return
}

func parsePos(s string) (PosType, error) {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, errors.E(errors.Invalid, fmt.Sprintf("invalid position %q", s))
	}
	if n >= PosTypeMax {
		return 0, errors.E(errors.Invalid, fmt.Sprintf("position %q out of range", s))
	}
	return PosType(n), nil
}

// MustParse is like Parse, but panics on error.  It is meant for constants
// and tests.
func MustParse(runlist string) *Set {
	s, err := Parse(runlist)
	if err != nil {
		panic(err)
	}
	return s
}

// String renders the set in canonical run-list form: ascending
// comma-separated ranges, single positions bare, and EmptyRunList for the
// empty set.
func (s *Set) String() string {
	if s.IsEmpty() {
		return EmptyRunList
	}
	var b strings.Builder
	for i := 0; i < len(s.endpoints); i += 2 {
		if i > 0 {
			b.WriteByte(',')
		}
		lo, hi := s.endpoints[i], s.endpoints[i+1]-1
		b.WriteString(strconv.Itoa(int(lo)))
		if hi != lo {
			b.WriteByte('-')
			b.WriteString(strconv.Itoa(int(hi)))
		}
	}
	return b.String()
}
