package interval

import (
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoundTrip(t *testing.T) {
	for _, runlist := range []string{
		"-",
		"1",
		"1-5",
		"1-5,9,12,15-16,20",
		"28547-29194",
		"-5--2,0,3-4",
		"2147483646",
	} {
		s, err := Parse(runlist)
		require.NoError(t, err, runlist)
		checkInvariant(t, s)
		expect.EQ(t, s.String(), runlist)
	}
}

func TestParseCanonicalizes(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"", "-"},
		{"  ", "-"},
		{" 1 - 5 , 9 ", "1-5,9"},
		{"9,1-5", "1-5,9"},
		{"1-3,4-6", "1-6"},
		{"1-10,3-4", "1-10"},
		{"7,7,7", "7"},
		{"5-5", "5"},
	}
	for _, tt := range tests {
		s, err := Parse(tt.input)
		require.NoError(t, err, tt.input)
		expect.EQ(t, s.String(), tt.want, tt.input)
	}
}

func TestParseErrors(t *testing.T) {
	for _, runlist := range []string{
		"a",
		"1-b",
		"5-1",
		"1,,2",
		"1-",
		"1-5,",
		"--",
		"2147483647",
		"1-2-3",
	} {
		_, err := Parse(runlist)
		assert.Error(t, err, runlist)
		assert.True(t, errors.Is(errors.Invalid, err), "%s: %v", runlist, err)
	}
}

func TestMustParsePanics(t *testing.T) {
	assert.Panics(t, func() { MustParse("x") })
}
