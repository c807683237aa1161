package cmd

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"v.io/x/lib/cmdline"
)

// run executes one bio-runlist command line and returns its standard output.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	env := &cmdline.Env{
		Stdin:  strings.NewReader(stdin),
		Stdout: &stdout,
		Stderr: &stderr,
		Vars:   map[string]string{},
	}
	err := cmdline.ParseAndRun(newRoot(), env, args)
	return stdout.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	stdout, err := run(t, "", args...)
	require.NoError(t, err, "%v", args)
	return stdout
}

func lines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

func TestGenome(t *testing.T) {
	stdout := mustRun(t, "genome", "testdata/chr.sizes")
	expect.EQ(t, stdout, "---\nI: 1-230218\nII: 1-813184\n")
}

func TestMergeSplit(t *testing.T) {
	stdout := mustRun(t, "merge", "testdata/I.yml", "testdata/II.yml")
	expect.EQ(t, len(lines(stdout)), 5)
	assert.Contains(t, stdout, "28547-29194")
	assert.Contains(t, stdout, "\nI:\n")
	assert.Contains(t, stdout, "\nII:\n")

	split, err := run(t, stdout, "split", "stdin")
	require.NoError(t, err)
	assert.Contains(t, split, "---\nI: ")
	assert.Contains(t, split, "---\nII: ")

	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	merged := filepath.Join(tempDir, "merged.yml")
	mustRun(t, "merge", "-o", merged, "testdata/I.yml", "testdata/II.yml")
	outDir := filepath.Join(tempDir, "split")
	expect.EQ(t, mustRun(t, "split", "-o", outDir, merged), "")
	data, err := ioutil.ReadFile(filepath.Join(outDir, "II.yml"))
	require.NoError(t, err)
	expect.EQ(t, string(data), "---\nII: 21294-22075,23000-24000\n")

	// A group that cannot be written removes the groups written before it.
	failDir := filepath.Join(tempDir, "fail")
	require.NoError(t, os.MkdirAll(filepath.Join(failDir, "II.yml", "busy"), 0755))
	_, err = run(t, "", "split", "-o", failDir, merged)
	require.Error(t, err)
	_, err = os.Stat(filepath.Join(failDir, "I.yml"))
	expect.True(t, os.IsNotExist(err))

	_, err = run(t, "", "merge", "testdata/I.yml", "testdata/I.yml")
	require.Error(t, err)
	expect.True(t, errors.Is(errors.Integrity, err))
}

func TestStat(t *testing.T) {
	stdout := mustRun(t, "stat", "testdata/chr.sizes", "testdata/I.yml")
	expect.EQ(t, lines(stdout), []string{
		"chr,chrLength,size,coverage",
		"I,230218,748,0.0032",
		"II,813184,0,0.0000",
		"all,1043402,748,0.0007",
	})

	stdout = mustRun(t, "stat", "-all", "testdata/chr.sizes", "testdata/I.yml")
	expect.EQ(t, len(lines(stdout)), 2)
	expect.EQ(t, len(strings.Split(lines(stdout)[1], ",")), 3)
	assert.NotContains(t, stdout, "all")

	stdout = mustRun(t, "stat", "testdata/chr.sizes", "testdata/Atha.yml")
	expect.EQ(t, lines(stdout)[0], "key,chr,chrLength,size,coverage")
	assert.Contains(t, stdout, "\nSpar,I,230218,101,")
}

func TestStatOp(t *testing.T) {
	stdout := mustRun(t, "statop", "testdata/chr.sizes", "testdata/intergenic.yml", "testdata/repeat.yml")
	assert.Contains(t, stdout, ",repeatLength,")
	assert.Contains(t, stdout, "\nI,230218,2001,5001,1002,")
	assert.Contains(t, stdout, "\nII,813184,101,151,51,")
	assert.Contains(t, stdout, "\nall,1043402,2102,5152,1053,")

	stdout = mustRun(t, "statop", "-all", "-op", "union", "testdata/chr.sizes", "testdata/intergenic.yml", "testdata/repeat.yml")
	assert.Contains(t, stdout, ",unionLength,")
	assert.NotContains(t, stdout, "\nI,")
	expect.EQ(t, len(strings.Split(lines(stdout)[1], ",")), 7)

	_, err := run(t, "", "statop", "-op", "invalid", "testdata/chr.sizes", "testdata/intergenic.yml", "testdata/repeat.yml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid IntSpan Op")
}

func TestCompareCombine(t *testing.T) {
	expect.EQ(t, mustRun(t, "compare", "testdata/intergenic.yml", "testdata/repeat.yml"),
		"---\nI: 500-1000,5000-5500\nII: 150-200\n")
	expect.EQ(t, mustRun(t, "compare", "-op", "union", "testdata/intergenic.yml", "testdata/repeat.yml"),
		"---\nI: 1-6000\nII: 100-300\n")
	expect.EQ(t, mustRun(t, "compare", "-op", "diff", "testdata/I.yml", "testdata/II.yml"),
		"---\nI: 1-100,28547-29194\nII: '-'\n")

	stdout := mustRun(t, "compare", "testdata/Atha.yml", "testdata/repeat.yml")
	assert.Contains(t, stdout, "S288c:\n")
	assert.Contains(t, stdout, "Spar:\n")

	_, err := run(t, "", "compare", "-op", "invalid", "testdata/I.yml", "testdata/II.yml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid IntSpan Op")

	expect.EQ(t, mustRun(t, "combine", "testdata/Atha.yml"), "---\nI: 1-150\nII: 5-10\n")
	expect.EQ(t, mustRun(t, "combine", "testdata/II.yml"), "---\nII: 21294-22075,23000-24000\n")
}

func TestSpan(t *testing.T) {
	expect.EQ(t, mustRun(t, "span", "testdata/intergenic.yml"), "---\nI: 1-6000\nII: 100-200\n")
	expect.EQ(t, mustRun(t, "span", "-op", "fill", "-n", "4000", "testdata/intergenic.yml"),
		"---\nI: 1-6000\nII: 100-200\n")
	expect.EQ(t, mustRun(t, "span", "-op", "fill", "-n", "3998", "testdata/intergenic.yml"),
		"---\nI: 1-1000,5000-6000\nII: 100-200\n")
	expect.EQ(t, mustRun(t, "span", "-op", "trim", "-n", "10", "testdata/II.yml"),
		"---\nII: 21304-22065,23010-23990\n")
	expect.EQ(t, mustRun(t, "span", "-op", "excise", "-n", "1000", "testdata/II.yml"),
		"---\nII: 23000-24000\n")

	_, err := run(t, "", "span", "-op", "invalid", "testdata/II.yml")
	require.Error(t, err)
	expect.True(t, errors.Is(errors.NotSupported, err))
	assert.Contains(t, err.Error(), "Invalid IntSpan Op")
}

func TestCover(t *testing.T) {
	stdout := mustRun(t, "cover", "testdata/ranges.txt")
	expect.EQ(t, stdout, "---\nI: 1-150\n")
	assert.NotContains(t, stdout, "S288c")

	expect.EQ(t, mustRun(t, "cover", "-c", "2", "testdata/ranges.txt"), "---\nI: 50-100\n")

	stdout, err := run(t, "infile_0/1/0_514:19-499\n", "cover", "stdin")
	require.NoError(t, err)
	expect.EQ(t, stdout, "---\ninfile_0/1/0_514: 19-499\n")
}

func TestGff(t *testing.T) {
	expect.EQ(t, mustRun(t, "gff", "-tag", "CDS", "-remove", "testdata/yeast.gff"), "---\nI: 335-792\n")
	expect.EQ(t, mustRun(t, "gff", "testdata/yeast.gff"), "---\nchrI: 335-792\nchrII: 9583-10563\n")
}

func TestConvertSome(t *testing.T) {
	expect.EQ(t, mustRun(t, "convert", "testdata/repeat.yml"), "I:500-5500\nII:150-300\n")
	expect.EQ(t, mustRun(t, "convert", "-tsv", "testdata/repeat.yml"), "I\t500\t5500\nII\t150\t300\n")
	assert.Contains(t, mustRun(t, "convert", "testdata/Atha.yml"), "Spar.I:50-150\n")

	expect.EQ(t, mustRun(t, "some", "testdata/Atha.yml", "testdata/list.txt"), "---\nSpar:\n  I: 50-150\n")
	stdout, err := run(t, "II\n", "some", "testdata/intergenic.yml", "stdin")
	require.NoError(t, err)
	expect.EQ(t, stdout, "---\nII: 100-200\n")
}

func TestRange(t *testing.T) {
	expect.EQ(t, mustRun(t, "range", "-op", "superset", "testdata/II.yml", "testdata/query.txt"),
		"II:21294-22075\nS288c.II(+):21500-21600\n")
	expect.EQ(t, mustRun(t, "range", "testdata/II.yml", "testdata/query.txt"),
		"II:21294-22075\nII:21000-21300\nS288c.II(+):21500-21600\n")
	expect.EQ(t, mustRun(t, "range", "-op", "non-overlap", "testdata/II.yml", "testdata/query.txt"),
		"I:1-10\n")

	_, err := run(t, "", "range", "-op", "invalid", "testdata/II.yml", "testdata/query.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid Range Op")

	_, err = run(t, "", "range", "testdata/Atha.yml", "testdata/query.txt")
	require.Error(t, err)
	expect.True(t, errors.Is(errors.Integrity, err))
}

func TestErrors(t *testing.T) {
	_, err := run(t, "", "genome", "testdata/missing.sizes")
	require.Error(t, err)
	expect.True(t, errors.Is(errors.NotExist, err))

	_, err = run(t, "I: 1-5\nS288c:\n  I: 1\n", "combine", "stdin")
	require.Error(t, err)
	expect.True(t, errors.Is(errors.Integrity, err))

	_, err = run(t, "I: 5-1\n", "combine", "stdin")
	require.Error(t, err)
	expect.True(t, errors.Is(errors.Invalid, err))

	_, err = run(t, "", "compare", "testdata/I.yml")
	assert.Error(t, err)
}
