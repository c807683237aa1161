package runlist

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/log"
	"github.com/klauspost/compress/gzip"
)

const (
	// Stdin is the input path that denotes the standard input.
	Stdin = "stdin"
	// Stdout is the output path that denotes the standard output.
	Stdout = "stdout"
)

// Input is an opened input path.  Compressed files (by extension) are
// decompressed transparently.
type Input struct {
	io.Reader
	ctx  context.Context
	path string
	f    file.File
	u    io.Reader
}

// Open opens path for reading.  If path is Stdin, stdin is returned instead.
func Open(ctx context.Context, path string, stdin io.Reader) (*Input, error) {
	if path == Stdin {
		return &Input{Reader: stdin, ctx: ctx, path: path}, nil
	}
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, ioError(path, err)
	}
	in := &Input{ctx: ctx, path: path, f: f}
	in.Reader = f.Reader(ctx)
	if u := compress.NewReaderPath(in.Reader, f.Name()); u != nil {
		in.u = u
		in.Reader = u
	}
	return in, nil
}

// Close releases the resources held by the input.  Closing Stdin is a no-op.
func (in *Input) Close() error {
	if in.f == nil {
		return nil
	}
	if c, ok := in.u.(io.Closer); ok {
		if err := c.Close(); err != nil {
			in.f.Close(in.ctx) // nolint: errcheck
			return errors.E(err, in.path)
		}
	}
	if err := in.f.Close(in.ctx); err != nil {
		return errors.E(err, in.path)
	}
	return nil
}

// Output is an opened output path.  Paths ending in ".gz" are gzipped.
type Output struct {
	io.Writer
	ctx  context.Context
	path string
	f    file.File
	gz   *gzip.Writer
}

// Create opens path for writing.  If path is Stdout, stdout is returned
// instead.  The file only becomes visible once Close succeeds.
func Create(ctx context.Context, path string, stdout io.Writer) (*Output, error) {
	if path == Stdout {
		return &Output{Writer: stdout, ctx: ctx, path: path}, nil
	}
	f, err := file.Create(ctx, path)
	if err != nil {
		return nil, ioError(path, err)
	}
	out := &Output{ctx: ctx, path: path, f: f}
	out.Writer = f.Writer(ctx)
	if fileio.DetermineType(path) == fileio.Gzip {
		out.gz = gzip.NewWriter(out.Writer)
		out.Writer = out.gz
	}
	return out, nil
}

// Close flushes and commits the output.
func (out *Output) Close() error {
	if out.f == nil {
		return nil
	}
	if out.gz != nil {
		if err := out.gz.Close(); err != nil {
			out.Discard()
			return errors.E(err, out.path)
		}
	}
	if err := out.f.Close(out.ctx); err != nil {
		return errors.E(err, out.path)
	}
	return nil
}

// Discard abandons the output; a partially written file is not left behind.
func (out *Output) Discard() {
	if out.f == nil {
		return
	}
	log.Debug.Printf("discarding %s", out.path)
	out.f.Discard(out.ctx)
	out.f = nil
}

func ioError(path string, err error) error {
	if os.IsNotExist(err) || errors.Is(errors.NotExist, err) {
		return errors.E(errors.NotExist, fmt.Sprintf("%s: no such file or directory", path), err)
	}
	return errors.E(err, path)
}

// Stem returns the base name of path with compression and format extensions
// removed: "data/S288c.yml.gz" -> "S288c".
func Stem(path string) string {
	base := filepath.Base(path)
	if ext := filepath.Ext(base); ext == ".gz" || ext == ".bz2" || ext == ".zst" {
		base = strings.TrimSuffix(base, ext)
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ReadLines returns the non-blank lines of path, trimmed, skipping lines that
// start with '#'.
func ReadLines(ctx context.Context, path string, stdin io.Reader) ([]string, error) {
	in, err := Open(ctx, path, stdin)
	if err != nil {
		return nil, err
	}
	var lines []string
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		in.Close() // nolint: errcheck
		return nil, errors.E(err, path)
	}
	return lines, in.Close()
}

// WriteLines writes each line, newline-terminated, to path.
func WriteLines(ctx context.Context, path string, stdout io.Writer, lines []string) error {
	out, err := Create(ctx, path, stdout)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(out)
	for _, line := range lines {
		w.WriteString(line) // nolint: errcheck
		w.WriteByte('\n')   // nolint: errcheck
	}
	if err := w.Flush(); err != nil {
		out.Discard()
		return errors.E(err, path)
	}
	return out.Close()
}
