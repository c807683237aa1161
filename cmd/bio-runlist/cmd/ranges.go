package cmd

import (
	"context"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/runlist/interval"
	"github.com/grailbio/runlist/runlist"
	"github.com/grailbio/runlist/runlist/op"
	"v.io/x/lib/cmdline"
)

const rangesHelp = `
Ranges are read one per line, either as region strings
("[name.]chr[(strand)]:start[-end]", e.g. "S288c.I(+):1-100") or as
whitespace-separated "chr start end [name]" records.  Coordinates are one-based
and closed unless -bed is given.  Blank lines and lines starting with '#' are
skipped.`

func readEntries(ctx context.Context, env *cmdline.Env, path string, opts interval.ReadEntriesOpts) ([]interval.Entry, error) {
	in, err := runlist.Open(ctx, path, env.Stdin)
	if err != nil {
		return nil, err
	}
	entries, err := interval.ReadEntries(in, opts)
	if err != nil {
		in.Close() // nolint: errcheck
		return nil, errors.E(err, path)
	}
	return entries, in.Close()
}

func newCmdCover() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "cover",
		Short:    "Output the positions covered by at least -c of the given ranges",
		Long:     rangesHelp,
		ArgsName: "ranges...",
	}
	output := cmd.Flags.String("o", runlist.Stdout, outputHelp)
	threshold := cmd.Flags.Int("c", 1, "Minimum coverage depth")
	opts := interval.ReadEntriesOpts{}
	cmd.Flags.BoolVar(&opts.BED, "bed", false, "Tabular records use zero-based half-open BED coordinates")
	cmd.Runner = runner(func(ctx context.Context, env *cmdline.Env, argv []string) error {
		if err := checkArgs("cover", argv, 1, -1, "one or more range files"); err != nil {
			return err
		}
		var entries []interval.Entry
		for _, path := range argv {
			e, err := readEntries(ctx, env, path, opts)
			if err != nil {
				return err
			}
			entries = append(entries, e...)
		}
		m, err := op.Coverage(entries, *threshold)
		if err != nil {
			return err
		}
		return writeDocuments(ctx, env, *output, runlist.NewFlat(m))
	})
	return cmd
}

func newCmdGff() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "gff",
		Short:    "Convert the features of GFF3 files to a run-list document",
		ArgsName: "a.gff...",
	}
	output := cmd.Flags.String("o", runlist.Stdout, outputHelp)
	tag := cmd.Flags.String("tag", "", `Feature type (third column) to keep, e.g. "CDS"; all features if empty`)
	remove := cmd.Flags.Bool("remove", false, `Remove a leading "chr" or "chr0" from sequence names`)
	cmd.Runner = runner(func(ctx context.Context, env *cmdline.Env, argv []string) error {
		if err := checkArgs("gff", argv, 1, -1, "one or more GFF files"); err != nil {
			return err
		}
		var records []runlist.GFFRecord
		for _, path := range argv {
			in, err := runlist.Open(ctx, path, env.Stdin)
			if err != nil {
				return err
			}
			r, err := runlist.ReadGFF(in)
			if err != nil {
				in.Close() // nolint: errcheck
				return errors.E(err, path)
			}
			if err := in.Close(); err != nil {
				return err
			}
			records = append(records, r...)
		}
		m := op.Gff(records, *tag, *remove)
		log.Printf("gff: %d feature(s) on %d sequence(s)", len(records), len(m))
		return writeDocuments(ctx, env, *output, runlist.NewFlat(m))
	})
	return cmd
}

func newCmdRange() *cmdline.Command {
	cmd := &cmdline.Command{
		Name: "range",
		Short: `Output the ranges that satisfy -op against a flat run-list document,
verbatim and in input order`,
		Long:     rangesHelp,
		ArgsName: "runlist.yml ranges",
	}
	output := cmd.Flags.String("o", runlist.Stdout, outputHelp)
	opName := cmd.Flags.String("op", "overlap", "Range operation: overlap, non-overlap or superset")
	opts := interval.ReadEntriesOpts{}
	cmd.Flags.BoolVar(&opts.BED, "bed", false, "Tabular records use zero-based half-open BED coordinates")
	cmd.Runner = runner(func(ctx context.Context, env *cmdline.Env, argv []string) error {
		o, err := op.ParseRangeOp(*opName)
		if err != nil {
			return err
		}
		if err := checkArgs("range", argv, 2, 2, "a run-list document and a range file"); err != nil {
			return err
		}
		d, err := readDocument(ctx, env, argv[0])
		if err != nil {
			return err
		}
		m, err := d.FlatMap()
		if err != nil {
			return errors.E(err, argv[0])
		}
		entries, err := readEntries(ctx, env, argv[1], opts)
		if err != nil {
			return err
		}
		kept := op.Range(m, entries, o)
		lines := make([]string, len(kept))
		for i, e := range kept {
			lines[i] = e.Line
		}
		log.Debug.Printf("range: %s kept %d of %d range(s)", o, len(kept), len(entries))
		return runlist.WriteLines(ctx, *output, env.Stdout, lines)
	})
	return cmd
}
