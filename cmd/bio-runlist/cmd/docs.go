package cmd

import (
	"context"
	"os"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/runlist/runlist"
	"github.com/grailbio/runlist/runlist/op"
	"v.io/x/lib/cmdline"
)

func newCmdGenome() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "genome",
		Short:    "Convert a chromosome-size table to a run-list document",
		ArgsName: "chr.sizes",
	}
	output := cmd.Flags.String("o", runlist.Stdout, outputHelp)
	remove := cmd.Flags.Bool("remove", false, `Remove a leading "chr" or "chr0" from chromosome names`)
	cmd.Runner = runner(func(ctx context.Context, env *cmdline.Env, argv []string) error {
		if err := checkArgs("genome", argv, 1, 1, "one size table"); err != nil {
			return err
		}
		sizes, err := readSizes(ctx, env, argv[0])
		if err != nil {
			return err
		}
		return writeDocuments(ctx, env, *output, runlist.NewFlat(op.Genome(sizes, *remove)))
	})
	return cmd
}

func newCmdSome() *cmdline.Command {
	cmd := &cmdline.Command{
		Name: "some",
		Short: `Extract some entries of a run-list document: chromosomes of a flat
document or groups of a grouped one`,
		ArgsName: "runlist.yml list.txt",
	}
	output := cmd.Flags.String("o", runlist.Stdout, outputHelp)
	cmd.Runner = runner(func(ctx context.Context, env *cmdline.Env, argv []string) error {
		if err := checkArgs("some", argv, 2, 2, "a run-list document and a list file"); err != nil {
			return err
		}
		d, err := readDocument(ctx, env, argv[0])
		if err != nil {
			return err
		}
		names, err := runlist.ReadLines(ctx, argv[1], env.Stdin)
		if err != nil {
			return err
		}
		return writeDocuments(ctx, env, *output, op.Some(d, names))
	})
	return cmd
}

func newCmdMerge() *cmdline.Command {
	cmd := &cmdline.Command{
		Name: "merge",
		Short: `Merge run-list documents into one grouped document.  A flat document
becomes a group named after its file stem`,
		ArgsName: "runlist.yml...",
	}
	output := cmd.Flags.String("o", runlist.Stdout, outputHelp)
	remove := cmd.Flags.Bool("remove", false, `Remove a leading "chr" or "chr0" from chromosome names`)
	cmd.Runner = runner(func(ctx context.Context, env *cmdline.Env, argv []string) error {
		if err := checkArgs("merge", argv, 1, -1, "one or more run-list documents"); err != nil {
			return err
		}
		inputs := make([]op.Input, len(argv))
		for i, path := range argv {
			d, err := readDocument(ctx, env, path)
			if err != nil {
				return err
			}
			if *remove {
				d = op.TrimDocumentKeys(d)
			}
			inputs[i] = op.Input{Name: runlist.Stem(path), Doc: d}
		}
		merged, err := op.Merge(inputs)
		if err != nil {
			return err
		}
		return writeDocuments(ctx, env, *output, runlist.NewGrouped(merged))
	})
	return cmd
}

func newCmdSplit() *cmdline.Command {
	cmd := &cmdline.Command{
		Name: "split",
		Short: `Split a grouped run-list document into one flat document per group`,
		Long: `
Split writes every group of the input as a flat document.  With "-o stdout"
the documents are written in turn, each preceded by "---"; otherwise -o names
a directory that receives one <group>.yml file per group.`,
		ArgsName: "runlist.yml",
	}
	output := cmd.Flags.String("o", runlist.Stdout, `Output directory, or "stdout"`)
	suffix := cmd.Flags.String("suffix", ".yml", "File name suffix of the documents written to a directory")
	cmd.Runner = runner(func(ctx context.Context, env *cmdline.Env, argv []string) error {
		if err := checkArgs("split", argv, 1, 1, "one run-list document"); err != nil {
			return err
		}
		d, err := readDocument(ctx, env, argv[0])
		if err != nil {
			return err
		}
		groups := op.Split(op.Input{Name: runlist.Stem(argv[0]), Doc: d})
		if *output == runlist.Stdout {
			var docs []*runlist.Document
			for _, name := range groups.Names() {
				docs = append(docs, runlist.NewFlat(groups[name]))
			}
			return writeDocuments(ctx, env, *output, docs...)
		}
		if !strings.Contains(*output, "://") {
			if err := os.MkdirAll(*output, 0755); err != nil {
				return err
			}
		}
		var written []string
		for _, name := range groups.Names() {
			path := file.Join(*output, name+*suffix)
			if err := writeDocuments(ctx, env, path, runlist.NewFlat(groups[name])); err != nil {
				removeAll(ctx, written)
				return err
			}
			written = append(written, path)
		}
		log.Printf("split: wrote %d document(s) to %s", len(groups), *output)
		return nil
	})
	return cmd
}

// removeAll removes the files of an output that could not be completed.
func removeAll(ctx context.Context, paths []string) {
	for _, path := range paths {
		if err := file.Remove(ctx, path); err != nil {
			log.Error.Printf("remove %s: %v", path, err)
		}
	}
}

func newCmdCombine() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "combine",
		Short:    "Combine the groups of a grouped run-list document into one flat document",
		ArgsName: "runlist.yml",
	}
	output := cmd.Flags.String("o", runlist.Stdout, outputHelp)
	cmd.Runner = runner(func(ctx context.Context, env *cmdline.Env, argv []string) error {
		if err := checkArgs("combine", argv, 1, 1, "one run-list document"); err != nil {
			return err
		}
		d, err := readDocument(ctx, env, argv[0])
		if err != nil {
			return err
		}
		return writeDocuments(ctx, env, *output, runlist.NewFlat(op.Combine(d)))
	})
	return cmd
}

func newCmdCompare() *cmdline.Command {
	cmd := &cmdline.Command{
		Name: "compare",
		Short: `Compare run-list documents key by key with a set operation`,
		Long: `
Compare folds -op over the inputs from left to right.  The first document may
be grouped; the others must be flat.  Missing keys count as empty sets.`,
		ArgsName: "a.yml b.yml [more.yml...]",
	}
	output := cmd.Flags.String("o", runlist.Stdout, outputHelp)
	opName := cmd.Flags.String("op", "intersect", "Set operation: intersect, union, diff or xor")
	cmd.Runner = runner(func(ctx context.Context, env *cmdline.Env, argv []string) error {
		o, err := op.ParseSetOp(*opName)
		if err != nil {
			return err
		}
		if err := checkArgs("compare", argv, 2, -1, "two or more run-list documents"); err != nil {
			return err
		}
		docs := make([]*runlist.Document, len(argv))
		for i, path := range argv {
			if docs[i], err = readDocument(ctx, env, path); err != nil {
				return err
			}
		}
		result, err := op.Compare(o, docs)
		if err != nil {
			return err
		}
		return writeDocuments(ctx, env, *output, result)
	})
	return cmd
}

func newCmdSpan() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "span",
		Short:    "Apply a span operation to every run list of a document",
		ArgsName: "runlist.yml",
	}
	output := cmd.Flags.String("o", runlist.Stdout, outputHelp)
	opName := cmd.Flags.String("op", "cover", "Span operation: cover, fill, trim, pad or excise")
	n := cmd.Flags.Int("n", 0, "Parameter of the span operation")
	cmd.Runner = runner(func(ctx context.Context, env *cmdline.Env, argv []string) error {
		o, err := op.ParseSpanOp(*opName)
		if err != nil {
			return err
		}
		if err := checkArgs("span", argv, 1, 1, "one run-list document"); err != nil {
			return err
		}
		d, err := readDocument(ctx, env, argv[0])
		if err != nil {
			return err
		}
		result, err := op.Span(d, o, *n)
		if err != nil {
			return err
		}
		return writeDocuments(ctx, env, *output, result)
	})
	return cmd
}

func newCmdConvert() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "convert",
		Short:    "Convert a run-list document to ranges",
		ArgsName: "runlist.yml",
	}
	output := cmd.Flags.String("o", runlist.Stdout, outputHelp)
	tsvOut := cmd.Flags.Bool("tsv", false, `Write tab-separated "chr start end" records instead of region strings`)
	cmd.Runner = runner(func(ctx context.Context, env *cmdline.Env, argv []string) error {
		if err := checkArgs("convert", argv, 1, 1, "one run-list document"); err != nil {
			return err
		}
		d, err := readDocument(ctx, env, argv[0])
		if err != nil {
			return err
		}
		if !*tsvOut {
			return runlist.WriteLines(ctx, *output, env.Stdout, op.Convert(d))
		}
		out, err := runlist.Create(ctx, *output, env.Stdout)
		if err != nil {
			return err
		}
		if err := op.ConvertTSV(out, d); err != nil {
			out.Discard()
			return err
		}
		return out.Close()
	})
	return cmd
}

func newCmdStat() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "stat",
		Short:    "Coverage statistics of a run-list document, as CSV",
		ArgsName: "chr.sizes runlist.yml",
	}
	output := cmd.Flags.String("o", runlist.Stdout, outputHelp)
	opts := op.StatOpts{}
	cmd.Flags.BoolVar(&opts.All, "all", false, "Only report the genome-wide aggregate")
	cmd.Runner = runner(func(ctx context.Context, env *cmdline.Env, argv []string) error {
		if err := checkArgs("stat", argv, 2, 2, "a size table and a run-list document"); err != nil {
			return err
		}
		sizes, err := readSizes(ctx, env, argv[0])
		if err != nil {
			return err
		}
		d, err := readDocument(ctx, env, argv[1])
		if err != nil {
			return err
		}
		return runlist.WriteLines(ctx, *output, env.Stdout, op.Stat(sizes, d, opts))
	})
	return cmd
}

func newCmdStatOp() *cmdline.Command {
	cmd := &cmdline.Command{
		Name: "statop",
		Short: `Coverage statistics of two run-list documents and of the result of a
set operation between them, as CSV`,
		ArgsName: "chr.sizes a.yml b.yml",
	}
	output := cmd.Flags.String("o", runlist.Stdout, outputHelp)
	opName := cmd.Flags.String("op", "intersect", "Set operation: intersect, union, diff or xor")
	opts := op.StatOpts{}
	cmd.Flags.BoolVar(&opts.All, "all", false, "Only report the genome-wide aggregate")
	cmd.Runner = runner(func(ctx context.Context, env *cmdline.Env, argv []string) error {
		o, err := op.ParseSetOp(*opName)
		if err != nil {
			return err
		}
		if err := checkArgs("statop", argv, 3, 3, "a size table and two run-list documents"); err != nil {
			return err
		}
		sizes, err := readSizes(ctx, env, argv[0])
		if err != nil {
			return err
		}
		var inputs [2]op.Input
		for i, path := range argv[1:] {
			d, err := readDocument(ctx, env, path)
			if err != nil {
				return err
			}
			inputs[i] = op.Input{Name: runlist.Stem(path), Doc: d}
		}
		lines, err := op.StatOp(sizes, o, inputs[0], inputs[1], opts)
		if err != nil {
			return err
		}
		return runlist.WriteLines(ctx, *output, env.Stdout, lines)
	})
	return cmd
}
