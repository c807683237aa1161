package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/runlist/runlist"
	"v.io/x/lib/cmdline"
)

const outputHelp = `Output path; "stdout" writes to the standard output. Paths ending in ".gz" are gzipped.`

// checkArgs verifies the number of positional arguments of a command.  max < 0
// means no upper bound.
func checkArgs(name string, argv []string, min, max int, argsName string) error {
	if len(argv) < min || (max >= 0 && len(argv) > max) {
		return fmt.Errorf("%s takes %s, but got %v", name, argsName, argv)
	}
	return nil
}

func readDocument(ctx context.Context, env *cmdline.Env, path string) (*runlist.Document, error) {
	return runlist.ReadDocument(ctx, path, env.Stdin)
}

func writeDocuments(ctx context.Context, env *cmdline.Env, path string, docs ...*runlist.Document) error {
	return runlist.WriteDocuments(ctx, path, env.Stdout, docs...)
}

func readSizes(ctx context.Context, env *cmdline.Env, path string) (runlist.Sizes, error) {
	return runlist.ReadSizesPath(ctx, path, env.Stdin)
}

func newRoot() *cmdline.Command {
	return &cmdline.Command{
		Name:     "bio-runlist",
		Short:    "Set operations on run lists of genomic coordinates",
		LookPath: false,
		Long: `
bio-runlist manipulates sets of integers (genomic coordinates) stored as run
lists: comma-separated, sorted, disjoint ranges such as "1-5,9,12,15-16".
Run lists are keyed by chromosome name in YAML documents, optionally under a
second level of group (species/sample) names.

Input paths may be "stdin"; output paths default to "stdout".  Flags must
precede positional arguments.
`,
		Children: []*cmdline.Command{
			newCmdGenome(),
			newCmdGff(),
			newCmdCover(),
			newCmdSome(),
			newCmdMerge(),
			newCmdSplit(),
			newCmdStat(),
			newCmdStatOp(),
			newCmdCombine(),
			newCmdCompare(),
			newCmdSpan(),
			newCmdConvert(),
			newCmdRange(),
		},
	}
}

// runner adapts a command body to cmdline, supplying the context for file
// operations.
func runner(fn func(ctx context.Context, env *cmdline.Env, argv []string) error) cmdline.Runner {
	return cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		return fn(vcontext.Background(), env, argv)
	})
}

func Run() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(newRoot())
}
