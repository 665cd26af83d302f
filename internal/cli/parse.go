package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
)

var ErrHelp = errors.New("help requested")
var ErrVersion = errors.New("version requested")

func Parse(args []string) (Options, error) {
	var opts Options
	var help bool
	var showVersion bool

	fs := flag.NewFlagSet("gitscope", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.BoolVar(&opts.Staged, "staged", false, "Diff the index against HEAD instead of the worktree")
	fs.StringVar(&opts.Resolve, "resolve", "", "Non-interactive conflict resolution: ours|theirs|both")
	fs.BoolVar(&opts.Check, "check", false, "Exit 0 if the file has no conflict markers, else 1")
	fs.IntVar(&opts.ColorThreshold, "color-threshold", 10, "Image diff color distance threshold (0-100)")
	fs.BoolVar(&opts.Verbose, "v", false, "Verbose logging to stderr")
	fs.BoolVar(&help, "help", false, "Show help")
	fs.BoolVar(&help, "h", false, "Show help")
	fs.BoolVar(&showVersion, "version", false, "Show version")

	fs.Usage = func() {}
	if err := fs.Parse(args); err != nil {
		return Options{}, fmt.Errorf("%w\n\n%s", err, Usage())
	}
	if help {
		return Options{}, ErrHelp
	}
	if showVersion {
		return Options{}, ErrVersion
	}

	if fs.NArg() > 1 {
		return Options{}, fmt.Errorf("at most one path argument allowed\n\n%s", Usage())
	}
	if fs.NArg() == 1 {
		opts.Path = fs.Arg(0)
	}

	opts.Resolve = strings.ToLower(strings.TrimSpace(opts.Resolve))
	if opts.Resolve != "" && opts.Resolve != "ours" && opts.Resolve != "theirs" && opts.Resolve != "both" {
		return Options{}, fmt.Errorf("invalid --resolve: %q (expected ours|theirs|both)", opts.Resolve)
	}
	if (opts.Resolve != "" || opts.Check) && opts.Path == "" {
		return Options{}, fmt.Errorf("--resolve and --check require a path argument\n\n%s", Usage())
	}
	if opts.ColorThreshold < 0 || opts.ColorThreshold > 100 {
		return Options{}, fmt.Errorf("--color-threshold must be in [0,100], got %d", opts.ColorThreshold)
	}

	return opts, nil
}

func Usage() string {
	return strings.TrimSpace(`Usage:
	  gitscope [flags] [path]

Modes:
	  gitscope                      Browse all changed files interactively
	  gitscope <path>               Open one file's diff
	  gitscope --check <path>       Exit 0 if <path> has no conflict markers, else 1
	  gitscope --resolve ours|theirs|both <path>
	                                Resolve every conflict in <path> and stage it

Options:
	  --staged                      Diff the index against HEAD
	  --color-threshold N           Image diff color distance threshold (0-100)
	  --version                     Show version
	  -v                            Verbose logging
`)
}
