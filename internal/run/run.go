// Package run wires the parsed options to the backend and the TUI, and
// implements the non-interactive modes.
package run

import (
	"context"
	"fmt"
	"os"

	"github.com/gitscope/gitscope/internal/cli"
	"github.com/gitscope/gitscope/internal/gitbackend"
	"github.com/gitscope/gitscope/internal/markers"
	"github.com/gitscope/gitscope/internal/merge"
	"github.com/gitscope/gitscope/internal/tui"
)

func Run(ctx context.Context, opts cli.Options) int {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	backend, err := gitbackend.Open(ctx, cwd)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if opts.Verbose {
		fmt.Fprintf(os.Stderr, "repo root: %s\n", backend.RepoRoot)
	}

	if opts.Check {
		return runCheck(ctx, backend, opts)
	}
	if opts.Resolve != "" {
		return runResolve(ctx, backend, opts)
	}

	if err := tui.Run(ctx, backend, opts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	return 0
}

func runCheck(ctx context.Context, backend *gitbackend.Git, opts cli.Options) int {
	text, err := backend.ReadFile(ctx, opts.Path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if markers.HasConflicts(text) {
		return 1
	}
	return 0
}

func runResolve(ctx context.Context, backend *gitbackend.Git, opts cli.Options) int {
	text, err := backend.ReadFile(ctx, opts.Path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	resolved, n, err := merge.ResolveAll(text, merge.Choice(opts.Resolve))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if n == 0 {
		fmt.Fprintf(os.Stdout, "%s: no conflicts found, nothing to do\n", opts.Path)
		return 0
	}

	if err := backend.ResolveConflict(ctx, opts.Path, resolved); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if opts.Verbose {
		fmt.Fprintf(os.Stderr, "resolved %d conflict(s) in %s with %q\n", n, opts.Path, opts.Resolve)
	}
	return 0
}
