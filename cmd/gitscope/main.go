package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/gitscope/gitscope/internal/cli"
	"github.com/gitscope/gitscope/internal/run"
)

var version = "dev"

func main() {
	ctx := context.Background()
	opts, err := cli.Parse(os.Args[1:])
	if err != nil {
		if errors.Is(err, cli.ErrHelp) {
			fmt.Fprintln(os.Stdout, cli.Usage())
			os.Exit(0)
		}
		if errors.Is(err, cli.ErrVersion) {
			fmt.Fprintf(os.Stdout, "gitscope %s\n", versionString())
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	os.Exit(run.Run(ctx, opts))
}

func versionString() string {
	if version != "dev" {
		return version
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return version
	}
	if info.Main.Version == "" || info.Main.Version == "(devel)" {
		return version
	}
	return info.Main.Version
}
