package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/matzehuels/reflow/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	// The log level must be known before the CLI is built, so the verbose
	// flag is scanned ahead of cobra's own parsing.
	level := cli.LogInfo
	if slices.Contains(args, "-v") || slices.Contains(args, "--verbose") {
		level = cli.LogDebug
	}

	c := cli.New(os.Stderr, level)
	root := c.RootCommand()
	root.PersistentFlags().BoolP("verbose", "v", false, "enable verbose logging")
	root.SetArgs(args)

	return root.ExecuteContext(ctx)
}
