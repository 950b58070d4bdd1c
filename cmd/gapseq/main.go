// Package main is the entry point for the gapseq text transformer.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/gapseq/internal/app"
	"github.com/dshills/gapseq/internal/logging"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type cliOptions struct {
	app         app.Options
	watch       bool
	stats       bool
	showVersion bool
	showHelp    bool
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	if opts.showVersion {
		fmt.Fprintf(stdout, "gapseq %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return 0
	}

	opts.app.Stdin = stdin
	opts.app.Stdout = stdout
	opts.app.Stderr = stderr

	application, err := app.New(opts.app)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	// Handle signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if opts.watch {
		err = application.Watch(ctx)
		if errors.Is(err, context.Canceled) {
			err = nil
		}
	} else {
		err = application.RunOnce(ctx)
	}

	if opts.stats {
		if serr := application.WriteStats(stderr); serr != nil {
			fmt.Fprintf(stderr, "Error: writing stats: %v\n", serr)
		}
	}

	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags(args []string, stderr io.Writer) (cliOptions, error) {
	var opts cliOptions

	fs := flag.NewFlagSet("gapseq", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.app.ConfigPath, "config", "", "Path to configuration file (.toml, .yaml)")
	fs.StringVar(&opts.app.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	fs.StringVar(&opts.app.ScriptPath, "script", "", "Lua script run after the pipeline steps")
	fs.StringVar(&opts.app.ScriptPath, "s", "", "Lua script (shorthand)")
	fs.StringVar(&opts.app.InputPath, "in", "", "Input file (default stdin)")
	fs.StringVar(&opts.app.InputPath, "i", "", "Input file (shorthand)")
	fs.StringVar(&opts.app.OutputPath, "out", "", "Output file (default stdout)")
	fs.StringVar(&opts.app.OutputPath, "o", "", "Output file (shorthand)")
	fs.StringVar(&opts.app.LogLevel, "log-level", "", "Log level (debug, info, warn, error); overrides the config")
	fs.BoolVar(&opts.watch, "watch", false, "Re-run when the input, config or script changes")
	fs.BoolVar(&opts.stats, "stats", false, "Print metrics to stderr when done")
	fs.BoolVar(&opts.showVersion, "version", false, "Show version information")
	fs.BoolVar(&opts.showVersion, "v", false, "Show version information (shorthand)")
	fs.BoolVar(&opts.showHelp, "help", false, "Show help message")
	fs.BoolVar(&opts.showHelp, "h", false, "Show help message (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "gapseq - transform text through a gap-buffer pipeline\n\n")
		fmt.Fprintf(stderr, "Usage: gapseq [options] [input]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  gapseq -c steps.toml in.txt          Run the configured steps\n")
		fmt.Fprintf(stderr, "  echo hi | gapseq -s shout.lua        Transform stdin with a script\n")
		fmt.Fprintf(stderr, "  gapseq -c steps.toml -o out.txt -watch in.txt\n")
		fmt.Fprintf(stderr, "                                       Rewrite out.txt on every change\n")
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	if opts.showHelp {
		fs.Usage()
		return opts, flag.ErrHelp
	}

	// Validate log level
	if _, err := logging.ParseLevel(opts.app.LogLevel); err != nil {
		return opts, fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", opts.app.LogLevel)
	}

	// A remaining argument is the input file
	switch rest := fs.Args(); {
	case len(rest) > 1:
		return opts, fmt.Errorf("expected at most one input file, got %d", len(rest))
	case len(rest) == 1 && opts.app.InputPath != "":
		return opts, errors.New("input given both as -in and as an argument")
	case len(rest) == 1:
		opts.app.InputPath = rest[0]
	}

	return opts, nil
}
