// Package main is the entry point for the hotstorm hotkey daemon.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/hotstorm/internal/app"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := application.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if opts.DryRun {
		application.Describe(os.Stdout)
		return 0
	}

	// Block until interrupted; dispatch runs on the hook's goroutines.
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	<-signals

	return 0
}

func parseFlags() app.Options {
	var opts app.Options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to JSON binding file")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to JSON binding file (shorthand)")
	flag.StringVar(&opts.ScriptPath, "script", "", "Path to Lua script")
	flag.StringVar(&opts.ScriptPath, "s", "", "Path to Lua script (shorthand)")
	flag.StringVar(&opts.Backend, "backend", "global", "Hook backend (global, raw, term)")
	flag.BoolVar(&opts.DryRun, "dry-run", false, "Validate and list bindings without installing a hook")
	flag.BoolVar(&opts.PersistState, "persist-state", false, "Write enabled states back to the binding file on exit")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Hotstorm - scriptable global hotkeys and hotstrings\n\n")
		fmt.Fprintf(os.Stderr, "Usage: hotstorm [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  hotstorm -s bindings.lua              Run a script\n")
		fmt.Fprintf(os.Stderr, "  hotstorm -s lib.lua -c bindings.json  Script plus binding file\n")
		fmt.Fprintf(os.Stderr, "  hotstorm -s bindings.lua -dry-run     Validate and list\n")
		fmt.Fprintf(os.Stderr, "  hotstorm -s bindings.lua -backend raw Low-level hook (hotstrings)\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("Hotstorm %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	return opts
}
