// Package main is the standalone bridge harness. It runs the bridge
// against a headless host that prints every UI action, which makes the
// reconciliation traffic visible for soak testing and debugging
// without an embedding editor.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/SYK-08/vscode-neovim/internal/app"
	"github.com/SYK-08/vscode-neovim/internal/command"
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
	opts, files := parseFlags()

	hh := newHeadlessHost(os.Stdout)
	opts.UI = hh
	opts.Typer = hh
	opts.WatchConfig = true

	bridge, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if err := bridge.Start(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to start: %v\n", err)
		return 1
	}
	defer func() {
		if bridge.Running() {
			if err := bridge.Shutdown(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: shutdown: %v\n", err)
			}
		}
	}()

	// Let the headless host resolve adopted-buffer content through the
	// provider, and surface its change announcements.
	hh.attach(bridge)

	for _, f := range files {
		p, err := filepath.Abs(f)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", f, err)
			continue
		}
		if err := bridge.Execute(command.OpenFile, p); err != nil {
			fmt.Fprintf(os.Stderr, "Error: open %s: %v\n", p, err)
		}
	}

	fmt.Printf("bridge session %s, pid %d; interrupt to stop\n",
		bridge.SessionID(), os.Getpid())

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	<-signals
	fmt.Println("shutting down")
	return 0
}

func parseFlags() (app.Options, []string) {
	var opts app.Options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to TOML settings file")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to TOML settings file (shorthand)")
	flag.StringVar(&opts.NvimPath, "nvim", "", "Neovim binary to spawn")
	flag.StringVar(&opts.Addr, "addr", "", "Dial a running Neovim instead of spawning")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "vscode-neovim bridge harness\n\n")
		fmt.Fprintf(os.Stderr, "Usage: vscode-neovim [options] [files...]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  vscode-neovim file.go              Bridge one file\n")
		fmt.Fprintf(os.Stderr, "  vscode-neovim -addr :6666 file.go  Against a running instance\n")
		fmt.Fprintf(os.Stderr, "  vscode-neovim -log-level debug     Full reconciliation trace\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}
	if showVersion {
		fmt.Printf("vscode-neovim %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch opts.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.LogLevel)
		os.Exit(1)
	}

	return opts, flag.Args()
}
