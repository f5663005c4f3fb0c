// cmd/curator/main.go
//
// This is the entry point for the curator CLI.
// Running `curator` with no arguments opens the review TUI; subcommands run
// the same operations headless for scripting.

package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
)

const version = "0.1.0"

func main() {
	root := newRootCmd()

	// fang wraps cobra with completions, manpages, --version, and signal
	// handling; an interrupt cancels the command context, which aborts any
	// in-flight backend request.
	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, os.Kill),
	); err != nil {
		os.Exit(1)
	}
}
