package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"graphir/internal/version"
)

func main() {
	root := newRootCmd(&app{})
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "graphir: %v\n", err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree around a. Every command shares a, which
// PersistentPreRunE fills from the config file and flags.
func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "graphir",
		Short:         "Build, inspect and evaluate typed IR graphs",
		Long:          "graphir builds sample programs through the context-based IR builder, dumps, snapshots and evaluates them, and ships a small Brainfuck toolkit.",
		Version:       version.Plain(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			a.teardown(cmd)
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "path to graphir.toml (default: search upward from the working directory)")
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("timings", false, "show timing information")
	flags.String("trace", "", "trace output file (\"-\" for stderr)")
	flags.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-mode", "stream", "trace storage (stream|ring|both)")

	root.AddCommand(
		newProgramsCmd(a),
		newDumpCmd(a),
		newEvalCmd(a),
		newSnapshotCmd(a),
		newBFCmd(a),
		newVersionCmd(a),
	)
	return root
}

// run wraps a command body so tracing and timings are still flushed when it
// fails; cobra skips PersistentPostRunE in that case.
func run(a *app, body func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := body(cmd, args)
		if err != nil {
			a.teardown(cmd)
		}
		return err
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
