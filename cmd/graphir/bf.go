package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"graphir/internal/bf"
	"graphir/internal/ui"
)

func newBFCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bf",
		Short: "Brainfuck toolkit",
	}
	var input string
	runCmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Run a Brainfuck program",
		Args:  cobra.ExactArgs(1),
		RunE: run(a, func(cmd *cobra.Command, args []string) error {
			in, err := loadBF(args[0])
			if err != nil {
				return err
			}
			src := inputSource(cmd, input)
			idx := a.timer.Begin("bf run")
			defer a.timer.End(idx, args[0])
			return runBF(in, src, cmd.OutOrStdout())
		}),
	}
	runCmd.Flags().StringVar(&input, "input", "", "program input (default: read stdin on demand)")

	debugCmd := &cobra.Command{
		Use:   "debug <file>",
		Short: "Run a Brainfuck program, pausing on every '?'",
		Args:  cobra.ExactArgs(1),
		RunE: run(a, func(cmd *cobra.Command, args []string) error {
			if !isTerminal(os.Stdout) {
				return errors.New("bf debug needs a terminal")
			}
			in, err := loadBF(args[0])
			if err != nil {
				return err
			}
			dbg := ui.NewDebugger(os.Stdin, os.Stdout)
			in.Debug = dbg.Hook()
			if err := runBF(in, inputSource(cmd, input), cmd.OutOrStdout()); err != nil {
				return err
			}
			return dbg.Err
		}),
	}
	debugCmd.Flags().StringVar(&input, "input", "", "program input")

	textCmd := &cobra.Command{
		Use:   "text <string>",
		Short: "Print a Brainfuck program that writes the given text",
		Args:  cobra.ExactArgs(1),
		RunE: run(a, func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", bf.Text([]byte(args[0])))
			return nil
		}),
	}

	cmd.AddCommand(runCmd, debugCmd, textCmd)
	return cmd
}

func loadBF(path string) (*bf.Interpreter, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	in := bf.New()
	if err := in.Load(src); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return in, nil
}

// inputSource returns where ',' reads from: the --input text when given,
// stdin otherwise.
func inputSource(cmd *cobra.Command, input string) io.Reader {
	if cmd.Flags().Changed("input") {
		return strings.NewReader(input)
	}
	return cmd.InOrStdin()
}

// runBF polls in until the program ends. Input is read a line at a time;
// once the source is exhausted every read yields 0.
func runBF(in *bf.Interpreter, src io.Reader, out io.Writer) error {
	w := bufio.NewWriter(out)
	defer w.Flush()
	lines := bufio.NewReader(src)
	for {
		o := in.Poll()
		switch o.Kind {
		case bf.OutputByte:
			if err := w.WriteByte(o.Byte); err != nil {
				return err
			}
		case bf.OutputInput:
			if err := w.Flush(); err != nil {
				return err
			}
			line, err := lines.ReadBytes('\n')
			if err != nil && !errors.Is(err, io.EOF) {
				return err
			}
			if len(line) == 0 {
				line = []byte{0}
			}
			// Feed is last-in first-out.
			slices.Reverse(line)
			in.Feed(line)
		case bf.OutputEnd:
			return nil
		}
	}
}
