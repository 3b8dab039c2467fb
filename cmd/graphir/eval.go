package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"graphir/internal/eval"
	"graphir/internal/ir"
	"graphir/internal/programs"
	"graphir/internal/types"
	"graphir/internal/ui"
)

type evalFlags struct {
	each     bool
	snapshot string
	ui       string
}

func newEvalCmd(a *app) *cobra.Command {
	var f evalFlags
	cmd := &cobra.Command{
		Use:   "eval <program> [args...]",
		Short: "Evaluate a sample program with the reference interpreter",
		Long: "eval calls the program's entry function with the given arguments.\n" +
			"With --each every argument is one call; multi-parameter calls separate values with commas.",
		Args: cobra.MinimumNArgs(1),
		RunE: run(a, func(cmd *cobra.Command, args []string) error {
			err := a.runEval(cmd, f, args[0], args[1:])
			var ee *eval.EvalError
			if errors.As(err, &ee) {
				fmt.Fprintln(cmd.ErrOrStderr(), ee.Format())
			}
			return err
		}),
	}
	cmd.Flags().BoolVar(&f.each, "each", false, "evaluate once per argument, in parallel")
	cmd.Flags().Int("jobs", 0, "parallel evaluations for --each (0 = GOMAXPROCS)")
	cmd.Flags().Int("max-depth", eval.DefaultMaxDepth, "call depth limit")
	cmd.Flags().Int64("max-steps", eval.DefaultMaxSteps, "node evaluation limit (negative = unlimited)")
	cmd.Flags().StringVar(&f.snapshot, "snapshot", "", "evaluate a function from a snapshot file instead")
	cmd.Flags().StringVar(&f.ui, "ui", "auto", "progress view for --each (auto|on|off)")
	return cmd
}

func (a *app) runEval(cmd *cobra.Command, f evalFlags, name string, args []string) error {
	g, fn, err := a.loadProgram(name, f.snapshot)
	if err != nil {
		return err
	}
	opts, err := a.evalOptions(cmd)
	if err != nil {
		return err
	}
	params := programs.ParamTypes(g, fn)

	if !f.each {
		row, err := parseRow(params, args)
		if err != nil {
			return err
		}
		idx := a.timer.Begin("eval")
		res, err := eval.New(g, opts).Call(cmd.Context(), fn, row...)
		a.timer.End(idx, fn.Name)
		if err != nil {
			return err
		}
		if res.Type != types.Unit {
			fmt.Fprintln(cmd.OutOrStdout(), res)
		}
		return nil
	}

	rows := make([][]ir.Const, len(args))
	labels := make([]string, len(args))
	for i, arg := range args {
		row, err := parseRow(params, strings.Split(arg, ","))
		if err != nil {
			return fmt.Errorf("call %d: %w", i+1, err)
		}
		rows[i] = row
		labels[i] = fmt.Sprintf("%s(%s)", fn.Name, arg)
	}
	jobs, err := a.jobs(cmd)
	if err != nil {
		return err
	}
	mode, err := readColorMode(f.ui)
	if err != nil {
		return fmt.Errorf("invalid --ui value %q (expected auto|on|off)", f.ui)
	}

	idx := a.timer.Begin("eval")
	defer a.timer.End(idx, fmt.Sprintf("%d calls", len(rows)))
	if mode.enabled(isTerminal(os.Stdout)) {
		return runEachWithUI(cmd, g, fn, rows, labels, opts, jobs)
	}
	results, err := eval.RunAll(cmd.Context(), g, fn, rows, opts, jobs)
	if err != nil {
		return err
	}
	printResults(cmd.OutOrStdout(), labels, results)
	return nil
}

func printResults(out io.Writer, labels []string, results []ir.Const) {
	for i, res := range results {
		fmt.Fprintf(out, "%s = %s\n", labels[i], res)
	}
}

func runEachWithUI(cmd *cobra.Command, g *ir.Graph, fn *ir.Function, rows [][]ir.Const, labels []string, opts eval.Options, jobs int) error {
	events := make(chan eval.RowEvent, 256)
	type outcome struct {
		results []ir.Const
		err     error
	}
	done := make(chan outcome, 1)

	go func() {
		res, err := eval.RunAllNotify(cmd.Context(), g, fn, rows, opts, jobs, func(ev eval.RowEvent) {
			events <- ev
		})
		done <- outcome{results: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(fn.Name, labels, events)
	program := tea.NewProgram(model, tea.WithOutput(cmd.OutOrStdout()))
	_, uiErr := program.Run()
	go func() {
		for range events {
		}
	}()
	res := <-done
	if uiErr != nil {
		return uiErr
	}
	return res.err
}
