package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"graphir/internal/config"
	"graphir/internal/eval"
	"graphir/internal/ir"
	"graphir/internal/observ"
	"graphir/internal/trace"
)

// app is the state shared by every command of one invocation.
type app struct {
	cfg     config.Config
	tracer  trace.Tracer
	timer   *observ.Timer
	timings bool
	color   bool
	cleanup func()
}

type colorMode string

const (
	colorAuto colorMode = "auto"
	colorOn   colorMode = "on"
	colorOff  colorMode = "off"
)

func readColorMode(value string) (colorMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return colorAuto, nil
	case "on":
		return colorOn, nil
	case "off":
		return colorOff, nil
	default:
		return "", fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
}

func (m colorMode) enabled(terminal bool) bool {
	switch m {
	case colorOn:
		return true
	case colorOff:
		return false
	default:
		return terminal
	}
}

func (a *app) setup(cmd *cobra.Command) error {
	if cmd.Context() == nil {
		cmd.SetContext(context.Background())
	}

	cfg, err := config.Load(stringSetting(cmd, "config", ""))
	if err != nil {
		return err
	}
	a.cfg = cfg

	mode, err := readColorMode(stringSetting(cmd, "color", cfg.Dump.Color))
	if err != nil {
		return err
	}
	a.color = mode.enabled(isTerminal(os.Stdout))
	color.NoColor = !a.color

	a.timings, err = cmd.Flags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	a.timer = observ.NewTimer()

	cleanup, err := a.setupTracing(cmd)
	if err != nil {
		return err
	}
	a.cleanup = cleanup
	return nil
}

// teardown flushes tracing and prints timings. Safe to call twice.
func (a *app) teardown(cmd *cobra.Command) {
	if a.cleanup != nil {
		a.cleanup()
		a.cleanup = nil
	}
	if a.timings && a.timer != nil {
		fmt.Fprint(cmd.ErrOrStderr(), a.timer.Summary())
		a.timings = false
	}
}

// stringSetting returns the flag value when set on the command line and
// fallback otherwise.
func stringSetting(cmd *cobra.Command, flag, fallback string) string {
	f := cmd.Flags().Lookup(flag)
	if f == nil || !f.Changed {
		return fallback
	}
	return f.Value.String()
}

func (a *app) evalOptions(cmd *cobra.Command) (eval.Options, error) {
	opts := eval.Options{
		MaxDepth: a.cfg.Eval.MaxDepth,
		MaxSteps: a.cfg.Eval.MaxSteps,
		Output:   cmd.OutOrStdout(),
		Tracer:   a.tracer,
	}
	if cmd.Flags().Changed("max-depth") {
		depth, err := cmd.Flags().GetInt("max-depth")
		if err != nil {
			return opts, err
		}
		opts.MaxDepth = depth
	}
	if cmd.Flags().Changed("max-steps") {
		steps, err := cmd.Flags().GetInt64("max-steps")
		if err != nil {
			return opts, err
		}
		opts.MaxSteps = steps
	}
	return opts, nil
}

func (a *app) jobs(cmd *cobra.Command) (int, error) {
	if cmd.Flags().Changed("jobs") {
		return cmd.Flags().GetInt("jobs")
	}
	return a.cfg.Eval.Jobs, nil
}

func (a *app) builderOptions() []ir.Option {
	if a.tracer == nil {
		return nil
	}
	return []ir.Option{ir.WithTracer(a.tracer)}
}
