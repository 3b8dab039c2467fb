package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"graphir/internal/ir"
	"graphir/internal/programs"
	"graphir/internal/snapshot"
	"graphir/internal/types"
)

func newProgramsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "programs",
		Short: "List the sample programs",
		Args:  cobra.NoArgs,
		RunE: run(a, func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, p := range programs.All() {
				fmt.Fprintf(out, "%-10s %s\n", p.Name, p.Summary)
			}
			return nil
		}),
	}
}

// loadProgram builds the named sample program, or when snapshotPath is set
// decodes the graph from it and looks up name as a function.
func (a *app) loadProgram(name, snapshotPath string) (*ir.Graph, *ir.Function, error) {
	if snapshotPath != "" {
		g, err := a.loadSnapshot(snapshotPath)
		if err != nil {
			return nil, nil, err
		}
		if name == "" {
			return g, nil, nil
		}
		fn, ok := g.FuncByName(name)
		if !ok {
			return nil, nil, fmt.Errorf("%s: no function %q", snapshotPath, name)
		}
		return g, fn, nil
	}

	p, ok := programs.Lookup(name)
	if !ok {
		return nil, nil, fmt.Errorf("unknown program %q (see `graphir programs`)", name)
	}
	idx := a.timer.Begin("build")
	g, fn, err := p.Build(a.builderOptions()...)
	a.timer.End(idx, name)
	if err != nil {
		return nil, nil, fmt.Errorf("build %s: %w", name, err)
	}
	return g, fn, nil
}

func (a *app) loadSnapshot(path string) (*ir.Graph, error) {
	idx := a.timer.Begin("load snapshot")
	defer a.timer.End(idx, path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	payload, err := snapshot.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	g, err := payload.Graph()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// parseRow converts textual arguments into constants of the parameter types.
func parseRow(params []types.Type, fields []string) ([]ir.Const, error) {
	if len(fields) != len(params) {
		return nil, fmt.Errorf("expected %d argument(s), got %d", len(params), len(fields))
	}
	row := make([]ir.Const, len(fields))
	for i, f := range fields {
		k, err := ir.ParseConst(params[i], strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		row[i] = k
	}
	return row, nil
}
