package main

import (
	"github.com/spf13/cobra"

	"graphir/internal/ir"
)

func newDumpCmd(a *app) *cobra.Command {
	var snapshotPath string
	cmd := &cobra.Command{
		Use:   "dump [program]",
		Short: "Print the graph of a sample program or snapshot",
		Args:  cobra.MaximumNArgs(1),
		RunE: run(a, func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			if name == "" && snapshotPath == "" {
				return cmd.Usage()
			}
			g, _, err := a.loadProgram(name, snapshotPath)
			if err != nil {
				return err
			}
			return ir.Dump(cmd.OutOrStdout(), g, ir.DumpOptions{Color: a.color})
		}),
	}
	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "read the graph from a snapshot file")
	return cmd
}
