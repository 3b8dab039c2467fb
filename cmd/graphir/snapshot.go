package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"graphir/internal/snapshot"
)

func newSnapshotCmd(a *app) *cobra.Command {
	var (
		output    string
		useCache  bool
		dropCache bool
	)
	cmd := &cobra.Command{
		Use:   "snapshot [program]",
		Short: "Encode a sample program's graph and print its digest",
		Args:  cobra.MaximumNArgs(1),
		RunE: run(a, func(cmd *cobra.Command, args []string) error {
			if dropCache {
				if err := dropSnapshots(cmd); err != nil {
					return err
				}
			}
			if len(args) == 0 {
				if dropCache {
					return nil
				}
				return fmt.Errorf("missing program (see `graphir programs`)")
			}
			g, _, err := a.loadProgram(args[0], "")
			if err != nil {
				return err
			}
			idx := a.timer.Begin("encode")
			digest, data, err := snapshot.DigestOf(g)
			a.timer.End(idx, fmt.Sprintf("%d bytes", len(data)))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", digest, args[0])

			if output != "" {
				if err := os.WriteFile(output, data, 0o644); err != nil {
					return fmt.Errorf("write snapshot: %w", err)
				}
			}
			if useCache {
				return cacheSnapshot(cmd, digest, data)
			}
			return nil
		}),
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the encoded graph to this file")
	cmd.Flags().BoolVar(&useCache, "cache", false, "store the encoded graph in the user cache")
	cmd.Flags().BoolVar(&dropCache, "drop-cache", false, "remove every cached graph first")
	return cmd
}

func cacheSnapshot(cmd *cobra.Command, digest snapshot.Digest, data []byte) error {
	cache, err := snapshot.Open("graphir")
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	if _, ok, err := cache.Get(digest); err == nil && ok {
		fmt.Fprintf(cmd.ErrOrStderr(), "cached already in %s\n", cache.Dir())
		return nil
	}
	if err := cache.Put(digest, data); err != nil {
		return fmt.Errorf("cache snapshot: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "cached in %s\n", cache.Dir())
	return nil
}

func dropSnapshots(cmd *cobra.Command) error {
	cache, err := snapshot.Open("graphir")
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	if err := cache.DropAll(); err != nil {
		return fmt.Errorf("drop cache: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "dropped cached graphs in %s\n", cache.Dir())
	return nil
}
