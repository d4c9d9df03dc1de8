package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"mediafixer/internal/transform"
)

func newCleanCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "clean <path>",
		Short: "Delete leftover working artifacts from an interrupted run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.ensureConfig(); err != nil {
				return err
			}
			root, err := resolveScanRoot(args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			removed := 0
			err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if d.IsDir() || !d.Type().IsRegular() {
					return nil
				}
				if !transform.IsArtifact(path) {
					return nil
				}
				if dryRun {
					fmt.Fprintf(out, "Would delete %s\n", path)
					removed++
					return nil
				}
				if err := os.Remove(path); err != nil {
					return fmt.Errorf("delete artifact %s: %w", path, err)
				}
				fmt.Fprintf(out, "Deleted %s\n", path)
				removed++
				return nil
			})
			if err != nil {
				return err
			}

			if dryRun {
				fmt.Fprintf(out, "%d leftover artifact(s) would be deleted\n", removed)
			} else {
				fmt.Fprintf(out, "%d leftover artifact(s) deleted\n", removed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List artifacts without deleting them")
	return cmd
}
