package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mediafixer/internal/scan"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	var deleteLeftovers bool

	cmd := &cobra.Command{
		Use:   "scan <path>",
		Short: "Classify a tree into fresh queues without processing anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			root, err := resolveScanRoot(args)
			if err != nil {
				return err
			}
			if deleteLeftovers {
				cfg.Scan.DeleteLeftovers = true
			}
			logger, err := ctx.newLogger(cfg)
			if err != nil {
				return err
			}

			scanCtx, stop := signalContext(cmd)
			defer stop()

			store, err := ctx.openStore(cfg, root)
			if err != nil {
				return err
			}
			defer store.Close()

			if !dryRun {
				if err := store.Initialize(); err != nil {
					return err
				}
			}
			scanner := scan.New(cfg, store, logger, dryRun)
			summary, err := scanner.Run(scanCtx, root)
			if err != nil {
				return fmt.Errorf("scan %s: %w", root, err)
			}
			printScanSummary(cmd, summary)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Classify and count without writing queues or deleting anything")
	cmd.Flags().BoolVar(&deleteLeftovers, "delete-leftovers", false, "Delete leftover working artifacts found while scanning")
	return cmd
}
