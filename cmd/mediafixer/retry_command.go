package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRetryCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "retry [path]",
		Short: "Requeue every failed item for the next run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			root, err := resolveScanRoot(args)
			if err != nil {
				return err
			}

			store, err := ctx.openStore(cfg, root)
			if err != nil {
				return err
			}
			defer store.Close()

			moved, err := store.RetryFailed()
			if err != nil {
				return fmt.Errorf("retry failed items: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Requeued %d failed item(s)\n", moved)
			return nil
		},
	}
	return cmd
}
