package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mediafixer/internal/queue"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status [path]",
		Short: "Show queue counts for a tree",
		Long: `Status reads the queue files without locking them, so it works while a
run is active.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			root, err := resolveScanRoot(args)
			if err != nil {
				return err
			}

			store := queue.OpenReadOnly(cfg.QueueDirFor(root), cfg.Paths.QueuePrefix)
			counts, err := store.Counts()
			if err != nil {
				return fmt.Errorf("read queues: %w", err)
			}

			total := 0
			rows := make([]countRow, 0, len(queue.Names)+1)
			for _, name := range queue.Names {
				rows = append(rows, countRow{string(name), counts[name]})
				total += counts[name]
			}
			rows = append(rows, countRow{"total", total})

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Queue directory: %s\n", store.Dir())
			fmt.Fprintln(out, renderCounts("Queue", rows))
			if counts[queue.InProgress] > 0 {
				fmt.Fprintln(out, "An item is claimed; either a run is active or the last run was interrupted.")
			}
			return nil
		},
	}
	return cmd
}
