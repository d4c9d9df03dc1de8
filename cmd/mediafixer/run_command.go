package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mediafixer/internal/preflight"
	"mediafixer/internal/queue"
	"mediafixer/internal/scan"
	"mediafixer/internal/work"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var force bool
	var retryFailed bool
	var dryRun bool
	var deleteLeftovers bool

	cmd := &cobra.Command{
		Use:   "run [path]",
		Short: "Scan a tree when needed, then process the pending queue",
		Long: `Run resumes an interrupted batch when pending work exists, otherwise it
scans the tree and processes everything the scan queued. Interrupting a run
is safe: the next invocation picks up where it stopped.`,
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
			if deleteLeftovers {
				cfg.Scan.DeleteLeftovers = true
			}
			logger, err := ctx.newLogger(cfg)
			if err != nil {
				return err
			}

			runCtx, stop := signalContext(cmd)
			defer stop()

			if err := reportPreflight(cmd, preflight.RunAll(runCtx, cfg, root)); err != nil {
				return err
			}

			store, err := ctx.openStore(cfg, root)
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()

			if retryFailed {
				moved, err := store.RetryFailed()
				if err != nil {
					return fmt.Errorf("retry failed items: %w", err)
				}
				fmt.Fprintf(out, "Requeued %d failed item(s)\n", moved)
			}

			resumable, err := hasResumableWork(store)
			if err != nil {
				return err
			}

			switch {
			case resumable && !force:
				fmt.Fprintln(out, "Resuming existing queue")
			case dryRun:
				scanner := scan.New(cfg, store, logger, true)
				summary, err := scanner.Run(runCtx, root)
				if err != nil {
					return fmt.Errorf("scan %s: %w", root, err)
				}
				fmt.Fprintln(out, "Dry run: scan preview (queues untouched)")
				printScanSummary(cmd, summary)
			default:
				if err := store.Initialize(); err != nil {
					return err
				}
				scanner := scan.New(cfg, store, logger, false)
				summary, err := scanner.Run(runCtx, root)
				if err != nil {
					return fmt.Errorf("scan %s: %w", root, err)
				}
				printScanSummary(cmd, summary)
			}

			worker := work.New(cfg, store, logger, dryRun)
			summary, err := worker.Run(runCtx)
			if err != nil {
				return err
			}
			printWorkSummary(cmd, summary, dryRun)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Discard existing queues and rescan from scratch")
	cmd.Flags().BoolVar(&retryFailed, "retry-failed", false, "Requeue previously failed items before processing")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview actions without touching files or queues")
	cmd.Flags().BoolVar(&deleteLeftovers, "delete-leftovers", false, "Delete leftover working artifacts found while scanning")
	return cmd
}

// hasResumableWork reports whether a prior run left anything to pick up.
func hasResumableWork(store *queue.Store) (bool, error) {
	for _, name := range []queue.Name{queue.Pending, queue.InProgress} {
		length, err := store.Length(name)
		if err != nil {
			return false, err
		}
		if length > 0 {
			return true, nil
		}
	}
	return false, nil
}

func reportPreflight(cmd *cobra.Command, results []preflight.Result) error {
	out := cmd.OutOrStdout()
	for _, result := range results {
		if result.Passed {
			continue
		}
		if result.Optional {
			fmt.Fprintf(out, "Warning: %s: %s\n", result.Name, result.Detail)
		}
	}
	failed := preflight.Failed(results)
	if len(failed) == 0 {
		return nil
	}
	for _, result := range failed {
		fmt.Fprintf(cmd.ErrOrStderr(), "Preflight failed: %s: %s\n", result.Name, result.Detail)
	}
	return fmt.Errorf("%d preflight check(s) failed", len(failed))
}

func printScanSummary(cmd *cobra.Command, summary scan.Summary) {
	fmt.Fprintln(cmd.OutOrStdout(), renderCounts("Scan", []countRow{
		{"Visited", summary.Visited},
		{"Queued", summary.Queued},
		{"Skipped", summary.Skipped},
		{"Failed", summary.Failed},
		{"Leftovers", summary.Leftovers},
	}))
}

func printWorkSummary(cmd *cobra.Command, summary work.Summary, dryRun bool) {
	title := "Work"
	if dryRun {
		title = "Work (dry run)"
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderCounts(title, []countRow{
		{"Requeued", summary.Requeued},
		{"Processed", summary.Processed},
		{"Completed", summary.Completed},
		{"Failed", summary.Failed},
	}))
}
