// Package work drains the pending queue one item at a time, applying the
// configured transformations and recording each outcome in a terminal queue.
package work

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"mediafixer/internal/classify"
	"mediafixer/internal/config"
	"mediafixer/internal/logging"
	"mediafixer/internal/media"
	"mediafixer/internal/queue"
	"mediafixer/internal/transform"
)

// Summary aggregates the outcomes of a work phase.
type Summary struct {
	Requeued  int
	Processed int
	Completed int
	Failed    int
}

// Worker processes pending items sequentially in queue order. Transformation
// failures are contained per item; only queue I/O errors abort the run.
type Worker struct {
	cfg    *config.Config
	store  *queue.Store
	runner *transform.Runner
	logger *slog.Logger
	dryRun bool
}

// New constructs a worker bound to the given queue set.
func New(cfg *config.Config, store *queue.Store, logger *slog.Logger, dryRun bool) *Worker {
	return &Worker{
		cfg:    cfg,
		store:  store,
		runner: transform.NewRunner(cfg, logger, dryRun),
		logger: logging.WithComponent(logger, "work"),
		dryRun: dryRun,
	}
}

// Run reconciles any interrupted prior run and then drains the pending queue.
// It stops early only on context cancellation or a queue I/O failure; the
// item being worked on at that moment stays in in_progress so the next run
// can reconcile it.
func (w *Worker) Run(ctx context.Context) (Summary, error) {
	if w.dryRun {
		return w.preview(ctx)
	}

	requeued, err := w.store.Reconcile()
	if err != nil {
		return Summary{}, fmt.Errorf("reconcile interrupted run: %w", err)
	}
	if requeued > 0 {
		w.logger.Info("requeued interrupted items", logging.Int("count", requeued))
	}

	summary := Summary{Requeued: requeued}
	for {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		entry, ok, err := w.store.Claim(queue.Pending, queue.InProgress)
		if err != nil {
			return summary, fmt.Errorf("claim next item: %w", err)
		}
		if !ok {
			break
		}
		summary.Processed++
		if err := w.handle(ctx, entry, &summary); err != nil {
			return summary, err
		}
	}

	w.logger.Info("work finished",
		logging.Int("processed", summary.Processed),
		logging.Int("completed", summary.Completed),
		logging.Int("failed", summary.Failed),
	)
	return summary, nil
}

func (w *Worker) handle(ctx context.Context, entry string, summary *Summary) error {
	logger := w.logger.With(logging.String(logging.FieldItemID, uuid.NewString()))

	item, err := queue.ParseWorkItem(entry)
	if err != nil {
		item, err = w.recoverBareEntry(ctx, entry)
		if err != nil {
			logger.Warn("unusable queue entry",
				logging.String("entry", entry),
				logging.Error(err),
			)
			summary.Failed++
			return w.store.Resolve(entry, queue.Failed)
		}
		if !item.NeedsWork() {
			logger.Info("already conforms to policy", logging.String(logging.FieldPath, item.Path))
			summary.Completed++
			return w.store.Resolve(entry, queue.Completed)
		}
	}

	logger.Info("processing item",
		logging.String(logging.FieldPath, item.Path),
		logging.Bool("remux", item.Remux),
		logging.Bool("reencode", item.Reencode),
		logging.Bool("resize", item.Resize),
	)

	if err := w.runner.Process(ctx, item); err != nil {
		// Cancellation is not a verdict on the item; leave it claimed so the
		// next run reconciles it back into pending.
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Error("transformation failed",
			logging.String(logging.FieldPath, item.Path),
			logging.Error(err),
		)
		summary.Failed++
		return w.store.Resolve(entry, queue.Failed)
	}

	summary.Completed++
	return w.store.Resolve(entry, queue.Completed)
}

// recoverBareEntry reclassifies an entry carrying no transformation flags.
// Such entries reach pending when the operator retries scan-time failures,
// so the file may have been repaired or replaced since.
func (w *Worker) recoverBareEntry(ctx context.Context, entry string) (queue.WorkItem, error) {
	if strings.Contains(entry, queue.Delimiter) {
		return queue.WorkItem{}, fmt.Errorf("malformed work item: %q", entry)
	}
	probe, err := media.Inspect(ctx, w.cfg.FFmpeg.ProbeBinary, entry)
	if err != nil {
		return queue.WorkItem{}, err
	}
	result := classify.Classify(probe, w.cfg.Policy)
	if result.Kind == classify.Invalid {
		return queue.WorkItem{}, fmt.Errorf("no usable video stream: %s", entry)
	}
	return result.WorkItem(entry), nil
}

// preview walks the pending queue without claiming anything, logging the
// commands each item would run.
func (w *Worker) preview(ctx context.Context) (Summary, error) {
	stranded, err := w.store.Length(queue.InProgress)
	if err != nil {
		return Summary{}, err
	}
	if stranded > 0 {
		w.logger.Info("interrupted items awaiting reconciliation", logging.Int("count", stranded))
	}

	entries, err := w.store.Entries(queue.Pending)
	if err != nil {
		return Summary{}, err
	}

	var summary Summary
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		item, err := queue.ParseWorkItem(entry)
		if err != nil {
			w.logger.Warn("unusable queue entry",
				logging.String("entry", entry),
				logging.Error(err),
			)
			summary.Failed++
			continue
		}
		summary.Processed++
		if err := w.runner.Process(ctx, item); err != nil {
			summary.Failed++
		}
	}
	return summary, nil
}
