// Package scan walks a directory tree once, classifies every video found,
// and distributes each file into the correct queue. A tree is only scanned
// when no resumable pending queue exists or the operator forces a rescan.
package scan

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"mediafixer/internal/classify"
	"mediafixer/internal/config"
	"mediafixer/internal/logging"
	"mediafixer/internal/media"
	"mediafixer/internal/queue"
	"mediafixer/internal/transform"
)

// Summary aggregates what a scan routed where.
type Summary struct {
	Visited   int
	Queued    int
	Skipped   int
	Failed    int
	Leftovers int
}

// Scanner classifies a tree into the pending/skipped/failed queues.
type Scanner struct {
	cfg    *config.Config
	store  *queue.Store
	logger *slog.Logger
	dryRun bool
}

// New constructs a scanner. In dry-run mode nothing is deleted and nothing
// is queued; files are only classified and counted.
func New(cfg *config.Config, store *queue.Store, logger *slog.Logger, dryRun bool) *Scanner {
	return &Scanner{cfg: cfg, store: store, logger: logging.WithComponent(logger, "scan"), dryRun: dryRun}
}

// Run walks every regular file under root and routes it. The walk order is
// the deterministic lexical order of fs.WalkDir, so re-scanning an unchanged
// tree produces identical queue contents.
func (s *Scanner) Run(ctx context.Context, root string) (Summary, error) {
	files, err := listFiles(root)
	if err != nil {
		return Summary{}, err
	}

	var summary Summary
	bar := newProgressBar(len(files))
	defer func() { _ = bar.Finish() }()

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		_ = bar.Add(1)
		summary.Visited++

		if err := s.route(ctx, path, &summary); err != nil {
			return summary, err
		}
	}

	s.logger.Info("scan finished",
		logging.Int("visited", summary.Visited),
		logging.Int("queued", summary.Queued),
		logging.Int("skipped", summary.Skipped),
		logging.Int("failed", summary.Failed),
		logging.Int("leftovers", summary.Leftovers),
	)
	return summary, nil
}

func (s *Scanner) route(ctx context.Context, path string, summary *Summary) error {
	if transform.IsArtifact(path) {
		summary.Leftovers++
		return s.handleLeftover(path)
	}
	if !media.IsVideoPath(path) {
		return nil
	}

	probe, err := media.Inspect(ctx, s.cfg.FFmpeg.ProbeBinary, path)
	if err != nil {
		s.logger.Warn("probe failed",
			logging.String(logging.FieldPath, path),
			logging.Error(err),
		)
		summary.Failed++
		return s.append(queue.Failed, path)
	}

	result := classify.Classify(probe, s.cfg.Policy)
	switch result.Kind {
	case classify.Invalid:
		s.logger.Warn("unreadable video",
			logging.String(logging.FieldPath, path),
		)
		summary.Failed++
		return s.append(queue.Failed, path)
	case classify.Skip:
		summary.Skipped++
		return s.append(queue.Skipped, path)
	default:
		item := result.WorkItem(path)
		s.logger.Debug("queued for work",
			logging.String(logging.FieldPath, path),
			logging.Bool("remux", item.Remux),
			logging.Bool("reencode", item.Reencode),
			logging.Bool("resize", item.Resize),
		)
		summary.Queued++
		return s.append(queue.Pending, item.Encode())
	}
}

func (s *Scanner) handleLeftover(path string) error {
	if s.cfg.Scan.DeleteLeftovers {
		if s.dryRun {
			s.logger.Info("would delete leftover artifact", logging.String(logging.FieldPath, path))
			return nil
		}
		s.logger.Info("deleted leftover artifact", logging.String(logging.FieldPath, path))
		return os.Remove(path)
	}
	s.logger.Info("found leftover artifact", logging.String(logging.FieldPath, path))
	return s.append(queue.Leftover, path)
}

// append routes an entry to a queue unless this is a dry run.
func (s *Scanner) append(name queue.Name, entry string) error {
	if s.dryRun {
		return nil
	}
	return s.store.Append(name, entry)
}

func listFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func newProgressBar(total int) *progressbar.ProgressBar {
	writer := io.Writer(io.Discard)
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		writer = os.Stderr
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Scanning files"),
		progressbar.OptionSetWriter(writer),
		progressbar.OptionClearOnFinish(),
	)
}
