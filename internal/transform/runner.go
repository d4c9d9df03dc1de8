package transform

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"mediafixer/internal/config"
	"mediafixer/internal/fileutil"
	"mediafixer/internal/logging"
	"mediafixer/internal/queue"
)

// StepError reports a failed transformation step along with the tool's
// diagnostic output.
type StepError struct {
	Step   string
	Output string
	Err    error
}

func (e *StepError) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("%s step: %v", e.Step, e.Err)
	}
	return fmt.Sprintf("%s step: %v: %s", e.Step, e.Err, e.Output)
}

func (e *StepError) Unwrap() error { return e.Err }

// Runner executes the transformation steps for one item at a time.
type Runner struct {
	cfg    *config.Config
	logger *slog.Logger
	dryRun bool
}

// NewRunner constructs a transformation runner. When dryRun is set, the
// planned commands are logged but nothing is executed or modified.
func NewRunner(cfg *config.Config, logger *slog.Logger, dryRun bool) *Runner {
	return &Runner{cfg: cfg, logger: logging.WithComponent(logger, "transform"), dryRun: dryRun}
}

// Process runs the steps an item needs in fixed order: remux first, then
// encode/resize. All steps operate on a working copy; on success the result
// is renamed over the canonical destination, on failure every intermediate
// artifact is removed and the original file is left untouched.
func (r *Runner) Process(ctx context.Context, item queue.WorkItem) error {
	info, err := os.Stat(item.Path)
	if err != nil {
		return fmt.Errorf("stat original: %w", err)
	}

	ext := r.cfg.Policy.ContainerExtension
	working := WorkingPath(item.Path)
	final := FinalPath(item.Path, ext)

	if r.dryRun {
		r.logDryRun(item, working, final)
		return nil
	}

	// The working copy and one step output can coexist, so demand room for
	// both before touching the disk.
	free, err := fileutil.FreeSpace(filepath.Dir(item.Path))
	if err != nil {
		return err
	}
	if need := 2 * uint64(info.Size()); free < need {
		return fmt.Errorf("insufficient disk space: need %d bytes, %d available", need, free)
	}

	if err := fileutil.CopyFile(item.Path, working); err != nil {
		return fmt.Errorf("create working copy: %w", err)
	}

	if item.Remux {
		output := RemuxedPath(item.Path, ext)
		args, err := remuxArgs(r.cfg, working, output)
		if err != nil {
			r.cleanup(item.Path)
			return err
		}
		if err := r.runStep(ctx, "remux", args, output, working); err != nil {
			r.cleanup(item.Path)
			return err
		}
	}

	if item.Reencode || item.Resize {
		output := EncodedPath(item.Path, ext)
		args, err := encodeArgs(r.cfg, working, output, item.Reencode, item.Resize)
		if err != nil {
			r.cleanup(item.Path)
			return err
		}
		if err := r.runStep(ctx, "encode", args, output, working); err != nil {
			r.cleanup(item.Path)
			return err
		}
	}

	// Promote the fully transformed copy into place, then drop the original
	// when the container extension changed its name.
	if err := os.Rename(working, final); err != nil {
		r.cleanup(item.Path)
		return fmt.Errorf("promote result: %w", err)
	}
	if final != item.Path {
		if err := os.Remove(item.Path); err != nil {
			return fmt.Errorf("remove superseded original: %w", err)
		}
	}

	r.logger.Info("transformed file",
		logging.String(logging.FieldPath, item.Path),
		logging.String("final", final),
		logging.Bool("remux", item.Remux),
		logging.Bool("reencode", item.Reencode),
		logging.Bool("resize", item.Resize),
	)
	return nil
}

// runStep invokes ffmpeg and, on success, renames the step output over the
// working copy so the next step consumes it.
func (r *Runner) runStep(ctx context.Context, step string, args []string, output, working string) error {
	if timeout := r.cfg.FFmpeg.StepTimeoutSeconds; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
		defer cancel()
	}

	r.logger.Debug("running step",
		logging.String(logging.FieldStep, step),
		logging.String("command", r.cfg.FFmpeg.Binary+" "+strings.Join(args, " ")),
	)

	cmd := exec.CommandContext(ctx, r.cfg.FFmpeg.Binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		_ = os.Remove(output)
		return &StepError{Step: step, Output: tail(stderr.String(), 512), Err: err}
	}
	if err := os.Rename(output, working); err != nil {
		_ = os.Remove(output)
		return fmt.Errorf("advance %s output: %w", step, err)
	}
	return nil
}

func (r *Runner) cleanup(source string) {
	ext := r.cfg.Policy.ContainerExtension
	for _, path := range []string{WorkingPath(source), RemuxedPath(source, ext), EncodedPath(source, ext)} {
		_ = os.Remove(path)
	}
}

func (r *Runner) logDryRun(item queue.WorkItem, working, final string) {
	attrs := []any{
		logging.String(logging.FieldPath, item.Path),
		logging.String("working", working),
		logging.String("final", final),
	}
	if item.Remux {
		if args, err := remuxArgs(r.cfg, working, RemuxedPath(item.Path, r.cfg.Policy.ContainerExtension)); err == nil {
			attrs = append(attrs, logging.String("remux_command", strings.Join(args, " ")))
		}
	}
	if item.Reencode || item.Resize {
		if args, err := encodeArgs(r.cfg, working, EncodedPath(item.Path, r.cfg.Policy.ContainerExtension), item.Reencode, item.Resize); err == nil {
			attrs = append(attrs, logging.String("encode_command", strings.Join(args, " ")))
		}
	}
	r.logger.Info("dry run: would transform file", attrs...)
}

func tail(s string, limit int) string {
	s = strings.TrimSpace(s)
	if len(s) <= limit {
		return s
	}
	return "..." + s[len(s)-limit:]
}
