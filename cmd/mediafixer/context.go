package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"mediafixer/internal/config"
	"mediafixer/internal/logging"
	"mediafixer/internal/queue"
)

type commandContext struct {
	configFlag   *string
	queueDirFlag *string
	prefixFlag   *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, queueDirFlag, prefixFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		queueDirFlag: queueDirFlag,
		prefixFlag:   prefixFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.queueDirFlag != nil && strings.TrimSpace(*c.queueDirFlag) != "" {
			expanded, err := config.ExpandPath(*c.queueDirFlag)
			if err != nil {
				c.configErr = fmt.Errorf("resolve queue directory: %w", err)
				return
			}
			cfg.Paths.QueueDir = expanded
		}
		if c.prefixFlag != nil && strings.TrimSpace(*c.prefixFlag) != "" {
			cfg.Paths.QueuePrefix = strings.TrimSpace(*c.prefixFlag)
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) newLogger(cfg *config.Config) (*slog.Logger, error) {
	return logging.NewFromConfig(cfg)
}

// openStore acquires the queue set for a run rooted at scanRoot. A held lock
// means another mediafixer process owns the same library.
func (c *commandContext) openStore(cfg *config.Config, scanRoot string) (*queue.Store, error) {
	store, err := queue.Open(cfg.QueueDirFor(scanRoot), cfg.Paths.QueuePrefix)
	if err != nil {
		if errors.Is(err, queue.ErrLocked) {
			return nil, fmt.Errorf("%w; is another mediafixer run active?", err)
		}
		return nil, err
	}
	return store, nil
}

// resolveScanRoot canonicalizes the optional path argument, defaulting to
// the current directory.
func resolveScanRoot(args []string) (string, error) {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}
	expanded, err := config.ExpandPath(root)
	if err != nil {
		return "", fmt.Errorf("resolve scan root: %w", err)
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("resolve scan root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("scan root: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("scan root %s is not a directory", abs)
	}
	return abs, nil
}

// signalContext cancels the command context on SIGINT/SIGTERM so an
// interrupted run leaves its claimed item for the next run to reconcile.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
