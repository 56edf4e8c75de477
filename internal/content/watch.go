package content

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const reloadDebounce = 200 * time.Millisecond

// Watch reloads the portfolio at path whenever the file changes and hands the
// result to onChange. It watches the parent directory so editors that save
// by rename are picked up. Watch blocks until ctx is cancelled.
func Watch(ctx context.Context, path string, logger *zap.Logger, onChange func(*Portfolio, error)) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	logger.Debug("watching content", zap.String("path", abs))

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("content changed", zap.String("op", event.Op.String()))
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(reloadDebounce)
			pending = timer.C
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("content watcher error", zap.Error(err))
		case <-pending:
			pending = nil
			portfolio, err := Load(abs)
			if err == nil {
				err = portfolio.Validate()
			}
			if err != nil {
				logger.Warn("content reload failed", zap.Error(err))
			} else {
				logger.Info("content reloaded", zap.Int("projects", len(portfolio.Projects)))
			}
			onChange(portfolio, err)
		}
	}
}
