package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
)

// Watch blocks until ctx is done and sends a SIGHUP to ossignal every
// time the config file cfile is written or replaced. The directory is
// watched instead of the file itself because most editors replace the
// file on save.
func Watch(ctx context.Context, cfile string, ossignal chan<- os.Signal) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(cfile)
	if err != nil {
		return fmt.Errorf("failed to resolve config file %s: %w", cfile, err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	slog.Debug("Watching config file", "file", abs)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				slog.Info("Config file changed, requesting reload", "file", abs, "op", event.Op.String())
				select {
				case ossignal <- syscall.SIGHUP:
				default:
					// a reload is already pending
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("Config watcher error", "error", err)
		}
	}
}
