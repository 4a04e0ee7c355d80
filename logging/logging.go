package logging

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"lautenbacher.net/gosaber/config"
)

// holdWriter sends log lines to a live destination or holds them back
// while there is none yet (the TUI log pane only exists after the first
// draw). Every line also goes to the log file, if one is open.
type holdWriter struct {
	mu      sync.Mutex
	held    bytes.Buffer
	live    io.Writer
	file    *os.File
	holding bool
}

func (w *holdWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var errs []error
	switch {
	case w.holding:
		w.held.Write(p)
	case w.live != nil:
		if _, err := w.live.Write(p); err != nil {
			errs = append(errs, err)
		}
	}
	if w.file != nil {
		if _, err := w.file.Write(p); err != nil {
			errs = append(errs, err)
		}
	}
	return len(p), errors.Join(errs...)
}

var writer *holdWriter

// Init installs the default slog logger configured by cfg. With hold
// set, lines are kept until SetOutput names their destination;
// otherwise they go to stderr. A non-empty cfg.File gets a copy of
// every line.
func Init(hold bool, cfg config.LogConfig) error {
	writer = &holdWriter{holding: hold}
	if !hold {
		writer.live = os.Stderr
	}

	if cfg.File != "" {
		file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
		if err != nil {
			return fmt.Errorf("can't open log file %s: %w", cfg.File, err)
		}
		writer.file = file
	}

	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(writer, opts)
	} else {
		handler = slog.NewTextHandler(writer, opts)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}

// parseLevel maps a level name to its slog level. Unknown names mean INFO.
func parseLevel(levelStr string) slog.Level {
	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetOutput writes the held lines to target and makes it the live
// destination.
func SetOutput(target io.Writer) error {
	writer.mu.Lock()
	defer writer.mu.Unlock()

	if _, err := writer.held.WriteTo(target); err != nil {
		return fmt.Errorf("can't flush held log lines: %w", err)
	}
	writer.live = target
	writer.holding = false
	return nil
}

// BufferOutput drops the live destination and holds lines again.
func BufferOutput() {
	writer.mu.Lock()
	defer writer.mu.Unlock()

	writer.live = nil
	writer.holding = true
}

// Close hands lines still held to stderr and closes the log file. The
// file already has them.
func Close() error {
	writer.mu.Lock()
	defer writer.mu.Unlock()

	var errs []error
	if writer.held.Len() > 0 {
		if _, err := writer.held.WriteTo(os.Stderr); err != nil {
			errs = append(errs, err)
		}
	}
	writer.held.Reset()
	if writer.file != nil {
		errs = append(errs, writer.file.Close())
		writer.file = nil
	}
	return errors.Join(errs...)
}
