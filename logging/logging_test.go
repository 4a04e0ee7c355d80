package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lautenbacher.net/gosaber/config"
)

type failingWriter struct{}

func (fw *failingWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

func TestTUIMode(t *testing.T) {
	require.NoError(t, Init(true, config.LogConfig{Level: "DEBUG", Format: "text"}))

	slog.Info("Initial log")

	var tuiPane bytes.Buffer
	require.NoError(t, SetOutput(&tuiPane))
	assert.Contains(t, tuiPane.String(), "Initial log", "buffered lines are flushed to the new target")

	slog.Info("Live log")
	assert.Contains(t, tuiPane.String(), "Live log")

	BufferOutput()
	slog.Info("Buffered log")
	assert.NotContains(t, tuiPane.String(), "Buffered log")

	var after bytes.Buffer
	require.NoError(t, SetOutput(&after))
	assert.Contains(t, after.String(), "Buffered log")
	require.NoError(t, Close())
}

func TestFileLoggingJSON(t *testing.T) {
	logfile := filepath.Join(t.TempDir(), "gosaber.log")

	require.NoError(t, Init(true, config.LogConfig{Level: "INFO", Format: "json", File: logfile}))

	slog.Info("Saber log", "mode", "Active")
	slog.Debug("filtered out")

	require.NoError(t, Close())

	content, err := os.ReadFile(logfile)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"msg":"Saber log"`)
	assert.Contains(t, string(content), `"mode":"Active"`)
	assert.NotContains(t, string(content), "filtered out")
}

func TestInitBadLogFile(t *testing.T) {
	err := Init(false, config.LogConfig{File: filepath.Join(t.TempDir(), "missing", "x.log")})
	assert.ErrorContains(t, err, "can't open log file")
}

func TestStderrFallback(t *testing.T) {
	require.NoError(t, Init(true, config.LogConfig{Level: "DEBUG", Format: "text"}))

	slog.Info("Shutdown log")

	oldStderr := os.Stderr
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stderr = w

	var wg sync.WaitGroup
	wg.Add(1)
	var capturedOutput string
	go func() {
		defer wg.Done()
		buf := make([]byte, 1024)
		n, _ := r.Read(buf)
		capturedOutput = string(buf[:n])
	}()

	closeErr := Close()
	w.Close()
	wg.Wait()
	os.Stderr = oldStderr

	require.NoError(t, closeErr)
	assert.Contains(t, capturedOutput, "Shutdown log")
}

func TestErrorPropagation(t *testing.T) {
	require.NoError(t, Init(false, config.LogConfig{}))

	writer.live = &failingWriter{}
	_, err := writer.Write([]byte("This should fail"))
	assert.EqualError(t, err, "write failed")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"Warn":    slog.LevelWarn,
		"ERROR":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for name, want := range tests {
		assert.Equal(t, want, parseLevel(name), name)
	}
}

func TestHeldLinesReachFileOnce(t *testing.T) {
	logfile := filepath.Join(t.TempDir(), "gosaber.log")
	require.NoError(t, Init(true, config.LogConfig{Level: "INFO", File: logfile}))

	slog.Info("held line")

	oldStderr := os.Stderr
	devNull, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	require.NoError(t, err)
	os.Stderr = devNull
	closeErr := Close()
	os.Stderr = oldStderr
	devNull.Close()
	require.NoError(t, closeErr)

	content, err := os.ReadFile(logfile)
	require.NoError(t, err)
	assert.Equal(t, 1, bytes.Count(content, []byte("held line")))
}
