package config

import (
	"context"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestWatch_SignalsReloadOnWrite(t *testing.T) {
	defer goleak.VerifyNone(t)

	configFile := createConfigFile(t, getBaseConfig())
	ossignal := make(chan os.Signal, 1)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error)
	go func() {
		done <- Watch(ctx, configFile, ossignal)
	}()

	// Give the watcher time to register the directory
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(configFile, []byte(getBaseConfig()), 0o644))

	select {
	case sig := <-ossignal:
		assert.Equal(t, syscall.SIGHUP, sig)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a reload signal")
	}

	cancel()
	assert.NoError(t, <-done)
}

func TestWatch_IgnoresOtherFiles(t *testing.T) {
	defer goleak.VerifyNone(t)

	configFile := createConfigFile(t, getBaseConfig())
	ossignal := make(chan os.Signal, 1)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error)
	go func() {
		done <- Watch(ctx, configFile, ossignal)
	}()

	time.Sleep(100 * time.Millisecond)
	other := filepath.Join(filepath.Dir(configFile), "other.yml")
	require.NoError(t, os.WriteFile(other, []byte("x: 1"), 0o644))

	select {
	case <-ossignal:
		t.Fatal("unexpected reload signal")
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	assert.NoError(t, <-done)
}
