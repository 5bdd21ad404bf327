package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/philipp01105/loggy/logger"
)

func startWatcher(t *testing.T, path string, l *logger.Logger) (*Watcher, *observer.ObservedLogs, chan error) {
	t.Helper()
	obs, logs := observer.New(zap.InfoLevel)

	w, err := NewWatcher(path, l, zap.New(obs))
	require.NoError(t, err)
	w.debounce = 10 * time.Millisecond

	results := make(chan error, 16)
	w.OnReload(func(err error) { results <- err })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		_ = w.Close()
	})
	return w, logs, results
}

// replaceFile swaps in new content with a rename, which the watcher sees
// as a single event
func replaceFile(t *testing.T, path, content string) {
	t.Helper()
	tmp := path + ".tmp"
	require.NoError(t, os.WriteFile(tmp, []byte(content), 0644))
	require.NoError(t, os.Rename(tmp, path))
}

func waitReload(t *testing.T, results chan error) error {
	t.Helper()
	select {
	case err := <-results:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("no reload within 5s")
		return nil
	}
}

func TestWatcher_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "loggy.yaml")
	first := filepath.Join(dir, "first.log")
	second := filepath.Join(dir, "second.log")
	require.NoError(t, os.WriteFile(cfgPath, []byte("sinks:\n  - type: file\n    path: "+first+"\n"), 0644))

	l := newLogger(t)
	cfg, err := Load(cfgPath)
	require.NoError(t, err)
	require.NoError(t, cfg.Apply(l))
	old := l.Sinks()
	require.Len(t, old, 1)

	_, logs, results := startWatcher(t, cfgPath, l)

	replaceFile(t, cfgPath, "level: error\nsinks:\n  - type: file\n    path: "+second+"\n")
	require.NoError(t, waitReload(t, results))

	assert.Equal(t, logger.ErrorLevel, l.Level())
	sinks := l.Sinks()
	require.Len(t, sinks, 1)
	assert.Equal(t, second, sinks[0].Name())
	assert.Equal(t, "Stopped", old[0].State().String())
	assert.GreaterOrEqual(t, logs.FilterMessage("config reloaded").Len(), 1)
}

func TestWatcher_KeepsSetupOnInvalidFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "loggy.yaml")
	logPath := filepath.Join(dir, "app.log")
	require.NoError(t, os.WriteFile(cfgPath, []byte("sinks:\n  - type: file\n    path: "+logPath+"\n"), 0644))

	l := newLogger(t)
	cfg, err := Load(cfgPath)
	require.NoError(t, err)
	require.NoError(t, cfg.Apply(l))

	_, logs, results := startWatcher(t, cfgPath, l)

	replaceFile(t, cfgPath, "sinks:\n  - type: smoke-signal\n")
	assert.ErrorIs(t, waitReload(t, results), ErrUnknownSinkType)

	sinks := l.Sinks()
	require.Len(t, sinks, 1)
	assert.Equal(t, logPath, sinks[0].Name())
	assert.GreaterOrEqual(t, logs.FilterMessage("config reload failed").Len(), 1)
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "loggy.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("level: info\n"), 0644))

	l := newLogger(t)
	_, _, results := startWatcher(t, cfgPath, l)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.yaml"), []byte("level: error\n"), 0644))

	select {
	case err := <-results:
		t.Fatalf("unexpected reload: %v", err)
	case <-time.After(200 * time.Millisecond):
	}
	assert.Equal(t, logger.InfoLevel, l.Level())
}

func TestNewWatcher_MissingDirectory(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "nope", "loggy.yaml"), newLogger(t), nil)
	assert.Error(t, err)
}
