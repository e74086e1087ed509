package watcher

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/todoapp/backend/internal/infrastructure/config"
)

func TestConfigWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: info\n"), 0644))

	var level atomic.Value
	cw, err := NewConfigWatcher(path, 20*time.Millisecond, func(cfg *config.Config) {
		level.Store(cfg.Log.Level)
	})
	require.NoError(t, err)
	require.NoError(t, cw.Start())
	defer cw.Stop()

	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0644))

	assert.Eventually(t, func() bool {
		v, _ := level.Load().(string)
		return v == "debug"
	}, 2*time.Second, 20*time.Millisecond, "配置文件变更后应触发重载")
}

func TestConfigWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	var calls atomic.Int32
	cw, err := NewConfigWatcher(path, 20*time.Millisecond, func(cfg *config.Config) {
		calls.Add(1)
	})
	require.NoError(t, err)
	require.NoError(t, cw.Start())
	defer cw.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1"), 0644))

	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}

func TestConfigWatcher_InvalidFileKeepsPrevious(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	var calls atomic.Int32
	cw, err := NewConfigWatcher(path, 20*time.Millisecond, func(cfg *config.Config) {
		calls.Add(1)
	})
	require.NoError(t, err)
	require.NoError(t, cw.Start())
	defer cw.Stop()

	require.NoError(t, os.WriteFile(path, []byte("log: [broken"), 0644))

	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load(), "解析失败时不应回调")
}

func TestConfigWatcher_StopIsIdempotent(t *testing.T) {
	cw, err := NewConfigWatcher(filepath.Join(t.TempDir(), "config.yaml"), 0, nil)
	require.NoError(t, err)
	require.NoError(t, cw.Start())

	cw.Stop()
	assert.NotPanics(t, cw.Stop)
}
