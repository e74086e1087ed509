package watcher

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/todoapp/backend/internal/infrastructure/config"
	"github.com/todoapp/backend/internal/infrastructure/log"
)

// DefaultDebounceDelay 配置文件变更防抖延迟
const DefaultDebounceDelay = 500 * time.Millisecond

// ConfigWatcher 监听配置文件变更并重新加载
// 监听所在目录而非文件本身，编辑器常以“写临时文件再改名”的方式保存
type ConfigWatcher struct {
	path     string
	onChange func(*config.Config)
	debounce time.Duration
	watcher  *fsnotify.Watcher
	logger   *slog.Logger

	timerMu sync.Mutex
	timer   *time.Timer

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewConfigWatcher 创建配置文件监听器
func NewConfigWatcher(path string, debounce time.Duration, onChange func(*config.Config)) (*ConfigWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounceDelay
	}

	return &ConfigWatcher{
		path:     filepath.Clean(path),
		onChange: onChange,
		debounce: debounce,
		watcher:  w,
		logger:   log.NewModuleLogger("watcher", "config_watcher"),
		stopCh:   make(chan struct{}),
	}, nil
}

// Start 开始监听
func (cw *ConfigWatcher) Start() error {
	dir := filepath.Dir(cw.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := cw.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch config directory: %w", err)
	}

	cw.logger.Info("Watching config file", "path", cw.path)

	cw.wg.Add(1)
	go cw.watchLoop()
	return nil
}

// Stop 停止监听
func (cw *ConfigWatcher) Stop() {
	cw.stopOnce.Do(func() {
		close(cw.stopCh)
		cw.watcher.Close()
		cw.wg.Wait()

		cw.timerMu.Lock()
		if cw.timer != nil {
			cw.timer.Stop()
		}
		cw.timerMu.Unlock()
	})
}

func (cw *ConfigWatcher) watchLoop() {
	defer cw.wg.Done()

	for {
		select {
		case <-cw.stopCh:
			return
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != cw.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				cw.scheduleReload()
			}
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			cw.logger.Warn("Config watcher error", "error", err)
		}
	}
}

// scheduleReload 防抖：连续变更只触发一次重载
func (cw *ConfigWatcher) scheduleReload() {
	cw.timerMu.Lock()
	defer cw.timerMu.Unlock()

	if cw.timer != nil {
		cw.timer.Stop()
	}
	cw.timer = time.AfterFunc(cw.debounce, cw.reload)
}

func (cw *ConfigWatcher) reload() {
	select {
	case <-cw.stopCh:
		return
	default:
	}

	cfg, err := config.LoadFrom(cw.path)
	if err != nil {
		cw.logger.Warn("Failed to reload config, keeping previous values",
			"path", cw.path,
			"error", err,
		)
		return
	}

	cw.logger.Info("Config reloaded", "path", cw.path, "log_level", cfg.Log.Level)
	if cw.onChange != nil {
		cw.onChange(cfg)
	}
}
