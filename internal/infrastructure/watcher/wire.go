package watcher

import (
	"github.com/google/wire"

	"github.com/todoapp/backend/internal/domain/events"
	"github.com/todoapp/backend/internal/infrastructure/config"
	"github.com/todoapp/backend/internal/infrastructure/log"
)

// ProviderSet 事件总线与配置监听 ProviderSet
var ProviderSet = wire.NewSet(
	ProvideEventBus,
	wire.Bind(new(events.Publisher), new(events.EventBus)),
	ProvideConfigWatcher,
)

// ProvideEventBus 提供事件总线实例
func ProvideEventBus() events.EventBus {
	return NewEventBus()
}

// ProvideConfigWatcher 提供配置文件监听器，变更时热更新日志级别
func ProvideConfigWatcher() (*ConfigWatcher, error) {
	return NewConfigWatcher(config.ConfigFilePath(), DefaultDebounceDelay, func(cfg *config.Config) {
		log.SetLevel(cfg.Log.Level)
	})
}
