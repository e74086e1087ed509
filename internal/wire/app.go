package wire

import (
	"log/slog"
	"net"

	appTodo "github.com/todoapp/backend/internal/application/todo"
	"github.com/todoapp/backend/internal/domain/events"
	applog "github.com/todoapp/backend/internal/infrastructure/log"
	"github.com/todoapp/backend/internal/infrastructure/mdns"
	"github.com/todoapp/backend/internal/infrastructure/notification"
	"github.com/todoapp/backend/internal/infrastructure/watcher"
	"github.com/todoapp/backend/internal/infrastructure/websocket"
	"github.com/todoapp/backend/internal/interfaces"
)

// App 应用主结构，组合所有服务
type App struct {
	HTTPServer  *interfaces.HTTPServer
	MCPServer   *interfaces.MCPServer
	TodoService *appTodo.Service

	wsHub         *websocket.Hub
	eventBus      events.EventBus
	pusher        *notification.WebSocketPusher
	configWatcher *watcher.ConfigWatcher
	advertiser    *mdns.Advertiser
	logger        *slog.Logger

	unsubscribers []func()
	httpErr       chan error
}

// NewApp 创建应用实例
func NewApp(
	httpServer *interfaces.HTTPServer,
	mcpServer *interfaces.MCPServer,
	todoService *appTodo.Service,
	wsHub *websocket.Hub,
	eventBus events.EventBus,
	pusher *notification.WebSocketPusher,
	configWatcher *watcher.ConfigWatcher,
	advertiser *mdns.Advertiser,
) *App {
	return &App{
		HTTPServer:    httpServer,
		MCPServer:     mcpServer,
		TodoService:   todoService,
		wsHub:         wsHub,
		eventBus:      eventBus,
		pusher:        pusher,
		configWatcher: configWatcher,
		advertiser:    advertiser,
		logger:        applog.NewModuleLogger("app", "main"),
		httpErr:       make(chan error, 1),
	}
}

// Start 启动所有服务
// listener 为单例锁持有的端口，交给 HTTP 服务器继续使用
func (a *App) Start(listener net.Listener) error {
	a.logger.Info("Starting todoapp backend")

	// 启动 WebSocket Hub，再注册事件订阅者
	a.wsHub.Start()
	a.setupEventSubscribers()

	// 配置热更新失败不影响服务
	if a.configWatcher != nil {
		if err := a.configWatcher.Start(); err != nil {
			a.logger.Error("Failed to start config watcher", "error", err)
		}
	}

	// 启动 HTTP 服务器（goroutine）
	go func() {
		if err := a.HTTPServer.Start(listener); err != nil {
			a.logger.Error("HTTP server stopped with error", "error", err)
			a.httpErr <- err
		}
	}()

	if err := a.MCPServer.Start(); err != nil {
		a.logger.Error("Failed to start MCP server", "error", err)
	}

	if a.advertiser != nil {
		if err := a.advertiser.Start(); err != nil {
			a.logger.Warn("Failed to start mDNS advertiser", "error", err)
		}
	}

	a.logger.Info("todoapp backend started")
	return nil
}

// setupEventSubscribers 注册事件订阅者
func (a *App) setupEventSubscribers() {
	if a.eventBus == nil {
		return
	}

	// WebSocket 变更推送
	if a.pusher != nil {
		a.unsubscribers = append(a.unsubscribers, a.pusher.Subscribe(a.eventBus))
		a.logger.Info("WebSocket pusher subscribed to todo events")
	}

	// 审计日志
	auditLogger := applog.NewModuleLogger("app", "audit")
	a.unsubscribers = append(a.unsubscribers, a.eventBus.SubscribeMultiple(
		events.AllTodoEvents,
		events.HandlerFunc(func(event events.Event) error {
			todoEvent, ok := event.(*events.TodoEvent)
			if !ok {
				return nil
			}
			auditLogger.Info("todo changed",
				"type", string(todoEvent.EventType),
				"id", todoEvent.ID,
			)
			return nil
		}),
	))
}

// Errors HTTP 服务器异常退出时收到错误
func (a *App) Errors() <-chan error {
	return a.httpErr
}

// Stop 停止所有服务，数据库由 wire 的 cleanup 关闭
func (a *App) Stop() error {
	a.logger.Info("Stopping todoapp backend")

	if a.advertiser != nil {
		a.advertiser.Stop()
	}

	// 先停止接收请求，避免关闭过程中仍有写入
	var firstErr error
	if err := a.HTTPServer.Stop(); err != nil {
		a.logger.Error("Failed to stop HTTP server", "error", err)
		firstErr = err
	}
	if err := a.MCPServer.Stop(); err != nil {
		a.logger.Error("Failed to stop MCP server", "error", err)
		if firstErr == nil {
			firstErr = err
		}
	}

	if a.configWatcher != nil {
		a.configWatcher.Stop()
	}

	for _, unsubscribe := range a.unsubscribers {
		unsubscribe()
	}
	a.unsubscribers = nil

	// 等待已发布事件处理完，再关闭 Hub
	if a.eventBus != nil {
		a.eventBus.Close()
	}
	a.wsHub.Stop()

	a.logger.Info("todoapp backend stopped")
	return firstErr
}
