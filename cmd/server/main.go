// @title todoapp API
// @version 1.0
// @description 待办事项 CRUD 服务 API
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/todoapp/backend/internal/infrastructure/config"
	applog "github.com/todoapp/backend/internal/infrastructure/log"
	"github.com/todoapp/backend/internal/infrastructure/singleton"
	"github.com/todoapp/backend/internal/wire"
)

func main() {
	// 初始化日志系统
	applog.Init(nil)
	logger := applog.NewModuleLogger("main", "server")

	// 加载配置：默认值 -> 配置文件 -> 环境变量
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	applog.SetLevel(cfg.Log.Level)
	if cfg.Path() != "" {
		logger.Info("Config file loaded", "path", cfg.Path())
	}

	// 单例锁：占用 HTTP 端口
	listener, err := singleton.CheckAndLock(cfg.Server.HTTPPort)
	if err != nil {
		logger.Error("Single instance check failed", "port", cfg.Server.HTTPPort, "error", err)
		os.Exit(1)
	}
	if listener == nil {
		// 已有实例运行，直接退出
		logger.Info("Another instance is already running, exiting", "port", cfg.Server.HTTPPort)
		os.Exit(0)
	}

	// Wire 自动生成的初始化函数
	app, cleanup, err := wire.InitializeAll(cfg)
	if err != nil {
		_ = listener.Close()
		logger.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	// 启动所有服务，HTTP 服务器接管 listener
	if err := app.Start(listener); err != nil {
		logger.Error("Failed to start application", "error", err)
		cleanup()
		os.Exit(1)
	}

	// 优雅关闭
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigChan:
		logger.Info("Shutting down application...", "signal", sig.String())
	case err := <-app.Errors():
		logger.Error("HTTP server failed, shutting down", "error", err)
	}

	if err := app.Stop(); err != nil {
		logger.Error("Error during application shutdown", "error", err)
	}
	logger.Info("Application stopped")
}
