package log

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/todoapp/backend/internal/infrastructure/log/handler"
)

// 全局 logger 实例
var (
	defaultLogger *slog.Logger
	level         = new(slog.LevelVar)
)

// Init 初始化日志系统
func Init(cfg *Config) {
	if cfg == nil {
		cfg = NewConfigFromEnv()
	}
	InitWithWriter(cfg, os.Stdout)
}

// InitWithWriter 初始化日志系统并输出到指定 writer
func InitWithWriter(cfg *Config, out io.Writer) {
	level.Set(parseLevel(cfg.Level))

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.AddSource,
	}

	// 根据格式选择处理器
	var logHandler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		logHandler = slog.NewJSONHandler(out, opts)
	case "text":
		logHandler = slog.NewTextHandler(out, opts)
	default:
		logHandler = handler.NewConsoleHandler(out, opts)
	}

	defaultLogger = slog.New(logHandler.WithAttrs([]slog.Attr{
		slog.String("service", "todoapp"),
	}))

	slog.SetDefault(defaultLogger)
}

// GetLogger 获取默认 logger
func GetLogger() *slog.Logger {
	if defaultLogger == nil {
		Init(nil)
	}
	return defaultLogger
}

// NewModuleLogger 为特定模块创建 logger
func NewModuleLogger(module, component string) *slog.Logger {
	return GetLogger().With(
		slog.String("module", module),
		slog.String("component", component),
	)
}

// SetLevel 运行时调整日志级别，空字符串忽略
func SetLevel(lvl string) {
	if lvl == "" {
		return
	}
	level.Set(parseLevel(lvl))
}

// Level 当前日志级别
func Level() slog.Level {
	return level.Level()
}

// IsDebugMode 检查是否为调试模式
func IsDebugMode() bool {
	return level.Level() <= slog.LevelDebug
}

// parseLevel 解析日志级别
func parseLevel(lvl string) slog.Level {
	switch strings.ToLower(lvl) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
