package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"error", slog.LevelError},
		{"invalid", slog.LevelInfo}, // 默认值
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLevel(tt.input); got != tt.expected {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Run("default config", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "")
		t.Setenv("LOG_FORMAT", "")
		t.Setenv("ENV", "")

		cfg := NewConfigFromEnv()
		if cfg.Level != "info" {
			t.Errorf("expected default level info, got %s", cfg.Level)
		}
		if cfg.Format != "console" {
			t.Errorf("expected default format console, got %s", cfg.Format)
		}
	})

	t.Run("custom config", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "debug")
		t.Setenv("LOG_FORMAT", "json")
		t.Setenv("ENV", "")

		cfg := NewConfigFromEnv()
		if cfg.Level != "debug" || cfg.Format != "json" {
			t.Errorf("unexpected config: %+v", cfg)
		}
	})

	t.Run("development mode", func(t *testing.T) {
		t.Setenv("ENV", "development")
		t.Setenv("LOG_LEVEL", "error") // 应该被覆盖

		cfg := NewConfigFromEnv()
		if cfg.Level != "debug" {
			t.Errorf("expected debug in development, got %s", cfg.Level)
		}
		if !cfg.AddSource {
			t.Error("expected AddSource true in development")
		}
	})
}

func TestInitWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&Config{Level: "info", Format: "json"}, &buf)

	NewModuleLogger("todo", "service").Info("hello")

	out := buf.String()
	if !strings.Contains(out, `"service":"todoapp"`) {
		t.Errorf("expected service attr, got %s", out)
	}
	if !strings.Contains(out, `"module":"todo"`) {
		t.Errorf("expected module attr, got %s", out)
	}
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&Config{Level: "info", Format: "text"}, &buf)

	GetLogger().Debug("before")
	SetLevel("debug")
	GetLogger().Debug("after")

	if strings.Contains(buf.String(), "before") {
		t.Error("debug log should be filtered at info level")
	}
	if !strings.Contains(buf.String(), "after") {
		t.Error("debug log should pass after SetLevel(debug)")
	}
	if !IsDebugMode() {
		t.Error("expected debug mode")
	}

	SetLevel("")
	if Level() != slog.LevelDebug {
		t.Error("empty level should be ignored")
	}
	SetLevel("info")
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&Config{Level: "info", Format: "text"}, &buf)

	ctx := WithRequestID(context.Background(), "req-1")
	if RequestIDFromContext(ctx) != "req-1" {
		t.Fatal("request id not stored in context")
	}

	FromContext(ctx, GetLogger()).Info("with id")
	if !strings.Contains(buf.String(), "request_id=req-1") {
		t.Errorf("expected request_id in output, got %s", buf.String())
	}
}
