package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// 环境变量名
const (
	EnvConfigFile       = "TODOAPP_CONFIG"
	EnvHTTPPort         = "TODOAPP_HTTP_PORT"
	EnvDBDriver         = "TODOAPP_DB_DRIVER"
	EnvDBPath           = "TODOAPP_DB_PATH"
	EnvDynamoDBTable    = "TODOAPP_DYNAMODB_TABLE"
	EnvDynamoDBEndpoint = "TODOAPP_DYNAMODB_ENDPOINT"
	EnvMDNSEnabled      = "TODOAPP_MDNS_ENABLED"
)

// 存储驱动
const (
	DriverSQLite   = "sqlite"
	DriverDynamoDB = "dynamodb"
)

// Config 应用配置
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	WebSocket WebSocketConfig `yaml:"websocket"`
	Log       LogConfig       `yaml:"log"`
	MDNS      MDNSConfig      `yaml:"mdns"`

	// path 实际加载的配置文件路径，未找到文件时为空
	path string
}

// ServerConfig 服务器配置
type ServerConfig struct {
	HTTPPort   string `yaml:"http_port"` // 同时用于单例锁
	EnableMCP  bool   `yaml:"enable_mcp"`
	EnableDocs bool   `yaml:"enable_docs"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	// Driver 存储驱动：sqlite / dynamodb
	Driver string `yaml:"driver"`
	// Path SQLite 文件路径，留空使用 <数据目录>/todo.db
	Path     string         `yaml:"path"`
	DynamoDB DynamoDBConfig `yaml:"dynamodb"`
}

// DynamoDBConfig DynamoDB 存储配置
type DynamoDBConfig struct {
	Table string `yaml:"table"`
	// Endpoint 自定义端点（如 DynamoDB Local），留空使用 AWS 默认
	Endpoint string `yaml:"endpoint"`
	Region   string `yaml:"region"`
}

// WebSocketConfig WebSocket 配置
type WebSocketConfig struct {
	ReadBufferSize  int `yaml:"read_buffer_size"`
	WriteBufferSize int `yaml:"write_buffer_size"`
}

// LogConfig 日志配置（支持热更新的部分）
type LogConfig struct {
	Level string `yaml:"level"`
}

// MDNSConfig 局域网服务广播配置
type MDNSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Instance string `yaml:"instance"`
}

// NewConfig 创建配置（默认值）
func NewConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:   ":8080",
			EnableMCP:  true,
			EnableDocs: true,
		},
		Database: DatabaseConfig{
			Driver: DriverSQLite,
			Path:   "",
		},
		WebSocket: WebSocketConfig{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		MDNS: MDNSConfig{
			Enabled:  false,
			Instance: "todoapp",
		},
	}
}

// Load 加载配置：默认值 -> 配置文件 -> 环境变量
func Load() (*Config, error) {
	return LoadFrom(ConfigFilePath())
}

// LoadFrom 从指定配置文件加载，文件不存在时只使用默认值和环境变量
func LoadFrom(path string) (*Config, error) {
	cfg := NewConfig()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ConfigFilePath 配置文件路径，优先 TODOAPP_CONFIG
func ConfigFilePath() string {
	if p := os.Getenv(EnvConfigFile); p != "" {
		return p
	}
	return filepath.Join(GetDataDir(), "config.yaml")
}

// Path 返回实际加载的配置文件路径
func (c *Config) Path() string {
	return c.path
}

// loadFile 读取 YAML 配置文件，文件不存在时忽略
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	c.path = path
	return nil
}

// applyEnv 用环境变量覆盖配置
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvHTTPPort); v != "" {
		c.Server.HTTPPort = v
	}
	if v := os.Getenv(EnvDBDriver); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(EnvDynamoDBTable); v != "" {
		c.Database.DynamoDB.Table = v
	}
	if v := os.Getenv(EnvDynamoDBEndpoint); v != "" {
		c.Database.DynamoDB.Endpoint = v
	}
	if v := os.Getenv(EnvMDNSEnabled); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.MDNS.Enabled = b
		}
	}
}

// Validate 校验配置
func (c *Config) Validate() error {
	if c.Server.HTTPPort == "" {
		return errors.New("server.http_port is required")
	}
	switch c.Database.Driver {
	case DriverSQLite:
	case DriverDynamoDB:
		if c.Database.DynamoDB.Table == "" {
			return errors.New("database.dynamodb.table is required for dynamodb driver")
		}
	default:
		return fmt.Errorf("unsupported database driver: %q", c.Database.Driver)
	}
	return nil
}

// SQLitePath SQLite 数据库文件路径
func (c *DatabaseConfig) SQLitePath() string {
	if c.Path != "" {
		return c.Path
	}
	return filepath.Join(GetDataDir(), "todo.db")
}

// NewDatabaseConfig 创建数据库配置
func NewDatabaseConfig(cfg *Config) *DatabaseConfig {
	return &cfg.Database
}

// NewServerConfig 创建服务器配置
func NewServerConfig(cfg *Config) *ServerConfig {
	return &cfg.Server
}

// NewWebSocketConfig 创建 WebSocket 配置
func NewWebSocketConfig(cfg *Config) *WebSocketConfig {
	return &cfg.WebSocket
}

// NewMDNSConfig 创建 mDNS 配置
func NewMDNSConfig(cfg *Config) *MDNSConfig {
	return &cfg.MDNS
}
