package mdns

import (
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"

	"github.com/grandcat/zeroconf"

	"github.com/todoapp/backend/internal/infrastructure/config"
	"github.com/todoapp/backend/internal/infrastructure/log"
)

const (
	// ServiceType 局域网广播的服务类型
	ServiceType = "_todoapp._tcp"
	// Domain mDNS 域
	Domain = "local."
)

// registerFunc 与 zeroconf.Register 签名一致，测试中替换
type registerFunc func(instance, service, domain string, port int, text []string, ifaces []net.Interface) (*zeroconf.Server, error)

// Advertiser 在局域网内广播 HTTP 服务地址
type Advertiser struct {
	mu       sync.Mutex
	cfg      *config.MDNSConfig
	port     string
	version  string
	register registerFunc
	server   *zeroconf.Server
	running  bool
	logger   *slog.Logger
}

// NewAdvertiser 创建广播器，未启用时 Start 为空操作
func NewAdvertiser(cfg *config.MDNSConfig, serverCfg *config.ServerConfig) *Advertiser {
	return &Advertiser{
		cfg:      cfg,
		port:     serverCfg.HTTPPort,
		version:  "1.0.0",
		register: zeroconf.Register,
		logger:   log.NewModuleLogger("mdns", "advertiser"),
	}
}

// Start 开始广播
func (a *Advertiser) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.cfg.Enabled {
		a.logger.Debug("mDNS advertisement disabled")
		return nil
	}
	if a.running {
		return fmt.Errorf("advertiser is already running")
	}

	port, err := ParsePort(a.port)
	if err != nil {
		return err
	}

	txt := []string{
		"version=" + a.version,
		"api=/api/v1/todos",
	}
	server, err := a.register(a.cfg.Instance, ServiceType, Domain, port, txt, nil)
	if err != nil {
		return fmt.Errorf("failed to register service: %w", err)
	}

	a.server = server
	a.running = true
	a.logger.Info("mDNS advertiser started",
		"instance", a.cfg.Instance,
		"service", ServiceType,
		"port", port,
	)
	return nil
}

// Stop 停止广播
func (a *Advertiser) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.running {
		return
	}
	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}
	a.running = false
	a.logger.Info("mDNS advertiser stopped")
}

// IsRunning 是否正在广播
func (a *Advertiser) IsRunning() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}

// ParsePort 从 ":8080" 或 "host:8080" 形式的监听地址中解析端口
func ParsePort(addr string) (int, error) {
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return 0, fmt.Errorf("invalid listen address %q: %w", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 || port > 65535 {
		return 0, fmt.Errorf("invalid port in listen address %q", addr)
	}
	return port, nil
}
