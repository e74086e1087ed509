package singleton

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"
)

const (
	// HealthPath 已运行实例的健康检查路径
	HealthPath = "/health"
	// HealthCheckTimeout 健康检查超时时间
	HealthCheckTimeout = 2 * time.Second
)

// ErrPortBusy 端口被其他进程占用且不是健康的 todoapp 实例
var ErrPortBusy = errors.New("port is busy and health check failed")

// CheckAndLock 占用 HTTP 端口作为单实例锁
//   - 端口可用：返回 listener
//   - 已有健康实例：返回 nil, nil，调用方应直接退出
//   - 端口被占用但实例不健康：返回 ErrPortBusy
func CheckAndLock(addr string) (net.Listener, error) {
	listener, err := net.Listen("tcp", addr)
	if err == nil {
		return listener, nil
	}

	if !isAddrInUse(err) {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	if isInstanceRunning(addr) {
		return nil, nil
	}
	return nil, fmt.Errorf("%s: %w", addr, ErrPortBusy)
}

// isAddrInUse 判断监听失败是否因为地址已被占用
func isAddrInUse(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, syscall.EADDRINUSE) {
		return true
	}
	// Windows: WSAEADDRINUSE (10048)
	var errno syscall.Errno
	if errors.As(err, &errno) && errno == 10048 {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "address already in use") ||
		strings.Contains(msg, "Only one usage of each socket address")
}

// isInstanceRunning 通过健康检查判断端口上是否是一个正常运行的实例
func isInstanceRunning(addr string) bool {
	client := &http.Client{Timeout: HealthCheckTimeout}

	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return false
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}

	resp, err := client.Get("http://" + net.JoinHostPort(host, port) + HealthPath)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}
