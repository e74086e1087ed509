package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/todoapp/backend/internal/infrastructure/log"
)

// Hub WebSocket 连接管理中心，向所有订阅者广播待办变更
type Hub struct {
	clients    map[*Connection]bool
	register   chan *Connection
	unregister chan *Connection
	broadcast  chan []byte
	stop       chan struct{}
	stopOnce   sync.Once
	startOnce  sync.Once
	mu         sync.RWMutex
	logger     *slog.Logger
}

// Connection 订阅者连接
type Connection struct {
	Send chan []byte
}

// NewConnection 创建带发送缓冲的连接
func NewConnection(buffer int) *Connection {
	return &Connection{Send: make(chan []byte, buffer)}
}

// NewHub 创建 Hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Connection]bool),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan []byte, 64),
		stop:       make(chan struct{}),
		logger:     log.NewModuleLogger("websocket", "hub"),
	}
}

// Run 运行 Hub（需要在 goroutine 中运行）
func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.clients[conn] = true
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				close(conn.Send)
			}
			h.mu.Unlock()

		case data := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.clients {
				select {
				case conn.Send <- data:
				default:
					// 消费过慢的连接直接断开
					close(conn.Send)
					delete(h.clients, conn)
					h.logger.Warn("Dropping slow websocket subscriber")
				}
			}
			h.mu.Unlock()

		case <-h.stop:
			h.mu.Lock()
			for conn := range h.clients {
				close(conn.Send)
				delete(h.clients, conn)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Start 启动 Hub（启动后台 goroutine）
func (h *Hub) Start() {
	h.startOnce.Do(func() {
		go h.Run()
	})
}

// Stop 停止 Hub 并关闭所有连接
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.stop)
	})
}

// Register 注册连接，Hub 已停止时返回 false
func (h *Hub) Register(conn *Connection) bool {
	select {
	case h.register <- conn:
		return true
	case <-h.stop:
		return false
	}
}

// Unregister 注销连接
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.stop:
	}
}

// Broadcast 向所有连接广播消息
func (h *Hub) Broadcast(data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	select {
	case h.broadcast <- jsonData:
	case <-h.stop:
	}
	return nil
}

// ClientCount 当前连接数
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
