package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/todoapp/backend/internal/infrastructure/config"
	"github.com/todoapp/backend/internal/infrastructure/log"
	infraWS "github.com/todoapp/backend/internal/infrastructure/websocket"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = (pongWait * 9) / 10
	sendBuffer   = 32
	maxReadBytes = 512
)

// TodoEventsHandler 待办变更推送（WebSocket）
type TodoEventsHandler struct {
	hub      *infraWS.Hub
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewTodoEventsHandler 创建变更推送处理器
func NewTodoEventsHandler(hub *infraWS.Hub, cfg *config.WebSocketConfig) *TodoEventsHandler {
	return &TodoEventsHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			CheckOrigin: func(r *http.Request) bool {
				return true // 本地服务，允许所有来源
			},
		},
		logger: log.NewModuleLogger("http", "todo_events"),
	}
}

// Subscribe 订阅待办变更
// @Summary 订阅待办变更
// @Description 升级为 WebSocket，每次创建/更新/删除成功后推送一条 JSON 消息
// @Tags 待办
// @Success 101 "Switching Protocols"
// @Router /todos/events [get]
func (h *TodoEventsHandler) Subscribe(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade 已写入错误响应
		h.logger.Warn("failed to upgrade connection", "error", err)
		return
	}

	client := infraWS.NewConnection(sendBuffer)
	if !h.hub.Register(client) {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "server shutting down"))
		_ = conn.Close()
		return
	}

	h.logger.Debug("subscriber connected", "remote", c.Request.RemoteAddr, "clients", h.hub.ClientCount())

	go h.writePump(conn, client)
	h.readPump(conn, client)
}

// readPump 只处理控制帧，连接断开时注销订阅者
func (h *TodoEventsHandler) readPump(conn *websocket.Conn, client *infraWS.Connection) {
	defer func() {
		h.hub.Unregister(client)
		_ = conn.Close()
	}()

	conn.SetReadLimit(maxReadBytes)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("subscriber read error", "error", err)
			}
			return
		}
	}
}

// writePump 将 Hub 的消息写入连接，并定期发送 ping
func (h *TodoEventsHandler) writePump(conn *websocket.Conn, client *infraWS.Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub 关闭了发送通道
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
