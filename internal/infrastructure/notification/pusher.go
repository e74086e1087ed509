package notification

import (
	"fmt"

	"github.com/todoapp/backend/internal/domain/events"
	"github.com/todoapp/backend/internal/infrastructure/websocket"
)

// TodoMessage 推送给 WebSocket 订阅者的消息
type TodoMessage struct {
	Type      string       `json:"type"`
	ID        int64        `json:"id"`
	Item      *TodoPayload `json:"item,omitempty"`
	Timestamp int64        `json:"timestamp"` // Unix 毫秒时间戳
}

// TodoPayload 消息中的待办快照
type TodoPayload struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

// WebSocketPusher 将待办事件推送到 WebSocket Hub
type WebSocketPusher struct {
	hub *websocket.Hub
}

// NewWebSocketPusher 创建 WebSocket 推送器
func NewWebSocketPusher(hub *websocket.Hub) *WebSocketPusher {
	return &WebSocketPusher{hub: hub}
}

// Subscribe 订阅全部待办事件
func (p *WebSocketPusher) Subscribe(bus events.EventBus) (unsubscribe func()) {
	return bus.SubscribeMultiple(events.AllTodoEvents, p)
}

// HandleEvent 实现 events.Handler
func (p *WebSocketPusher) HandleEvent(event events.Event) error {
	todoEvent, ok := event.(*events.TodoEvent)
	if !ok {
		return nil
	}
	if err := p.hub.Broadcast(toMessage(todoEvent)); err != nil {
		return fmt.Errorf("failed to broadcast todo event: %w", err)
	}
	return nil
}

func toMessage(e *events.TodoEvent) *TodoMessage {
	msg := &TodoMessage{
		Type:      string(e.EventType),
		ID:        e.ID,
		Timestamp: e.EventTime.UnixMilli(),
	}
	if e.Item != nil {
		msg.Item = &TodoPayload{
			ID:          e.Item.ID,
			Title:       e.Item.Title,
			Description: e.Item.Description,
		}
	}
	return msg
}

// 编译时检查接口实现
var _ events.Handler = (*WebSocketPusher)(nil)
