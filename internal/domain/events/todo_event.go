package events

import (
	"time"

	"github.com/todoapp/backend/internal/domain/todo"
)

// TodoEvent 待办变更事件
type TodoEvent struct {
	EventType EventType
	ID        int64
	Item      *todo.TodoItem // 删除事件为 nil
	EventTime time.Time
}

// NewTodoEvent 创建待办事件，Item 使用副本
func NewTodoEvent(eventType EventType, id int64, item *todo.TodoItem) *TodoEvent {
	e := &TodoEvent{
		EventType: eventType,
		ID:        id,
		EventTime: time.Now(),
	}
	if item != nil {
		e.Item = item.Clone()
	}
	return e
}

// Type 实现 Event 接口
func (e *TodoEvent) Type() EventType {
	return e.EventType
}

// Timestamp 实现 Event 接口
func (e *TodoEvent) Timestamp() time.Time {
	return e.EventTime
}
