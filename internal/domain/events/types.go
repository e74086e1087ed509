// Package events 定义待办领域事件
package events

import "time"

// EventType 事件类型标识
type EventType string

// 待办相关事件类型
const (
	// TodoCreated 待办创建
	TodoCreated EventType = "todo.created"
	// TodoUpdated 待办被整体覆盖
	TodoUpdated EventType = "todo.updated"
	// TodoDeleted 待办删除
	TodoDeleted EventType = "todo.deleted"
)

// AllTodoEvents 全部待办事件类型
var AllTodoEvents = []EventType{TodoCreated, TodoUpdated, TodoDeleted}

// Event 领域事件接口
type Event interface {
	Type() EventType
	Timestamp() time.Time
}
