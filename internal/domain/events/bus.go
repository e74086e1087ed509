package events

// Handler 事件处理器
// 返回的 error 只用于日志记录，不会重试
type Handler interface {
	HandleEvent(event Event) error
}

// HandlerFunc 函数适配器
type HandlerFunc func(event Event) error

// HandleEvent 实现 Handler 接口
func (f HandlerFunc) HandleEvent(event Event) error {
	return f(event)
}

// Publisher 事件发布方
type Publisher interface {
	// Publish 异步发布事件，不阻塞调用方
	Publish(event Event)
}

// EventBus 事件总线
type EventBus interface {
	Publisher

	// Subscribe 订阅事件类型，返回取消订阅函数
	Subscribe(eventType EventType, handler Handler) (unsubscribe func())

	// SubscribeMultiple 订阅多个事件类型
	SubscribeMultiple(eventTypes []EventType, handler Handler) (unsubscribe func())

	// Close 停止接收新事件并等待已分发事件处理完成
	Close()
}
