package todo

import "context"

// Repository 待办事项仓储接口
type Repository interface {
	// FindAll 获取所有待办事项（按 ID 升序）
	FindAll(ctx context.Context) ([]*TodoItem, error)

	// FindByID 根据 ID 查找待办事项，不存在时返回 ErrNotFound
	FindByID(ctx context.Context, id int64) (*TodoItem, error)

	// Create 创建待办事项，生成的 ID 回写到 item
	Create(ctx context.Context, item *TodoItem) error

	// Update 整体覆盖已有待办事项，不存在时返回 ErrNotFound
	Update(ctx context.Context, item *TodoItem) error

	// Delete 删除待办事项，不存在时返回 ErrNotFound
	Delete(ctx context.Context, id int64) error
}
