package todo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/todoapp/backend/internal/domain/events"
	domainTodo "github.com/todoapp/backend/internal/domain/todo"
	"github.com/todoapp/backend/internal/infrastructure/log"
)

// Service 待办应用服务（用例编排）
// 每个用例只访问一次仓储，成功后发布领域事件
type Service struct {
	repo      domainTodo.Repository
	publisher events.Publisher
	logger    *slog.Logger
}

// NewService 创建待办应用服务
func NewService(repo domainTodo.Repository, publisher events.Publisher) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    log.NewModuleLogger("todo", "service"),
	}
}

// List 返回全部待办，按 ID 升序
func (s *Service) List(ctx context.Context) ([]*domainTodo.TodoItem, error) {
	items, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	return items, nil
}

// Get 按 ID 查询待办
func (s *Service) Get(ctx context.Context, id int64) (*domainTodo.TodoItem, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get todo %d: %w", id, err)
	}
	return item, nil
}

// Create 创建待办，忽略调用方提供的 ID
func (s *Service) Create(ctx context.Context, input *domainTodo.TodoItem) (*domainTodo.TodoItem, error) {
	item := input.Clone()
	item.ID = 0

	if err := item.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}

	log.FromContext(ctx, s.logger).Debug("todo created", "id", item.ID)
	s.publish(events.NewTodoEvent(events.TodoCreated, item.ID, item))
	return item, nil
}

// Update 整体覆盖待办，请求体中缺省的字段会被清空
func (s *Service) Update(ctx context.Context, id int64, item *domainTodo.TodoItem) error {
	if item.ID != id {
		return fmt.Errorf("%w: path id %d, body id %d", domainTodo.ErrIDMismatch, id, item.ID)
	}
	if err := item.Validate(); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, item); err != nil {
		return fmt.Errorf("failed to update todo %d: %w", id, err)
	}

	log.FromContext(ctx, s.logger).Debug("todo updated", "id", id)
	s.publish(events.NewTodoEvent(events.TodoUpdated, id, item))
	return nil
}

// Delete 删除待办
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete todo %d: %w", id, err)
	}

	log.FromContext(ctx, s.logger).Debug("todo deleted", "id", id)
	s.publish(events.NewTodoEvent(events.TodoDeleted, id, nil))
	return nil
}

// publish 发布事件，未配置发布器时跳过
func (s *Service) publish(event events.Event) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(event)
}
