package todo

import (
	"fmt"
	"strings"
)

// TodoItem 待办事项实体
type TodoItem struct {
	ID          int64   // 唯一标识，由存储生成
	Title       string  // 标题（必填）
	Description *string // 描述（可选）
}

// Validate 校验实体约束
func (t *TodoItem) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	return nil
}

// Clone 返回副本，描述字段不与原对象共享
func (t *TodoItem) Clone() *TodoItem {
	c := *t
	if t.Description != nil {
		d := *t.Description
		c.Description = &d
	}
	return &c
}
