package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/todoapp/backend/internal/domain/todo"
)

// TodoOutput 工具返回的待办
type TodoOutput struct {
	ID          int64   `json:"id" jsonschema:"待办ID"`
	Title       string  `json:"title" jsonschema:"标题"`
	Description *string `json:"description" jsonschema:"描述，可为 null"`
}

// ListTodosInput 列表工具输入（空输入）
type ListTodosInput struct{}

// ListTodosOutput 列表工具输出
type ListTodosOutput struct {
	Items []TodoOutput `json:"items" jsonschema:"全部待办，按ID升序"`
	Total int          `json:"total" jsonschema:"待办数量"`
}

// TodoIDInput 按 ID 操作的工具输入
type TodoIDInput struct {
	ID int64 `json:"id" jsonschema:"待办ID"`
}

// CreateTodoInput 创建工具输入
type CreateTodoInput struct {
	Title       string  `json:"title" jsonschema:"标题，不能为空"`
	Description *string `json:"description,omitempty" jsonschema:"描述（可选）"`
}

// UpdateTodoInput 更新工具输入，整体覆盖
type UpdateTodoInput struct {
	ID          int64   `json:"id" jsonschema:"待办ID"`
	Title       string  `json:"title" jsonschema:"新标题，不能为空"`
	Description *string `json:"description,omitempty" jsonschema:"新描述，省略时清空"`
}

// MutationOutput 更新/删除工具输出
type MutationOutput struct {
	Success bool  `json:"success" jsonschema:"是否成功"`
	ID      int64 `json:"id" jsonschema:"待办ID"`
}

func toOutput(item *todo.TodoItem) TodoOutput {
	return TodoOutput{
		ID:          item.ID,
		Title:       item.Title,
		Description: item.Description,
	}
}

// listTodosTool 列出全部待办
func (s *MCPServer) listTodosTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input ListTodosInput,
) (*mcp.CallToolResult, ListTodosOutput, error) {
	items, err := s.service.List(ctx)
	if err != nil {
		return nil, ListTodosOutput{}, err
	}

	output := ListTodosOutput{Items: make([]TodoOutput, 0, len(items)), Total: len(items)}
	for _, item := range items {
		output.Items = append(output.Items, toOutput(item))
	}
	return nil, output, nil
}

// getTodoTool 查询单个待办
func (s *MCPServer) getTodoTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input TodoIDInput,
) (*mcp.CallToolResult, TodoOutput, error) {
	item, err := s.service.Get(ctx, input.ID)
	if err != nil {
		return nil, TodoOutput{}, err
	}
	return nil, toOutput(item), nil
}

// createTodoTool 创建待办
func (s *MCPServer) createTodoTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input CreateTodoInput,
) (*mcp.CallToolResult, TodoOutput, error) {
	item, err := s.service.Create(ctx, &todo.TodoItem{
		Title:       input.Title,
		Description: input.Description,
	})
	if err != nil {
		return nil, TodoOutput{}, err
	}
	return nil, toOutput(item), nil
}

// updateTodoTool 整体更新待办
func (s *MCPServer) updateTodoTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input UpdateTodoInput,
) (*mcp.CallToolResult, MutationOutput, error) {
	err := s.service.Update(ctx, input.ID, &todo.TodoItem{
		ID:          input.ID,
		Title:       input.Title,
		Description: input.Description,
	})
	if err != nil {
		return nil, MutationOutput{}, err
	}
	return nil, MutationOutput{Success: true, ID: input.ID}, nil
}

// deleteTodoTool 删除待办
func (s *MCPServer) deleteTodoTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input TodoIDInput,
) (*mcp.CallToolResult, MutationOutput, error) {
	if err := s.service.Delete(ctx, input.ID); err != nil {
		return nil, MutationOutput{}, err
	}
	return nil, MutationOutput{Success: true, ID: input.ID}, nil
}
