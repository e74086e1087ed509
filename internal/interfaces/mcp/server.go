package mcp

import (
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	appTodo "github.com/todoapp/backend/internal/application/todo"
	"github.com/todoapp/backend/internal/infrastructure/log"
)

// MCPServer MCP 服务器，以工具形式暴露待办操作
type MCPServer struct {
	server  *mcp.Server
	handler http.Handler
	service *appTodo.Service
	logger  *slog.Logger
}

// NewServer 创建 MCP 服务器
func NewServer(service *appTodo.Service) *MCPServer {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "todoapp",
			Version: "1.0.0",
		},
		nil, // 使用默认能力
	)

	s := &MCPServer{
		server:  server,
		service: service,
		logger:  log.NewModuleLogger("mcp", "server"),
	}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_todos",
		Description: "List all todo items in ascending id order. No parameters required. Returns: items (id, title, description) and total.",
	}, s.listTodosTool)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_todo",
		Description: "Get one todo item. Parameters: id (integer, required). Fails when the item does not exist.",
	}, s.getTodoTool)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_todo",
		Description: "Create a todo item. Parameters: title (string, required, non-blank), description (string, optional). Returns the created item with its assigned id.",
	}, s.createTodoTool)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_todo",
		Description: "Replace a todo item. Parameters: id (integer, required), title (string, required), description (string, optional; omitted means cleared). Fails when the item does not exist.",
	}, s.updateTodoTool)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_todo",
		Description: "Delete a todo item. Parameters: id (integer, required). Fails when the item does not exist.",
	}, s.deleteTodoTool)

	s.handler = mcp.NewSSEHandler(
		func(r *http.Request) *mcp.Server {
			// 每个请求返回同一个服务器实例
			return server
		},
		nil,
	)

	return s
}

// GetHandler 获取 HTTP Handler（用于集成到 HTTP 服务器）
func (s *MCPServer) GetHandler() http.Handler {
	return s.handler
}

// Start MCP 通过 HTTP 服务器的 /mcp/sse 提供服务，无需单独启动
func (s *MCPServer) Start() error {
	s.logger.Info("MCP server ready", "endpoint", "/mcp/sse")
	return nil
}

// Stop 生命周期由 HTTP 服务器统一管理
func (s *MCPServer) Stop() error {
	return nil
}
