package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	appTodo "github.com/todoapp/backend/internal/application/todo"
	"github.com/todoapp/backend/internal/domain/todo"
	"github.com/todoapp/backend/internal/infrastructure/log"
	"github.com/todoapp/backend/internal/interfaces/http/response"
)

// TodosPath 待办资源根路径
const TodosPath = "/api/v1/todos"

// TodoHandler 待办事项处理器
type TodoHandler struct {
	service *appTodo.Service
	logger  *slog.Logger
}

// NewTodoHandler 创建待办事项处理器
func NewTodoHandler(service *appTodo.Service) *TodoHandler {
	return &TodoHandler{
		service: service,
		logger:  log.NewModuleLogger("http", "todo_handler"),
	}
}

// TodoDTO 待办事项 DTO
type TodoDTO struct {
	ID          int64   `json:"id" example:"1"`
	Title       string  `json:"title" example:"Task 1"`
	Description *string `json:"description" example:"d"` // 可为 null
}

// TodoRequest 创建/更新待办请求
// 创建时忽略 id；更新时 id 必须与路径一致
type TodoRequest struct {
	ID          int64   `json:"id" example:"1"`
	Title       string  `json:"title" example:"Task 1"`
	Description *string `json:"description" example:"d"`
}

func (r *TodoRequest) toDomain() *todo.TodoItem {
	return &todo.TodoItem{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
	}
}

// toDTO 将领域模型转换为 DTO
func toDTO(item *todo.TodoItem) *TodoDTO {
	return &TodoDTO{
		ID:          item.ID,
		Title:       item.Title,
		Description: item.Description,
	}
}

// List 获取待办列表
// @Summary 获取待办列表
// @Tags 待办
// @Produce json
// @Success 200 {array} TodoDTO
// @Failure 500 {object} response.ErrorResponse
// @Router /todos [get]
func (h *TodoHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	dtos := make([]*TodoDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, toDTO(item))
	}
	response.OK(c, dtos)
}

// Get 获取单个待办
// @Summary 获取单个待办
// @Tags 待办
// @Produce json
// @Param id path int true "待办ID"
// @Success 200 {object} TodoDTO
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /todos/{id} [get]
func (h *TodoHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	item, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, toDTO(item))
}

// Create 创建待办
// @Summary 创建待办
// @Tags 待办
// @Accept json
// @Produce json
// @Param body body TodoRequest true "待办内容（id 会被忽略）"
// @Success 201 {object} TodoDTO
// @Header 201 {string} Location "/api/v1/todos/{id}"
// @Failure 400 {object} response.ErrorResponse
// @Router /todos [post]
func (h *TodoHandler) Create(c *gin.Context) {
	var req TodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetail(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request body", err.Error())
		return
	}

	item, err := h.service.Create(c.Request.Context(), req.toDomain())
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Created(c, TodosPath+"/"+strconv.FormatInt(item.ID, 10), toDTO(item))
}

// Update 整体更新待办
// @Summary 更新待办
// @Description 整体覆盖，请求体中缺省的字段会被清空
// @Tags 待办
// @Accept json
// @Param id path int true "待办ID"
// @Param body body TodoRequest true "完整待办，id 必须与路径一致"
// @Success 204 "No Content"
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /todos/{id} [put]
func (h *TodoHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req TodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetail(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.service.Update(c.Request.Context(), id, req.toDomain()); err != nil {
		h.writeError(c, err)
		return
	}
	response.NoContent(c)
}

// Delete 删除待办
// @Summary 删除待办
// @Tags 待办
// @Param id path int true "待办ID"
// @Success 204 "No Content"
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /todos/{id} [delete]
func (h *TodoHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	response.NoContent(c)
}

// parseID 解析路径中的 ID，失败时直接写入 400
func parseID(c *gin.Context) (int64, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		response.ErrorWithDetail(c, http.StatusBadRequest, response.CodeBadRequest, "invalid todo id", raw)
		return 0, false
	}
	return id, true
}

// writeError 将领域错误映射为 HTTP 响应
func (h *TodoHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, todo.ErrNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "todo not found")
	case errors.Is(err, todo.ErrIDMismatch):
		response.ErrorWithDetail(c, http.StatusBadRequest, response.CodeIDMismatch, "id mismatch", err.Error())
	case errors.Is(err, todo.ErrValidation):
		response.ErrorWithDetail(c, http.StatusBadRequest, response.CodeValidation, "validation failed", err.Error())
	default:
		log.FromContext(c.Request.Context(), h.logger).Error("todo request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "internal server error")
	}
}
