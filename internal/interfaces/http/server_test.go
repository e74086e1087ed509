package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appTodo "github.com/todoapp/backend/internal/application/todo"
	"github.com/todoapp/backend/internal/infrastructure/config"
	"github.com/todoapp/backend/internal/infrastructure/notification"
	"github.com/todoapp/backend/internal/infrastructure/storage"
	"github.com/todoapp/backend/internal/infrastructure/watcher"
	"github.com/todoapp/backend/internal/infrastructure/websocket"
	"github.com/todoapp/backend/internal/interfaces/http/handler"
	"github.com/todoapp/backend/internal/interfaces/http/response"
	"github.com/todoapp/backend/internal/interfaces/mcp"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	server *HTTPServer
	hub    *websocket.Hub
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := storage.OpenDB(filepath.Join(t.TempDir(), "todo.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	bus := watcher.NewEventBus()
	t.Cleanup(bus.Close)

	hub := websocket.NewHub()
	hub.Start()
	t.Cleanup(hub.Stop)

	unsub := notification.NewWebSocketPusher(hub).Subscribe(bus)
	t.Cleanup(unsub)

	service := appTodo.NewService(storage.NewSQLiteTodoRepository(db), bus)
	cfg := &config.ServerConfig{HTTPPort: ":0", EnableMCP: true, EnableDocs: true}

	server := NewServer(
		cfg,
		handler.NewTodoHandler(service),
		handler.NewTodoEventsHandler(hub, &config.WebSocketConfig{ReadBufferSize: 1024, WriteBufferSize: 1024}),
		mcp.NewServer(service),
	)
	return &testEnv{server: server, hub: hub}
}

func (e *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(w, req)
	return w
}

func decodeTodo(t *testing.T, w *httptest.ResponseRecorder) handler.TodoDTO {
	t.Helper()
	var dto handler.TodoDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto))
	return dto
}

func decodeTodos(t *testing.T, w *httptest.ResponseRecorder) []handler.TodoDTO {
	t.Helper()
	var dtos []handler.TodoDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dtos))
	return dtos
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) response.ErrorResponse {
	t.Helper()
	var body response.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// 场景 1：创建后按 ID 查询，字段保持不变
func TestTodos_CreateThenGet(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/v1/todos", `{"title":"Task 1","description":"d"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/api/v1/todos/1", w.Header().Get("Location"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	created := decodeTodo(t, w)
	assert.Equal(t, int64(1), created.ID)

	w = env.do(http.MethodGet, "/api/v1/todos/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1,"title":"Task 1","description":"d"}`, w.Body.String())
}

func TestTodos_CreateWithoutDescription(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/v1/todos", `{"title":"Task 1"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":1,"title":"Task 1","description":null}`, w.Body.String())
}

func TestTodos_CreateIgnoresClientID(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/v1/todos", `{"id":77,"title":"Task 1"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, int64(1), decodeTodo(t, w).ID)
}

func TestTodos_CreateInvalid(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		body string
		code int
	}{
		{"malformed json", `{"title":`, response.CodeBadRequest},
		{"empty body", ``, response.CodeBadRequest},
		{"missing title", `{"description":"d"}`, response.CodeValidation},
		{"blank title", `{"title":"   "}`, response.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/todos", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			env.server.Handler().ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.code, decodeError(t, w).Code)
		})
	}

	w := env.do(http.MethodGet, "/api/v1/todos", "")
	assert.Empty(t, decodeTodos(t, w))
}

// 场景 2：创建两条后列表恰好两条
func TestTodos_List(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/v1/todos", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))

	env.do(http.MethodPost, "/api/v1/todos", `{"title":"Task 1"}`)
	env.do(http.MethodPost, "/api/v1/todos", `{"title":"Task 2"}`)

	w = env.do(http.MethodGet, "/api/v1/todos", "")
	require.Equal(t, http.StatusOK, w.Code)
	items := decodeTodos(t, w)
	require.Len(t, items, 2)
	assert.Equal(t, "Task 1", items[0].Title)
	assert.Equal(t, "Task 2", items[1].Title)
}

func TestTodos_GetInvalidID(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/v1/todos/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.CodeBadRequest, decodeError(t, w).Code)
}

func TestTodos_GetMissing(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/v1/todos/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, response.CodeNotFound, decodeError(t, w).Code)
}

func TestTodos_Update(t *testing.T) {
	env := newTestEnv(t)
	env.do(http.MethodPost, "/api/v1/todos", `{"title":"Task 1","description":"d"}`)

	w := env.do(http.MethodPut, "/api/v1/todos/1", `{"id":1,"title":"Task 1 updated"}`)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = env.do(http.MethodGet, "/api/v1/todos/1", "")
	assert.JSONEq(t, `{"id":1,"title":"Task 1 updated","description":null}`, w.Body.String())
}

// 场景 3：ID 不一致返回 400，存储不变
func TestTodos_UpdateIDMismatch(t *testing.T) {
	env := newTestEnv(t)
	env.do(http.MethodPost, "/api/v1/todos", `{"title":"Task 1","description":"d"}`)

	w := env.do(http.MethodPut, "/api/v1/todos/1", `{"id":2,"title":"changed"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.CodeIDMismatch, decodeError(t, w).Code)

	w = env.do(http.MethodGet, "/api/v1/todos/1", "")
	assert.JSONEq(t, `{"id":1,"title":"Task 1","description":"d"}`, w.Body.String())
}

// 场景 4：更新不存在的记录返回 404
func TestTodos_UpdateMissing(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPut, "/api/v1/todos/999", `{"id":999,"title":"x"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, response.CodeNotFound, decodeError(t, w).Code)

	w = env.do(http.MethodGet, "/api/v1/todos", "")
	assert.Empty(t, decodeTodos(t, w))
}

func TestTodos_UpdateInvalid(t *testing.T) {
	env := newTestEnv(t)
	env.do(http.MethodPost, "/api/v1/todos", `{"title":"Task 1"}`)

	w := env.do(http.MethodPut, "/api/v1/todos/1", `{"id":1,"title":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.CodeValidation, decodeError(t, w).Code)

	w = env.do(http.MethodPut, "/api/v1/todos/1", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.CodeBadRequest, decodeError(t, w).Code)

	w = env.do(http.MethodPut, "/api/v1/todos/x", `{"id":1,"title":"t"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// 场景 5：删除后查询返回 404
func TestTodos_Delete(t *testing.T) {
	env := newTestEnv(t)
	env.do(http.MethodPost, "/api/v1/todos", `{"title":"Task 1"}`)

	w := env.do(http.MethodDelete, "/api/v1/todos/1", "")
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = env.do(http.MethodGet, "/api/v1/todos/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// 场景 6：删除不存在的记录返回 404
func TestTodos_DeleteMissing(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodDelete, "/api/v1/todos/999", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, response.CodeNotFound, decodeError(t, w).Code)
}

func TestTodos_IDsNotReusedAfterDelete(t *testing.T) {
	env := newTestEnv(t)

	env.do(http.MethodPost, "/api/v1/todos", `{"title":"Task 1"}`)
	env.do(http.MethodDelete, "/api/v1/todos/1", "")

	w := env.do(http.MethodPost, "/api/v1/todos", `{"title":"Task 2"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, int64(2), decodeTodo(t, w).ID)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestOptionalRoutesDisabled(t *testing.T) {
	db, err := storage.OpenDB(filepath.Join(t.TempDir(), "todo.db"))
	require.NoError(t, err)
	defer db.Close()

	service := appTodo.NewService(storage.NewSQLiteTodoRepository(db), nil)
	server := NewServer(
		&config.ServerConfig{HTTPPort: ":0"},
		handler.NewTodoHandler(service),
		handler.NewTodoEventsHandler(websocket.NewHub(), &config.WebSocketConfig{}),
		mcp.NewServer(service),
	)

	for _, path := range []string{"/swagger/index.html", "/mcp/sse"} {
		w := httptest.NewRecorder()
		server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}
}

func TestTodoEvents_WebSocketFeed(t *testing.T) {
	env := newTestEnv(t)
	ts := httptest.NewServer(env.server.Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/todos/events"
	conn, _, err := gorillaws.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return env.hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	resp, err := http.Post(ts.URL+"/api/v1/todos", "application/json", strings.NewReader(`{"title":"Task 1"}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg notification.TodoMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "todo.created", msg.Type)
	assert.Equal(t, int64(1), msg.ID)
	require.NotNil(t, msg.Item)
	assert.Equal(t, "Task 1", msg.Item.Title)
}
