package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/todoapp/backend/internal/domain/todo"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// sqliteTodoRepository 待办事项 SQLite 仓储实现
// 每个操作从连接池中独占一个连接，操作结束即归还
type sqliteTodoRepository struct {
	db *sql.DB
}

// NewSQLiteTodoRepository 创建 SQLite 待办仓储
func NewSQLiteTodoRepository(db *sql.DB) todo.Repository {
	return &sqliteTodoRepository{db: db}
}

// withConn 获取独占连接执行 fn，保证连接归还
func (r *sqliteTodoRepository) withConn(ctx context.Context, fn func(conn *sql.Conn) error) error {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	return fn(conn)
}

// FindAll 获取所有待办事项
func (r *sqliteTodoRepository) FindAll(ctx context.Context) ([]*todo.TodoItem, error) {
	items := make([]*todo.TodoItem, 0)

	err := r.withConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, `SELECT id, title, description FROM todos ORDER BY id ASC`)
		if err != nil {
			return fmt.Errorf("failed to query todos: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			item, err := scanTodo(rows)
			if err != nil {
				return err
			}
			items = append(items, item)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	return items, nil
}

// FindByID 根据 ID 查找待办事项
func (r *sqliteTodoRepository) FindByID(ctx context.Context, id int64) (*todo.TodoItem, error) {
	var item *todo.TodoItem

	err := r.withConn(ctx, func(conn *sql.Conn) error {
		row := conn.QueryRowContext(ctx, `SELECT id, title, description FROM todos WHERE id = ?`, id)
		found, err := scanTodo(row)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return todo.ErrNotFound
			}
			return err
		}
		item = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	return item, nil
}

// Create 创建待办事项
func (r *sqliteTodoRepository) Create(ctx context.Context, item *todo.TodoItem) error {
	if err := item.Validate(); err != nil {
		return err
	}

	return r.withConn(ctx, func(conn *sql.Conn) error {
		result, err := conn.ExecContext(ctx,
			`INSERT INTO todos (title, description) VALUES (?, ?)`,
			item.Title,
			nullString(item.Description),
		)
		if err != nil {
			return translateError(err, "failed to insert todo")
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read generated id: %w", err)
		}
		item.ID = id
		return nil
	})
}

// Update 整体覆盖待办事项
func (r *sqliteTodoRepository) Update(ctx context.Context, item *todo.TodoItem) error {
	if err := item.Validate(); err != nil {
		return err
	}

	return r.withConn(ctx, func(conn *sql.Conn) error {
		result, err := conn.ExecContext(ctx,
			`UPDATE todos SET title = ?, description = ? WHERE id = ?`,
			item.Title,
			nullString(item.Description),
			item.ID,
		)
		if err != nil {
			return translateError(err, "failed to update todo")
		}
		return requireAffected(result)
	})
}

// Delete 删除待办事项
func (r *sqliteTodoRepository) Delete(ctx context.Context, id int64) error {
	return r.withConn(ctx, func(conn *sql.Conn) error {
		result, err := conn.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete todo: %w", err)
		}
		return requireAffected(result)
	})
}

// rowScanner 兼容 *sql.Row 与 *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(s rowScanner) (*todo.TodoItem, error) {
	var item todo.TodoItem
	var description sql.NullString

	if err := s.Scan(&item.ID, &item.Title, &description); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan todo: %w", err)
	}

	if description.Valid {
		d := description.String
		item.Description = &d
	}
	return &item, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// requireAffected 没有行受影响时返回 ErrNotFound
func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return todo.ErrNotFound
	}
	return nil
}

// translateError 将约束冲突转换为 ErrValidation
func translateError(err error, msg string) error {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		return fmt.Errorf("%w: %s", todo.ErrValidation, sqliteErr.Error())
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// 编译时检查接口实现
var _ todo.Repository = (*sqliteTodoRepository)(nil)
