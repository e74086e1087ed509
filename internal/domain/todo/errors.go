package todo

import "errors"

var (
	// ErrNotFound 待办不存在
	ErrNotFound = errors.New("todo not found")
	// ErrIDMismatch 路径 ID 与请求体 ID 不一致
	ErrIDMismatch = errors.New("todo id mismatch")
	// ErrValidation 实体校验失败
	ErrValidation = errors.New("todo validation failed")
)
