// Package docs Swagger 文档，与 handler 中的 swag 注解保持一致
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/todos": {
            "get": {
                "produces": ["application/json"],
                "tags": ["待办"],
                "summary": "获取待办列表",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {"$ref": "#/definitions/handler.TodoDTO"}
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {"$ref": "#/definitions/response.ErrorResponse"}
                    }
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["待办"],
                "summary": "创建待办",
                "parameters": [
                    {
                        "description": "待办内容（id 会被忽略）",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.TodoRequest"}
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {"$ref": "#/definitions/handler.TodoDTO"},
                        "headers": {
                            "Location": {"type": "string", "description": "/api/v1/todos/{id}"}
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {"$ref": "#/definitions/response.ErrorResponse"}
                    }
                }
            }
        },
        "/todos/events": {
            "get": {
                "description": "升级为 WebSocket，每次创建/更新/删除成功后推送一条 JSON 消息",
                "tags": ["待办"],
                "summary": "订阅待办变更",
                "responses": {
                    "101": {"description": "Switching Protocols"}
                }
            }
        },
        "/todos/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["待办"],
                "summary": "获取单个待办",
                "parameters": [
                    {"type": "integer", "description": "待办ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/handler.TodoDTO"}
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {"$ref": "#/definitions/response.ErrorResponse"}
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {"$ref": "#/definitions/response.ErrorResponse"}
                    }
                }
            },
            "put": {
                "description": "整体覆盖，请求体中缺省的字段会被清空",
                "consumes": ["application/json"],
                "tags": ["待办"],
                "summary": "更新待办",
                "parameters": [
                    {"type": "integer", "description": "待办ID", "name": "id", "in": "path", "required": true},
                    {
                        "description": "完整待办，id 必须与路径一致",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.TodoRequest"}
                    }
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {
                        "description": "Bad Request",
                        "schema": {"$ref": "#/definitions/response.ErrorResponse"}
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {"$ref": "#/definitions/response.ErrorResponse"}
                    }
                }
            },
            "delete": {
                "tags": ["待办"],
                "summary": "删除待办",
                "parameters": [
                    {"type": "integer", "description": "待办ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {
                        "description": "Bad Request",
                        "schema": {"$ref": "#/definitions/response.ErrorResponse"}
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {"$ref": "#/definitions/response.ErrorResponse"}
                    }
                }
            }
        }
    },
    "definitions": {
        "handler.TodoDTO": {
            "type": "object",
            "properties": {
                "description": {"type": "string", "example": "d"},
                "id": {"type": "integer", "example": 1},
                "title": {"type": "string", "example": "Task 1"}
            }
        },
        "handler.TodoRequest": {
            "type": "object",
            "properties": {
                "description": {"type": "string", "example": "d"},
                "id": {"type": "integer", "example": 1},
                "title": {"type": "string", "example": "Task 1"}
            }
        },
        "response.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "detail": {"type": "string"},
                "message": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http"},
	Title:            "todoapp API",
	Description:      "待办事项 CRUD 服务 API",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
