// Package docs holds the swagger document served at /swagger-doc.json.
// Regenerate with: swag init -g cmd/api/main.go
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
        "/task-lists": {
            "get": {
                "produces": ["application/json"],
                "tags": ["task-lists"],
                "summary": "List all task lists",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ListTaskListsResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["task-lists"],
                "summary": "Create a task list",
                "parameters": [
                    {"description": "Task list", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.TaskList"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.TaskList"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/task-lists/{task_list_id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["task-lists"],
                "summary": "Get a task list by ID",
                "parameters": [
                    {"type": "string", "description": "Task list ID (UUID)", "name": "task_list_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.TaskList"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["task-lists"],
                "summary": "Update a task list",
                "parameters": [
                    {"type": "string", "description": "Task list ID (UUID)", "name": "task_list_id", "in": "path", "required": true},
                    {"description": "Task list", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.TaskList"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.TaskList"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["task-lists"],
                "summary": "Delete a task list and all of its tasks",
                "parameters": [
                    {"type": "string", "description": "Task list ID (UUID)", "name": "task_list_id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/task-lists/{task_list_id}/tasks": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "List the tasks of a task list",
                "parameters": [
                    {"type": "string", "description": "Task list ID (UUID)", "name": "task_list_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ListTasksResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "Create a task in a task list",
                "parameters": [
                    {"type": "string", "description": "Task list ID (UUID)", "name": "task_list_id", "in": "path", "required": true},
                    {"description": "Task", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.Task"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.Task"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/task-lists/{task_list_id}/tasks/{task_id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "Get a task",
                "parameters": [
                    {"type": "string", "description": "Task list ID (UUID)", "name": "task_list_id", "in": "path", "required": true},
                    {"type": "string", "description": "Task ID (UUID)", "name": "task_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.Task"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "put": {
                "description": "Priority and status keep their stored values when omitted.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "Update a task",
                "parameters": [
                    {"type": "string", "description": "Task list ID (UUID)", "name": "task_list_id", "in": "path", "required": true},
                    {"type": "string", "description": "Task ID (UUID)", "name": "task_id", "in": "path", "required": true},
                    {"description": "Task", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.Task"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.Task"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["tasks"],
                "summary": "Delete a task",
                "parameters": [
                    {"type": "string", "description": "Task list ID (UUID)", "name": "task_list_id", "in": "path", "required": true},
                    {"type": "string", "description": "Task ID (UUID)", "name": "task_id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "integer"},
                "message": {"type": "string"},
                "details": {"type": "string"}
            }
        },
        "dto.Task": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "format": "uuid"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "dueDate": {"type": "string", "example": "2026-02-19"},
                "priority": {"type": "string", "enum": ["HIGH", "MEDIUM", "LOW"]},
                "status": {"type": "string", "enum": ["OPEN", "CLOSED"]},
                "taskListId": {"type": "string", "format": "uuid"},
                "created": {"type": "string", "format": "date-time"},
                "updated": {"type": "string", "format": "date-time"}
            }
        },
        "dto.TaskList": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "format": "uuid"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "count": {"type": "integer"},
                "progress": {"type": "number"},
                "tasks": {"type": "array", "items": {"$ref": "#/definitions/dto.Task"}},
                "created": {"type": "string", "format": "date-time"},
                "updated": {"type": "string", "format": "date-time"}
            }
        },
        "dto.ListTaskListsResponse": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/dto.TaskList"}}
            }
        },
        "dto.ListTasksResponse": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/dto.Task"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Task Lists API",
	Description:      "Task lists and their tasks.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
