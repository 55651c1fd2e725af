// Package docs HTTP 接口的 Swagger 描述
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
        "/graphql": {
            "get": {
                "produces": ["application/json"],
                "tags": ["GraphQL"],
                "summary": "执行 GraphQL 查询（只读）",
                "parameters": [
                    {"type": "string", "description": "查询文本（持久化查询命中时可省略）", "name": "query", "in": "query"},
                    {"type": "string", "description": "操作名", "name": "operationName", "in": "query"},
                    {"type": "string", "description": "JSON 编码的变量", "name": "variables", "in": "query"},
                    {"type": "string", "description": "JSON 编码的扩展", "name": "extensions", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "data 与 errors", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            },
            "post": {
                "description": "支持 Automatic Persisted Queries（extensions.persistedQuery.sha256Hash）",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["GraphQL"],
                "summary": "执行 GraphQL 查询或变更",
                "parameters": [
                    {"description": "GraphQL 请求", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/graph.Request"}}
                ],
                "responses": {
                    "200": {"description": "data 与 errors", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.Response"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/healthz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["运维"],
                "summary": "健康检查",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        }
    },
    "definitions": {
        "graph.Request": {
            "type": "object",
            "properties": {
                "query": {"type": "string"},
                "operationName": {"type": "string"},
                "variables": {"type": "object", "additionalProperties": true},
                "extensions": {"type": "object", "additionalProperties": true}
            }
        },
        "response.Response": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "message": {"type": "string"},
                "data": {}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "gin-graphql API",
	Description:      "GraphQL service with per-request batched data loading.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
