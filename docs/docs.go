// Package docs registers the swagger document served at /swagger.
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
        "/healthz": {
            "get": {"tags": ["系统"], "summary": "健康检查", "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/people": {
            "get": {"tags": ["人员"], "summary": "人员列表", "parameters": [
                {"type": "integer", "default": 1, "name": "page", "in": "query"},
                {"type": "integer", "default": 10, "name": "page_size", "in": "query"}
            ], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["人员"], "summary": "创建人员", "description": "shirt_size: S,M,L 중에 선택", "parameters": [
                {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/createPersonRequest"}}
            ], "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}, "422": {"description": "Unprocessable Entity"}}}
        },
        "/api/v1/people/{id}": {
            "get": {"tags": ["人员"], "summary": "查询人员", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "patch": {"tags": ["人员"], "summary": "更新人员", "parameters": [
                {"type": "string", "name": "id", "in": "path", "required": true},
                {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/updatePersonRequest"}}
            ], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}}},
            "delete": {"tags": ["人员"], "summary": "删除人员", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/people/{id}/stars": {
            "post": {"tags": ["人员"], "summary": "增加 stars", "parameters": [
                {"type": "string", "name": "id", "in": "path", "required": true},
                {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/starsRequest"}}
            ], "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/users": {
            "get": {"tags": ["用户"], "summary": "用户列表", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["用户"], "summary": "创建用户", "parameters": [
                {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/createUserRequest"}}
            ], "responses": {"201": {"description": "Created"}, "422": {"description": "Unprocessable Entity"}}}
        },
        "/api/v1/users/{id}": {
            "get": {"tags": ["用户"], "summary": "查询用户", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["用户"], "summary": "删除用户", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/api/v1/users/{id}/followers": {"get": {"tags": ["关系链"], "summary": "粉丝列表", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/api/v1/users/{id}/following": {"get": {"tags": ["关系链"], "summary": "关注列表", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/api/v1/users/{id}/blocks": {"get": {"tags": ["关系链"], "summary": "拉黑列表", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/api/v1/users/{id}/relations": {"get": {"tags": ["关系链"], "summary": "关系用户列表", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/api/v1/users/{id}/follower-relations": {"get": {"tags": ["关系链"], "summary": "粉丝关系记录", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/api/v1/users/{id}/followee-relations": {"get": {"tags": ["关系链"], "summary": "关注关系记录", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/api/v1/relations/follow": {"post": {"tags": ["关系链"], "summary": "关注用户", "parameters": [{"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/relationRequest"}}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/api/v1/relations/block": {"post": {"tags": ["关系链"], "summary": "拉黑用户", "parameters": [{"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/relationRequest"}}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/api/v1/relations/unfollow": {"post": {"tags": ["关系链"], "summary": "取消关注", "parameters": [{"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/relationRequest"}}], "responses": {"200": {"description": "OK"}}}},
        "/api/v1/relations/unblock": {"post": {"tags": ["关系链"], "summary": "取消拉黑", "parameters": [{"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/relationRequest"}}], "responses": {"200": {"description": "OK"}}}},
        "/api/v1/relations/bulk": {"post": {"tags": ["关系链"], "summary": "批量导入关系", "parameters": [{"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/bulkRelationRequest"}}], "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}, "422": {"description": "Unprocessable Entity"}}}}
    },
    "definitions": {
        "createPersonRequest": {"type": "object", "required": ["name", "shirt_size"], "properties": {
            "name": {"type": "string", "maxLength": 60},
            "shirt_size": {"type": "string", "enum": ["S", "M", "L"]},
            "nickname": {"type": "string", "maxLength": 50},
            "stars": {"type": "integer"}
        }},
        "updatePersonRequest": {"type": "object", "properties": {
            "name": {"type": "string", "maxLength": 60},
            "shirt_size": {"type": "string", "enum": ["S", "M", "L"]},
            "nickname": {"type": "string", "maxLength": 50},
            "stars": {"type": "integer"}
        }},
        "starsRequest": {"type": "object", "required": ["delta"], "properties": {"delta": {"type": "integer"}}},
        "createUserRequest": {"type": "object", "required": ["name"], "properties": {"name": {"type": "string", "maxLength": 50}}},
        "relationRequest": {"type": "object", "required": ["from_user_id", "to_user_id"], "properties": {
            "from_user_id": {"type": "string"},
            "to_user_id": {"type": "string"}
        }},
        "bulkRelationItem": {"type": "object", "required": ["from_user_id", "to_user_id", "relation_type"], "properties": {
            "from_user_id": {"type": "string"},
            "to_user_id": {"type": "string"},
            "relation_type": {"type": "string", "enum": ["f", "b"]}
        }},
        "bulkRelationRequest": {"type": "object", "required": ["relations"], "properties": {
            "relations": {"type": "array", "items": {"$ref": "#/definitions/bulkRelationItem"}}
        }}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Relation Models API",
	Description:      "人员字段与 Twitter 风格关注/拉黑关系服务",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
