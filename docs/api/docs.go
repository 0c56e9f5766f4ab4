// Package api registers the OpenAPI document served at /swagger.
// Regenerate with: swag init -g cmd/server/main.go -o docs/api
package api

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "termsOfService": "http://swagger.io/terms/",
        "contact": {
            "name": "API Support",
            "url": "https://github.com/localnerve/jam-build-shoplist",
            "email": "info@localnerve.com"
        },
        "license": {
            "name": "AGPL-3.0",
            "url": "https://www.gnu.org/licenses/agpl-3.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "description": "Probes the store and, when configured, the Authorizer service",
                "produces": ["application/json"],
                "tags": ["System"],
                "summary": "Service health",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/services.HealthCheckResult"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/services.HealthCheckResult"}}
                }
            }
        },
        "/shoppingList/create": {
            "post": {
                "description": "Create a list owned by the caller",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["ShoppingList"],
                "summary": "Create a shopping list",
                "parameters": [{"description": "name, description, canMarkItemsDoneByAll", "name": "body", "in": "body", "required": true, "schema": {"type": "object"}}],
                "responses": {
                    "200": {"description": "shoppingList, membership, uuAppErrorMap", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponseStruct"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/utils.ErrorResponseStruct"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/utils.ErrorResponseStruct"}}
                }
            }
        },
        "/shoppingList/listMine": {
            "get": {
                "description": "Lists the caller is a member of, ordered by creation and paged",
                "produces": ["application/json"],
                "tags": ["ShoppingList"],
                "summary": "List the caller's shopping lists",
                "parameters": [
                    {"type": "string", "description": "active or archived", "name": "state", "in": "query"},
                    {"type": "integer", "description": "Zero based page index", "name": "pageInfo.pageIndex", "in": "query"},
                    {"type": "integer", "description": "Page size", "name": "pageInfo.pageSize", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "shoppingLists, pageInfo, uuAppErrorMap", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponseStruct"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/utils.ErrorResponseStruct"}}
                }
            }
        },
        "/shoppingList/get": {
            "get": {
                "produces": ["application/json"],
                "tags": ["ShoppingList"],
                "summary": "Get a shopping list",
                "parameters": [{"type": "string", "description": "Shopping list ID", "name": "shoppingListId", "in": "query", "required": true}],
                "responses": {
                    "200": {"description": "shoppingList, membership, uuAppErrorMap", "schema": {"type": "object", "additionalProperties": true}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/utils.ErrorResponseStruct"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponseStruct"}}
                }
            }
        },
        "/shoppingList/update": {
            "post": {
                "description": "Overwrites only the provided fields. Owner only.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["ShoppingList"],
                "summary": "Update a shopping list",
                "parameters": [{"description": "shoppingListId, name, description, canMarkItemsDoneByAll, state", "name": "body", "in": "body", "required": true, "schema": {"type": "object"}}],
                "responses": {
                    "200": {"description": "shoppingList, uuAppErrorMap", "schema": {"type": "object", "additionalProperties": true}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/utils.ErrorResponseStruct"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponseStruct"}}
                }
            }
        },
        "/shoppingList/delete": {
            "delete": {
                "description": "Deletes the list with its items and memberships. Owner only.",
                "produces": ["application/json"],
                "tags": ["ShoppingList"],
                "summary": "Delete a shopping list",
                "parameters": [{"type": "string", "description": "Shopping list ID", "name": "shoppingListId", "in": "query", "required": true}],
                "responses": {
                    "200": {"description": "shoppingListId, deleted, uuAppErrorMap", "schema": {"type": "object", "additionalProperties": true}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/utils.ErrorResponseStruct"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponseStruct"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/utils.ErrorResponseStruct"}}
                }
            }
        },
        "/shoppingList/addMember": {
            "post": {
                "description": "Idempotent; an existing membership is returned with a warning. Owner only.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["ShoppingList"],
                "summary": "Add a member to a shopping list",
                "parameters": [{"description": "shoppingListId, userId, role", "name": "body", "in": "body", "required": true, "schema": {"type": "object"}}],
                "responses": {
                    "200": {"description": "membership, uuAppErrorMap", "schema": {"type": "object", "additionalProperties": true}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/utils.ErrorResponseStruct"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponseStruct"}}
                }
            }
        },
        "/shoppingList/removeMember": {
            "delete": {
                "description": "Removing a non-member reports removed=false with a warning. The last owner cannot be removed.",
                "produces": ["application/json"],
                "tags": ["ShoppingList"],
                "summary": "Remove a member from a shopping list",
                "parameters": [
                    {"type": "string", "description": "Shopping list ID", "name": "shoppingListId", "in": "query", "required": true},
                    {"type": "string", "description": "Member user ID", "name": "userId", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "shoppingListId, userId, removed, uuAppErrorMap", "schema": {"type": "object", "additionalProperties": true}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/utils.ErrorResponseStruct"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/utils.ErrorResponseStruct"}}
                }
            }
        },
        "/shoppingList/listMembers": {
            "get": {
                "produces": ["application/json"],
                "tags": ["ShoppingList"],
                "summary": "List the members of a shopping list",
                "parameters": [
                    {"type": "string", "description": "Shopping list ID", "name": "shoppingListId", "in": "query", "required": true},
                    {"type": "integer", "description": "Zero based page index", "name": "pageInfo.pageIndex", "in": "query"},
                    {"type": "integer", "description": "Page size", "name": "pageInfo.pageSize", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "memberships, pageInfo, uuAppErrorMap", "schema": {"type": "object", "additionalProperties": true}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/utils.ErrorResponseStruct"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponseStruct"}}
                }
            }
        },
        "/item/create": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Item"],
                "summary": "Create an item",
                "parameters": [{"description": "shoppingListId, name, quantity, note", "name": "body", "in": "body", "required": true, "schema": {"type": "object"}}],
                "responses": {
                    "200": {"description": "item, uuAppErrorMap", "schema": {"type": "object", "additionalProperties": true}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/utils.ErrorResponseStruct"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponseStruct"}}
                }
            }
        },
        "/item/list": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Item"],
                "summary": "List the items of a shopping list",
                "parameters": [
                    {"type": "string", "description": "Shopping list ID", "name": "shoppingListId", "in": "query", "required": true},
                    {"type": "boolean", "description": "Filter by done state", "name": "done", "in": "query"},
                    {"type": "integer", "description": "Zero based page index", "name": "pageInfo.pageIndex", "in": "query"},
                    {"type": "integer", "description": "Page size", "name": "pageInfo.pageSize", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "items, pageInfo, uuAppErrorMap", "schema": {"type": "object", "additionalProperties": true}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/utils.ErrorResponseStruct"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponseStruct"}}
                }
            }
        },
        "/item/update": {
            "post": {
                "description": "Overwrites only the provided fields",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Item"],
                "summary": "Update an item",
                "parameters": [{"description": "itemId, name, quantity, note", "name": "body", "in": "body", "required": true, "schema": {"type": "object"}}],
                "responses": {
                    "200": {"description": "item, uuAppErrorMap", "schema": {"type": "object", "additionalProperties": true}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/utils.ErrorResponseStruct"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponseStruct"}}
                }
            }
        },
        "/item/markDone": {
            "post": {
                "description": "Members need the list's canMarkItemsDoneByAll flag",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Item"],
                "summary": "Mark an item done or not done",
                "parameters": [{"description": "itemId, done", "name": "body", "in": "body", "required": true, "schema": {"type": "object"}}],
                "responses": {
                    "200": {"description": "item, uuAppErrorMap", "schema": {"type": "object", "additionalProperties": true}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/utils.ErrorResponseStruct"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponseStruct"}}
                }
            }
        },
        "/item/delete": {
            "delete": {
                "produces": ["application/json"],
                "tags": ["Item"],
                "summary": "Delete an item",
                "parameters": [{"type": "string", "description": "Item ID", "name": "itemId", "in": "query", "required": true}],
                "responses": {
                    "200": {"description": "itemId, deleted, uuAppErrorMap", "schema": {"type": "object", "additionalProperties": true}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/utils.ErrorResponseStruct"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponseStruct"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/utils.ErrorResponseStruct"}}
                }
            }
        }
    },
    "definitions": {
        "services.HealthCheckResult": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "store": {"type": "string"},
                "authorizer": {"type": "string"},
                "details": {"type": "object", "additionalProperties": {"type": "string"}},
                "error": {"type": "string"}
            }
        },
        "utils.ErrorMapEntryStruct": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "example": "error"},
                "message": {"type": "string", "example": "dtoIn is not valid."},
                "paramMap": {"type": "object", "additionalProperties": true}
            }
        },
        "utils.ErrorResponseStruct": {
            "type": "object",
            "properties": {
                "uuAppErrorMap": {"type": "object", "additionalProperties": {"$ref": "#/definitions/utils.ErrorMapEntryStruct"}}
            }
        }
    },
    "securityDefinitions": {
        "CookieAuth": {"type": "apiKey", "name": "cookie_session", "in": "cookie"},
        "UserIdHeader": {"type": "apiKey", "name": "X-User-Id", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:3000",
	BasePath:         "/api",
	Schemes:          []string{"http", "https"},
	Title:            "Shopping List API",
	Description:      "Multi-tenant shopping list data service with membership based authorization",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
