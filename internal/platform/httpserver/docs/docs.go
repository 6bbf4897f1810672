// Package docs is generated by swaggo/swag from the handler annotations.
// Regenerate with: swag init -g internal/platform/httpserver/server.go -o internal/platform/httpserver/docs
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
        "/api/health": {
            "get": {"produces": ["application/json"], "tags": ["health"], "summary": "Health check", "responses": {"200": {"description": "OK"}}}
        },
        "/api/parts": {
            "get": {
                "produces": ["application/json"], "tags": ["parts"], "summary": "List parts",
                "parameters": [
                    {"type": "string", "name": "carName", "in": "query"},
                    {"type": "string", "name": "model", "in": "query"},
                    {"type": "string", "name": "category", "in": "query"},
                    {"type": "integer", "name": "year", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/parts.ListPartsResponse"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}}}
            },
            "post": {
                "security": [{"BearerAuth": []}], "consumes": ["application/json"], "produces": ["application/json"], "tags": ["parts"], "summary": "Create part",
                "parameters": [{"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/parts.PartRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/parts.PartResponse"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ErrorResponse"}}}
            }
        },
        "/api/parts/{id}": {
            "get": {"produces": ["application/json"], "tags": ["parts"], "summary": "Get part", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/parts.PartResponse"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}}},
            "put": {"security": [{"BearerAuth": []}], "consumes": ["application/json"], "produces": ["application/json"], "tags": ["parts"], "summary": "Update part", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}, {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/parts.PartRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/parts.PartResponse"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ErrorResponse"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}}},
            "delete": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["parts"], "summary": "Delete part", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ErrorResponse"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}}}
        },
        "/api/seller/parts": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["parts"], "summary": "List the caller's parts", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/parts.ListPartsResponse"}}}}
        },
        "/api/orders": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["orders"], "summary": "List my orders", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/orders.ListOrdersResponse"}}}},
            "post": {
                "security": [{"BearerAuth": []}], "consumes": ["application/json"], "produces": ["application/json"], "tags": ["orders"], "summary": "Place order",
                "description": "Idempotent when idempotencyKey (body) or Idempotency-Key (header) is sent.",
                "parameters": [{"type": "string", "name": "Idempotency-Key", "in": "header"}, {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/orders.PlaceOrderRequest"}}],
                "responses": {
                    "200": {"description": "Replayed", "schema": {"$ref": "#/definitions/orders.PlaceOrderResponse"}},
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/orders.PlaceOrderResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/orders.ErrorResponse"}},
                    "409": {"description": "Unavailable items", "schema": {"$ref": "#/definitions/orders.ErrorResponse"}},
                    "503": {"description": "Commit failed", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/api/orders/{id}": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["orders"], "summary": "Get order", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/orders.OrderResponse"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}}}
        },
        "/api/admin/users": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["admin-users"], "summary": "List users", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "consumes": ["application/json"], "produces": ["application/json"], "tags": ["admin-users"], "summary": "Create user", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}}}}
        },
        "/api/admin/users/{id}/role": {
            "put": {"security": [{"BearerAuth": []}], "consumes": ["application/json"], "produces": ["application/json"], "tags": ["admin-users"], "summary": "Change role", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ErrorResponse"}}}}
        },
        "/api/admin/users/{id}": {
            "delete": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["admin-users"], "summary": "Delete user", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ErrorResponse"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}}}
        },
        "/api/admin/orders": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["admin-orders"], "summary": "List all orders", "parameters": [{"type": "string", "name": "status", "in": "query"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/orders.ListOrdersResponse"}}}}
        },
        "/api/admin/orders/{id}/status": {
            "put": {"security": [{"BearerAuth": []}], "consumes": ["application/json"], "produces": ["application/json"], "tags": ["admin-orders"], "summary": "Update order status", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/orders.OrderResponse"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}}}}
        },
        "/api/user/me": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["user"], "summary": "Current user", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ErrorResponse"}}}}
        },
        "/api/user/save-phone-and-address": {
            "post": {"security": [{"BearerAuth": []}], "consumes": ["application/json"], "produces": ["application/json"], "tags": ["user"], "summary": "Save phone and address", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}}}}
        },
        "/api/user/addresses": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["user"], "summary": "List addresses", "responses": {"200": {"description": "OK"}}}
        },
        "/api/user/addresses/{id}": {
            "delete": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["user"], "summary": "Delete address", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}}}
        }
    },
    "definitions": {
        "ErrorResponse": {"type": "object", "properties": {"error": {"type": "string"}, "message": {"type": "string"}}},
        "orders.ErrorResponse": {"type": "object", "properties": {"error": {"type": "string"}, "message": {"type": "string"}, "partIds": {"type": "array", "items": {"type": "integer"}}, "invalidIndexes": {"type": "array", "items": {"type": "integer"}}}},
        "orders.OrderItemRequest": {"type": "object", "properties": {"partId": {"type": "integer"}, "quantity": {"type": "integer"}}},
        "orders.PlaceOrderRequest": {"type": "object", "properties": {"items": {"type": "array", "items": {"$ref": "#/definitions/orders.OrderItemRequest"}}, "address": {"type": "string"}, "phoneNumber": {"type": "string"}, "idempotencyKey": {"type": "string"}}},
        "orders.OrderDTO": {"type": "object", "properties": {"id": {"type": "integer"}, "userId": {"type": "integer"}, "status": {"type": "string"}, "address": {"type": "string"}, "phoneNumber": {"type": "string"}, "total": {"type": "string"}, "createdAt": {"type": "string"}}},
        "orders.PlaceOrderResponse": {"type": "object", "properties": {"message": {"type": "string"}, "replayed": {"type": "boolean"}, "order": {"$ref": "#/definitions/orders.OrderDTO"}}},
        "orders.OrderResponse": {"type": "object", "properties": {"message": {"type": "string"}, "order": {"$ref": "#/definitions/orders.OrderDTO"}}},
        "orders.ListOrdersResponse": {"type": "object", "properties": {"orders": {"type": "array", "items": {"$ref": "#/definitions/orders.OrderDTO"}}}},
        "parts.PartRequest": {"type": "object", "properties": {"name": {"type": "string"}, "description": {"type": "string"}, "price": {"type": "number"}, "category": {"type": "string"}, "carName": {"type": "string"}, "model": {"type": "string"}, "year": {"type": "integer"}, "inStock": {"type": "boolean"}, "imageUrl": {"type": "string"}}},
        "parts.PartDTO": {"type": "object", "properties": {"id": {"type": "integer"}, "sellerId": {"type": "integer"}, "name": {"type": "string"}, "price": {"type": "string"}, "category": {"type": "string"}, "carName": {"type": "string"}, "model": {"type": "string"}, "year": {"type": "integer"}, "inStock": {"type": "boolean"}}},
        "parts.PartResponse": {"type": "object", "properties": {"message": {"type": "string"}, "part": {"$ref": "#/definitions/parts.PartDTO"}}},
        "parts.ListPartsResponse": {"type": "object", "properties": {"parts": {"type": "array", "items": {"$ref": "#/definitions/parts.PartDTO"}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Car Parts API",
	Description:      "Marketplace backend for car parts: catalog, orders, admin and profile.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
