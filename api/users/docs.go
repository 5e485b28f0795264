// Package users holds the Swagger document served at /swagger/. It follows
// the layout written by `swag init -g internal/users/http/router.go -o api/users`.
package users

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "AussieBroadWAN Team",
            "url": "https://github.com/aussiebroadwan/userdir"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/tokens": {
            "post": {
                "security": [{"BasicAuth": []}],
                "description": "Exchanges HTTP Basic credentials for the user's bearer token. A token with more than a minute left is returned unchanged.",
                "produces": ["application/json"],
                "tags": ["Tokens"],
                "summary": "Issue Token",
                "responses": {
                    "200": {"description": "token, token_type, expires_at", "schema": {"$ref": "#/definitions/usersdk.TokenResponse"}},
                    "401": {"description": "error, error_description", "schema": {"$ref": "#/definitions/usersdk.ErrorResponse"}},
                    "429": {"description": "error, error_description", "schema": {"$ref": "#/definitions/usersdk.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "description": "Expires the caller's bearer token immediately.",
                "tags": ["Tokens"],
                "summary": "Revoke Token",
                "responses": {
                    "204": {"description": "token revoked"},
                    "401": {"description": "error, error_description", "schema": {"$ref": "#/definitions/usersdk.ErrorResponse"}}
                }
            }
        },
        "/api/users": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Returns one page of users ordered by id. Emails are not included.",
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "List Users",
                "parameters": [
                    {"type": "integer", "description": "page number, default 1", "name": "page", "in": "query"},
                    {"type": "integer", "description": "page size, default 10, max 100", "name": "per_page", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "items, _meta, _links", "schema": {"$ref": "#/definitions/usersdk.UserListResponse"}},
                    "401": {"description": "error, error_description", "schema": {"$ref": "#/definitions/usersdk.ErrorResponse"}},
                    "429": {"description": "error, error_description", "schema": {"$ref": "#/definitions/usersdk.ErrorResponse"}}
                }
            },
            "post": {
                "description": "Creates an account. Every invalid or already used field is reported at once.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Create User",
                "parameters": [
                    {"description": "username, email, password", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/usersdk.CreateUserRequest"}}
                ],
                "responses": {
                    "201": {"description": "created user, Location header points at it", "schema": {"$ref": "#/definitions/usersdk.UserResponse"}},
                    "400": {"description": "code, message, details", "schema": {"$ref": "#/definitions/usersdk.ValidationErrorResponse"}},
                    "429": {"description": "error, error_description", "schema": {"$ref": "#/definitions/usersdk.ErrorResponse"}},
                    "500": {"description": "error, error_description", "schema": {"$ref": "#/definitions/usersdk.ErrorResponse"}}
                }
            }
        },
        "/api/users/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Returns the full representation of a user, including email.",
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Get User",
                "parameters": [
                    {"type": "string", "description": "user id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "id, username, email, _links", "schema": {"$ref": "#/definitions/usersdk.UserResponse"}},
                    "401": {"description": "error, error_description", "schema": {"$ref": "#/definitions/usersdk.ErrorResponse"}},
                    "404": {"description": "error, error_description", "schema": {"$ref": "#/definitions/usersdk.ErrorResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "description": "Changes username and/or email. Omitted fields are left untouched; the password cannot be changed here.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Update User",
                "parameters": [
                    {"type": "string", "description": "user id", "name": "id", "in": "path", "required": true},
                    {"description": "username and/or email", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/usersdk.UpdateUserRequest"}}
                ],
                "responses": {
                    "200": {"description": "updated user", "schema": {"$ref": "#/definitions/usersdk.UserResponse"}},
                    "400": {"description": "code, message, details", "schema": {"$ref": "#/definitions/usersdk.ValidationErrorResponse"}},
                    "401": {"description": "error, error_description", "schema": {"$ref": "#/definitions/usersdk.ErrorResponse"}},
                    "404": {"description": "error, error_description", "schema": {"$ref": "#/definitions/usersdk.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "description": "Deleting users is not supported and always answers 501.",
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Delete User",
                "parameters": [
                    {"type": "string", "description": "user id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "401": {"description": "error, error_description", "schema": {"$ref": "#/definitions/usersdk.ErrorResponse"}},
                    "501": {"description": "error, error_description", "schema": {"$ref": "#/definitions/usersdk.ErrorResponse"}}
                }
            }
        },
        "/livez": {
            "get": {
                "description": "Liveness probe returning status, uptime and version. Always 200 while the process serves requests.",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health Check Endpoint",
                "responses": {
                    "200": {"description": "status, uptime, version", "schema": {"$ref": "#/definitions/usersdk.HealthResponse"}}
                }
            }
        },
        "/readyz": {
            "get": {
                "description": "Readiness probe that also pings the database",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Readiness Check Endpoint",
                "responses": {
                    "200": {"description": "status, uptime, version, checks", "schema": {"$ref": "#/definitions/usersdk.HealthResponse"}},
                    "503": {"description": "status, uptime, version, checks - service not ready", "schema": {"$ref": "#/definitions/usersdk.HealthResponse"}}
                }
            }
        }
    },
    "definitions": {
        "pagex.Meta": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "per_page": {"type": "integer"},
                "total_items": {"type": "integer"},
                "total_pages": {"type": "integer"}
            }
        },
        "pagex.Links": {
            "type": "object",
            "properties": {
                "next": {"type": "string"},
                "prev": {"type": "string"},
                "self": {"type": "string"}
            }
        },
        "usersdk.CreateUserRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "usersdk.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "error_description": {"type": "string"}
            }
        },
        "usersdk.HealthChecks": {
            "type": "object",
            "properties": {
                "database": {"type": "string"}
            }
        },
        "usersdk.HealthResponse": {
            "type": "object",
            "properties": {
                "checks": {"$ref": "#/definitions/usersdk.HealthChecks"},
                "status": {"type": "string"},
                "uptime": {"type": "string"},
                "version": {"type": "string"}
            }
        },
        "usersdk.TokenResponse": {
            "type": "object",
            "properties": {
                "expires_at": {"type": "string"},
                "token": {"type": "string"},
                "token_type": {"type": "string"}
            }
        },
        "usersdk.UpdateUserRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "usersdk.UserLinks": {
            "type": "object",
            "properties": {
                "self": {"type": "string"}
            }
        },
        "usersdk.UserListResponse": {
            "type": "object",
            "properties": {
                "_links": {"$ref": "#/definitions/pagex.Links"},
                "_meta": {"$ref": "#/definitions/pagex.Meta"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/usersdk.UserResponse"}}
            }
        },
        "usersdk.UserResponse": {
            "type": "object",
            "properties": {
                "_links": {"$ref": "#/definitions/usersdk.UserLinks"},
                "email": {"type": "string"},
                "id": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "usersdk.ValidationErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "details": {"type": "object", "additionalProperties": {"type": "string"}},
                "message": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BasicAuth": {
            "type": "basic"
        },
        "BearerAuth": {
            "description": "Opaque token from POST /api/tokens. Format: \"Bearer {token}\".",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "User Directory API",
	Description:      "Creates accounts, exchanges credentials for an opaque bearer token and serves paginated user listings.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
