// Package docs registers the OpenAPI description of the portal gateway
// with swag so the Swagger UI under /swagger can serve it.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "tags": ["ops"],
                "summary": "Readiness, pings the token database when configured",
                "responses": {"200": {"description": "healthy"}, "503": {"description": "database unreachable", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}}
            }
        },
        "/healthz": {
            "get": {"tags": ["ops"], "summary": "Liveness", "responses": {"200": {"description": "alive"}}}
        },
        "/auth/exchange": {
            "post": {
                "tags": ["auth"],
                "summary": "Exchange an authorization code for a session",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/ExchangeRequest"}}],
                "responses": {"200": {"description": "session established"}, "401": {"description": "exchange rejected", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}}
            }
        },
        "/auth/refresh": {
            "post": {"tags": ["auth"], "summary": "Renew the access token", "responses": {"200": {"description": "refreshed"}, "401": {"description": "login required", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}}}
        },
        "/auth/logout": {
            "post": {"tags": ["auth"], "summary": "Revoke and clear the session", "responses": {"200": {"description": "logged out"}}}
        },
        "/auth/me": {
            "get": {
                "tags": ["auth"],
                "summary": "Identity of the current session",
                "parameters": [{"in": "query", "name": "remote", "type": "boolean", "description": "ask the backend instead of decoding the stored token"}],
                "responses": {"200": {"description": "profile"}, "401": {"description": "login required", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}}
            }
        },
        "/documents": {
            "get": {
                "tags": ["documents"],
                "summary": "List documents",
                "parameters": [{"in": "query", "name": "status", "type": "string", "enum": ["UPLOADING", "ACTIVE", "PROCESSING", "DELETED"]}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/DocumentList"}}}
            },
            "post": {
                "tags": ["documents"],
                "summary": "Upload a document",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"in": "formData", "name": "file", "type": "file", "required": true},
                    {"in": "formData", "name": "description", "type": "string"}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/Document"}}, "413": {"description": "file too large", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}}
            }
        },
        "/documents/search": {
            "get": {
                "tags": ["documents"],
                "summary": "Search documents by keyword",
                "parameters": [{"in": "query", "name": "q", "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/DocumentList"}}}
            }
        },
        "/documents/by-tags": {
            "get": {
                "tags": ["documents"],
                "summary": "Documents carrying any of the given tags",
                "parameters": [{"in": "query", "name": "tags", "type": "string", "required": true, "description": "comma separated"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/DocumentList"}}, "400": {"description": "no tags", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}}
            }
        },
        "/documents/{id}": {
            "delete": {
                "tags": ["documents"],
                "summary": "Delete a document",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {"200": {"description": "deleted"}, "422": {"description": "rejected by the backend", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}}
            }
        },
        "/documents/{id}/share": {
            "get": {
                "tags": ["documents"],
                "summary": "Create a share link",
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "query", "name": "expirationMinutes", "type": "integer", "default": 60}
                ],
                "responses": {"200": {"description": "share link"}}
            }
        },
        "/documents/{id}/download": {
            "get": {
                "tags": ["documents"],
                "summary": "Resolve a download link",
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "query", "name": "redirect", "type": "boolean"}
                ],
                "responses": {"200": {"description": "download info"}, "302": {"description": "redirect to the file"}}
            }
        },
        "/documents/{id}/comments": {
            "get": {
                "tags": ["documents"],
                "summary": "List comments",
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "query", "name": "page", "type": "integer"},
                    {"in": "query", "name": "size", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["documents"],
                "summary": "Add a comment",
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"type": "object", "properties": {"content": {"type": "string"}}}}
                ],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/documents/{id}/tags": {
            "put": {
                "tags": ["documents"],
                "summary": "Replace the tag set",
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"type": "object", "properties": {"tags": {"type": "array", "items": {"type": "string"}}}}}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/teams": {
            "get": {
                "tags": ["teams"],
                "summary": "List teams",
                "parameters": [{"in": "query", "name": "activeOnly", "type": "boolean", "default": true}],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["teams"],
                "summary": "Create a team",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/TeamInput"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "name missing", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}}
            }
        },
        "/teams/{id}": {
            "get": {
                "tags": ["teams"],
                "summary": "Fetch a team",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}, "502": {"description": "upstream error, including an unknown team", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}}
            },
            "put": {
                "tags": ["teams"],
                "summary": "Update a team",
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/TeamInput"}}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["teams"],
                "summary": "Delete a team",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/teams/{id}/members": {
            "get": {
                "tags": ["teams"],
                "summary": "List members",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["teams"],
                "summary": "Invite a member",
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"type": "object", "properties": {"email": {"type": "string"}, "role": {"type": "string", "enum": ["owner", "admin", "member"]}}}}
                ],
                "responses": {"201": {"description": "member added"}, "202": {"description": "invitation accepted"}, "400": {"description": "invalid email or role", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}}
            }
        },
        "/teams/{id}/members/{memberId}": {
            "put": {
                "tags": ["teams"],
                "summary": "Change a member's role",
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "path", "name": "memberId", "type": "string", "required": true}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["teams"],
                "summary": "Remove a member",
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "path", "name": "memberId", "type": "string", "required": true}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/teams/{id}/leave": {
            "post": {
                "tags": ["teams"],
                "summary": "Leave a team",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/logs": {
            "get": {
                "tags": ["logs"],
                "summary": "Activity log",
                "parameters": [{"in": "query", "name": "documentId", "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/logs/count": {
            "get": {
                "tags": ["logs"],
                "summary": "Activity counts",
                "parameters": [{"in": "query", "name": "period", "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "ErrorEnvelope": {
            "type": "object",
            "properties": {
                "request_id": {"type": "string"},
                "error": {"type": "object", "properties": {"code": {"type": "string"}, "message": {"type": "string"}}}
            }
        },
        "ExchangeRequest": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "codeVerifier": {"type": "string"},
                "redirectUri": {"type": "string"},
                "nonce": {"type": "string"}
            }
        },
        "Document": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "type": {"type": "string"},
                "size": {"type": "string"},
                "sizeBytes": {"type": "integer"},
                "uploadDate": {"type": "string"},
                "tags": {"type": "array", "items": {"type": "string"}}
            }
        },
        "DocumentList": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/Document"}},
                "total": {"type": "integer"}
            }
        },
        "TeamInput": {
            "type": "object",
            "properties": {"name": {"type": "string"}, "description": {"type": "string"}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "docportal gateway",
	Description:      "Session-holding gateway in front of the document, team and activity-log services.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
