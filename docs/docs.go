// Package docs is generated by swag; regenerate with
// `swag init -g cmd/server/main.go -o docs --parseInternal`.
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
        "/projects": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["project"], "summary": "List projects", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "consumes": ["application/json"], "produces": ["application/json"], "tags": ["project"], "summary": "Create project", "responses": {"201": {"description": "Created"}}}
        },
        "/projects/generate": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["generation"], "summary": "Generation status", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "consumes": ["application/json"], "produces": ["application/json"], "tags": ["generation"], "summary": "Generate code", "responses": {"200": {"description": "OK"}, "202": {"description": "Accepted"}}}
        },
        "/projects/generate/stream": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["text/event-stream"], "tags": ["generation"], "summary": "Stream generation progress", "responses": {"200": {"description": "OK"}}}
        },
        "/projects/{project_id}": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["project"], "summary": "Get project", "responses": {"200": {"description": "OK"}}},
            "put": {"security": [{"BearerAuth": []}], "consumes": ["application/json"], "produces": ["application/json"], "tags": ["project"], "summary": "Update project", "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["project"], "summary": "Delete project", "responses": {"200": {"description": "OK"}}}
        },
        "/projects/{project_id}/activity": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["project"], "summary": "Project activity", "responses": {"200": {"description": "OK"}}}
        },
        "/projects/{project_id}/clone": {
            "post": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["project"], "summary": "Clone project", "responses": {"201": {"description": "Created"}}}
        },
        "/projects/{project_id}/favorite": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["favorite"], "summary": "Favorite status", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["favorite"], "summary": "Favorite project", "responses": {"201": {"description": "Created"}}},
            "delete": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["favorite"], "summary": "Unfavorite project", "responses": {"200": {"description": "OK"}}}
        },
        "/favorites": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["favorite"], "summary": "List favorites", "responses": {"200": {"description": "OK"}}}
        },
        "/projects/{project_id}/share": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["share"], "summary": "Get share settings", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "consumes": ["application/json"], "produces": ["application/json"], "tags": ["share"], "summary": "Create share link", "responses": {"201": {"description": "Created"}}},
            "put": {"security": [{"BearerAuth": []}], "consumes": ["application/json"], "produces": ["application/json"], "tags": ["share"], "summary": "Update share settings", "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["share"], "summary": "Revoke share link", "responses": {"200": {"description": "OK"}}}
        },
        "/shared/{token}": {
            "get": {"produces": ["application/json"], "tags": ["share"], "summary": "Open shared project", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}},
            "post": {"consumes": ["application/json"], "produces": ["application/json"], "tags": ["share"], "summary": "Open shared project", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}}
        },
        "/projects/{project_id}/template": {
            "post": {"security": [{"BearerAuth": []}], "consumes": ["application/json"], "produces": ["application/json"], "tags": ["template"], "summary": "Save as template", "responses": {"201": {"description": "Created"}}}
        },
        "/templates/{template_id}/use": {
            "post": {"security": [{"BearerAuth": []}], "consumes": ["application/json"], "produces": ["application/json"], "tags": ["template"], "summary": "Use template", "responses": {"201": {"description": "Created"}}}
        },
        "/categories": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["category"], "summary": "List categories", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "consumes": ["application/json"], "produces": ["application/json"], "tags": ["category"], "summary": "Create category", "responses": {"201": {"description": "Created"}}}
        },
        "/categories/{category_id}": {
            "put": {"security": [{"BearerAuth": []}], "consumes": ["application/json"], "produces": ["application/json"], "tags": ["category"], "summary": "Update category", "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["category"], "summary": "Delete category", "responses": {"200": {"description": "OK"}}}
        },
        "/projects/{project_id}/deploy/one-click": {
            "post": {"security": [{"BearerAuth": []}], "consumes": ["application/json"], "produces": ["application/json"], "tags": ["deploy"], "summary": "Deploy project", "responses": {"200": {"description": "OK"}}}
        },
        "/projects/{project_id}/deployments": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["deploy"], "summary": "List deployments", "responses": {"200": {"description": "OK"}}}
        },
        "/monitoring/projects/{project_id}": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["monitoring"], "summary": "Project metrics", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "consumes": ["application/json"], "produces": ["application/json"], "tags": ["monitoring"], "summary": "Ingest metrics", "responses": {"201": {"description": "Created"}}}
        },
        "/analytics/overview": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["analytics"], "summary": "Analytics overview", "responses": {"200": {"description": "OK"}}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Supabase access token: Bearer <token>",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "SaaS Factory API",
	Description:      "Project lifecycle API: create, generate, share, deploy and monitor generated SaaS apps.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
