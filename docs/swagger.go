// Package docs registers the OpenAPI description served under /swagger.
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
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {"name": "Users", "description": "Registration, login and the current profile"},
        {"name": "Internships", "description": "Posting, publishing and browsing internships"},
        {"name": "Applications", "description": "Applying to internships and reviewing applications"},
        {"name": "Tasks", "description": "Tasks assigned to accepted interns"},
        {"name": "Dashboards", "description": "Employer and student summaries"}
    ],
    "paths": {
        "/register": {"post": {"tags": ["Users"], "summary": "Register a student or employer", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}}},
        "/login": {"post": {"tags": ["Users"], "summary": "Issue a token", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/me": {
            "get": {"tags": ["Users"], "summary": "Current profile", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "patch": {"tags": ["Users"], "summary": "Edit the current profile", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}}
        },
        "/profiles/{id}": {"patch": {"tags": ["Users"], "summary": "Edit a profile", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}}},
        "/internships": {
            "get": {"tags": ["Internships"], "summary": "List open internships", "security": [{"BearerAuth": []}], "parameters": [{"name": "q", "in": "query", "type": "string"}, {"name": "skills", "in": "query", "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Internships"], "summary": "Create an internship", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "403": {"description": "Forbidden"}}}
        },
        "/internships/{id}": {
            "get": {"tags": ["Internships"], "summary": "Get an internship", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "patch": {"tags": ["Internships"], "summary": "Edit an internship", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "403": {"description": "Forbidden"}, "409": {"description": "Conflict"}, "422": {"description": "Internship is closed"}}}
        },
        "/internships/{id}/status": {"post": {"tags": ["Internships"], "summary": "Publish or close an internship", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "422": {"description": "Invalid transition"}}}},
        "/internships/{id}/applications": {
            "get": {"tags": ["Applications"], "summary": "List applications for an internship", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Applications"], "summary": "Apply to an internship", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}
        },
        "/internships/{id}/tasks": {"get": {"tags": ["Tasks"], "summary": "List tasks for an internship", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}},
        "/applications": {"get": {"tags": ["Applications"], "summary": "List my applications", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/applications/{id}": {"get": {"tags": ["Applications"], "summary": "Get an application", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}},
        "/applications/{id}/review": {"post": {"tags": ["Applications"], "summary": "Review an application", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}, "422": {"description": "Invalid transition"}}}},
        "/tasks": {"post": {"tags": ["Tasks"], "summary": "Create a task", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}},
        "/tasks/{id}": {"get": {"tags": ["Tasks"], "summary": "Get a task", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}},
        "/tasks/{id}/transition": {"post": {"tags": ["Tasks"], "summary": "Move a task to another status", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}, "422": {"description": "Invalid transition"}}}},
        "/tasks/{id}/progress": {"post": {"tags": ["Tasks"], "summary": "Update task progress", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}},
        "/dashboard/employer": {"get": {"tags": ["Dashboards"], "summary": "Employer dashboard", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/dashboard/student": {"get": {"tags": ["Dashboards"], "summary": "Student dashboard", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "InternHub API",
	Description:      "API for remote internships: postings, applications, tasks and dashboards.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
