// Package swagger registers the OpenAPI document served under /swagger/*.
package swagger

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
        "/issue": {
            "post": {
                "tags": ["ledger"],
                "summary": "Issue books to a student",
                "parameters": [{"in": "body", "name": "input", "required": true, "schema": {"$ref": "#/definitions/IssueRequest"}}],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request"},
                    "404": {"description": "Not Found"},
                    "422": {"description": "Nothing eligible"}
                }
            }
        },
        "/return": {
            "post": {
                "tags": ["ledger"],
                "summary": "Return an issued book",
                "parameters": [{"in": "body", "name": "input", "required": true, "schema": {"$ref": "#/definitions/ReturnRequest"}}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"},
                    "409": {"description": "Already returned"}
                }
            }
        },
        "/unreturned-books/{studentId}": {
            "get": {
                "tags": ["ledger"],
                "summary": "Open issuances of a student",
                "parameters": [{"in": "path", "name": "studentId", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/history/{studentId}": {
            "get": {
                "tags": ["ledger"],
                "summary": "Borrowing history of a student",
                "parameters": [{"in": "path", "name": "studentId", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/book-availability/{accessionNumber}": {
            "get": {
                "tags": ["ledger"],
                "summary": "Whether a copy is on the shelf",
                "parameters": [{"in": "path", "name": "accessionNumber", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/books": {
            "get": {
                "tags": ["catalog"],
                "summary": "Search the catalog",
                "parameters": [
                    {"in": "query", "name": "search", "type": "string"},
                    {"in": "query", "name": "page", "type": "integer", "default": 1, "minimum": 1},
                    {"in": "query", "name": "size", "type": "integer", "default": 10, "minimum": 1}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["catalog"],
                "summary": "Add a book",
                "responses": {"201": {"description": "Created"}, "409": {"description": "Duplicate accession number"}}
            }
        },
        "/students": {
            "get": {
                "tags": ["identity"],
                "summary": "Search students",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["identity"],
                "summary": "Register a student",
                "responses": {"201": {"description": "Created"}, "409": {"description": "Duplicate email or roll number"}}
            }
        },
        "/me/profile": {
            "get": {
                "tags": ["identity"],
                "summary": "Caller's own profile",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            },
            "put": {
                "tags": ["identity"],
                "summary": "Edit own profile (students: phone only)",
                "parameters": [{"in": "body", "name": "input", "required": true, "schema": {"$ref": "#/definitions/UpdateProfileRequest"}}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/me/change-password": {
            "post": {
                "tags": ["identity"],
                "summary": "Change own password",
                "parameters": [{"in": "body", "name": "input", "required": true, "schema": {"$ref": "#/definitions/ChangePasswordRequest"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Wrong, unchanged or short password"}}
            }
        }
    },
    "definitions": {
        "IssueRequest": {
            "type": "object",
            "properties": {
                "studentId": {"type": "string"},
                "bookIds": {"type": "array", "items": {"type": "string"}},
                "issueDate": {"type": "string", "example": "2024-01-10"},
                "dueDate": {"type": "string", "example": "2024-01-24"}
            }
        },
        "ReturnRequest": {
            "type": "object",
            "properties": {
                "studentId": {"type": "string"},
                "issueId": {"type": "string"},
                "issuedBookId": {"type": "string"}
            }
        },
        "UpdateProfileRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "phone": {"type": "string"},
                "department": {"type": "string"}
            }
        },
        "ChangePasswordRequest": {
            "type": "object",
            "properties": {
                "currentPassword": {"type": "string"},
                "newPassword": {"type": "string", "minLength": 6}
            }
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "College Library API",
	Description:      "Book issue and return ledger for a college library.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
