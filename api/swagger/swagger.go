package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "CourseDeck API",
        "description": "Course schedule conflict and feasibility analysis service",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Authentication and session management"},
        {"name": "Users", "description": "User administration"},
        {"name": "Scenarios", "description": "Schedule scenario drafts"},
        {"name": "Sections", "description": "Course sections and meeting blocks"},
        {"name": "Instructors", "description": "Instructor roster"},
        {"name": "Rooms", "description": "Room registry"},
        {"name": "Pathways", "description": "Course pathway registry"},
        {"name": "Analysis", "description": "Conflict and feasibility analysis"},
        {"name": "Exports", "description": "Asynchronous report exports"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Login with email and password",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Auth"],
                "summary": "Rotate a refresh token",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/scenarios": {
            "get": {
                "tags": ["Scenarios"],
                "summary": "List scenarios",
                "parameters": [
                    {"name": "term", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Scenarios"],
                "summary": "Create scenario",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateScenarioRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/scenarios/{id}": {
            "get": {
                "tags": ["Scenarios"],
                "summary": "Get scenario",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["Scenarios"],
                "summary": "Update scenario",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateScenarioRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Scenarios"],
                "summary": "Delete scenario",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"}
                }
            }
        },
        "/scenarios/{id}/sections": {
            "get": {
                "tags": ["Sections"],
                "summary": "List sections of a scenario",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "courseCode", "in": "query", "type": "string"},
                    {"name": "instructorId", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Sections"],
                "summary": "Create section",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSectionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/scenarios/{id}/sections/import": {
            "post": {
                "tags": ["Sections"],
                "summary": "Bulk import sections from CSV",
                "consumes": ["multipart/form-data", "text/csv"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "file", "in": "formData", "type": "file"}
                ],
                "responses": {
                    "200": {"description": "Import summary", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/scenarios/{id}/analysis": {
            "get": {
                "tags": ["Analysis"],
                "summary": "Run conflict analysis for a scenario",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "bufferMinutes", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Analysis report", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Scenario not found"}
                }
            }
        },
        "/scenarios/{id}/exports": {
            "post": {
                "tags": ["Exports"],
                "summary": "Queue an analysis report export",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateExportJobRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports/{jobId}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Get export job status",
                "parameters": [
                    {"name": "jobId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/exports/download/{token}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download an exported report via signed token",
                "produces": ["application/octet-stream"],
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File stream"},
                    "401": {"description": "Invalid or expired token"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "CreateScenarioRequest": {
            "type": "object",
            "required": ["name", "termLabel"],
            "properties": {
                "name": {"type": "string"},
                "termLabel": {"type": "string"}
            }
        },
        "UpdateScenarioRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "termLabel": {"type": "string"}
            }
        },
        "CreateSectionRequest": {
            "type": "object",
            "required": ["courseCode", "title"],
            "properties": {
                "courseCode": {"type": "string"},
                "title": {"type": "string"},
                "label": {"type": "string"},
                "kind": {"type": "string", "enum": ["LECTURE", "LAB", "SEMINAR", "COMBINED", "ONLINE", "OTHER"]},
                "modality": {"type": "string"},
                "instructorId": {"type": "string"},
                "meetings": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/MeetingOccurrenceRequest"}
                }
            }
        },
        "MeetingOccurrenceRequest": {
            "type": "object",
            "required": ["day", "startTime", "endTime"],
            "properties": {
                "day": {"type": "string", "enum": ["MON", "TUE", "WED", "THU", "FRI", "SAT", "SUN"]},
                "startTime": {"type": "string", "example": "13:00"},
                "endTime": {"type": "string", "example": "14:30"},
                "roomId": {"type": "string"}
            }
        },
        "CreateExportJobRequest": {
            "type": "object",
            "required": ["format"],
            "properties": {
                "format": {"type": "string", "enum": ["CSV", "PDF"]},
                "bufferMinutes": {"type": "integer"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
