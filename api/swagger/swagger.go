package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Studio Booking API",
        "description": "Class-booking administration API: schedule grid, reservations with capacity control, student directory and roster reports.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Auth", "description": "Back-office authentication"},
        {"name": "Classes", "description": "Weekly schedule grid with occupancy"},
        {"name": "Bookings", "description": "Capacity-checked class reservations"},
        {"name": "Students", "description": "Student directory"},
        {"name": "Reports", "description": "Roster reports and exports"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate a back-office user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/classes": {
            "get": {
                "tags": ["Classes"],
                "summary": "Weekly schedule grid with occupancy",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/classes/{id}": {
            "get": {
                "tags": ["Classes"],
                "summary": "Get one class with occupancy",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown class"}
                }
            }
        },
        "/bookings": {
            "post": {
                "tags": ["Bookings"],
                "summary": "Book classes for a student",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BookingRequest"}}
                ],
                "responses": {
                    "201": {"description": "Every requested class enrolled", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "200": {"description": "Partial outcome", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Missing or malformed fields"},
                    "409": {"description": "Student identity conflict"}
                }
            }
        },
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "sort", "in": "query", "type": "string"},
                    {"name": "order", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/{id}": {
            "get": {
                "tags": ["Students"],
                "summary": "Get a student",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown student"}
                }
            },
            "put": {
                "tags": ["Students"],
                "summary": "Update a student's contact fields",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateStudentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown student"},
                    "409": {"description": "Duplicate email"}
                }
            },
            "delete": {
                "tags": ["Students"],
                "summary": "Delete a student and their enrollments",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "401": {"description": "Missing or invalid token"},
                    "403": {"description": "Insufficient role"},
                    "404": {"description": "Unknown student"}
                }
            }
        },
        "/students/{id}/classes": {
            "get": {
                "tags": ["Students"],
                "summary": "List a student's enrolled classes",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown student"}
                }
            }
        },
        "/reports/classes": {
            "get": {
                "tags": ["Reports"],
                "summary": "Roster report: every class with its enrolled students",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/classes/export": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download the roster report as CSV or PDF",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "description": "csv (default) or pdf"}
                ],
                "responses": {
                    "200": {"description": "File download"},
                    "400": {"description": "Unsupported format"}
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
        "BookingRequest": {
            "type": "object",
            "required": ["first_name", "last_name", "national_id", "email", "class_ids"],
            "properties": {
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "national_id": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "class_ids": {"type": "array", "items": {"type": "string"}}
            }
        },
        "UpdateStudentRequest": {
            "type": "object",
            "required": ["first_name", "last_name", "email"],
            "properties": {
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"}
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
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
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
