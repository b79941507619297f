package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Timetable API",
        "description": "Timetable scheduling engine for school operations",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Settings", "description": "Per-school time configuration and derived period grid"},
        {"name": "Timetable", "description": "Period assignments and conflict checks"},
        {"name": "Teachers", "description": "Aggregated teacher schedules"},
        {"name": "Sessions", "description": "Sessions, plans and calendar projection"},
        {"name": "Memberships", "description": "Teacher and manager school memberships"},
        {"name": "Exports", "description": "CSV and PDF timetable exports"}
    ],
    "paths": {
        "/schools/{schoolId}/timetable-settings": {
            "get": {
                "tags": ["Settings"],
                "summary": "Get timetable settings",
                "parameters": [
                    {"name": "schoolId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Settings"],
                "summary": "Create or replace timetable settings",
                "parameters": [
                    {"name": "schoolId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpsertTimetableSettingsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Config Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schools/{schoolId}/period-grid": {
            "get": {
                "tags": ["Settings"],
                "summary": "Get derived period grid",
                "parameters": [
                    {"name": "schoolId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Config Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schools/{schoolId}/reservations/check": {
            "get": {
                "tags": ["Settings"],
                "summary": "Check whether a slot is reserved",
                "parameters": [
                    {"name": "schoolId", "in": "path", "required": true, "type": "string"},
                    {"name": "day", "in": "query", "required": true, "type": "string"},
                    {"name": "period", "in": "query", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/entries": {
            "get": {
                "tags": ["Timetable"],
                "summary": "List a section's timetable",
                "parameters": [
                    {"name": "schoolId", "in": "query", "required": true, "type": "string"},
                    {"name": "classId", "in": "query", "required": true, "type": "string"},
                    {"name": "sectionId", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Timetable"],
                "summary": "Propose a period assignment",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ProposeAssignmentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Reserved or occupied slot", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/entries/{id}": {
            "patch": {
                "tags": ["Timetable"],
                "summary": "Reassign or edit a period assignment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReassignPeriodRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Reserved or occupied slot", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Timetable"],
                "summary": "Delete a period assignment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/teachers/{id}/schedule": {
            "get": {
                "tags": ["Teachers"],
                "summary": "Get a teacher's aggregated weekly schedule",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/teachers/{id}/schedule/links": {
            "get": {
                "tags": ["Teachers"],
                "summary": "List a teacher's timetable links",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Teachers"],
                "summary": "Link a teacher to an existing timetable entry",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sessions": {
            "get": {
                "tags": ["Sessions"],
                "summary": "List a section's sessions",
                "parameters": [
                    {"name": "sectionId", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Sessions"],
                "summary": "Create a session",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSessionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sessions/{id}/schedule": {
            "get": {
                "tags": ["Sessions"],
                "summary": "Project a session's plans onto the calendar",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Missing anchor", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports/section-timetable": {
            "get": {
                "tags": ["Exports"],
                "summary": "Export a section's timetable",
                "parameters": [
                    {"name": "schoolId", "in": "query", "required": true, "type": "string"},
                    {"name": "classId", "in": "query", "required": true, "type": "string"},
                    {"name": "sectionId", "in": "query", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "required": false, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        }
    },
    "definitions": {
        "UpsertTimetableSettingsRequest": {
            "type": "object",
            "properties": {
                "periods_per_day": {"type": "integer"},
                "duration_per_period": {"type": "integer"},
                "school_start_time": {"type": "string"},
                "school_end_time": {"type": "string"},
                "assembly_start_time": {"type": "string"},
                "assembly_end_time": {"type": "string"},
                "lunch_start_time": {"type": "string"},
                "lunch_end_time": {"type": "string"},
                "reserve_type": {"type": "string", "enum": ["time", "day"]},
                "reserve_time_start": {"type": "string"},
                "reserve_time_end": {"type": "string"},
                "reserve_day": {"type": "object"},
                "day_off": {"type": "string"}
            },
            "required": ["periods_per_day", "duration_per_period", "school_start_time", "school_end_time", "reserve_type"]
        },
        "ProposeAssignmentRequest": {
            "type": "object",
            "properties": {
                "school_id": {"type": "string"},
                "class_id": {"type": "string"},
                "section_id": {"type": "string"},
                "subject_id": {"type": "string"},
                "teacher_id": {"type": "string"},
                "day": {"type": "string"},
                "period": {"type": "integer"}
            },
            "required": ["school_id", "class_id", "section_id", "subject_id", "teacher_id", "day", "period"]
        },
        "ReassignPeriodRequest": {
            "type": "object",
            "properties": {
                "subject_id": {"type": "string"},
                "teacher_id": {"type": "string"},
                "day": {"type": "string"},
                "period": {"type": "integer"}
            }
        },
        "CreateSessionRequest": {
            "type": "object",
            "properties": {
                "subject_id": {"type": "string"},
                "section_id": {"type": "string"},
                "class_info_id": {"type": "string"},
                "teacher_id": {"type": "string"},
                "chapter_name": {"type": "string"},
                "number_of_sessions": {"type": "integer"},
                "priority_number": {"type": "integer"}
            },
            "required": ["subject_id", "section_id", "class_info_id", "teacher_id", "chapter_name", "number_of_sessions", "priority_number"]
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
