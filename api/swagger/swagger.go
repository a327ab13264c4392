package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Academic Reporting Portal API",
        "description": "Lecture reports, reviewer feedback, student ratings and attendance monitoring.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": ["http"],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [{"BearerAuth": []}],
    "tags": [
        {"name": "Reports", "description": "Lecture report submission and review"},
        {"name": "Feedback", "description": "Reviewer feedback log"},
        {"name": "Ratings", "description": "Student ratings and lecturer summaries"},
        {"name": "Monitoring", "description": "Attendance monitoring and probes"}
    ],
    "paths": {
        "/lecture-reports": {
            "get": {
                "tags": ["Reports"],
                "summary": "List lecture reports",
                "parameters": [
                    {"name": "authorId", "in": "query", "type": "string"},
                    {"name": "reviewerId", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string", "description": "Comma separated: pending, reviewed, approved, rejected"},
                    {"name": "lecturerName", "in": "query", "type": "string"},
                    {"name": "courseName", "in": "query", "type": "string"},
                    {"name": "from", "in": "query", "type": "string", "format": "date"},
                    {"name": "to", "in": "query", "type": "string", "format": "date"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "offset", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Reports"],
                "summary": "Submit a lecture report",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateReportRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/lecture-reports/export": {
            "get": {
                "tags": ["Reports"],
                "summary": "Export lecture reports",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"], "default": "csv"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "lecturerName", "in": "query", "type": "string"},
                    {"name": "courseName", "in": "query", "type": "string"},
                    {"name": "from", "in": "query", "type": "string", "format": "date"},
                    {"name": "to", "in": "query", "type": "string", "format": "date"}
                ],
                "responses": {
                    "200": {"description": "File download", "schema": {"type": "file"}},
                    "400": {"description": "Unknown format", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/lecture-reports/{id}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Get a lecture report",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Reports"],
                "summary": "Change a report's review status",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TransitionReportRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Illegal transition", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/{id}/feedback": {
            "get": {
                "tags": ["Feedback"],
                "summary": "List feedback for a report",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Feedback"],
                "summary": "Append reviewer feedback",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/FeedbackRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Report not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/feedback/{id}/close": {
            "post": {
                "tags": ["Feedback"],
                "summary": "Close a feedback entry",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/feedback/{id}/address": {
            "post": {
                "tags": ["Feedback"],
                "summary": "Mark a feedback entry addressed",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already closed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/ratings": {
            "get": {
                "tags": ["Ratings"],
                "summary": "List ratings",
                "parameters": [
                    {"name": "studentId", "in": "query", "type": "string"},
                    {"name": "lecturerName", "in": "query", "type": "string"},
                    {"name": "courseName", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Ratings"],
                "summary": "Rate a lecturer for a course",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitRatingRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Duplicate rating", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "429": {"description": "Too many requests", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/ratings/lecturer/{name}": {
            "get": {
                "tags": ["Ratings"],
                "summary": "Rating summary for a lecturer",
                "parameters": [{"name": "name", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/ratings/overview": {
            "get": {
                "tags": ["Ratings"],
                "summary": "Rating summaries for every rated lecturer",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/monitoring/attendance": {
            "get": {
                "tags": ["Monitoring"],
                "summary": "Mean attendance rate",
                "parameters": [
                    {"name": "lecturerName", "in": "query", "type": "string"},
                    {"name": "courseName", "in": "query", "type": "string"},
                    {"name": "from", "in": "query", "type": "string", "format": "date"},
                    {"name": "to", "in": "query", "type": "string", "format": "date"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/monitoring/attendance/courses": {
            "get": {
                "tags": ["Monitoring"],
                "summary": "Attendance rate per course",
                "parameters": [
                    {"name": "lecturerName", "in": "query", "type": "string"},
                    {"name": "from", "in": "query", "type": "string", "format": "date"},
                    {"name": "to", "in": "query", "type": "string", "format": "date"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        }
    },
    "definitions": {
        "CreateReportRequest": {
            "type": "object",
            "required": ["className", "weekOfReporting", "lectureDate", "courseName", "courseCode", "lecturerName", "lecturerId", "studentsRegistered", "venue", "scheduledTime", "topic", "learningOutcomes"],
            "properties": {
                "facultyName": {"type": "string"},
                "className": {"type": "string"},
                "weekOfReporting": {"type": "string"},
                "lectureDate": {"type": "string", "format": "date"},
                "courseId": {"type": "string"},
                "courseName": {"type": "string"},
                "courseCode": {"type": "string"},
                "lecturerName": {"type": "string"},
                "lecturerId": {"type": "integer"},
                "studentsPresent": {"type": "integer", "minimum": 0},
                "studentsRegistered": {"type": "integer", "minimum": 1},
                "venue": {"type": "string"},
                "scheduledTime": {"type": "string"},
                "topic": {"type": "string"},
                "learningOutcomes": {"type": "string"},
                "recommendations": {"type": "string"}
            }
        },
        "FeedbackRequest": {
            "type": "object",
            "required": ["text"],
            "properties": {
                "text": {"type": "string"},
                "priority": {"type": "string", "enum": ["low", "medium", "high", "critical"], "default": "medium"}
            }
        },
        "TransitionReportRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string", "enum": ["reviewed", "approved", "rejected"]},
                "feedback": {"$ref": "#/definitions/FeedbackRequest"}
            }
        },
        "SubmitRatingRequest": {
            "type": "object",
            "required": ["lecturerName", "courseName", "rating"],
            "properties": {
                "lecturerName": {"type": "string"},
                "courseName": {"type": "string"},
                "reportId": {"type": "string"},
                "rating": {"type": "integer", "minimum": 1, "maximum": 5},
                "review": {"type": "string"}
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
                "limit": {"type": "integer"},
                "offset": {"type": "integer"},
                "count": {"type": "integer"}
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
