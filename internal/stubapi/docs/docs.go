// Package docs holds the OpenAPI description of the stub feedback backend,
// served by echo-swagger under /swagger/.
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
        "/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a new user",
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/registerRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/registerResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/login": {
            "post": {
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login",
                "parameters": [
                    {"type": "string", "description": "Email address", "name": "username", "in": "formData", "required": true},
                    {"type": "string", "description": "Password", "name": "password", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/tokenResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/userOut"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/dashboard": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["manager"],
                "summary": "Manager dashboard",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dashboardResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/feedback": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["manager"],
                "summary": "Submit feedback",
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/feedbackRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/createFeedbackResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/feedback/{employee_id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["manager"],
                "summary": "Feedback history",
                "parameters": [
                    {"type": "integer", "description": "Employee ID", "name": "employee_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/feedbackOut"}}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/employee-dashboard": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["employee"],
                "summary": "Employee dashboard",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/timelineResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/acknowledge/{feedback_id}": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["employee"],
                "summary": "Acknowledge feedback",
                "parameters": [
                    {"type": "integer", "description": "Feedback ID", "name": "feedback_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/messageResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "errorResponse": {"type": "object", "properties": {"detail": {}}},
        "messageResponse": {"type": "object", "properties": {"message": {"type": "string"}}},
        "registerRequest": {
            "type": "object",
            "required": ["email", "name", "password", "role"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"},
                "role": {"type": "string", "enum": ["Manager", "Employee"]},
                "manager_id": {"type": "integer"}
            }
        },
        "registerResponse": {"type": "object", "properties": {"message": {"type": "string"}, "user_id": {"type": "integer"}}},
        "tokenResponse": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"},
                "token_type": {"type": "string"},
                "user_id": {"type": "integer"},
                "role": {"type": "string"}
            }
        },
        "userOut": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string"},
                "managerId": {"type": "integer"}
            }
        },
        "sentimentTally": {
            "type": "object",
            "properties": {"POSITIVE": {"type": "integer"}, "NEUTRAL": {"type": "integer"}, "NEGATIVE": {"type": "integer"}}
        },
        "teamMember": {
            "type": "object",
            "properties": {
                "employee": {"$ref": "#/definitions/userOut"},
                "feedback_count": {"type": "integer"},
                "sentiments": {"$ref": "#/definitions/sentimentTally"}
            }
        },
        "dashboardResponse": {"type": "object", "properties": {"team": {"type": "array", "items": {"$ref": "#/definitions/teamMember"}}}},
        "feedbackRequest": {
            "type": "object",
            "required": ["employee_id", "strengths", "areasToImprove", "sentiment"],
            "properties": {
                "employee_id": {"type": "integer"},
                "strengths": {"type": "string"},
                "areasToImprove": {"type": "string"},
                "sentiment": {"type": "string", "enum": ["POSITIVE", "NEUTRAL", "NEGATIVE"]}
            }
        },
        "feedbackOut": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "strengths": {"type": "string"},
                "areasToImprove": {"type": "string"},
                "sentiment": {"type": "string"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"},
                "employeeId": {"type": "integer"},
                "managerId": {"type": "integer"},
                "acknowledged": {"type": "boolean"}
            }
        },
        "createFeedbackResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}, "feedback": {"$ref": "#/definitions/feedbackOut"}}
        },
        "timelineItem": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "sentiment": {"type": "string"},
                "strengths": {"type": "string"},
                "areasToImprove": {"type": "string"},
                "acknowledged": {"type": "boolean"},
                "createdAt": {"type": "string"},
                "managerName": {"type": "string"}
            }
        },
        "timelineResponse": {"type": "object", "properties": {"timeline": {"type": "array", "items": {"$ref": "#/definitions/timelineItem"}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Feedback API (stub)",
	Description:      "In-memory feedback backend used for development and tests.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
