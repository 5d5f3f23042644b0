// Package docs holds the OpenAPI description served at /swagger.
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
        "/api/predict": {
            "post": {
                "description": "Predicts the fault category for one grid sensor reading and returns the matching advisory. Numbers are rounded to 4 decimals.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Prediction"],
                "summary": "Classify a sensor reading",
                "parameters": [
                    {
                        "description": "Sensor reading",
                        "name": "reading",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/models.SensorReading"}
                    }
                ],
                "responses": {
                    "200": {"description": "Prediction", "schema": {"$ref": "#/definitions/models.ClassificationResult"}},
                    "400": {"description": "Malformed body, missing or non-numeric field", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "413": {"description": "Request body too large", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "422": {"description": "Value outside the accepted range", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "429": {"description": "Rate limit exceeded", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/api/model-info": {
            "get": {
                "description": "Class labels, expected features, weights and thresholds of the fault classifier",
                "produces": ["application/json"],
                "tags": ["Prediction"],
                "summary": "Describe the classifier",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.ModelInfoResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Service health",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.HealthResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handlers.HealthResponse"}}
                }
            }
        },
        "/health/live": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.HealthResponse"}}
                }
            }
        },
        "/health/ready": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.HealthResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handlers.HealthResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "invalid input: missing field"},
                "fields": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "handlers.HealthResponse": {
            "type": "object",
            "properties": {
                "checks": {"type": "object", "additionalProperties": {"type": "string"}},
                "status": {"type": "string", "example": "healthy"},
                "timestamp": {"type": "string", "example": "2024-01-15T10:30:00Z"}
            }
        },
        "handlers.ModelInfoResponse": {
            "type": "object",
            "properties": {
                "class_labels": {"type": "array", "items": {"type": "string"}},
                "feature_count": {"type": "integer", "example": 7},
                "feature_names": {"type": "array", "items": {"type": "string"}},
                "model_type": {"type": "string", "example": "threshold-heuristic"},
                "num_classes": {"type": "integer", "example": 3},
                "thresholds": {"type": "array", "items": {"$ref": "#/definitions/handlers.Threshold"}},
                "weights": {"type": "object", "additionalProperties": {"type": "number"}}
            }
        },
        "handlers.Threshold": {
            "type": "object",
            "properties": {
                "above": {"type": "boolean"},
                "factor": {"type": "number", "example": 1},
                "feature": {"type": "string", "example": "temperature"},
                "value": {"type": "number", "example": 35}
            }
        },
        "models.ClassificationResult": {
            "type": "object",
            "properties": {
                "confidence": {"type": "number", "example": 0.6557},
                "fault_details": {"$ref": "#/definitions/models.FaultDetails"},
                "input_features": {"$ref": "#/definitions/models.SensorReading"},
                "prediction": {"type": "string", "example": "Transformer Failure"},
                "probabilities": {"type": "object", "additionalProperties": {"type": "number"}}
            }
        },
        "models.FaultDetails": {
            "type": "object",
            "properties": {
                "affected_components": {"type": "array", "items": {"type": "string"}},
                "description": {"type": "string"},
                "estimated_downtime": {"type": "string", "example": "3-8 hours"},
                "fault_type": {"type": "string", "example": "Transformer Failure"},
                "immediate_steps": {"type": "array", "items": {"type": "string"}},
                "recommended_actions": {"type": "array", "items": {"type": "string"}},
                "risk_level": {"type": "string", "example": "HIGH"},
                "severity": {"type": "string", "example": "HIGH"}
            }
        },
        "models.SensorReading": {
            "type": "object",
            "properties": {
                "current": {"type": "number", "example": 180},
                "down_time": {"type": "number", "example": 5},
                "duration_of_fault": {"type": "number", "example": 3},
                "power_load": {"type": "number", "example": 45},
                "temperature": {"type": "number", "example": 28},
                "voltage": {"type": "number", "example": 1800},
                "wind_speed": {"type": "number", "example": 15}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Grid Fault Predictor API",
	Description:      "Classifies electrical-grid sensor readings into fault categories.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
