// Package docs registers the OpenAPI description served under /swagger/.
// The collection routes are identical for every kind, so they are
// described once with {kind} as a path parameter.
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
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [{"BearerAuth": []}],
    "paths": {
        "/kinds": {
            "get": {
                "summary": "List the collections served by this API",
                "tags": ["catalog"],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/KindInfo"}}}}
            }
        },
        "/{kind}": {
            "parameters": [{"$ref": "#/parameters/kind"}],
            "get": {
                "summary": "Search, filter, order and page a collection",
                "description": "Every query parameter other than search, ordering, page and page_size is an equality filter on a filterable field.",
                "tags": ["catalog"],
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "ordering", "in": "query", "type": "string", "description": "Field name, prefixed with - for descending"},
                    {"name": "page", "in": "query", "type": "integer", "minimum": 1},
                    {"name": "page_size", "in": "query", "type": "integer", "minimum": 1, "maximum": 1000}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Page"}},
                    "400": {"description": "Invalid query", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            },
            "post": {
                "summary": "Create a record",
                "tags": ["catalog"],
                "parameters": [{"name": "record", "in": "body", "required": true, "schema": {"type": "object"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"type": "object"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "409": {"description": "Duplicate key", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/{kind}/{id}": {
            "parameters": [{"$ref": "#/parameters/kind"}, {"name": "id", "in": "path", "required": true, "type": "integer"}],
            "get": {
                "summary": "Fetch one record",
                "tags": ["catalog"],
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorResponse"}}}
            },
            "patch": {
                "summary": "Merge fields into a record",
                "tags": ["catalog"],
                "parameters": [{"name": "fields", "in": "body", "required": true, "schema": {"type": "object"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "409": {"description": "Duplicate key", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            },
            "delete": {
                "summary": "Delete a record",
                "tags": ["catalog"],
                "responses": {"204": {"description": "Deleted"}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorResponse"}}}
            }
        },
        "/{kind}/bulk-delete": {
            "parameters": [{"$ref": "#/parameters/kind"}],
            "post": {
                "summary": "Delete several records, reporting each failure",
                "tags": ["catalog"],
                "parameters": [{"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BulkDeleteRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/BulkOperationResult"}}}
            }
        },
        "/{kind}/export": {
            "parameters": [{"$ref": "#/parameters/kind"}],
            "get": {
                "summary": "Export every record matching the query as CSV or PDF",
                "tags": ["exports"],
                "produces": ["text/csv", "application/pdf", "application/json"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "upload", "in": "query", "type": "boolean", "description": "Store the file and return a download link"}
                ],
                "responses": {
                    "200": {"description": "File contents"},
                    "201": {"description": "Uploaded", "schema": {"type": "object"}},
                    "503": {"description": "Object storage not configured", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        }
    },
    "parameters": {
        "kind": {"name": "kind", "in": "path", "required": true, "type": "string",
            "enum": ["assets", "asset-categories", "asset-types", "manufacturers", "business-units"]}
    },
    "definitions": {
        "KindInfo": {"type": "object", "properties": {
            "kind": {"type": "string"}, "label": {"type": "string"},
            "search_fields": {"type": "array", "items": {"type": "string"}},
            "sortable": {"type": "array", "items": {"type": "string"}},
            "filterable": {"type": "array", "items": {"type": "string"}}
        }},
        "Page": {"type": "object", "properties": {
            "results": {"type": "array", "items": {"type": "object"}},
            "count": {"type": "integer"}, "page": {"type": "integer"},
            "page_size": {"type": "integer"}, "total_pages": {"type": "integer"}
        }},
        "BulkDeleteRequest": {"type": "object", "required": ["ids"], "properties": {
            "ids": {"type": "array", "items": {"type": "integer"}}
        }},
        "BulkOperationResult": {"type": "object"},
        "ErrorResponse": {"type": "object", "properties": {
            "error": {"type": "object", "properties": {
                "code": {"type": "string"}, "message": {"type": "string"},
                "details": {"type": "object", "additionalProperties": {"type": "string"}}
            }}
        }}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "assetdesk API",
	Description:      "Master data and asset register with searchable, pageable collections.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
