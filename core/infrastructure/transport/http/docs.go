package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pb33f/libopenapi"

	"github.com/scriptbridge/scriptbridge/core/domain"
	"github.com/scriptbridge/scriptbridge/core/infrastructure/logging"
)

func ref(name string) map[string]any {
	return map[string]any{"$ref": "#/components/schemas/" + name}
}

func enumOf[T ~string](values ...T) map[string]any {
	names := make([]string, len(values))
	for i, v := range values {
		names[i] = string(v)
	}
	return map[string]any{"type": "string", "enum": names}
}

func jsonContent(schema map[string]any) map[string]any {
	return map[string]any{
		"application/json": map[string]any{"schema": schema},
	}
}

func queryOperation(summary, description string) map[string]any {
	return map[string]any{
		"post": map[string]any{
			"summary":     summary,
			"description": description,
			"parameters": []any{
				map[string]any{
					"name":        "X-Session-Id",
					"in":          "header",
					"required":    false,
					"description": "Session to run the query on; the default session is used when omitted",
					"schema":      map[string]any{"type": "string"},
				},
				map[string]any{
					"name":        "session",
					"in":          "query",
					"required":    false,
					"description": "Fallback for the X-Session-Id header",
					"schema":      map[string]any{"type": "string"},
				},
			},
			"requestBody": map[string]any{
				"required": true,
				"content":  jsonContent(ref("Query")),
			},
			"responses": map[string]any{
				"200": map[string]any{"description": "Query succeeded", "content": jsonContent(ref("QueryResult"))},
				"400": map[string]any{"description": "Malformed or invalid query", "content": jsonContent(ref("QueryResult"))},
				"404": map[string]any{"description": "Session or object not found", "content": jsonContent(ref("QueryResult"))},
				"422": map[string]any{"description": "Action not supported", "content": jsonContent(ref("QueryResult"))},
				"500": map[string]any{"description": "Execution failed", "content": jsonContent(ref("QueryResult"))},
			},
		},
	}
}

func openAPISchemas() map[string]any {
	return map[string]any{
		"Condition": map[string]any{
			"type":     "object",
			"required": []string{"field", "operator"},
			"properties": map[string]any{
				"field": map[string]any{"type": "string"},
				"operator": enumOf(
					domain.OpEquals, domain.OpNotEquals, domain.OpContains, domain.OpStartsWith, domain.OpEndsWith,
					domain.OpGreaterThan, domain.OpLessThan, domain.OpGreaterOrEqual, domain.OpLessOrEqual,
					domain.OpIsEmpty, domain.OpIsNotEmpty, domain.OpIsNull, domain.OpIsNotNull,
				),
				"value":      map[string]any{"description": "String, number, boolean or null"},
				"logical_op": enumOf(domain.LogicalAnd, domain.LogicalOr),
			},
		},
		"QueryOptions": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"limit":              map[string]any{"type": "integer", "minimum": 0},
				"skip":               map[string]any{"type": "integer", "minimum": 0},
				"include_all_fields": map[string]any{"type": "boolean", "default": true},
				"fields":             map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			},
		},
		"Query": map[string]any{
			"type":     "object",
			"required": []string{"object_path", "source_type", "action"},
			"properties": map[string]any{
				"object_path": map[string]any{"type": "string"},
				"source_type": enumOf(domain.SourceTypes...),
				"action": enumOf(
					domain.ActionGetFirst, domain.ActionGetLast, domain.ActionGetAll,
					domain.ActionCount, domain.ActionSelect, domain.ActionExtract,
				),
				"conditions": map[string]any{"type": "array", "items": ref("Condition")},
				"options":    ref("QueryOptions"),
			},
		},
		"Match": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"index": map[string]any{"type": "integer"},
				"key":   map[string]any{"type": "string"},
				"data":  map[string]any{"type": "object", "additionalProperties": true},
			},
		},
		"QueryResult": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"success":       map[string]any{"type": "boolean"},
				"total_matches": map[string]any{"type": "integer"},
				"matches":       map[string]any{"type": "array", "items": ref("Match")},
				"error":         map[string]any{"type": "string"},
				"error_code":    map[string]any{"type": "string"},
				"elapsed_ms":    map[string]any{"type": "integer"},
			},
		},
		"ValidationResult": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"valid":      map[string]any{"type": "boolean"},
				"message":    map[string]any{"type": "string"},
				"violations": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			},
		},
	}
}

// GenerateOpenAPISpec builds the OpenAPI 3 document for the HTTP API and
// validates it with libopenapi
func GenerateOpenAPISpec(baseURL, version string) ([]byte, error) {
	spec := map[string]any{
		"openapi": "3.0.3",
		"info": map[string]any{
			"title":       "scriptbridge query API",
			"description": "Conditional queries over grids, tables and trees of recorded screen sessions",
			"version":     version,
		},
		"servers": []any{
			map[string]any{"url": baseURL},
		},
		"paths": map[string]any{
			"/api/v1/query":       queryOperation("Execute a query", "Runs the query with the action given in the body."),
			"/api/v1/query/first": queryOperation("First match", "Runs the query as GetFirst."),
			"/api/v1/query/last":  queryOperation("Last match", "Runs the query as GetLast."),
			"/api/v1/query/count": queryOperation("Count matches", "Runs the query as Count."),
			"/api/v1/query/validate": map[string]any{
				"post": map[string]any{
					"summary":     "Validate a query",
					"requestBody": map[string]any{"required": true, "content": jsonContent(ref("Query"))},
					"responses": map[string]any{
						"200": map[string]any{"description": "Validation outcome", "content": jsonContent(ref("ValidationResult"))},
					},
				},
			},
			"/api/v1/sessions": map[string]any{
				"get": map[string]any{
					"summary": "List sessions",
					"responses": map[string]any{
						"200": map[string]any{"description": "Session IDs"},
					},
				},
			},
			"/heartbeat": map[string]any{
				"get": map[string]any{
					"summary":   "Health check",
					"responses": map[string]any{"200": map[string]any{"description": "Server is up"}},
				},
			},
			"/mcp": map[string]any{
				"post": map[string]any{
					"summary":   "MCP JSON-RPC 2.0 endpoint",
					"responses": map[string]any{"200": map[string]any{"description": "JSON-RPC response"}},
				},
			},
		},
		"components": map[string]any{
			"schemas": openAPISchemas(),
		},
	}

	specJSON, err := json.Marshal(spec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal spec: %w", err)
	}

	document, err := libopenapi.NewDocument(specJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to create libopenapi document: %w", err)
	}
	if _, err := document.BuildV3Model(); err != nil {
		return nil, fmt.Errorf("failed to build v3 model (validation error): %w", err)
	}

	return specJSON, nil
}

// handleDocs serves the OpenAPI document built at registration
func handleDocs(baseURL, version string) http.HandlerFunc {
	specJSON, err := GenerateOpenAPISpec(baseURL, version)
	if err != nil {
		logging.New("routes").Errorf("OpenAPI document unavailable: %v", err)
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to generate OpenAPI spec: %v", err), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(specJSON)
	}
}
