package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/scriptbridge/scriptbridge/core/domain"
	"github.com/scriptbridge/scriptbridge/core/domain/interfaces"
	"github.com/scriptbridge/scriptbridge/core/observability"
	"github.com/scriptbridge/scriptbridge/core/shared/errors"
)

// MCP tool names
const (
	ToolExecute = "query_execute"
	ToolFirst   = "query_first"
	ToolLast    = "query_last"
	ToolCount   = "query_count"
)

// MCPService implements the unified MCP service used by all transports
type MCPService struct {
	queries interfaces.QueryService
}

var _ interfaces.MCPService = (*MCPService)(nil)

// NewMCPService creates a new MCPService
func NewMCPService(queries interfaces.QueryService) *MCPService {
	return &MCPService{queries: queries}
}

// ListTools returns the query tools
func (s *MCPService) ListTools(ctx context.Context) []interfaces.Tool {
	return []interfaces.Tool{
		{
			Name:        ToolExecute,
			Description: "Run a conditional query against a grid, table or tree and return the matches for the requested action.",
			InputSchema: querySchema(true),
		},
		{
			Name:        ToolFirst,
			Description: "Return the first record matching the conditions, or null.",
			InputSchema: querySchema(false),
		},
		{
			Name:        ToolLast,
			Description: "Return the last record matching the conditions, or null.",
			InputSchema: querySchema(false),
		},
		{
			Name:        ToolCount,
			Description: "Count the records matching the conditions.",
			InputSchema: querySchema(false),
		},
	}
}

// CallTool executes a tool by name. Failures are reported as error content,
// never as a Go error.
func (s *MCPService) CallTool(ctx context.Context, name string, arguments map[string]any) interfaces.ToolResult {
	ctx, span := observability.StartToolSpan(ctx, name)
	defer span.End()

	var action domain.Action
	switch name {
	case ToolExecute:
	case ToolFirst:
		action = domain.ActionGetFirst
	case ToolLast:
		action = domain.ActionGetLast
	case ToolCount:
		action = domain.ActionCount
	default:
		return errorContent(errors.ErrCodeInvalidInput, fmt.Sprintf("unknown tool %q", name))
	}

	q, sessionID, err := decodeArguments(arguments)
	if err != nil {
		return errorContent(errors.ErrCodeInvalidInput, err.Error())
	}
	if action != "" {
		q = q.WithAction(action)
	}

	result, err := s.queries.Execute(ctx, sessionID, q)
	if err != nil {
		return errorContent(errors.CodeOf(err), errors.MessageOf(err))
	}
	if !result.Success {
		return errorContent(result.ErrorCode, result.Error)
	}

	switch name {
	case ToolFirst:
		return jsonContent(result.First())
	case ToolLast:
		return jsonContent(result.Last())
	case ToolCount:
		return jsonContent(map[string]any{"count": result.TotalMatches, "elapsed_ms": result.ElapsedMs})
	default:
		return jsonContent(result)
	}
}

// decodeArguments reuses the query JSON decoding so tool arguments accept
// the same case-insensitive names as the HTTP API
func decodeArguments(arguments map[string]any) (*domain.Query, string, error) {
	raw, err := json.Marshal(arguments)
	if err != nil {
		return nil, "", fmt.Errorf("invalid arguments: %w", err)
	}

	var args struct {
		domain.Query
		Session string `json:"session"`
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, "", fmt.Errorf("invalid arguments: %w", err)
	}
	return &args.Query, args.Session, nil
}

func jsonContent(v any) interfaces.ToolResult {
	content, err := json.Marshal(v)
	if err != nil {
		return errorContent(errors.ErrCodeInternalError, "failed to serialize result")
	}
	return interfaces.ToolResult{Content: string(content)}
}

func errorContent(code errors.ErrorCode, message string) interfaces.ToolResult {
	content, _ := json.Marshal(map[string]string{"error": message, "error_code": string(code)})
	return interfaces.ToolResult{Content: string(content), IsError: true}
}

func enumSchema(values ...string) map[string]any {
	return map[string]any{"type": "string", "enum": values}
}

func querySchema(withAction bool) map[string]any {
	properties := map[string]any{
		"session": map[string]any{
			"type":        "string",
			"description": "Session ID; the default session is used when omitted",
		},
		"object_path": map[string]any{
			"type":        "string",
			"description": "Path of the UI object, e.g. wnd[0]/usr/cntlGRID1/shellcont/shell",
		},
		"source_type": enumSchema("Grid", "Table", "Tree"),
		"conditions": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"field": map[string]any{"type": "string"},
					"operator": enumSchema(
						"Equals", "NotEquals", "Contains", "StartsWith", "EndsWith",
						"GreaterThan", "LessThan", "GreaterOrEqual", "LessOrEqual",
						"IsEmpty", "IsNotEmpty", "IsNull", "IsNotNull",
					),
					"value":      map[string]any{"type": []string{"string", "number", "boolean", "null"}},
					"logical_op": enumSchema("And", "Or"),
				},
				"required": []string{"field", "operator"},
			},
		},
		"options": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"limit":              map[string]any{"type": "integer", "minimum": 0},
				"skip":               map[string]any{"type": "integer", "minimum": 0},
				"include_all_fields": map[string]any{"type": "boolean"},
				"fields":             map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			},
		},
	}
	required := []string{"object_path", "source_type"}
	if withAction {
		properties["action"] = enumSchema("GetFirst", "GetLast", "GetAll", "Count")
		required = append(required, "action")
	}
	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}
