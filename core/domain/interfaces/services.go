package interfaces

import (
	"context"

	"github.com/scriptbridge/scriptbridge/core/domain"
)

// QueryService is the query entry point shared by all transports
type QueryService interface {
	// Execute runs q on the named session; an empty sessionID selects the default session
	Execute(ctx context.Context, sessionID string, q *domain.Query) (*domain.QueryResult, error)

	// Validate checks q without touching any session
	Validate(q *domain.Query) domain.ValidationResult

	// Sessions returns the IDs of the available sessions
	Sessions() []string
}

// MCPService exposes the query service as MCP tools
type MCPService interface {
	// ListTools returns the available tools
	ListTools(ctx context.Context) []Tool

	// CallTool executes a tool by name
	CallTool(ctx context.Context, name string, arguments map[string]any) ToolResult
}

// Tool describes one MCP tool
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

// ToolResult is the text content returned by a tool call
type ToolResult struct {
	Content string
	IsError bool
}
