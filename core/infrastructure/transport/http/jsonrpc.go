package http

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/scriptbridge/scriptbridge/core/domain/interfaces"
	"github.com/scriptbridge/scriptbridge/core/infrastructure/logging"
)

// JSONRPCRequest represents a JSON-RPC 2.0 request
type JSONRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      any             `json:"id,omitempty"`
}

// JSONRPCResponse represents a JSON-RPC 2.0 response
type JSONRPCResponse struct {
	JSONRPC string        `json:"jsonrpc"`
	Result  any           `json:"result,omitempty"`
	Error   *JSONRPCError `json:"error,omitempty"`
	ID      any           `json:"id,omitempty"`
}

// JSONRPCError represents a JSON-RPC 2.0 error
type JSONRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// JSON-RPC 2.0 error codes
const (
	JSONRPCParseError     = -32700
	JSONRPCInvalidRequest = -32600
	JSONRPCMethodNotFound = -32601
	JSONRPCInvalidParams  = -32602
	JSONRPCInternalError  = -32603
)

// MCP protocol versions
const (
	mcpProtocolLatest = "2025-03-26"
	mcpProtocolLegacy = "2024-11-05"
)

func supportedProtocol(version string) bool {
	return version == mcpProtocolLatest || version == mcpProtocolLegacy
}

func hasParams(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}

// handleJSONRPC handles JSON-RPC 2.0 requests for MCP protocol
func handleJSONRPC(ctx context.Context, mcpService interfaces.MCPService, serverVersion string, requestBody []byte) ([]byte, error) {
	log := logging.New("mcp")
	log.Debugf("Received JSON-RPC request, size: %d bytes", len(requestBody))

	var req JSONRPCRequest
	if err := json.Unmarshal(requestBody, &req); err != nil {
		log.Errorf("JSON-RPC parse error: %v", err)
		return json.Marshal(JSONRPCResponse{
			JSONRPC: "2.0",
			Error:   &JSONRPCError{Code: JSONRPCParseError, Message: "Parse error"},
		})
	}

	log.Debugf("JSON-RPC method: %s", req.Method)

	if req.JSONRPC != "2.0" {
		log.Warnf("Invalid JSON-RPC version: %s", req.JSONRPC)
		return json.Marshal(JSONRPCResponse{
			JSONRPC: "2.0",
			Error: &JSONRPCError{
				Code:    JSONRPCInvalidRequest,
				Message: "Invalid Request: jsonrpc must be '2.0'",
			},
			ID: req.ID,
		})
	}

	var result any
	var jsonrpcErr *JSONRPCError

	switch req.Method {
	case "initialize":
		log.Infof("MCP session initialization")
		var params struct {
			ProtocolVersion string `json:"protocolVersion"`
			ClientInfo      struct {
				Name    string `json:"name"`
				Version string `json:"version"`
			} `json:"clientInfo"`
		}
		if hasParams(req.Params) {
			if err := json.Unmarshal(req.Params, &params); err != nil {
				jsonrpcErr = &JSONRPCError{Code: JSONRPCInvalidParams, Message: "Invalid params", Data: err.Error()}
				break
			}
			log.Debugf("Client info: %s %s", params.ClientInfo.Name, params.ClientInfo.Version)
		}

		protocolVersion := params.ProtocolVersion
		if !supportedProtocol(protocolVersion) {
			if protocolVersion != "" {
				log.Warnf("Unsupported protocol version requested: %s, using %s", protocolVersion, mcpProtocolLatest)
			}
			protocolVersion = mcpProtocolLatest
		}

		result = map[string]any{
			"protocolVersion": protocolVersion,
			"capabilities": map[string]any{
				"tools": map[string]any{},
			},
			"serverInfo": map[string]any{
				"name":    "scriptbridge",
				"version": serverVersion,
			},
		}

	case "tools/list":
		log.Infof("Listing MCP tools")
		result = map[string]any{
			"tools": mcpService.ListTools(ctx),
		}

	case "tools/call":
		var params struct {
			Name      string         `json:"name"`
			Arguments map[string]any `json:"arguments"`
		}
		if err := json.Unmarshal(req.Params, &params); err != nil {
			jsonrpcErr = &JSONRPCError{Code: JSONRPCInvalidParams, Message: "Invalid params", Data: err.Error()}
			break
		}
		if params.Name == "" {
			jsonrpcErr = &JSONRPCError{Code: JSONRPCInvalidParams, Message: "Invalid params: 'name' is required"}
			break
		}

		log.Infof("Calling MCP tool: %s", params.Name)
		resp := mcpService.CallTool(ctx, params.Name, params.Arguments)
		result = map[string]any{
			"content": []map[string]any{
				{"type": "text", "text": resp.Content},
			},
			"isError": resp.IsError,
		}

	case "notifications/initialized", "initialized", "ping":
		if req.ID != nil {
			result = map[string]any{}
		}

	default:
		log.Warnf("Method not found: %s", req.Method)
		jsonrpcErr = &JSONRPCError{
			Code:    JSONRPCMethodNotFound,
			Message: fmt.Sprintf("Method not found: %s", req.Method),
		}
	}

	response := JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
	}
	if jsonrpcErr != nil {
		response.Error = jsonrpcErr
	} else if result != nil {
		response.Result = result
	} else if req.ID != nil {
		response.Result = map[string]any{}
	}

	return json.Marshal(response)
}
