package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/scriptbridge/scriptbridge/core/domain/interfaces"
	"github.com/scriptbridge/scriptbridge/core/infrastructure/logging"
	sharedctx "github.com/scriptbridge/scriptbridge/core/shared/context"
)

const mcpKeepAlive = 10 * time.Second

// handleMCPPost handles POST requests for MCP endpoint
func handleMCPPost(mcpService interfaces.MCPService, serverVersion string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if version := r.Header.Get("MCP-Protocol-Version"); version != "" && !supportedProtocol(version) {
			logging.New("mcp").Warnf("Unsupported protocol version: %s, defaulting to %s", version, mcpProtocolLatest)
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request body", http.StatusBadRequest)
			return
		}
		if len(body) == 0 {
			http.Error(w, "Empty request body", http.StatusBadRequest)
			return
		}

		// Peek at id and method; a request without an id is a notification
		var envelope struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			writeJSONRPCError(w, http.StatusBadRequest, nil, JSONRPCParseError, "Parse error")
			return
		}
		isNotification := len(envelope.ID) == 0 || string(envelope.ID) == "null"

		if envelope.Method == "initialize" {
			w.Header().Set("Mcp-Session-Id", sharedctx.GenerateRequestID())
		}

		responseBody, err := handleJSONRPC(r.Context(), mcpService, serverVersion, body)
		if err != nil {
			var id any
			_ = json.Unmarshal(envelope.ID, &id)
			writeJSONRPCError(w, http.StatusInternalServerError, id, JSONRPCInternalError, "Internal error")
			return
		}

		if isNotification {
			w.WriteHeader(http.StatusAccepted)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(responseBody)
	}
}

func writeJSONRPCError(w http.ResponseWriter, status int, id any, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(JSONRPCResponse{
		JSONRPC: "2.0",
		Error:   &JSONRPCError{Code: code, Message: message},
		ID:      id,
	})
}

// handleMCPGet handles GET requests for MCP endpoint (SSE stream)
func handleMCPGet(shutdownCtx context.Context) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Accept"), "text/event-stream") {
			http.Error(w, "Accept header must include 'text/event-stream'", http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")

		flusher, _ := w.(http.Flusher)
		if flusher != nil {
			flusher.Flush()
		}

		ticker := time.NewTicker(mcpKeepAlive)
		defer ticker.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case <-shutdownCtx.Done():
				return
			case <-ticker.C:
				fmt.Fprintf(w, ": keep-alive\n\n")
				if flusher != nil {
					flusher.Flush()
				}
			}
		}
	}
}

// handleMCPDelete handles DELETE requests for MCP endpoint
func handleMCPDelete(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Mcp-Session-Id") == "" {
		http.Error(w, "Missing Mcp-Session-Id header", http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusOK)
}
