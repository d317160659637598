package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scriptbridge/scriptbridge/core/application/engine"
	"github.com/scriptbridge/scriptbridge/core/application/services"
	"github.com/scriptbridge/scriptbridge/core/domain"
	"github.com/scriptbridge/scriptbridge/core/infrastructure/backends"
	"github.com/scriptbridge/scriptbridge/core/infrastructure/sessions"
	transport "github.com/scriptbridge/scriptbridge/core/infrastructure/transport/http"
	"github.com/scriptbridge/scriptbridge/core/infrastructure/transport/http/dto"
	"github.com/scriptbridge/scriptbridge/core/shared/errors"
)

const snapshot = `
default: main
sessions:
  main:
    objects:
      grid:
        type: grid
        columns: [Amount, Status]
        rows:
          - {Amount: 100, Status: Active}
          - {Amount: 250, Status: Closed}
          - {Amount: 50, Status: Pending}
          - {Amount: 0, Status: Active}
          - {Amount: 300, Status: Active}
  other:
    objects:
      grid:
        type: grid
        columns: [Amount]
        rows:
          - {Amount: 999}
`

const amountQuery = `{
	"object_path": "grid",
	"source_type": "Grid",
	"action": "GetAll",
	"conditions": [{"field": "Amount", "operator": "GreaterThan", "value": 100}]
}`

func newRouter(t *testing.T) http.Handler {
	t.Helper()

	file, err := sessions.Parse([]byte(snapshot))
	require.NoError(t, err)
	manager := sessions.NewManager()
	require.NoError(t, manager.Load(file))

	limits := backends.DefaultLimits()
	registry, err := engine.NewRegistry(
		backends.NewGridAdapter(limits),
		backends.NewTableAdapter(limits),
		backends.NewTreeAdapter(limits),
	)
	require.NoError(t, err)

	queries := services.NewQueryService(engine.New(registry), manager)
	server := transport.NewServer("0")
	transport.RegisterRoutes(server.Router(), transport.Dependencies{
		QueryService: queries,
		MCPService:   services.NewMCPService(queries),
		BaseURL:      "http://localhost:8080",
		Version:      "test",
	})
	return server.Router()
}

func do(t *testing.T, router http.Handler, method, target, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeResult(t *testing.T, rec *httptest.ResponseRecorder) domain.QueryResult {
	t.Helper()
	var result domain.QueryResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result), rec.Body.String())
	return result
}

func indices(matches []domain.Match) []int {
	out := make([]int, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Index)
	}
	return out
}

func TestQueryEndpoints(t *testing.T) {
	router := newRouter(t)

	rec := do(t, router, http.MethodPost, "/api/v1/query", amountQuery)
	require.Equal(t, http.StatusOK, rec.Code)
	all := decodeResult(t, rec)
	assert.True(t, all.Success)
	assert.Equal(t, 2, all.TotalMatches)
	assert.Equal(t, []int{1, 4}, indices(all.Matches))
	assert.Equal(t, domain.NumberValue(250), all.Matches[0].Data["Amount"])

	first := decodeResult(t, do(t, router, http.MethodPost, "/api/v1/query/first", amountQuery))
	assert.Equal(t, []int{1}, indices(first.Matches))

	last := decodeResult(t, do(t, router, http.MethodPost, "/api/v1/query/last", amountQuery))
	assert.Equal(t, []int{4}, indices(last.Matches))

	count := decodeResult(t, do(t, router, http.MethodPost, "/api/v1/query/count", amountQuery))
	assert.Equal(t, 2, count.TotalMatches)
	assert.Empty(t, count.Matches)
}

func TestQueryEndpoints_SessionSelection(t *testing.T) {
	router := newRouter(t)
	body := `{"object_path": "grid", "source_type": "Grid", "action": "Count"}`

	byHeader := decodeResult(t, do(t, router, http.MethodPost, "/api/v1/query", body, "X-Session-Id", "other"))
	assert.Equal(t, 1, byHeader.TotalMatches)

	byParam := decodeResult(t, do(t, router, http.MethodPost, "/api/v1/query?session=other", body))
	assert.Equal(t, 1, byParam.TotalMatches)

	byDefault := decodeResult(t, do(t, router, http.MethodPost, "/api/v1/query", body))
	assert.Equal(t, 5, byDefault.TotalMatches)
}

func TestQueryEndpoints_Failures(t *testing.T) {
	router := newRouter(t)

	tests := []struct {
		name    string
		target  string
		body    string
		headers []string
		status  int
		code    errors.ErrorCode
	}{
		{
			name:    "unknown session",
			target:  "/api/v1/query",
			body:    amountQuery,
			headers: []string{"X-Session-Id", "nope"},
			status:  http.StatusNotFound,
			code:    errors.ErrCodeSessionNotFound,
		},
		{
			name:   "malformed json",
			target: "/api/v1/query",
			body:   `{"object_path": `,
			status: http.StatusBadRequest,
			code:   errors.ErrCodeInvalidInput,
		},
		{
			name:   "missing condition value",
			target: "/api/v1/query",
			body:   `{"object_path": "grid", "source_type": "Grid", "action": "GetAll", "conditions": [{"field": "Amount", "operator": "Equals"}]}`,
			status: http.StatusBadRequest,
			code:   errors.ErrCodeValidationError,
		},
		{
			name:   "unsupported action",
			target: "/api/v1/query",
			body:   `{"object_path": "grid", "source_type": "Grid", "action": "Select"}`,
			status: http.StatusUnprocessableEntity,
			code:   errors.ErrCodeUnsupportedQuery,
		},
		{
			name:   "object not found",
			target: "/api/v1/query/count",
			body:   `{"object_path": "wnd[0]/usr/missing", "source_type": "Grid", "action": "GetAll"}`,
			status: http.StatusNotFound,
			code:   errors.ErrCodeObjectNotFound,
		},
		{
			name:   "wrong object type",
			target: "/api/v1/query",
			body:   `{"object_path": "grid", "source_type": "Tree", "action": "GetAll"}`,
			status: http.StatusNotFound,
			code:   errors.ErrCodeObjectNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, http.MethodPost, tt.target, tt.body, tt.headers...)
			assert.Equal(t, tt.status, rec.Code)

			result := decodeResult(t, rec)
			assert.False(t, result.Success)
			assert.Equal(t, tt.code, result.ErrorCode)
			assert.NotEmpty(t, result.Error)
			assert.NotNil(t, result.Matches)
		})
	}
}

func TestValidateEndpoint(t *testing.T) {
	router := newRouter(t)

	rec := do(t, router, http.MethodPost, "/api/v1/query/validate",
		`{"object_path": "", "source_type": "Grid", "action": "GetAll", "options": {"limit": -1}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var result domain.ValidationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.False(t, result.Valid)
	assert.ElementsMatch(t, []string{"object_path is required", "options.limit must be at least 0"}, result.Violations)

	rec = do(t, router, http.MethodPost, "/api/v1/query/validate", amountQuery)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Valid)

	rec = do(t, router, http.MethodPost, "/api/v1/query/validate", "not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var errResp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, string(errors.ErrCodeInvalidInput), errResp.ErrorCode)
}

func TestSessionsAndHeartbeat(t *testing.T) {
	router := newRouter(t)

	var sessionsResp dto.SessionsResponse
	rec := do(t, router, http.MethodGet, "/api/v1/sessions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sessionsResp))
	assert.Equal(t, []string{"main", "other"}, sessionsResp.Sessions)
	assert.Equal(t, 2, sessionsResp.Count)

	var health dto.HealthResponse
	rec = do(t, router, http.MethodGet, "/heartbeat", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.True(t, health.Success)
	assert.Equal(t, 2, health.Sessions)
}

func TestDocsEndpoint(t *testing.T) {
	rec := do(t, newRouter(t), http.MethodGet, "/docs", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "3.0.3", doc["openapi"])
	paths, ok := doc["paths"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, paths, "/api/v1/query")
	assert.Contains(t, paths, "/api/v1/query/count")
}

func TestGenerateOpenAPISpec(t *testing.T) {
	spec, err := transport.GenerateOpenAPISpec("http://localhost:9000", "1.2.3")
	require.NoError(t, err)
	assert.Contains(t, string(spec), `"version":"1.2.3"`)
	assert.Contains(t, string(spec), "GreaterOrEqual")
}

func TestMetricsEndpoint(t *testing.T) {
	router := newRouter(t)
	do(t, router, http.MethodGet, "/heartbeat", "")

	rec := do(t, router, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "scriptbridge_http_requests_total")
}

func rpc(t *testing.T, router http.Handler, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := do(t, router, http.MethodPost, "/mcp", body)
	if rec.Code != http.StatusOK {
		return rec, nil
	}
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestMCP_Initialize(t *testing.T) {
	rec, resp := rpc(t, newRouter(t), `{"jsonrpc": "2.0", "id": 1, "method": "initialize", "params": {"protocolVersion": "2024-11-05"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Mcp-Session-Id"))

	result := resp["result"].(map[string]any)
	assert.Equal(t, "2024-11-05", result["protocolVersion"])
	assert.Equal(t, "test", result["serverInfo"].(map[string]any)["version"])
}

func TestMCP_ToolsListAndCall(t *testing.T) {
	router := newRouter(t)

	_, resp := rpc(t, router, `{"jsonrpc": "2.0", "id": 1, "method": "tools/list"}`)
	tools := resp["result"].(map[string]any)["tools"].([]any)
	names := make([]string, 0, len(tools))
	for _, tool := range tools {
		names = append(names, tool.(map[string]any)["name"].(string))
	}
	assert.Equal(t, []string{services.ToolExecute, services.ToolFirst, services.ToolLast, services.ToolCount}, names)

	call := map[string]any{
		"jsonrpc": "2.0",
		"id":      2,
		"method":  "tools/call",
		"params": map[string]any{
			"name": services.ToolCount,
			"arguments": map[string]any{
				"object_path": "grid",
				"source_type": "grid",
				"conditions":  []any{map[string]any{"field": "Status", "operator": "equals", "value": "active"}},
			},
		},
	}
	body, err := json.Marshal(call)
	require.NoError(t, err)

	_, resp = rpc(t, router, string(body))
	result := resp["result"].(map[string]any)
	assert.Equal(t, false, result["isError"])
	text := result["content"].([]any)[0].(map[string]any)["text"].(string)

	var count struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal([]byte(text), &count))
	assert.Equal(t, 3, count.Count)
}

func TestMCP_ProtocolErrors(t *testing.T) {
	router := newRouter(t)

	rec, _ := rpc(t, router, `{"jsonrpc": "2.0", "method": "notifications/initialized"}`)
	assert.Equal(t, http.StatusAccepted, rec.Code)

	rec, _ = rpc(t, router, `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	_, resp := rpc(t, router, `{"jsonrpc": "2.0", "id": 3, "method": "resources/list"}`)
	assert.Equal(t, float64(-32601), resp["error"].(map[string]any)["code"])

	_, resp = rpc(t, router, `{"jsonrpc": "1.0", "id": 4, "method": "tools/list"}`)
	assert.Equal(t, float64(-32600), resp["error"].(map[string]any)["code"])

	_, resp = rpc(t, router, `{"jsonrpc": "2.0", "id": 5, "method": "tools/call", "params": {"arguments": {}}}`)
	assert.Equal(t, float64(-32602), resp["error"].(map[string]any)["code"])
}

func TestMCP_DeleteRequiresSession(t *testing.T) {
	router := newRouter(t)
	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodDelete, "/mcp", "").Code)
	assert.Equal(t, http.StatusOK, do(t, router, http.MethodDelete, "/mcp", "", "Mcp-Session-Id", "abc").Code)
}

func TestQueryEndpoints_BodyTooLarge(t *testing.T) {
	router := newRouter(t)
	huge := `{"object_path": "` + strings.Repeat("a", 2<<20) + `"}`

	req := httptest.NewRequest(http.MethodPost, "/api/v1/query", io.NopCloser(bytes.NewBufferString(huge)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, errors.ErrCodeInvalidInput, decodeResult(t, rec).ErrorCode)
}
