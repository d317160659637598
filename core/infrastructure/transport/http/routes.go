package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/scriptbridge/scriptbridge/core/domain/interfaces"
	"github.com/scriptbridge/scriptbridge/core/infrastructure/logging"
	"github.com/scriptbridge/scriptbridge/core/infrastructure/transport/http/dto"
	"github.com/scriptbridge/scriptbridge/core/infrastructure/transport/http/handlers"
)

// Dependencies holds what the routes serve
type Dependencies struct {
	QueryService interfaces.QueryService
	MCPService   interfaces.MCPService
	BaseURL      string
	Version      string
	// ShutdownCtx ends long-lived MCP streams when the server stops
	ShutdownCtx context.Context
}

// RegisterRoutes registers all HTTP routes
func RegisterRoutes(r chi.Router, deps Dependencies) {
	log := logging.New("routes")
	log.Infof("Registering HTTP routes")

	if deps.ShutdownCtx == nil {
		deps.ShutdownCtx = context.Background()
	}

	var utilityRoutes []string
	var queryRoutes []string

	r.Route("/mcp", func(r chi.Router) {
		r.Post("/", handleMCPPost(deps.MCPService, deps.Version))
		r.Get("/", handleMCPGet(deps.ShutdownCtx))
		r.Delete("/", handleMCPDelete)
	})
	utilityRoutes = append(utilityRoutes,
		"POST /mcp (Streamable HTTP - JSON-RPC requests)",
		"GET /mcp (Streamable HTTP - server-initiated messages)",
		"DELETE /mcp (Streamable HTTP - session termination)",
	)

	r.Get("/docs", handleDocs(deps.BaseURL, deps.Version))
	utilityRoutes = append(utilityRoutes, "GET /docs")

	r.Get("/heartbeat", handleHeartbeat(deps.QueryService))
	utilityRoutes = append(utilityRoutes, "GET /heartbeat")

	r.Handle("/metrics", promhttp.Handler())
	utilityRoutes = append(utilityRoutes, "GET /metrics")

	queries := handlers.NewQueryHandler(deps.QueryService)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/sessions", queries.Sessions)
		r.Post("/query", queries.Execute)
		r.Post("/query/first", queries.First)
		r.Post("/query/last", queries.Last)
		r.Post("/query/count", queries.Count)
		r.Post("/query/validate", queries.Validate)
	})
	queryRoutes = append(queryRoutes,
		"GET /api/v1/sessions",
		"POST /api/v1/query",
		"POST /api/v1/query/first",
		"POST /api/v1/query/last",
		"POST /api/v1/query/count",
		"POST /api/v1/query/validate",
	)

	log.Infof("Routes registered: %d utility, %d query", len(utilityRoutes), len(queryRoutes))
	log.Debugf("Utility routes:")
	for _, route := range utilityRoutes {
		log.Debugf("  %s", route)
	}
	log.Debugf("Query routes:")
	for _, route := range queryRoutes {
		log.Debugf("  %s", route)
	}
}

// handleHeartbeat handles heartbeat/health check requests
func handleHeartbeat(queries interfaces.QueryService) http.HandlerFunc {
	base := handlers.NewBaseHandler("handler")
	return func(w http.ResponseWriter, r *http.Request) {
		base.WriteSuccess(w, dto.HealthResponse{Success: true, Sessions: len(queries.Sessions())})
	}
}
