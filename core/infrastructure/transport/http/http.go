package http

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/scriptbridge/scriptbridge/core/infrastructure/logging"
	"github.com/scriptbridge/scriptbridge/core/infrastructure/transport/http/handlers"
	"github.com/scriptbridge/scriptbridge/core/infrastructure/transport/http/middleware"
)

// Server represents the HTTP server
type Server struct {
	router   *chi.Mux
	server   *http.Server
	port     string
	shutdown context.CancelFunc
}

// RateLimit configures the optional per-client rate limit
type RateLimit struct {
	Limiter  middleware.RateLimiter
	Requests int
	Window   time.Duration
}

// ServerOption customizes a Server
type ServerOption func(*serverOptions)

type serverOptions struct {
	rateLimit *RateLimit
}

// WithRateLimit enables the rate limit middleware
func WithRateLimit(limit RateLimit) ServerOption {
	return func(o *serverOptions) {
		if limit.Limiter != nil && limit.Requests > 0 && limit.Window > 0 {
			o.rateLimit = &limit
		}
	}
}

// NewServer creates a new HTTP server
func NewServer(port string, opts ...ServerOption) *Server {
	if port == "" {
		port = "8080"
	}

	var options serverOptions
	for _, opt := range opts {
		opt(&options)
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", handlers.SessionHeader, "MCP-Protocol-Version", "Mcp-Session-Id", "Last-Event-ID"},
		ExposedHeaders:   []string{"Link", "Mcp-Session-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(middleware.Metrics)
	r.Use(middleware.Tracing)

	if options.rateLimit != nil {
		logging.New("http").Infof("Rate limit enabled: %d requests per %s", options.rateLimit.Requests, options.rateLimit.Window)
		r.Use(middleware.RateLimitByIP(options.rateLimit.Limiter, options.rateLimit.Requests, options.rateLimit.Window))
	}

	return &Server{
		router: r,
		port:   port,
	}
}

// Router returns the chi router
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Port returns the port the server listens on
func (s *Server) Port() string {
	return s.port
}

// Start starts the HTTP server. It binds the port before returning so
// address errors surface to the caller; serving continues in the background.
func (s *Server) Start() error {
	log := logging.New("http")
	log.Infof("Starting HTTP server on port %s", s.port)

	listener, err := net.Listen("tcp", ":"+s.port)
	if err != nil {
		return err
	}

	s.server = &http.Server{
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // SSE streams on /mcp stay open
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Successf("HTTP server listening on http://127.0.0.1:%s", s.port)
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Errorf("HTTP server error: %v", err)
		}
	}()

	return nil
}

// Stop stops the HTTP server gracefully
func (s *Server) Stop() error {
	log := logging.New("http")
	log.Infof("Shutting down HTTP server")

	if s.shutdown != nil {
		s.shutdown()
	}

	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		log.Errorf("Error shutting down HTTP server: %v", err)
		if closeErr := s.server.Close(); closeErr != nil {
			log.Errorf("Error force closing HTTP server: %v", closeErr)
		}
		return err
	}

	log.Infof("HTTP server stopped")
	return nil
}

// SetShutdownFunc sets the shutdown function to be called on stop
func (s *Server) SetShutdownFunc(fn context.CancelFunc) {
	s.shutdown = fn
}
