package di

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/scriptbridge/scriptbridge/core/application/engine"
	"github.com/scriptbridge/scriptbridge/core/application/services"
	"github.com/scriptbridge/scriptbridge/core/config"
	"github.com/scriptbridge/scriptbridge/core/infrastructure/backends"
	"github.com/scriptbridge/scriptbridge/core/infrastructure/logging"
	"github.com/scriptbridge/scriptbridge/core/infrastructure/sessions"
	"github.com/scriptbridge/scriptbridge/core/infrastructure/transport/http/middleware"
)

// Container holds all dependencies
type Container struct {
	Config       *config.Config
	Sessions     *sessions.Manager
	Engine       *engine.Engine
	QueryService *services.QueryService
	MCPService   *services.MCPService
	// RateLimiter is nil when rate limiting is disabled or Redis is unreachable
	RateLimiter middleware.RateLimiter

	redis *redis.Client
}

// NewContainer creates a new dependency injection container
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	log := logging.New("di")

	manager := sessions.NewManager()
	if err := manager.Reload(cfg.Snapshot.File); err != nil {
		return nil, logging.Errorf("sessions", "failed to load snapshot %s: %w", cfg.Snapshot.File, err)
	}
	log.Infof("Loaded %d session(s) from %s", manager.Count(), cfg.Snapshot.File)

	eng, err := NewEngine(cfg.Limits)
	if err != nil {
		return nil, err
	}

	queryService := services.NewQueryService(eng, manager)
	c := &Container{
		Config:       cfg,
		Sessions:     manager,
		Engine:       eng,
		QueryService: queryService,
		MCPService:   services.NewMCPService(queryService),
	}

	if cfg.RateLimit.Enabled() {
		limiter, client, err := middleware.NewRedisRateLimiterFromURL(ctx, cfg.RateLimit.RedisURL)
		if err != nil {
			log.Warnf("Rate limiting disabled: %v", err)
		} else {
			c.RateLimiter = limiter
			c.redis = client
		}
	}

	return c, nil
}

// NewEngine wires one adapter per source type under the configured limits
// and checks the registry is complete
func NewEngine(limits config.LimitsConfig) (*engine.Engine, error) {
	adapterLimits := backends.Limits{
		MaxRecords: limits.MaxRecords,
		MaxDepth:   limits.MaxTreeDepth,
	}

	registry, err := engine.NewRegistry(
		backends.NewGridAdapter(adapterLimits),
		backends.NewTableAdapter(adapterLimits),
		backends.NewTreeAdapter(adapterLimits),
	)
	if err != nil {
		return nil, logging.WithTag("engine", err)
	}
	if err := registry.RequireAll(); err != nil {
		return nil, logging.WithTag("engine", err)
	}
	return engine.New(registry), nil
}

// Close closes all resources
func (c *Container) Close() error {
	if c.redis != nil {
		return c.redis.Close()
	}
	return nil
}
