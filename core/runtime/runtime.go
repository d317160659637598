// Package runtime starts and stops the query service: observability,
// sessions, the HTTP server and the snapshot watcher.
package runtime

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/scriptbridge/scriptbridge/core/config"
	"github.com/scriptbridge/scriptbridge/core/infrastructure/di"
	"github.com/scriptbridge/scriptbridge/core/infrastructure/logging"
	transport "github.com/scriptbridge/scriptbridge/core/infrastructure/transport/http"
	"github.com/scriptbridge/scriptbridge/core/observability"
)

const shutdownTimeout = 15 * time.Second

// Runtime represents the scriptbridge server
type Runtime struct {
	config    *config.Config
	port      string
	version   string
	container *di.Container
	server    *transport.Server
	providers *observability.Providers
	cancel    context.CancelFunc
}

// NewRuntime loads the sessions and wires the services. Nothing listens
// until Start or StartAsync.
func NewRuntime(ctx context.Context, cfg *config.Config, port, version string) (*Runtime, error) {
	if port == "" {
		port = config.DefaultPort
	}

	container, err := di.NewContainer(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &Runtime{
		config:    cfg,
		port:      port,
		version:   version,
		container: container,
	}, nil
}

// Container exposes the wired services
func (r *Runtime) Container() *di.Container {
	return r.container
}

// EnableSnapshotWatch turns on snapshot hot reload regardless of the config
func (r *Runtime) EnableSnapshotWatch() {
	r.config.Snapshot.Watch = true
}

// Start starts the runtime server and blocks until SIGTERM/SIGINT
func (r *Runtime) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := r.StartAsync(); err != nil {
		return err
	}

	<-ctx.Done()
	return r.Stop()
}

// StartAsync starts the runtime server without blocking
func (r *Runtime) StartAsync() error {
	log := logging.New("runtime")
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel

	providers, err := observability.Setup(ctx, r.version)
	if err != nil {
		cancel()
		return logging.WithTag("observability", err)
	}
	r.providers = providers

	var opts []transport.ServerOption
	if r.container.RateLimiter != nil {
		opts = append(opts, transport.WithRateLimit(transport.RateLimit{
			Limiter:  r.container.RateLimiter,
			Requests: r.config.RateLimit.Requests,
			Window:   r.config.RateLimit.Window,
		}))
	}

	r.server = transport.NewServer(r.port, opts...)
	r.server.SetShutdownFunc(cancel)
	transport.RegisterRoutes(r.server.Router(), transport.Dependencies{
		QueryService: r.container.QueryService,
		MCPService:   r.container.MCPService,
		BaseURL:      fmt.Sprintf("http://localhost:%s", r.port),
		Version:      r.version,
		ShutdownCtx:  ctx,
	})

	if r.config.Snapshot.Watch {
		if err := r.container.Sessions.Watch(ctx, r.config.Snapshot.File); err != nil {
			log.Warnf("Snapshot hot reload disabled: %v", err)
		} else {
			log.Infof("Watching %s for changes", r.config.Snapshot.File)
		}
	}

	if err := r.server.Start(); err != nil {
		r.shutdownProviders()
		cancel()
		return logging.Errorf("http", "failed to listen on port %s: %w", r.port, err)
	}
	return nil
}

// Stop stops the server, the watcher and the exporters
func (r *Runtime) Stop() error {
	var stopErr error
	if r.server != nil {
		stopErr = r.server.Stop()
	} else if r.cancel != nil {
		r.cancel()
	}

	r.shutdownProviders()
	if err := r.container.Close(); err != nil && stopErr == nil {
		stopErr = err
	}
	return stopErr
}

func (r *Runtime) shutdownProviders() {
	if r.providers == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := r.providers.Shutdown(ctx); err != nil {
		logging.New("observability").Warnf("OpenTelemetry shutdown: %v", err)
	}
	r.providers = nil
}
