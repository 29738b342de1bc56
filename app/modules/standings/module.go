package standings

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	standingsservice "github.com/Black-And-White-Club/standings-board/app/modules/standings/application"
	standingshandlers "github.com/Black-And-White-Club/standings-board/app/modules/standings/infrastructure/handlers"
	"github.com/Black-And-White-Club/standings-board/app/modules/standings/infrastructure/parsers"
	"github.com/Black-And-White-Club/standings-board/app/modules/standings/infrastructure/profiles"
	standingsrouter "github.com/Black-And-White-Club/standings-board/app/modules/standings/infrastructure/router"
	"github.com/Black-And-White-Club/standings-board/app/modules/standings/infrastructure/views"
	standingswatcher "github.com/Black-And-White-Club/standings-board/app/modules/standings/infrastructure/watcher"
	"github.com/Black-And-White-Club/standings-board/app/observability"
	"github.com/Black-And-White-Club/standings-board/config"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Module represents the unified standings module.
type Module struct {
	config   *config.Config
	service  *standingsservice.StandingsService
	renderer *views.Renderer
	broker   *standingshandlers.Broker
	router   *standingsrouter.Router
	watcher  *standingswatcher.Watcher
	logger   *slog.Logger

	mu         sync.Mutex
	cancelFunc context.CancelFunc
	closed     bool
}

// NewModule creates a new standings module.
func NewModule(ctx context.Context, cfg *config.Config, obs *observability.Observability) (*Module, error) {
	logger := obs.Logger
	tracer := obs.Tracer

	logger.InfoContext(ctx, "Initializing standings module",
		slog.String("standings", cfg.Data.StandingsPath),
		slog.String("profiles", cfg.Data.ProfileDir),
	)

	resolver := profiles.NewResolver(profiles.NewDirStore(cfg.Data.ProfileDir), logger, tracer, obs.Metrics)
	service := standingsservice.NewStandingsService(
		standingsservice.NewFileSource(cfg.Data.StandingsPath),
		parsers.NewFactory(),
		resolver,
		logger,
		tracer,
		obs.Metrics,
	)

	renderer, err := views.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	broker := standingshandlers.NewBroker(logger)
	service.Subscribe(broker.Publish)

	handlers := standingshandlers.NewStandingsHandlers(service, renderer, logger, tracer, cfg.Watch.Enabled)
	router := standingsrouter.NewRouter(
		handlers,
		broker,
		views.Static(),
		promhttp.HandlerFor(obs.Registry, promhttp.HandlerOpts{}),
		obs.Metrics,
		standingsrouter.Config{
			AllowedOrigins: cfg.HTTP.AllowedOrigins,
			RateLimitRPS:   cfg.HTTP.RateLimitRPS,
			RateLimitBurst: cfg.HTTP.RateLimitBurst,
		},
	)

	var watcher *standingswatcher.Watcher
	if cfg.Watch.Enabled {
		watcher, err = standingswatcher.NewWatcher(
			service,
			cfg.Data.StandingsPath,
			cfg.Data.ProfileDir,
			cfg.Watch.Debounce,
			logger,
			tracer,
		)
		if err != nil {
			return nil, err
		}
	}

	return &Module{
		config:   cfg,
		service:  service,
		renderer: renderer,
		broker:   broker,
		router:   router,
		watcher:  watcher,
		logger:   logger,
	}, nil
}

// Load reads the standings for the first time.
func (m *Module) Load(ctx context.Context) (*standingsservice.Snapshot, error) {
	return m.service.Load(ctx)
}

// Handler returns the HTTP surface of the module.
func (m *Module) Handler() http.Handler {
	return m.router.Handler()
}

// Run starts the file watcher when live reload is enabled and blocks until
// ctx is done.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	if wg != nil {
		defer wg.Done()
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.logger.InfoContext(ctx, "Starting standings module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if m.watcher != nil {
		if err := m.watcher.Start(ctx); err != nil {
			m.logger.ErrorContext(ctx, "Failed to start file watcher", slog.String("error", err.Error()))
		}
	}
	m.mu.Unlock()

	<-ctx.Done()
	m.logger.InfoContext(ctx, "Standings module goroutine stopped")
}

// Close stops the watcher and the event broker. Event streams must already
// have ended, so call it after the HTTP server has shut down.
func (m *Module) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	cancel := m.cancelFunc
	m.mu.Unlock()

	m.logger.Info("Stopping standings module")
	if cancel != nil {
		cancel()
	}
	if m.watcher != nil {
		m.watcher.Stop()
	}
	m.broker.Close()

	m.logger.Info("Standings module stopped")
	return nil
}

// GetService returns the standings service for use by other commands.
func (m *Module) GetService() standingsservice.Service {
	return m.service
}

// Renderer returns the page renderer shared with the exporters.
func (m *Module) Renderer() *views.Renderer {
	return m.renderer
}
