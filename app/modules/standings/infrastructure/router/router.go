package standingsrouter

import (
	"io/fs"
	"net/http"

	standingshandlers "github.com/Black-And-White-Club/standings-board/app/modules/standings/infrastructure/handlers"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Config controls the cross-cutting middleware.
type Config struct {
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
}

// Router mounts the standings routes on a chi router.
type Router struct {
	handlers standingshandlers.Handlers
	events   http.Handler
	static   fs.FS
	metrics  http.Handler
	recorder standingshandlers.RequestRecorder
	cfg      Config
}

// NewRouter creates a new standings router. events, static, metrics and
// recorder may be nil to leave the matching routes or middleware out.
func NewRouter(
	handlers standingshandlers.Handlers,
	events http.Handler,
	static fs.FS,
	metrics http.Handler,
	recorder standingshandlers.RequestRecorder,
	cfg Config,
) *Router {
	return &Router{
		handlers: handlers,
		events:   events,
		static:   static,
		metrics:  metrics,
		recorder: recorder,
		cfg:      cfg,
	}
}

// Handler builds the HTTP handler.
func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(standingshandlers.EscapedPathMiddleware)

	r.Get("/healthz", rt.handlers.HandleHealth)
	if rt.metrics != nil {
		r.Handle("/metrics", rt.metrics)
	}
	if rt.events != nil {
		r.Handle("/events", rt.events)
	}

	r.Group(func(r chi.Router) {
		if rt.recorder != nil {
			r.Use(standingshandlers.MetricsMiddleware(rt.recorder))
		}
		if rt.cfg.RateLimitRPS > 0 {
			limiter := standingshandlers.NewIPRateLimiter(rt.cfg.RateLimitRPS, rt.cfg.RateLimitBurst)
			r.Use(standingshandlers.RateLimitMiddleware(limiter))
		}

		r.Get("/", rt.handlers.HandleIndex)
		r.Get("/players/{name}", rt.handlers.HandlePlayerPage)
		r.Get("/charts/{kind}.png", rt.handlers.HandleChart)
		if rt.static != nil {
			r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(rt.static))))
		}

		r.Route("/api", func(r chi.Router) {
			r.Use(standingshandlers.CORSMiddleware(rt.cfg.AllowedOrigins))
			r.Get("/standings", rt.handlers.HandleStandingsAPI)
			r.Get("/players/{name}", rt.handlers.HandlePlayerAPI)
			r.Post("/reload", rt.handlers.HandleReload)
		})
	})

	return r
}
