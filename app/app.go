package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Black-And-White-Club/standings-board/app/modules/standings"
	"github.com/Black-And-White-Club/standings-board/app/observability"
	"github.com/Black-And-White-Club/standings-board/config"
)

// App wires the configuration, observability and the standings module.
type App struct {
	Cfg           *config.Config
	Observability *observability.Observability
	Standings     *standings.Module
}

// NewApp initializes the application and performs the first standings load.
// A failed first load is logged rather than returned so the server can come
// up and recover on the next reload.
func NewApp(ctx context.Context, cfg *config.Config, obs *observability.Observability) (*App, error) {
	module, err := standings.NewModule(ctx, cfg, obs)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize standings module: %w", err)
	}

	app := &App{
		Cfg:           cfg,
		Observability: obs,
		Standings:     module,
	}

	if _, err := module.Load(ctx); err != nil {
		obs.Logger.WarnContext(ctx, "Serving without standings until the next reload")
	}
	return app, nil
}

// Router returns the HTTP handler of the application.
func (app *App) Router() http.Handler {
	return app.Standings.Handler()
}
