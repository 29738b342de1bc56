package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

const shutdownTimeout = 10 * time.Second

// WaitForShutdown drains the HTTP server, then stops the module and flushes
// traces. Event streams end when the server cancels its base context, so the
// module's broker is only closed once no stream is left.
func (app *App) WaitForShutdown(srv *http.Server) {
	logger := app.Observability.Logger
	logger.Info("Shutting down application")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
	}
	if err := app.Standings.Close(); err != nil {
		logger.Error("Error stopping standings module", slog.String("error", err.Error()))
	}
	if err := app.Observability.Shutdown(ctx); err != nil {
		logger.Error("Error flushing traces", slog.String("error", err.Error()))
	}
	logger.Info("Application shut down")
}
