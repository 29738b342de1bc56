package app

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"
)

// NewServer returns the HTTP server for the application. Request contexts
// derive from a base context cancelled when Shutdown begins, which ends
// long-lived event streams.
func (app *App) NewServer() *http.Server {
	base, cancelBase := context.WithCancel(context.Background())
	srv := &http.Server{
		Addr:              app.Cfg.HTTP.Addr,
		Handler:           app.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return base },
	}
	srv.RegisterOnShutdown(cancelBase)
	return srv
}

// Start serves HTTP until ctx is done, then shuts down gracefully.
func (app *App) Start(ctx context.Context) error {
	logger := app.Observability.Logger

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	srv := app.NewServer()

	var wg sync.WaitGroup
	wg.Add(1)
	go app.Standings.Run(ctx, &wg)

	errCh := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "Starting server", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case serveErr = <-errCh:
	case <-ctx.Done():
	}

	cancel()
	app.WaitForShutdown(srv)
	wg.Wait()
	return serveErr
}
