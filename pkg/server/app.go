package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"FinStream/pkg/config"
	xhttp "FinStream/pkg/http"
	applogger "FinStream/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(cfg *config.Config, l *applogger.Logger, httpServer *xhttp.Server) *App {
	return &App{
		cfg:        cfg,
		logger:     l,
		httpServer: httpServer,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext serves until ctx is done or the listener fails, then shuts
// down gracefully.
func (a *App) RunContext(ctx context.Context) error {
	errCh := a.httpServer.Start()
	a.logger.Info("app started",
		applogger.String("addr", a.httpServer.Addr()),
		applogger.Bool("metrics", a.cfg.Metrics.Enabled),
	)

	select {
	case err, ok := <-errCh:
		if ok && err != nil {
			a.logger.Error("http server failed", applogger.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	}

	return a.shutdown()
}

// shutdown gracefully stops all services. Open streams see their request
// context cancelled and end at the next fragment boundary.
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(ctx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
		return err
	}

	a.logger.Info("shutdown complete")
	return nil
}
