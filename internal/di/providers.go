package di

import (
	"fmt"

	"FinStream/internal/domain/repository"
	"FinStream/internal/handler/api"
	mid "FinStream/internal/middleware"
	"FinStream/internal/services/render"
	"FinStream/internal/usecase"
	"FinStream/pkg/config"
	xhttp "FinStream/pkg/http"
	applogger "FinStream/pkg/logger"
	"FinStream/pkg/metrics"
	"FinStream/pkg/server"
)

// ProvideLogger creates the process logger from the log section.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideRenderer creates the fragment renderer with the configured precision.
func ProvideRenderer(cfg *config.Config) (*render.Renderer, error) {
	r, err := render.NewRenderer(cfg.DisplayDecimals())
	if err != nil {
		return nil, fmt.Errorf("renderer: %w", err)
	}
	return r, nil
}

// ProvidePages renders the page shells.
func ProvidePages(cfg *config.Config) (*render.Pages, error) {
	p, err := render.NewPages(cfg.Stream.DatastarURL)
	if err != nil {
		return nil, fmt.Errorf("pages: %w", err)
	}
	return p, nil
}

func ProvideStreamScheduler(r *render.Renderer, m repository.Metrics, cfg *config.Config) *usecase.StreamScheduler {
	return usecase.NewStreamScheduler(r, m, cfg.Stream.DemoMessage)
}

// ProvideFragmentPipeline builds the pipeline between scheduler and transport.
func ProvideFragmentPipeline(m repository.Metrics, l *applogger.Logger, cfg *config.Config) *mid.FragmentPipeline {
	return mid.NewFragmentPipeline(m,
		mid.WithLogger(l),
		mid.WithSlowSend(cfg.Stream.SlowSend),
	)
}

func ProvideStreamHandler(
	l *applogger.Logger,
	s *usecase.StreamScheduler,
	p *mid.FragmentPipeline,
	m repository.Metrics,
	cfg *config.Config,
) *api.StreamHandler {
	return api.NewStreamHandler(l, s, p, m,
		api.WithWSWriteTimeout(cfg.Stream.WSWriteTimeout),
		api.WithAllowDegenerate(cfg.Valuation.AllowDegenerate),
	)
}

func ProvidePagesHandler(p *render.Pages) *api.PagesHandler {
	return api.NewPagesHandler(p)
}

func ProvideHealthHandler(cfg *config.Config) *api.HealthHandler {
	return api.NewHealthHandler(cfg.Environment)
}

// ProvideRouter builds the route table.
func ProvideRouter(p *api.PagesHandler, s *api.StreamHandler, h *api.HealthHandler) *api.Router {
	return api.NewRouter(p, s, h)
}

// ProvideHTTPServer creates the Echo server and registers the route table.
func ProvideHTTPServer(router *api.Router, l *applogger.Logger, cfg *config.Config) *xhttp.Server {
	return xhttp.NewServer(router, l,
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(cfg.Server.CORS),
		xhttp.WithMetrics(cfg.Metrics.Enabled, cfg.Metrics.Path, cfg.Metrics.SlowRequest),
	)
}

// ProvideApp creates the application server.
func ProvideApp(cfg *config.Config, l *applogger.Logger, srv *xhttp.Server) *server.App {
	return server.New(cfg, l, srv)
}
