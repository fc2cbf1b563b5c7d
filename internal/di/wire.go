//go:build wireinject
// +build wireinject

package di

import (
	"FinStream/pkg/config"
	"FinStream/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Rendering
		ProvideRenderer,
		ProvidePages,

		// Use cases
		ProvideStreamScheduler,
		ProvideFragmentPipeline,

		// HTTP
		ProvideStreamHandler,
		ProvidePagesHandler,
		ProvideHealthHandler,
		ProvideRouter,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
