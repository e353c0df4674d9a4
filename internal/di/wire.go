//go:build wireinject
// +build wireinject

package di

import (
	"VolSurf/pkg/config"
	"VolSurf/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Metrics
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvideResultCache,

		// Repositories
		ProvideResultStore,
		ProvideResultPublisher,
		ProvideQuoteStream,

		// Use cases
		ProvideSurfaceEvaluator,
		ProvideKafkaGroupsHandler,
		ProvideQuoteCollector,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
