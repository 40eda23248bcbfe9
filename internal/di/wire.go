//go:build wireinject
// +build wireinject

package di

import (
	"TradeFlow/pkg/config"
	"TradeFlow/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire generates the implementation in wire_gen.go.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,
		ProvideHTTPClient,
		ProvideCache,

		// Data providers
		ProvideMarketData,
		ProvideQuoteStream,
		ProvideWhaleFeed,
		ProvideNewsFeed,
		ProvideTextGenerator,

		// Optional infrastructure
		ProvideClickHouseClient,
		ProvideSignalHistory,
		ProvideAlertPublisher,

		// Use cases
		ProvideDetector,
		ProvideAnalyzer,
		ProvideScanner,
		ProvideFusion,

		// HTTP surface and application
		ProvideRouter,
		server.New,
	)
	return &server.App{}, nil
}
