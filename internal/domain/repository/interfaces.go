package repository

import (
	"context"
	"errors"
	"time"

	"TradeFlow/internal/domain/models"
)

// ErrDataUnavailable is returned by MarketData when the provider errors,
// times out, or returns an empty or too-short series. Callers recover it
// into a WAIT signal; it is never surfaced as an HTTP error.
var ErrDataUnavailable = errors.New("market data unavailable")

// MarketData retrieves daily candle history for a symbol.
type MarketData interface {
	FetchDailyCandles(ctx context.Context, symbol string) ([]models.Candle, error)
}

// QuoteSource exposes the latest streamed price for a symbol, if any.
type QuoteSource interface {
	LatestQuote(symbol string) (models.Quote, bool)
}

// WhaleFeed returns recent large transactions. Implementations never
// return an error: on provider failure they substitute a synthetic set
// of identical shape.
type WhaleFeed interface {
	Fetch(ctx context.Context) []models.WhaleTransaction
}

// NewsFeed returns recent news items under the same no-error contract
// as WhaleFeed.
type NewsFeed interface {
	Fetch(ctx context.Context) []models.NewsItem
}

// TextGenerator requests a completion from an external model service.
type TextGenerator interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// SignalHistory persists scan output for later review. Best-effort; scan
// paths ignore write failures beyond logging them.
type SignalHistory interface {
	StoreBatch(ctx context.Context, signals []models.Signal) error
	Close() error
}

// AlertPublisher pushes high-confidence signals to downstream consumers.
type AlertPublisher interface {
	Publish(ctx context.Context, signals []models.Signal) error
	Close() error
}

// Metrics records domain-level measurements.
type Metrics interface {
	RecordScan(symbols int, duration time.Duration)
	RecordSignal(direction string)
	RecordProviderError(provider string)
	RecordFallback(feed string)
}
