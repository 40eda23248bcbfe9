package di

import (
	"context"
	"fmt"
	"time"

	"TradeFlow/internal/domain/repository"
	"TradeFlow/internal/handler/api"
	internalrepo "TradeFlow/internal/repository"
	"TradeFlow/internal/service/anthropic"
	"TradeFlow/internal/service/cryptopanic"
	"TradeFlow/internal/service/finnhub"
	"TradeFlow/internal/service/marketdata"
	"TradeFlow/internal/service/whalealert"
	"TradeFlow/internal/strategy"
	"TradeFlow/internal/usecase"
	"TradeFlow/pkg/cache"
	pkgch "TradeFlow/pkg/clickhouse"
	"TradeFlow/pkg/config"
	xhttp "TradeFlow/pkg/http"
	pkgkafka "TradeFlow/pkg/kafka"
	applogger "TradeFlow/pkg/logger"
	"TradeFlow/pkg/metrics"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideHTTPClient creates the shared outbound HTTP client.
func ProvideHTTPClient(cfg *config.Config) *xhttp.Client {
	return xhttp.NewClient(xhttp.WithTimeout(cfg.MarketData.Timeout))
}

// ProvideCache creates the candle cache. Memory-only by default; a
// layered memory-over-Redis cache when Redis is configured.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if !cfg.Redis.Enabled {
		return cache.NewMemoryCache(), nil
	}
	redisCache, err := cache.NewRedisCache(
		cache.WithRedisAddr(cfg.Redis.Addr),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return cache.NewLayeredCache(redisCache), nil
}

// ProvideMarketData creates the daily-candle provider.
func ProvideMarketData(
	cfg *config.Config,
	httpClient *xhttp.Client,
	log *applogger.Logger,
	m repository.Metrics,
	cacheSvc cache.Service,
) repository.MarketData {
	return marketdata.New(httpClient, log, m,
		marketdata.WithBaseURL(cfg.MarketData.BaseURL),
		marketdata.WithLookback(cfg.MarketData.LookbackDays),
		marketdata.WithCache(cacheSvc, cfg.MarketData.CacheTTL),
		marketdata.WithRateLimit(cfg.MarketData.RatePerSec, cfg.MarketData.RateBurst),
	)
}

// ProvideQuoteStream creates the realtime quote stream, or nil when the
// stream is not configured.
func ProvideQuoteStream(cfg *config.Config, log *applogger.Logger, m repository.Metrics) *finnhub.Stream {
	if !cfg.Finnhub.Enabled {
		return nil
	}
	return finnhub.NewStream(
		cfg.Finnhub.APIKey,
		cfg.Finnhub.WebSocketURL,
		cfg.Finnhub.Symbols,
		cfg.Finnhub.PingInterval,
		log,
		m,
	)
}

// ProvideWhaleFeed creates the whale transaction feed.
func ProvideWhaleFeed(cfg *config.Config, httpClient *xhttp.Client, log *applogger.Logger, m repository.Metrics) repository.WhaleFeed {
	return whalealert.New(httpClient, log, m,
		whalealert.WithAPIKey(cfg.WhaleAlert.APIKey),
		whalealert.WithBaseURL(cfg.WhaleAlert.BaseURL),
		whalealert.WithThreshold(cfg.WhaleAlert.MinValueUSD, cfg.WhaleAlert.Limit),
	)
}

// ProvideNewsFeed creates the crypto news feed.
func ProvideNewsFeed(cfg *config.Config, httpClient *xhttp.Client, log *applogger.Logger, m repository.Metrics) repository.NewsFeed {
	return cryptopanic.New(httpClient, log, m,
		cryptopanic.WithAPIKey(cfg.CryptoPanic.APIKey),
		cryptopanic.WithBaseURL(cfg.CryptoPanic.BaseURL),
	)
}

// ProvideTextGenerator creates the model client, or nil when no API key
// is configured so fusion uses its heuristic path.
func ProvideTextGenerator(cfg *config.Config) repository.TextGenerator {
	if cfg.Anthropic.APIKey == "" {
		return nil
	}
	client := xhttp.NewClient(xhttp.WithTimeout(cfg.Anthropic.Timeout))
	return anthropic.New(client, cfg.Anthropic.APIKey,
		anthropic.WithBaseURL(cfg.Anthropic.BaseURL),
		anthropic.WithModel(cfg.Anthropic.Model),
		anthropic.WithMaxTokens(cfg.Anthropic.MaxTokens),
	)
}

// ProvideDetector creates the breakout detector.
func ProvideDetector() *strategy.Detector {
	return strategy.NewDetector()
}

// ProvideAnalyzer creates the single-symbol analyzer. A nil stream
// leaves the quote source unset.
func ProvideAnalyzer(
	market repository.MarketData,
	stream *finnhub.Stream,
	detector *strategy.Detector,
	m repository.Metrics,
	log *applogger.Logger,
) *usecase.Analyzer {
	var quotes repository.QuoteSource
	if stream != nil {
		quotes = stream
	}
	return usecase.NewAnalyzer(market, quotes, detector, m, log)
}

// ProvideClickHouseClient creates a ClickHouse client, or nil when
// signal history is not configured.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideSignalHistory creates the ClickHouse-backed signal store, or
// nil when ClickHouse is not configured.
func ProvideSignalHistory(chClient *pkgch.Client) (repository.SignalHistory, error) {
	if chClient == nil {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := chClient.InitSchema(ctx, internalrepo.SignalSchema); err != nil {
		return nil, fmt.Errorf("signal store: %w", err)
	}
	return internalrepo.NewSignalStore(chClient.DB()), nil
}

// ProvideAlertPublisher creates the Kafka alert publisher, or nil when
// Kafka is not configured.
func ProvideAlertPublisher(cfg *config.Config) (repository.AlertPublisher, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaAlertPublisher(producer, cfg.Kafka.Topic), nil
}

// ProvideScanner creates the batch scanner.
func ProvideScanner(
	cfg *config.Config,
	analyzer *usecase.Analyzer,
	history repository.SignalHistory,
	publisher repository.AlertPublisher,
	m repository.Metrics,
	log *applogger.Logger,
) *usecase.Scanner {
	scanner := usecase.NewScanner(analyzer, history, publisher, m, log)
	scanner.SetAlertThreshold(cfg.Kafka.MinConfidence)
	scanner.SetRoster(cfg.Strategy.Symbols)
	return scanner
}

// ProvideFusion creates the whale/news fusion analyzer.
func ProvideFusion(
	whales repository.WhaleFeed,
	news repository.NewsFeed,
	generator repository.TextGenerator,
	m repository.Metrics,
	log *applogger.Logger,
) *usecase.Fusion {
	return usecase.NewFusion(whales, news, generator, m, log)
}

// ProvideRouter assembles the HTTP route registrar, wiring the
// ClickHouse health check when signal history is enabled.
func ProvideRouter(scanner *usecase.Scanner, analyzer *usecase.Analyzer, fusion *usecase.Fusion, chClient *pkgch.Client) xhttp.Handler {
	router := api.NewRouter(
		api.NewStrategyHandler(scanner, analyzer),
		api.NewCommandCenterHandler(fusion),
	)
	if chClient != nil {
		router.AddHealthCheck("clickhouse", chClient.Health)
	}
	return router
}
