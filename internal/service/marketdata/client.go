package marketdata

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"TradeFlow/internal/domain/models"
	"TradeFlow/internal/domain/repository"
	"TradeFlow/internal/service/ratelimit"
	"TradeFlow/pkg/cache"
	xhttp "TradeFlow/pkg/http"
	applogger "TradeFlow/pkg/logger"
	"TradeFlow/pkg/util"
)

const limiterKey = "marketdata"

// Option configures Client.
type Option func(*Client)

// Client fetches daily candles from the Yahoo Finance chart API. Results
// are cached per symbol; requests are throttled through a token bucket.
type Client struct {
	http         *xhttp.Client
	log          *applogger.Logger
	metrics      repository.Metrics
	cache        cache.Service
	limiter      *ratelimit.Limiter
	baseURL      string
	lookbackDays int
	cacheTTL     time.Duration
	ratePerSec   float64
	rateBurst    int
	now          func() time.Time
}

// New creates a market data client.
func New(httpClient *xhttp.Client, log *applogger.Logger, metrics repository.Metrics, opts ...Option) *Client {
	c := &Client{
		http:         httpClient,
		log:          log,
		metrics:      metrics,
		limiter:      ratelimit.New(),
		baseURL:      "https://query1.finance.yahoo.com",
		lookbackDays: 30,
		cacheTTL:     5 * time.Minute,
		ratePerSec:   5,
		rateBurst:    10,
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithBaseURL sets provider base URL.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithLookback sets the candle history window in days.
func WithLookback(days int) Option {
	return func(c *Client) {
		c.lookbackDays = days
	}
}

// WithCache sets the candle cache and its TTL.
func WithCache(svc cache.Service, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = svc
		c.cacheTTL = ttl
	}
}

// WithRateLimit sets request throttling.
func WithRateLimit(perSec float64, burst int) Option {
	return func(c *Client) {
		c.ratePerSec = perSec
		c.rateBurst = burst
	}
}

// WithClock sets the clock used for lookback windows.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error interface{} `json:"error"`
	} `json:"chart"`
}

// FetchDailyCandles returns the daily candle series for symbol, oldest
// first. Any provider failure surfaces as ErrDataUnavailable.
func (c *Client) FetchDailyCandles(ctx context.Context, symbol string) ([]models.Candle, error) {
	formatted := FormatSymbol(symbol)
	key := cache.GenerateKeyWithParams("candles", formatted, c.lookbackDays)

	if c.cache != nil {
		var cached []models.Candle
		if err := c.cache.Get(ctx, key, &cached); err == nil && len(cached) > 0 {
			return cached, nil
		}
	}

	if !c.limiter.Wait(limiterKey, float64(c.rateBurst), c.ratePerSec, c.now().Add(10*time.Second)) {
		c.metrics.RecordProviderError("marketdata")
		return nil, fmt.Errorf("%w: rate limited", repository.ErrDataUnavailable)
	}

	from, to := util.LookbackRange(c.now(), c.lookbackDays)

	var resp chartResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    fmt.Sprintf("%s/v8/finance/chart/%s", c.baseURL, formatted),
		Headers: map[string]string{
			"User-Agent": "Mozilla/5.0",
		},
		QueryParams: map[string][]string{
			"period1":  {strconv.FormatInt(from, 10)},
			"period2":  {strconv.FormatInt(to, 10)},
			"interval": {"1d"},
		},
	}, &resp)
	if err != nil {
		c.metrics.RecordProviderError("marketdata")
		c.log.Warn("candle fetch failed",
			applogger.String("symbol", symbol),
			applogger.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", repository.ErrDataUnavailable, err)
	}

	candles, err := parseChart(&resp)
	if err != nil {
		c.metrics.RecordProviderError("marketdata")
		return nil, fmt.Errorf("%w: %v", repository.ErrDataUnavailable, err)
	}

	if c.cache != nil && len(candles) > 0 {
		if err := c.cache.Set(ctx, key, candles, c.cacheTTL); err != nil {
			c.log.Warn("candle cache write failed", applogger.Error(err))
		}
	}

	return candles, nil
}

func parseChart(resp *chartResponse) ([]models.Candle, error) {
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("empty chart result")
	}

	result := resp.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("missing quote data")
	}

	quote := result.Indicators.Quote[0]
	candles := make([]models.Candle, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Open) || i >= len(quote.High) || i >= len(quote.Low) || i >= len(quote.Close) {
			break
		}
		// Rows with null OHLC are provider gaps, skip them.
		if quote.Open[i] == nil || quote.High[i] == nil || quote.Low[i] == nil || quote.Close[i] == nil {
			continue
		}
		var volume float64
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			volume = *quote.Volume[i]
		}
		candles = append(candles, models.Candle{
			Timestamp: ts * 1000,
			Open:      *quote.Open[i],
			High:      *quote.High[i],
			Low:       *quote.Low[i],
			Close:     *quote.Close[i],
			Volume:    volume,
		})
	}

	if len(candles) == 0 {
		return nil, fmt.Errorf("no usable candles")
	}
	return candles, nil
}
