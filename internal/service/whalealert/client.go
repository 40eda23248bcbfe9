package whalealert

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"TradeFlow/internal/domain/models"
	"TradeFlow/internal/domain/repository"
	xhttp "TradeFlow/pkg/http"
	applogger "TradeFlow/pkg/logger"
)

// exchangeOperators are matched against transaction owner names to
// classify flows in and out of exchanges.
var exchangeOperators = []string{
	"binance", "coinbase", "kraken", "ftx", "okex", "huobi", "kucoin", "bitfinex",
}

// Option configures Client.
type Option func(*Client)

// Client fetches large on-chain transactions from the Whale Alert API.
// Without an API key, or when the provider fails, it serves a synthetic
// set of the same shape so downstream fusion always has input.
type Client struct {
	http        *xhttp.Client
	log         *applogger.Logger
	metrics     repository.Metrics
	apiKey      string
	baseURL     string
	minValueUSD float64
	limit       int

	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// New creates a whale feed client.
func New(httpClient *xhttp.Client, log *applogger.Logger, metrics repository.Metrics, opts ...Option) *Client {
	c := &Client{
		http:        httpClient,
		log:         log,
		metrics:     metrics,
		baseURL:     "https://api.whale-alert.io/v1",
		minValueUSD: 10_000_000,
		limit:       10,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithAPIKey sets the provider API key.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithBaseURL sets provider base URL.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithThreshold sets minimum USD value and result limit.
func WithThreshold(minValueUSD float64, limit int) Option {
	return func(c *Client) {
		c.minValueUSD = minValueUSD
		c.limit = limit
	}
}

// WithRand sets the random source used for synthetic data.
func WithRand(rng *rand.Rand) Option {
	return func(c *Client) {
		c.rng = rng
	}
}

// WithClock sets the clock used for synthetic timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

type apiOwner struct {
	Owner string `json:"owner"`
}

type apiTransaction struct {
	ID        string   `json:"id"`
	Hash      string   `json:"hash"`
	Timestamp int64    `json:"timestamp"`
	Amount    float64  `json:"amount"`
	AmountUSD float64  `json:"amount_usd"`
	Symbol    string   `json:"symbol"`
	From      apiOwner `json:"from"`
	To        apiOwner `json:"to"`
}

type apiResponse struct {
	Result       string           `json:"result"`
	Message      string           `json:"message"`
	Transactions []apiTransaction `json:"transactions"`
}

// Fetch returns recent whale transactions. Never errors; provider
// failures degrade to synthetic data.
func (c *Client) Fetch(ctx context.Context) []models.WhaleTransaction {
	if c.apiKey == "" {
		c.log.Debug("whale alert key missing, serving synthetic data")
		return c.synthetic()
	}

	var resp apiResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/transactions",
		QueryParams: map[string][]string{
			"api_key":   {c.apiKey},
			"min_value": {strconv.FormatFloat(c.minValueUSD, 'f', 0, 64)},
			"limit":     {strconv.Itoa(c.limit)},
		},
	}, &resp)
	if err != nil {
		c.metrics.RecordProviderError("whale_alert")
		c.log.Warn("whale alert fetch failed", applogger.Error(err))
		return c.synthetic()
	}
	if resp.Result == "error" {
		c.metrics.RecordProviderError("whale_alert")
		c.log.Warn("whale alert api error", applogger.String("message", resp.Message))
		return c.synthetic()
	}

	out := make([]models.WhaleTransaction, 0, len(resp.Transactions))
	for _, tx := range resp.Transactions {
		id := tx.ID
		if id == "" {
			id = tx.Hash
		}
		symbol := strings.ToUpper(tx.Symbol)
		if symbol == "" {
			symbol = "BTC"
		}
		from := tx.From.Owner
		if from == "" {
			from = "unknown"
		}
		to := tx.To.Owner
		if to == "" {
			to = "unknown"
		}
		usdValue := tx.AmountUSD
		if usdValue == 0 {
			usdValue = tx.Amount * 50000
		}
		out = append(out, models.WhaleTransaction{
			ID:        id,
			Timestamp: time.Unix(tx.Timestamp, 0).UTC().Format(time.RFC3339),
			Amount:    tx.Amount,
			Symbol:    symbol,
			From:      from,
			To:        to,
			Type:      classify(from, to),
			USDValue:  usdValue,
		})
	}
	return out
}

func classify(from, to string) models.TransactionType {
	fromIsExchange := isExchange(from)
	toIsExchange := isExchange(to)

	switch {
	case !fromIsExchange && toIsExchange:
		return models.TxExchangeInflow
	case fromIsExchange && !toIsExchange:
		return models.TxExchangeOutflow
	default:
		return models.TxWalletTransfer
	}
}

func isExchange(owner string) bool {
	lower := strings.ToLower(owner)
	for _, ex := range exchangeOperators {
		if strings.Contains(lower, ex) {
			return true
		}
	}
	return false
}

var (
	syntheticSymbols = []string{"BTC", "ETH", "USDT", "USDC", "XRP"}
	syntheticTypes   = []models.TransactionType{
		models.TxExchangeInflow,
		models.TxExchangeOutflow,
		models.TxWalletTransfer,
	}
)

func (c *Client) synthetic() []models.WhaleTransaction {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.metrics.RecordFallback("whales")

	now := c.now()
	out := make([]models.WhaleTransaction, 0, 5)
	for i := 0; i < 5; i++ {
		symbol := syntheticSymbols[c.rng.Intn(len(syntheticSymbols))]
		txType := syntheticTypes[c.rng.Intn(len(syntheticTypes))]
		baseAmount := 10_000_000 + c.rng.Float64()*90_000_000

		amount := baseAmount
		switch symbol {
		case "BTC":
			amount = baseAmount / 50000
		case "ETH":
			amount = baseAmount / 2500
		}

		from := "unknown_wallet"
		if txType == models.TxExchangeOutflow {
			from = "binance"
		}
		to := "unknown_wallet"
		if txType == models.TxExchangeInflow {
			to = "coinbase"
		}

		out = append(out, models.WhaleTransaction{
			ID:        fmt.Sprintf("sim-%d-%d", now.UnixMilli(), i),
			Timestamp: now.Add(-time.Duration(c.rng.Float64() * float64(time.Hour))).UTC().Format(time.RFC3339),
			Amount:    amount,
			Symbol:    symbol,
			From:      from,
			To:        to,
			Type:      txType,
			USDValue:  baseAmount,
		})
	}
	return out
}
