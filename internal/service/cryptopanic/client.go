package cryptopanic

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"TradeFlow/internal/domain/models"
	"TradeFlow/internal/domain/repository"
	xhttp "TradeFlow/pkg/http"
	applogger "TradeFlow/pkg/logger"
)

// highImpactKeywords mark a headline as high impact when matched.
var highImpactKeywords = []string{
	"SEC", "Fed", "FOMC", "Hack", "ETF", "Rate", "Inflation", "CPI", "NFP",
	"Regulation", "Ban", "Approval",
}

const maxItems = 10

// Option configures Client.
type Option func(*Client)

// Client fetches curated crypto headlines from the CryptoPanic API.
// Without an API key, or when the provider fails, it serves a fixed
// synthetic set so downstream fusion always has input.
type Client struct {
	http    *xhttp.Client
	log     *applogger.Logger
	metrics repository.Metrics
	apiKey  string
	baseURL string

	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// New creates a news feed client.
func New(httpClient *xhttp.Client, log *applogger.Logger, metrics repository.Metrics, opts ...Option) *Client {
	c := &Client{
		http:    httpClient,
		log:     log,
		metrics: metrics,
		baseURL: "https://cryptopanic.com/api/v1",
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		now:     time.Now,
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

type apiPost struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Source struct {
		Title string `json:"title"`
	} `json:"source"`
	PublishedAt string `json:"published_at"`
	Votes       struct {
		Positive int `json:"positive"`
		Negative int `json:"negative"`
	} `json:"votes"`
}

type apiResponse struct {
	Results []apiPost `json:"results"`
}

// Fetch returns recent news items. Never errors; provider failures
// degrade to synthetic data.
func (c *Client) Fetch(ctx context.Context) []models.NewsItem {
	if c.apiKey == "" {
		c.log.Debug("cryptopanic key missing, serving synthetic news")
		return c.synthetic()
	}

	var resp apiResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/posts/",
		QueryParams: map[string][]string{
			"auth_token": {c.apiKey},
			"filter":     {"important"},
			"public":     {"true"},
		},
	}, &resp)
	if err != nil {
		c.metrics.RecordProviderError("cryptopanic")
		c.log.Warn("cryptopanic fetch failed", applogger.Error(err))
		return c.synthetic()
	}
	if len(resp.Results) == 0 {
		return c.synthetic()
	}

	posts := resp.Results
	if len(posts) > maxItems {
		posts = posts[:maxItems]
	}

	out := make([]models.NewsItem, 0, len(posts))
	for _, p := range posts {
		matched := matchKeywords(p.Title)

		id := fmt.Sprintf("%d", p.ID)
		if p.ID == 0 {
			id = fmt.Sprintf("news-%d", c.now().UnixMilli())
		}
		source := p.Source.Title
		if source == "" {
			source = "Unknown"
		}
		timestamp := p.PublishedAt
		if timestamp == "" {
			timestamp = c.now().UTC().Format(time.RFC3339)
		}

		sentiment := models.SentimentNeutral
		if p.Votes.Positive > p.Votes.Negative {
			sentiment = models.SentimentPositive
		} else if p.Votes.Negative > p.Votes.Positive {
			sentiment = models.SentimentNegative
		}

		impact := models.ImpactMedium
		if len(matched) > 0 {
			impact = models.ImpactHigh
		}

		out = append(out, models.NewsItem{
			ID:        id,
			Title:     p.Title,
			Source:    source,
			Timestamp: timestamp,
			Sentiment: sentiment,
			Impact:    impact,
			Keywords:  matched,
		})
	}
	return out
}

func matchKeywords(title string) []string {
	lower := strings.ToLower(title)
	matched := make([]string, 0)
	for _, kw := range highImpactKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			matched = append(matched, kw)
		}
	}
	return matched
}

type syntheticHeadline struct {
	title     string
	keywords  []string
	sentiment models.Sentiment
}

var syntheticHeadlines = []syntheticHeadline{
	{"SEC Delays Decision on Bitcoin ETF Application", []string{"SEC", "ETF"}, models.SentimentNegative},
	{"Fed Signals Potential Rate Pause in Coming Months", []string{"Fed", "Rate"}, models.SentimentPositive},
	{"Major Exchange Reports Security Breach", []string{"Hack"}, models.SentimentNegative},
	{"Institutional Investors Increase Crypto Allocations", nil, models.SentimentPositive},
	{"New Regulations Proposed for DeFi Protocols", []string{"Regulation"}, models.SentimentNeutral},
}

var syntheticSources = []string{"Bloomberg", "Reuters", "CoinDesk", "The Block"}

func (c *Client) synthetic() []models.NewsItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.metrics.RecordFallback("news")

	now := c.now()
	out := make([]models.NewsItem, 0, len(syntheticHeadlines))
	for i, h := range syntheticHeadlines {
		impact := models.ImpactMedium
		if len(h.keywords) > 0 {
			impact = models.ImpactHigh
		}
		out = append(out, models.NewsItem{
			ID:        fmt.Sprintf("sim-news-%d", i),
			Title:     h.title,
			Source:    syntheticSources[c.rng.Intn(len(syntheticSources))],
			Timestamp: now.Add(-time.Duration(c.rng.Float64() * float64(2 * time.Hour))).UTC().Format(time.RFC3339),
			Sentiment: h.sentiment,
			Impact:    impact,
			Keywords:  h.keywords,
		})
	}
	return out
}
