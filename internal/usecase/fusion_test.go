package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"TradeFlow/internal/domain/models"
)

type stubWhaleFeed struct {
	txs []models.WhaleTransaction
}

func (f *stubWhaleFeed) Fetch(context.Context) []models.WhaleTransaction { return f.txs }

type stubNewsFeed struct {
	items []models.NewsItem
}

func (f *stubNewsFeed) Fetch(context.Context) []models.NewsItem { return f.items }

type stubGenerator struct {
	output string
	err    error
	prompt string
}

func (g *stubGenerator) Complete(_ context.Context, prompt string) (string, error) {
	g.prompt = prompt
	return g.output, g.err
}

func whaleTx(txType models.TransactionType, usd float64) models.WhaleTransaction {
	return models.WhaleTransaction{Symbol: "BTC", Type: txType, USDValue: usd}
}

func newsItem(sentiment models.Sentiment, impact models.Impact) models.NewsItem {
	return models.NewsItem{Title: "headline", Sentiment: sentiment, Impact: impact}
}

func newTestFusion(t *testing.T, whales []models.WhaleTransaction, news []models.NewsItem, gen *stubGenerator) *Fusion {
	t.Helper()
	f := NewFusion(&stubWhaleFeed{txs: whales}, &stubNewsFeed{items: news}, nil, nopMetrics{}, testLogger(t))
	if gen != nil {
		f.generator = gen
	}
	f.SetClock(func() time.Time {
		return time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	})
	return f
}

func TestHeuristicBullishBias(t *testing.T) {
	whales := []models.WhaleTransaction{
		whaleTx(models.TxExchangeOutflow, 50e6),
		whaleTx(models.TxExchangeOutflow, 30e6),
		whaleTx(models.TxExchangeInflow, 20e6),
	}
	news := []models.NewsItem{
		newsItem(models.SentimentPositive, models.ImpactMedium),
		newsItem(models.SentimentNeutral, models.ImpactMedium),
	}
	f := newTestFusion(t, whales, news, nil)

	result := f.Analyze(context.Background())
	if result.MarketBias != models.BiasBullish {
		t.Fatalf("expected bullish, got %s", result.MarketBias)
	}
	// 3 base + 3 whales + 0 high impact.
	if result.VolatilityScore != 6 {
		t.Fatalf("expected volatility 6, got %d", result.VolatilityScore)
	}
	if result.RiskLevel != models.RiskHigh {
		t.Fatalf("expected high risk, got %s", result.RiskLevel)
	}
	if !strings.Contains(result.Summary, "bullish signals with 3 whale moves") {
		t.Fatalf("unexpected summary %q", result.Summary)
	}
	if len(result.KeyInsights) != 3 {
		t.Fatalf("expected 3 insights, got %v", result.KeyInsights)
	}
}

func TestHeuristicBearishBias(t *testing.T) {
	whales := []models.WhaleTransaction{
		whaleTx(models.TxExchangeInflow, 50e6),
		whaleTx(models.TxExchangeInflow, 30e6),
	}
	news := []models.NewsItem{
		newsItem(models.SentimentNegative, models.ImpactHigh),
	}
	f := newTestFusion(t, whales, news, nil)

	result := f.Analyze(context.Background())
	if result.MarketBias != models.BiasBearish {
		t.Fatalf("expected bearish, got %s", result.MarketBias)
	}
	if !strings.Contains(result.KeyInsights[1], "sell pressure") {
		t.Fatalf("expected sell pressure insight, got %v", result.KeyInsights)
	}
}

func TestHeuristicNeutralOnEmptyFeeds(t *testing.T) {
	f := newTestFusion(t, nil, nil, nil)

	result := f.Analyze(context.Background())
	if result.MarketBias != models.BiasNeutral {
		t.Fatalf("expected neutral, got %s", result.MarketBias)
	}
	if result.VolatilityScore != 3 || result.RiskLevel != models.RiskLow {
		t.Fatalf("expected baseline volatility, got %d/%s", result.VolatilityScore, result.RiskLevel)
	}
	if result.Timestamp != "2026-03-14T15:00:00Z" {
		t.Fatalf("unexpected timestamp %s", result.Timestamp)
	}
}

func TestHeuristicVolatilityCapped(t *testing.T) {
	whales := make([]models.WhaleTransaction, 10)
	for i := range whales {
		whales[i] = whaleTx(models.TxWalletTransfer, 10e6)
	}
	f := newTestFusion(t, whales, nil, nil)

	result := f.Analyze(context.Background())
	if result.VolatilityScore != 10 {
		t.Fatalf("expected capped volatility, got %d", result.VolatilityScore)
	}
	if result.RiskLevel != models.RiskExtreme {
		t.Fatalf("expected extreme risk, got %s", result.RiskLevel)
	}
}

func TestGeneratedAnalysis(t *testing.T) {
	gen := &stubGenerator{output: `Here is my read on the tape:
{
  "summary": "Desk is net long into the close.",
  "volatilityScore": 7,
  "marketBias": "bullish",
  "keyInsights": ["a", "b", "c"],
  "riskLevel": "high"
}
Trade carefully.`}
	whales := []models.WhaleTransaction{whaleTx(models.TxExchangeOutflow, 42e6)}
	news := []models.NewsItem{newsItem(models.SentimentPositive, models.ImpactHigh)}
	f := newTestFusion(t, whales, news, gen)

	result := f.Analyze(context.Background())
	if result.Summary != "Desk is net long into the close." {
		t.Fatalf("model output not used: %+v", result)
	}
	if result.VolatilityScore != 7 || result.RiskLevel != models.RiskHigh {
		t.Fatalf("unexpected parsed result %+v", result)
	}
	if result.Timestamp != "2026-03-14T15:00:00Z" {
		t.Fatalf("timestamp should be stamped locally, got %s", result.Timestamp)
	}
	if !strings.Contains(gen.prompt, "BTC: $42.0M exchange outflow") {
		t.Fatalf("whale summary missing from prompt:\n%s", gen.prompt)
	}
	if !strings.Contains(gen.prompt, "[positive] headline") {
		t.Fatalf("news summary missing from prompt:\n%s", gen.prompt)
	}
}

func TestGeneratedFailureFallsBackToHeuristic(t *testing.T) {
	cases := []struct {
		name string
		gen  *stubGenerator
	}{
		{"transport error", &stubGenerator{err: errors.New("timeout")}},
		{"no json in output", &stubGenerator{output: "I cannot help with that."}},
		{"malformed json", &stubGenerator{output: `{"volatilityScore": "seven"}`}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newTestFusion(t, nil, nil, tc.gen)
			result := f.Analyze(context.Background())
			if result.MarketBias != models.BiasNeutral {
				t.Fatalf("expected heuristic fallback, got %+v", result)
			}
			if !strings.Contains(result.Summary, "0 whale moves detected") {
				t.Fatalf("unexpected fallback summary %q", result.Summary)
			}
		})
	}
}

func TestPromptDefaultsOnEmptyFeeds(t *testing.T) {
	prompt := buildPrompt(nil, nil)
	if !strings.Contains(prompt, "No significant whale activity detected") {
		t.Fatalf("missing whale default:\n%s", prompt)
	}
	if !strings.Contains(prompt, "No major news events") {
		t.Fatalf("missing news default:\n%s", prompt)
	}
}

func TestExtractJSON(t *testing.T) {
	if _, err := extractJSON("no braces here"); err == nil {
		t.Fatalf("expected error on missing object")
	}
	got, err := extractJSON(`leading {"a": {"b": 1}} trailing`)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got != `{"a": {"b": 1}}` {
		t.Fatalf("unexpected extraction %q", got)
	}
}
