package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"TradeFlow/internal/domain/models"
	"TradeFlow/internal/domain/repository"
	applogger "TradeFlow/pkg/logger"
	"TradeFlow/pkg/util"
)

// Fusion combines whale flow and news sentiment into one market
// assessment. An external model writes the assessment when configured;
// otherwise a deterministic heuristic produces the same shape.
type Fusion struct {
	whales    repository.WhaleFeed
	news      repository.NewsFeed
	generator repository.TextGenerator // optional
	metrics   repository.Metrics
	log       *applogger.Logger
	now       func() time.Time
}

// NewFusion creates a fusion analyzer. generator may be nil to force the
// heuristic path.
func NewFusion(whales repository.WhaleFeed, news repository.NewsFeed, generator repository.TextGenerator, metrics repository.Metrics, log *applogger.Logger) *Fusion {
	return &Fusion{
		whales:    whales,
		news:      news,
		generator: generator,
		metrics:   metrics,
		log:       log,
		now:       time.Now,
	}
}

// SetClock overrides the result timestamp clock.
func (f *Fusion) SetClock(now func() time.Time) {
	f.now = now
}

// Whales returns the current whale feed snapshot.
func (f *Fusion) Whales(ctx context.Context) []models.WhaleTransaction {
	return f.whales.Fetch(ctx)
}

// News returns the current news feed snapshot.
func (f *Fusion) News(ctx context.Context) []models.NewsItem {
	return f.news.Fetch(ctx)
}

// Analyze fetches both feeds and fuses them. Model failures of any kind
// fall back to the heuristic; the caller always receives a result.
func (f *Fusion) Analyze(ctx context.Context) models.FusionResult {
	whales := f.whales.Fetch(ctx)
	news := f.news.Fetch(ctx)

	if f.generator != nil {
		result, err := f.generated(ctx, whales, news)
		if err == nil {
			return result
		}
		f.metrics.RecordFallback("fusion")
		f.log.Warn("model analysis failed, using heuristic", applogger.Error(err))
	}

	return f.heuristic(whales, news)
}

func (f *Fusion) generated(ctx context.Context, whales []models.WhaleTransaction, news []models.NewsItem) (models.FusionResult, error) {
	text, err := f.generator.Complete(ctx, buildPrompt(whales, news))
	if err != nil {
		return models.FusionResult{}, err
	}

	payload, err := extractJSON(text)
	if err != nil {
		return models.FusionResult{}, err
	}

	var result models.FusionResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return models.FusionResult{}, fmt.Errorf("parse model output: %w", err)
	}
	result.Timestamp = util.NowRFC3339(f.now())
	return result, nil
}

func buildPrompt(whales []models.WhaleTransaction, news []models.NewsItem) string {
	whaleLines := make([]string, 0, 5)
	for i, w := range whales {
		if i == 5 {
			break
		}
		whaleLines = append(whaleLines, fmt.Sprintf("%s: $%.1fM %s",
			w.Symbol, w.USDValue/1e6, strings.ReplaceAll(string(w.Type), "_", " ")))
	}
	whaleSummary := strings.Join(whaleLines, "; ")
	if whaleSummary == "" {
		whaleSummary = "No significant whale activity detected"
	}

	newsLines := make([]string, 0, 5)
	for i, n := range news {
		if i == 5 {
			break
		}
		newsLines = append(newsLines, fmt.Sprintf("[%s] %s", n.Sentiment, n.Title))
	}
	newsSummary := strings.Join(newsLines, "; ")
	if newsSummary == "" {
		newsSummary = "No major news events"
	}

	return fmt.Sprintf(`You are a Lead Alpha Analyst for a trading desk. Analyze this last hour of market data and provide actionable intelligence.

WHALE ACTIVITY:
%s

BREAKING NEWS:
%s

Provide your analysis in this EXACT JSON format:
{
  "summary": "2-3 sentence market assessment",
  "volatilityScore": 1-10 number,
  "marketBias": "bullish" or "bearish" or "neutral",
  "keyInsights": ["insight 1", "insight 2", "insight 3"],
  "riskLevel": "low" or "medium" or "high" or "extreme"
}

Be concise and actionable. Focus on what traders need to know RIGHT NOW.`, whaleSummary, newsSummary)
}

// extractJSON pulls the first '{' through the last '}' out of free-form
// model text. Prose before or after the object is tolerated; a missing
// or inverted pair is the single failure mode.
func extractJSON(text string) (string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return "", fmt.Errorf("no JSON object in model output")
	}
	return text[start : end+1], nil
}

func (f *Fusion) heuristic(whales []models.WhaleTransaction, news []models.NewsItem) models.FusionResult {
	var inflow, outflow int
	for _, w := range whales {
		switch w.Type {
		case models.TxExchangeInflow:
			inflow++
		case models.TxExchangeOutflow:
			outflow++
		}
	}

	var positive, negative, highImpact int
	for _, n := range news {
		switch n.Sentiment {
		case models.SentimentPositive:
			positive++
		case models.SentimentNegative:
			negative++
		}
		if n.Impact == models.ImpactHigh {
			highImpact++
		}
	}

	bias := models.BiasNeutral
	switch {
	case outflow > inflow && positive >= negative:
		bias = models.BiasBullish
	case inflow > outflow && negative > positive:
		bias = models.BiasBearish
	}

	volatility := 3 + len(whales) + highImpact
	if volatility > 10 {
		volatility = 10
	}
	if volatility < 1 {
		volatility = 1
	}

	var risk models.RiskLevel
	switch {
	case volatility <= 3:
		risk = models.RiskLow
	case volatility <= 5:
		risk = models.RiskMedium
	case volatility <= 7:
		risk = models.RiskHigh
	default:
		risk = models.RiskExtreme
	}

	newsTone := "Mixed news sentiment."
	if negative > positive {
		newsTone = "Negative news sentiment predominates."
	} else if positive > negative {
		newsTone = "Positive news flow supporting price."
	}

	flowInsight := "outflows exceed inflows (accumulation)"
	if inflow > outflow {
		flowInsight = "inflows exceed outflows (sell pressure)"
	}

	return models.FusionResult{
		Summary: fmt.Sprintf("Market showing %s signals with %d whale moves detected. %s",
			bias, len(whales), newsTone),
		VolatilityScore: volatility,
		MarketBias:      bias,
		KeyInsights: []string{
			fmt.Sprintf("%d whale transactions in the last hour", len(whales)),
			fmt.Sprintf("Exchange %s", flowInsight),
			fmt.Sprintf("%d high-impact news events active", highImpact),
		},
		RiskLevel: risk,
		Timestamp: util.NowRFC3339(f.now()),
	}
}
