package models

// TransactionType classifies a whale transaction by which side, if any,
// is a known exchange operator.
type TransactionType string

const (
	TxExchangeInflow  TransactionType = "exchange_inflow"
	TxExchangeOutflow TransactionType = "exchange_outflow"
	TxWalletTransfer  TransactionType = "wallet_transfer"
)

// WhaleTransaction is one large on-chain transfer.
type WhaleTransaction struct {
	ID        string          `json:"id"`
	Timestamp string          `json:"timestamp"`
	Amount    float64         `json:"amount"`
	Symbol    string          `json:"symbol"`
	From      string          `json:"from"`
	To        string          `json:"to"`
	Type      TransactionType `json:"type"`
	USDValue  float64         `json:"usdValue"`
}

// Sentiment is the vote-derived tone of a news item.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Impact buckets a news item by headline keyword severity.
type Impact string

const (
	ImpactHigh   Impact = "high"
	ImpactMedium Impact = "medium"
	ImpactLow    Impact = "low"
)

// NewsItem is one crypto-news headline with derived metadata.
type NewsItem struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Source    string    `json:"source"`
	Timestamp string    `json:"timestamp"`
	Sentiment Sentiment `json:"sentiment"`
	Impact    Impact    `json:"impact"`
	Keywords  []string  `json:"keywords"`
}

// MarketBias is the fused directional read over whales and news.
type MarketBias string

const (
	BiasBullish MarketBias = "bullish"
	BiasBearish MarketBias = "bearish"
	BiasNeutral MarketBias = "neutral"
)

// RiskLevel buckets the fused volatility score.
type RiskLevel string

const (
	RiskLow     RiskLevel = "low"
	RiskMedium  RiskLevel = "medium"
	RiskHigh    RiskLevel = "high"
	RiskExtreme RiskLevel = "extreme"
)

// FusionResult is the combined market assessment. The AI path and the
// heuristic fallback produce the same shape so callers cannot tell them
// apart structurally.
type FusionResult struct {
	Summary         string     `json:"summary"`
	VolatilityScore int        `json:"volatilityScore"` // 1-10
	MarketBias      MarketBias `json:"marketBias"`
	KeyInsights     []string   `json:"keyInsights"`
	RiskLevel       RiskLevel  `json:"riskLevel"`
	Timestamp       string     `json:"timestamp"`
}
