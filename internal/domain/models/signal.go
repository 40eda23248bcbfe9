package models

// Direction is the actionable side of a signal.
type Direction string

const (
	DirectionBuy  Direction = "BUY"
	DirectionSell Direction = "SELL"
	DirectionWait Direction = "WAIT"
)

// SignalType classifies which reference level was broken.
type SignalType string

const (
	SignalPDHBreakout SignalType = "PDH_BREAKOUT"
	SignalPDLBreakout SignalType = "PDL_BREAKOUT"
	SignalNone        SignalType = "NONE"
)

// TrendDirection is the short-horizon trend classification.
type TrendDirection string

const (
	TrendBullish TrendDirection = "bullish"
	TrendBearish TrendDirection = "bearish"
	TrendNeutral TrendDirection = "neutral"
)

// Signal is the full result of analyzing one symbol against yesterday's
// high/low. Built fresh per analysis call and never mutated afterwards.
type Signal struct {
	Asset             string     `json:"asset"`
	Signal            Direction  `json:"signal"`
	SignalType        SignalType `json:"signalType"`
	Confidence        float64    `json:"confidence"` // 0-10
	EntryPrice        float64    `json:"entryPrice"`
	StopLoss          float64    `json:"stopLoss"`
	ExitTarget1       float64    `json:"exitTarget1"` // 1:1 risk/reward
	ExitTarget2       float64    `json:"exitTarget2"` // 2:1 risk/reward
	Reasoning         []string   `json:"reasoning"`
	PreviousDayHigh   float64    `json:"previousDayHigh"`
	PreviousDayLow    float64    `json:"previousDayLow"`
	PreviousDayClose  float64    `json:"previousDayClose"`
	PreviousDayVolume float64    `json:"previousDayVolume"`
	CurrentPrice      float64    `json:"currentPrice"`
	VolumeRatio       float64    `json:"volumeRatio"`
	BreakoutStrength  float64    `json:"breakoutStrength"` // % beyond PDH/PDL
	Timestamp         string     `json:"timestamp"`
}

// IndicatorSnapshot carries context indicators computed from the same
// candle series as a signal. Served with the deep analysis view only.
type IndicatorSnapshot struct {
	RSI         float64        `json:"rsi"`
	Trend       TrendDirection `json:"trend"`
	SMA20       float64        `json:"sma20"`
	EMA9        float64        `json:"ema9"`
	ATR14       float64        `json:"atr14"`
	PivotPoint  float64        `json:"pivotPoint"`
	Resistance1 float64        `json:"resistance1"`
	Support1    float64        `json:"support1"`
}

// ScanSummary aggregates counts over a batch of signals.
type ScanSummary struct {
	TotalScanned          int `json:"totalScanned"`
	BuySignals            int `json:"buySignals"`
	SellSignals           int `json:"sellSignals"`
	WaitSignals           int `json:"waitSignals"`
	HighConfidenceSignals int `json:"highConfidenceSignals"`
}

// ScanResult is the full /scan response envelope.
type ScanResult struct {
	Timestamp    string      `json:"timestamp"`
	Strategy     string      `json:"strategy"`
	Description  string      `json:"description"`
	WinRate      string      `json:"winRate"`
	ProfitFactor float64     `json:"profitFactor"`
	Summary      ScanSummary `json:"summary"`
	TopSignals   []Signal    `json:"topSignals"`
	AllSignals   []Signal    `json:"allSignals"`
}

// QuickSignal is the condensed single-symbol view served by /quick.
type QuickSignal struct {
	Asset       string    `json:"asset"`
	Signal      Direction `json:"signal"`
	Confidence  float64   `json:"confidence"`
	EntryPrice  float64   `json:"entryPrice"`
	StopLoss    float64   `json:"stopLoss"`
	ExitTarget1 float64   `json:"exitTarget1"`
	ExitTarget2 float64   `json:"exitTarget2"`
	Reasoning   []string  `json:"reasoning"`
}
