package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"TradeFlow/internal/domain/models"
	"TradeFlow/internal/domain/repository"
	applogger "TradeFlow/pkg/logger"
	"TradeFlow/pkg/util"
)

// Strategy metadata returned with every scan envelope.
const (
	StrategyName        = "Previous Day High/Low Breakout"
	StrategyDescription = "Identifies breakouts above yesterday's high (PDH) or below yesterday's low (PDL) with volume confirmation"
	AnalyzeDescription  = "Break and retest of previous day's high or low with strong price action"
	StrategyWinRate     = "57%"
	StrategyProfit      = 2.53

	// HighConfidenceThreshold marks signals worth alerting on.
	HighConfidenceThreshold = 7.0

	// TopSignalLimit caps the actionable shortlist in scan output.
	TopSignalLimit = 5
)

// DefaultSymbols is the roster scanned when the caller supplies none.
var DefaultSymbols = []string{
	"AAPL", "TSLA", "NVDA", "MSFT", "GOOGL", "AMZN", "META", "NFLX",
	"AMD", "PLTR", "LCID", "RIVN", "GME", "AMC", "SPY", "QQQ",
}

// Scanner runs the analyzer across a symbol batch concurrently and ranks
// the results. History storage and alert publishing are both optional
// and best-effort.
type Scanner struct {
	analyzer  *Analyzer
	history   repository.SignalHistory  // optional
	publisher repository.AlertPublisher // optional
	metrics   repository.Metrics
	log       *applogger.Logger
	now       func() time.Time
	alertMin  float64
	roster    []string
}

// NewScanner creates a scanner. history and publisher may be nil.
func NewScanner(analyzer *Analyzer, history repository.SignalHistory, publisher repository.AlertPublisher, metrics repository.Metrics, log *applogger.Logger) *Scanner {
	return &Scanner{
		analyzer:  analyzer,
		history:   history,
		publisher: publisher,
		metrics:   metrics,
		log:       log,
		now:       time.Now,
		alertMin:  HighConfidenceThreshold,
		roster:    DefaultSymbols,
	}
}

// SetClock overrides the scan timestamp clock.
func (s *Scanner) SetClock(now func() time.Time) {
	s.now = now
}

// SetAlertThreshold overrides the minimum confidence for published alerts.
func (s *Scanner) SetAlertThreshold(min float64) {
	if min > 0 {
		s.alertMin = min
	}
}

// SetRoster overrides the symbols scanned when the caller supplies none.
func (s *Scanner) SetRoster(symbols []string) {
	if len(symbols) > 0 {
		s.roster = symbols
	}
}

// Scan analyzes every symbol concurrently and returns the ranked result
// envelope. A failing symbol degrades to WAIT without affecting others.
func (s *Scanner) Scan(ctx context.Context, symbols []string) models.ScanResult {
	if len(symbols) == 0 {
		symbols = s.roster
	}

	start := s.now()
	s.log.Info("scanning assets", applogger.Int("count", len(symbols)))

	signals := make([]models.Signal, len(symbols))
	var wg sync.WaitGroup
	for i, symbol := range symbols {
		wg.Add(1)
		go func(i int, symbol string) {
			defer wg.Done()
			signals[i] = s.analyzer.Analyze(ctx, symbol)
		}(i, symbol)
	}
	wg.Wait()

	// Highest confidence first; stable so equal scores keep input order.
	sort.SliceStable(signals, func(a, b int) bool {
		return signals[a].Confidence > signals[b].Confidence
	})

	summary := models.ScanSummary{TotalScanned: len(signals)}
	topSignals := make([]models.Signal, 0, TopSignalLimit)
	alerts := make([]models.Signal, 0)
	for _, sig := range signals {
		switch sig.Signal {
		case models.DirectionBuy:
			summary.BuySignals++
		case models.DirectionSell:
			summary.SellSignals++
		default:
			summary.WaitSignals++
		}
		if sig.Confidence >= HighConfidenceThreshold {
			summary.HighConfidenceSignals++
		}
		if sig.Confidence >= s.alertMin && sig.Signal != models.DirectionWait {
			alerts = append(alerts, sig)
		}
		if sig.Signal != models.DirectionWait && len(topSignals) < TopSignalLimit {
			topSignals = append(topSignals, sig)
		}
	}

	s.persist(ctx, signals)
	s.alert(ctx, alerts)
	s.metrics.RecordScan(len(signals), s.now().Sub(start))

	return models.ScanResult{
		Timestamp:    util.NowRFC3339(s.now()),
		Strategy:     StrategyName,
		Description:  StrategyDescription,
		WinRate:      StrategyWinRate,
		ProfitFactor: StrategyProfit,
		Summary:      summary,
		TopSignals:   topSignals,
		AllSignals:   signals,
	}
}

func (s *Scanner) persist(ctx context.Context, signals []models.Signal) {
	if s.history == nil || len(signals) == 0 {
		return
	}
	if err := s.history.StoreBatch(ctx, signals); err != nil {
		s.log.Warn("signal history write failed", applogger.Error(err))
	}
}

func (s *Scanner) alert(ctx context.Context, signals []models.Signal) {
	if s.publisher == nil || len(signals) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, signals); err != nil {
		s.log.Warn("alert publish failed", applogger.Error(err))
	}
}
