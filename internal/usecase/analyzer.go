package usecase

import (
	"context"
	"strings"

	"TradeFlow/internal/domain/models"
	"TradeFlow/internal/domain/repository"
	"TradeFlow/internal/indicator"
	"TradeFlow/internal/strategy"
	applogger "TradeFlow/pkg/logger"
)

// InsufficientDataReason is the WAIT reasoning used when a symbol has no
// usable history. Callers distinguish outages from genuine WAITs only by
// this text.
const InsufficientDataReason = "Insufficient historical data"

// Analyzer produces one signal per symbol from daily candle history.
type Analyzer struct {
	market   repository.MarketData
	quotes   repository.QuoteSource // optional
	detector *strategy.Detector
	metrics  repository.Metrics
	log      *applogger.Logger
}

// NewAnalyzer creates an analyzer. quotes may be nil when no realtime
// stream is configured.
func NewAnalyzer(market repository.MarketData, quotes repository.QuoteSource, detector *strategy.Detector, metrics repository.Metrics, log *applogger.Logger) *Analyzer {
	return &Analyzer{
		market:   market,
		quotes:   quotes,
		detector: detector,
		metrics:  metrics,
		log:      log,
	}
}

// Indicator periods for the deep analysis view.
const (
	rsiPeriod = 14
	smaPeriod = 20
	emaPeriod = 9
	atrPeriod = 14
)

// Analyze evaluates symbol against yesterday's range. Data problems never
// escape as errors; they produce a zero-confidence WAIT signal.
func (a *Analyzer) Analyze(ctx context.Context, symbol string) models.Signal {
	sig, _ := a.AnalyzeDetailed(ctx, symbol)
	return sig
}

// AnalyzeDetailed is Analyze plus a context-indicator snapshot computed
// from the same candle series. The snapshot is nil when no usable
// history exists.
func (a *Analyzer) AnalyzeDetailed(ctx context.Context, symbol string) (models.Signal, *models.IndicatorSnapshot) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	candles, err := a.market.FetchDailyCandles(ctx, symbol)
	if err != nil {
		a.log.Warn("analysis degraded to WAIT",
			applogger.String("symbol", symbol),
			applogger.Error(err),
		)
		a.metrics.RecordSignal(string(models.DirectionWait))
		return a.detector.WaitSignal(symbol, InsufficientDataReason), nil
	}
	if len(candles) < 2 {
		a.metrics.RecordSignal(string(models.DirectionWait))
		return a.detector.WaitSignal(symbol, InsufficientDataReason), nil
	}

	yesterday := candles[len(candles)-2]
	today := candles[len(candles)-1]
	volumeRatio := indicator.VolumeRatio(candles)

	sig := a.detector.Evaluate(symbol, yesterday, today, volumeRatio)

	// Prefer the live streamed price when one is available; candle math
	// above is unaffected.
	if a.quotes != nil {
		if q, ok := a.quotes.LatestQuote(symbol); ok && q.Price > 0 {
			sig.CurrentPrice = q.Price
		}
	}

	a.metrics.RecordSignal(string(sig.Signal))
	return sig, snapshot(candles, sig.CurrentPrice)
}

// snapshot computes the context indicators. Pivots come from the most
// recent completed session, everything else from the full close series.
func snapshot(candles []models.Candle, currentPrice float64) *models.IndicatorSnapshot {
	closes := indicator.Closes(candles)
	pivots := indicator.Pivots(candles[:len(candles)-1], currentPrice)
	return &models.IndicatorSnapshot{
		RSI:         indicator.RSI(closes, rsiPeriod),
		Trend:       indicator.Trend(closes),
		SMA20:       indicator.SMA(closes, smaPeriod),
		EMA9:        indicator.EMA(closes, emaPeriod),
		ATR14:       indicator.ATR(candles, atrPeriod),
		PivotPoint:  pivots.Pivot,
		Resistance1: pivots.R1,
		Support1:    pivots.S1,
	}
}
