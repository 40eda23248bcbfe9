package strategy

import (
	"math"
	"strings"
	"testing"
	"time"

	"TradeFlow/internal/domain/models"
)

func fixedDetector() *Detector {
	return NewDetectorWithClock(func() time.Time {
		return time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	})
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestEvaluatePDHBreakout(t *testing.T) {
	d := fixedDetector()
	yesterday := models.Candle{High: 100, Low: 90, Close: 98, Volume: 1_000_000}
	today := models.Candle{High: 105, Low: 95, Close: 104, Volume: 1_500_000}

	sig := d.Evaluate("AAPL", yesterday, today, 1.5)

	if sig.SignalType != models.SignalPDHBreakout {
		t.Fatalf("expected PDH_BREAKOUT, got %s", sig.SignalType)
	}
	if sig.Signal != models.DirectionBuy {
		t.Fatalf("expected BUY, got %s", sig.Signal)
	}
	if !almostEqual(sig.EntryPrice, 100) {
		t.Fatalf("expected entry 100, got %v", sig.EntryPrice)
	}
	if !almostEqual(sig.StopLoss, 90) {
		t.Fatalf("expected stop 90, got %v", sig.StopLoss)
	}
	if !almostEqual(sig.ExitTarget1, 110) || !almostEqual(sig.ExitTarget2, 120) {
		t.Fatalf("expected targets 110/120, got %v/%v", sig.ExitTarget1, sig.ExitTarget2)
	}
	if !almostEqual(sig.BreakoutStrength, 5) {
		t.Fatalf("expected strength 5, got %v", sig.BreakoutStrength)
	}
	// 5 + (1.5-1)*2 + 5*5 = 31, clamped to 10.
	if !almostEqual(sig.Confidence, 10) {
		t.Fatalf("expected confidence 10, got %v", sig.Confidence)
	}
	if sig.Timestamp != "2026-03-14T15:00:00Z" {
		t.Fatalf("unexpected timestamp %s", sig.Timestamp)
	}
}

func TestEvaluatePDLBreakout(t *testing.T) {
	d := fixedDetector()
	yesterday := models.Candle{High: 100, Low: 90, Close: 92}
	today := models.Candle{High: 95, Low: 85, Close: 86}

	sig := d.Evaluate("TSLA", yesterday, today, 2.0)

	if sig.SignalType != models.SignalPDLBreakout {
		t.Fatalf("expected PDL_BREAKOUT, got %s", sig.SignalType)
	}
	if sig.Signal != models.DirectionSell {
		t.Fatalf("expected SELL, got %s", sig.Signal)
	}
	if !almostEqual(sig.EntryPrice, 90) || !almostEqual(sig.StopLoss, 100) {
		t.Fatalf("expected entry 90 stop 100, got %v/%v", sig.EntryPrice, sig.StopLoss)
	}
	if !almostEqual(sig.ExitTarget1, 80) || !almostEqual(sig.ExitTarget2, 70) {
		t.Fatalf("expected targets 80/70, got %v/%v", sig.ExitTarget1, sig.ExitTarget2)
	}
	wantStrength := (90.0 - 85.0) / 90.0 * 100
	if !almostEqual(sig.BreakoutStrength, wantStrength) {
		t.Fatalf("expected strength %v, got %v", wantStrength, sig.BreakoutStrength)
	}
}

func TestEvaluateConsolidation(t *testing.T) {
	d := fixedDetector()
	yesterday := models.Candle{High: 100, Low: 90, Close: 95}
	today := models.Candle{High: 98, Low: 92, Close: 94}

	sig := d.Evaluate("SPY", yesterday, today, 0.9)

	if sig.SignalType != models.SignalNone || sig.Signal != models.DirectionWait {
		t.Fatalf("expected NONE/WAIT, got %s/%s", sig.SignalType, sig.Signal)
	}
	if sig.Confidence != 0 {
		t.Fatalf("expected zero confidence, got %v", sig.Confidence)
	}
	if !almostEqual(sig.EntryPrice, today.Close) {
		t.Fatalf("WAIT entry should fall back to close, got %v", sig.EntryPrice)
	}
	joined := strings.Join(sig.Reasoning, "\n")
	if !strings.Contains(joined, "consolidating within yesterday's range") {
		t.Fatalf("reasoning should mention consolidation: %v", sig.Reasoning)
	}
}

func TestEvaluateBreakoutWithoutVolume(t *testing.T) {
	d := fixedDetector()
	yesterday := models.Candle{High: 100, Low: 90, Close: 95}
	today := models.Candle{High: 103, Low: 95, Close: 102}

	sig := d.Evaluate("NVDA", yesterday, today, 1.1)

	if sig.SignalType != models.SignalNone {
		t.Fatalf("price-only breakout must not trigger, got %s", sig.SignalType)
	}
	joined := strings.Join(sig.Reasoning, "\n")
	if !strings.Contains(joined, "Insufficient volume") {
		t.Fatalf("reasoning should mention volume: %v", sig.Reasoning)
	}
}

func TestEvaluateConfidenceBounds(t *testing.T) {
	d := fixedDetector()
	yesterday := models.Candle{High: 100, Low: 99.9, Close: 100}

	// Tiny breakout, barely confirmed volume: score stays within [1, 10].
	today := models.Candle{High: 100.001, Low: 99.95, Close: 100.0005}
	sig := d.Evaluate("QQQ", yesterday, today, 1.31)
	if sig.Confidence < 1 || sig.Confidence > 10 {
		t.Fatalf("confidence out of bounds: %v", sig.Confidence)
	}

	// Huge breakout on huge volume still caps at 10.
	today = models.Candle{High: 150, Low: 100, Close: 148}
	sig = d.Evaluate("QQQ", yesterday, today, 5.0)
	if !almostEqual(sig.Confidence, 10) {
		t.Fatalf("expected capped confidence 10, got %v", sig.Confidence)
	}
}

func TestEvaluateConfidenceMonotonicInVolume(t *testing.T) {
	d := fixedDetector()
	yesterday := models.Candle{High: 100, Low: 98, Close: 99}
	today := models.Candle{High: 100.2, Low: 99, Close: 100.1}

	low := d.Evaluate("AMD", yesterday, today, 1.4)
	high := d.Evaluate("AMD", yesterday, today, 1.6)
	if high.Confidence < low.Confidence {
		t.Fatalf("confidence should not decrease with volume: %v -> %v", low.Confidence, high.Confidence)
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	d := fixedDetector()
	yesterday := models.Candle{High: 100, Low: 90, Close: 98}
	today := models.Candle{High: 105, Low: 95, Close: 104}

	a := d.Evaluate("META", yesterday, today, 1.5)
	b := d.Evaluate("META", yesterday, today, 1.5)
	if a.Confidence != b.Confidence || a.EntryPrice != b.EntryPrice || len(a.Reasoning) != len(b.Reasoning) {
		t.Fatalf("identical inputs must yield identical signals")
	}
}

func TestWaitSignal(t *testing.T) {
	d := fixedDetector()
	sig := d.WaitSignal("GME", "Insufficient historical data")
	if sig.Signal != models.DirectionWait || sig.Confidence != 0 {
		t.Fatalf("expected zero-confidence WAIT, got %s/%v", sig.Signal, sig.Confidence)
	}
	if len(sig.Reasoning) != 1 || sig.Reasoning[0] != "Insufficient historical data" {
		t.Fatalf("unexpected reasoning %v", sig.Reasoning)
	}
}
