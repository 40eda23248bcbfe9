package strategy

import (
	"fmt"
	"time"

	"TradeFlow/internal/domain/models"
	"TradeFlow/pkg/util"
)

// Policy constants for the previous-day breakout strategy.
const (
	// VolumeConfirmationRatio is the minimum volume-vs-average multiple
	// required to confirm a breakout.
	VolumeConfirmationRatio = 1.3
	// ConfidenceBase is the starting score once a breakout is confirmed.
	ConfidenceBase = 5.0
	// ConfidenceVolumeWeight scales excess volume ratio into confidence.
	ConfidenceVolumeWeight = 2.0
	// ConfidenceStrengthWeight scales breakout strength percent into confidence.
	ConfidenceStrengthWeight = 5.0
	// ConfidenceMin and ConfidenceMax bound a confirmed breakout's score.
	ConfidenceMin = 1.0
	ConfidenceMax = 10.0
)

// Detector evaluates the previous-day high/low breakout rules. It holds a
// clock so tests can pin signal timestamps; it carries no other state and
// every evaluation is deterministic in its inputs.
type Detector struct {
	now func() time.Time
}

// NewDetector returns a Detector using the real clock.
func NewDetector() *Detector {
	return &Detector{now: time.Now}
}

// NewDetectorWithClock returns a Detector with an injected clock.
func NewDetectorWithClock(now func() time.Time) *Detector {
	return &Detector{now: now}
}

// Evaluate classifies the (yesterday, today, volumeRatio) triple into a
// signal. The caller guarantees both candles exist; series shorter than
// two candles must be turned into a WAIT signal upstream instead.
func (d *Detector) Evaluate(symbol string, yesterday, today models.Candle, volumeRatio float64) models.Signal {
	var (
		signalType  = models.SignalNone
		entryPrice  float64
		stopLoss    float64
		exitTarget1 float64
		exitTarget2 float64
		confidence  float64
		strength    float64
		reasoning   []string
	)

	switch {
	case today.High > yesterday.High && volumeRatio > VolumeConfirmationRatio:
		signalType = models.SignalPDHBreakout
		entryPrice = yesterday.High
		stopLoss = yesterday.Low
		risk := entryPrice - stopLoss
		exitTarget1 = entryPrice + risk
		exitTarget2 = entryPrice + 2*risk

		strength = (today.High - yesterday.High) / yesterday.High * 100
		confidence = clamp(ConfidenceBase+(volumeRatio-1)*ConfidenceVolumeWeight+strength*ConfidenceStrengthWeight, ConfidenceMin, ConfidenceMax)

		reasoning = append(reasoning,
			fmt.Sprintf("PDH Breakout: Today's high %.2f broke above yesterday's high %.2f", today.High, yesterday.High),
			fmt.Sprintf("Volume Confirmation: %.2fx average (threshold: %.1fx) - STRONG", volumeRatio, VolumeConfirmationRatio),
			fmt.Sprintf("Breakout Strength: %.2f%% above PDH", strength),
			fmt.Sprintf("Entry: %.2f | Stop: %.2f", entryPrice, stopLoss),
			fmt.Sprintf("Target 1 (1:1): %.2f | Target 2 (2:1): %.2f", exitTarget1, exitTarget2),
			fmt.Sprintf("Risk/Reward: %.2f points at risk", risk),
		)

	case today.Low < yesterday.Low && volumeRatio > VolumeConfirmationRatio:
		signalType = models.SignalPDLBreakout
		entryPrice = yesterday.Low
		stopLoss = yesterday.High
		risk := stopLoss - entryPrice
		exitTarget1 = entryPrice - risk
		exitTarget2 = entryPrice - 2*risk

		strength = (yesterday.Low - today.Low) / yesterday.Low * 100
		confidence = clamp(ConfidenceBase+(volumeRatio-1)*ConfidenceVolumeWeight+strength*ConfidenceStrengthWeight, ConfidenceMin, ConfidenceMax)

		reasoning = append(reasoning,
			fmt.Sprintf("PDL Breakout: Today's low %.2f broke below yesterday's low %.2f", today.Low, yesterday.Low),
			fmt.Sprintf("Volume Confirmation: %.2fx average (threshold: %.1fx) - STRONG", volumeRatio, VolumeConfirmationRatio),
			fmt.Sprintf("Breakout Strength: %.2f%% below PDL", strength),
			fmt.Sprintf("Entry: %.2f | Stop: %.2f", entryPrice, stopLoss),
			fmt.Sprintf("Target 1 (1:1): %.2f | Target 2 (2:1): %.2f", exitTarget1, exitTarget2),
			fmt.Sprintf("Risk/Reward: %.2f points at risk", risk),
		)

	default:
		reasoning = append(reasoning,
			"No breakout detected - waiting for setup",
			fmt.Sprintf("Today's Range: High %.2f | Low %.2f", today.High, today.Low),
			fmt.Sprintf("Yesterday's Range: PDH %.2f | PDL %.2f", yesterday.High, yesterday.Low),
			fmt.Sprintf("Volume: %.2fx average (need %.1fx for confirmation)", volumeRatio, VolumeConfirmationRatio),
		)
		if today.High < yesterday.High && today.Low > yesterday.Low {
			reasoning = append(reasoning, "Price consolidating within yesterday's range - watch for breakout")
		} else if volumeRatio < VolumeConfirmationRatio {
			reasoning = append(reasoning, "Insufficient volume for high-probability setup")
		}
	}

	direction := models.DirectionWait
	switch signalType {
	case models.SignalPDHBreakout:
		direction = models.DirectionBuy
	case models.SignalPDLBreakout:
		direction = models.DirectionSell
	}

	if entryPrice == 0 {
		entryPrice = today.Close
	}

	return models.Signal{
		Asset:             symbol,
		Signal:            direction,
		SignalType:        signalType,
		Confidence:        confidence,
		EntryPrice:        entryPrice,
		StopLoss:          stopLoss,
		ExitTarget1:       exitTarget1,
		ExitTarget2:       exitTarget2,
		Reasoning:         reasoning,
		PreviousDayHigh:   yesterday.High,
		PreviousDayLow:    yesterday.Low,
		PreviousDayClose:  yesterday.Close,
		PreviousDayVolume: yesterday.Volume,
		CurrentPrice:      today.Close,
		VolumeRatio:       volumeRatio,
		BreakoutStrength:  strength,
		Timestamp:         util.NowRFC3339(d.now()),
	}
}

// WaitSignal builds the canonical WAIT signal used when a symbol's data
// cannot be analyzed at all.
func (d *Detector) WaitSignal(symbol, reason string) models.Signal {
	return models.Signal{
		Asset:      symbol,
		Signal:     models.DirectionWait,
		SignalType: models.SignalNone,
		Reasoning:  []string{reason},
		Timestamp:  util.NowRFC3339(d.now()),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
