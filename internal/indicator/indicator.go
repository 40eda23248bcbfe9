package indicator

import (
	"math"

	"TradeFlow/internal/domain/models"
)

// Stateless indicator math over candle slices. Every function tolerates
// empty or short input and returns a conservative default instead of
// panicking: 50 for RSI, neutral for trend, 1 for volume ratio, and the
// current price for pivot levels.

const (
	// DefaultRSIPeriod is the classic Wilder lookback.
	DefaultRSIPeriod = 14
	// TrendLookback is how many bars back the trend signal compares against.
	TrendLookback = 5
	// VolumeAveragePeriod bounds the rolling volume average window.
	VolumeAveragePeriod = 20
)

// RSI computes Wilder's Relative Strength Index over the most recent
// `period` changes. Returns 50 when fewer than period+1 closes exist.
func RSI(closes []float64, period int) float64 {
	if period <= 0 || len(closes) < period+1 {
		return 50
	}

	var gains, losses float64
	for i := len(closes) - period; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains += change
		} else {
			losses -= change
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50
		}
		return 100
	}

	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}

// Trend maps the sign of close[last]-close[last-5] to a direction.
// Neutral when the series is too short to reach back 5 bars.
func Trend(closes []float64) models.TrendDirection {
	if len(closes) < TrendLookback+1 {
		return models.TrendNeutral
	}
	delta := closes[len(closes)-1] - closes[len(closes)-1-TrendLookback]
	switch {
	case delta > 0:
		return models.TrendBullish
	case delta < 0:
		return models.TrendBearish
	default:
		return models.TrendNeutral
	}
}

// VolumeRatio divides today's volume by the average over the last
// min(VolumeAveragePeriod, len) candles. Returns 1 when no usable
// volume exists.
func VolumeRatio(candles []models.Candle) float64 {
	if len(candles) == 0 {
		return 1
	}

	window := len(candles)
	if window > VolumeAveragePeriod {
		window = VolumeAveragePeriod
	}

	var sum float64
	for _, c := range candles[len(candles)-window:] {
		sum += c.Volume
	}
	avg := sum / float64(window)
	if avg == 0 {
		return 1
	}
	return candles[len(candles)-1].Volume / avg
}

// PivotLevels holds classic floor-trader pivots for one session.
type PivotLevels struct {
	Pivot float64 `json:"pivot"`
	R1    float64 `json:"r1"`
	S1    float64 `json:"s1"`
}

// Pivots computes P=(H+L+C)/3, R1=2P-L, S1=2P-H from the most recent
// completed session. With no candles all levels collapse to fallbackPrice.
func Pivots(candles []models.Candle, fallbackPrice float64) PivotLevels {
	if len(candles) == 0 {
		return PivotLevels{Pivot: fallbackPrice, R1: fallbackPrice, S1: fallbackPrice}
	}
	last := candles[len(candles)-1]
	p := (last.High + last.Low + last.Close) / 3
	return PivotLevels{
		Pivot: p,
		R1:    2*p - last.Low,
		S1:    2*p - last.High,
	}
}

// SMA is a simple moving average over the trailing `period` values.
// Returns 0 when the series is shorter than the period.
func SMA(values []float64, period int) float64 {
	if period <= 0 || len(values) < period {
		return 0
	}
	var sum float64
	for _, v := range values[len(values)-period:] {
		sum += v
	}
	return sum / float64(period)
}

// EMA seeds with an SMA of the first period then applies the standard
// smoothing factor. Returns the last value when the series is short.
func EMA(values []float64, period int) float64 {
	if len(values) == 0 {
		return 0
	}
	if period <= 0 || len(values) < period {
		return values[len(values)-1]
	}
	k := 2 / float64(period+1)
	ema := SMA(values[:period], period)
	for _, v := range values[period:] {
		ema = (v-ema)*k + ema
	}
	return ema
}

// ATR averages the true range over the trailing `period` bars.
func ATR(candles []models.Candle, period int) float64 {
	if period <= 0 || len(candles) < period+1 {
		return 0
	}
	trs := make([]float64, 0, len(candles)-1)
	for i := 1; i < len(candles); i++ {
		hl := candles[i].High - candles[i].Low
		hc := math.Abs(candles[i].High - candles[i-1].Close)
		lc := math.Abs(candles[i].Low - candles[i-1].Close)
		trs = append(trs, math.Max(hl, math.Max(hc, lc)))
	}
	var sum float64
	for _, tr := range trs[len(trs)-period:] {
		sum += tr
	}
	return sum / float64(period)
}

// Closes extracts the close series from a candle slice.
func Closes(candles []models.Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Close
	}
	return out
}
