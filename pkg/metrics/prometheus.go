package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	scansTotal     prometheus.Counter
	scannedSymbols prometheus.Counter
	scanDuration   prometheus.Histogram
	signalsTotal   *prometheus.CounterVec
	providerErrors *prometheus.CounterVec
	fallbacksTotal *prometheus.CounterVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		scansTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "tradeflow_scans_total",
				Help: "Total number of multi-symbol scans executed",
			},
		),
		scannedSymbols: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "tradeflow_scanned_symbols_total",
				Help: "Total number of symbols analyzed across all scans",
			},
		),
		scanDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tradeflow_scan_duration_seconds",
				Help:    "Duration of multi-symbol scans in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		signalsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradeflow_signals_total",
				Help: "Total number of signals produced by direction",
			},
			[]string{"direction"},
		),
		providerErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradeflow_provider_errors_total",
				Help: "Total number of upstream provider failures",
			},
			[]string{"provider"},
		),
		fallbacksTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradeflow_fallbacks_total",
				Help: "Total number of synthetic or heuristic fallbacks served",
			},
			[]string{"feed"},
		),
	}
}

// RecordScan records one completed scan over n symbols.
func (r *Recorder) RecordScan(symbols int, duration time.Duration) {
	r.scansTotal.Inc()
	r.scannedSymbols.Add(float64(symbols))
	r.scanDuration.Observe(duration.Seconds())
}

// RecordSignal records one produced signal by direction.
func (r *Recorder) RecordSignal(direction string) {
	r.signalsTotal.WithLabelValues(direction).Inc()
}

// RecordProviderError records an upstream provider failure.
func (r *Recorder) RecordProviderError(provider string) {
	r.providerErrors.WithLabelValues(provider).Inc()
}

// RecordFallback records a synthetic or heuristic fallback being served.
func (r *Recorder) RecordFallback(feed string) {
	r.fallbacksTotal.WithLabelValues(feed).Inc()
}
