// Package metrics holds the Prometheus collectors of folio.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcomes of a quote refresh cycle.
const (
	Settled   = "settled"
	Degraded  = "degraded"
	Cancelled = "cancelled"
)

var (
	replayAnomalies = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_replay_anomalies_total",
			Help: "Total number of sells that exceeded the held quantity and were clamped",
		},
		[]string{"market"},
	)

	quoteRefresh = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_quote_refresh_total",
			Help: "Total number of quote refresh cycles by outcome",
		},
		[]string{"outcome"},
	)

	quoteFetch = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "folio_quote_fetch_seconds",
			Help:    "Quote fetch duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		},
	)

	quotesUnavailable = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "folio_quotes_unavailable",
			Help: "Number of visible tickers without a price in the current quote snapshot",
		},
	)
)

// RecordReplay counts the anomalies of a replayed holding of market.
func RecordReplay(market string, anomalies int) {
	if anomalies <= 0 {
		return
	}
	replayAnomalies.WithLabelValues(market).Add(float64(anomalies))
}

// RecordRefresh records the outcome of a refresh cycle. Cancelled cycles are
// not timed.
func RecordRefresh(outcome string, duration time.Duration) {
	quoteRefresh.WithLabelValues(outcome).Inc()
	if outcome != Cancelled {
		quoteFetch.Observe(duration.Seconds())
	}
}

// SetUnavailable sets the number of visible tickers without a price.
func SetUnavailable(n int) {
	quotesUnavailable.Set(float64(n))
}
