package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ducminhle1904/perp-signal-bot/internal/signals"
)

var (
	evaluationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signal_bot_evaluations_total",
			Help: "Total number of signal evaluations",
		},
		[]string{"symbol", "direction"},
	)

	evaluationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "signal_bot_evaluation_duration_seconds",
			Help:    "Duration of signal evaluations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"symbol"},
	)

	signalConfidence = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "signal_bot_confidence",
			Help: "Confidence of the latest signal",
		},
		[]string{"symbol"},
	)

	totalScore = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "signal_bot_total_score",
			Help: "Total score of the latest signal",
		},
		[]string{"symbol"},
	)

	atrValue = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "signal_bot_atr_value",
			Help: "ATR of the latest evaluation",
		},
		[]string{"symbol"},
	)

	providerErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signal_bot_provider_errors_total",
			Help: "Total number of market data provider errors",
		},
		[]string{"op"},
	)
)

func init() {
	prometheus.MustRegister(
		evaluationsTotal,
		evaluationDuration,
		signalConfidence,
		totalScore,
		atrValue,
		providerErrors,
	)
}

// RecordEvaluation updates all per-signal metrics.
func RecordEvaluation(output *signals.Output, seconds float64) {
	evaluationsTotal.WithLabelValues(output.Symbol, output.Direction.String()).Inc()
	evaluationDuration.WithLabelValues(output.Symbol).Observe(seconds)
	signalConfidence.WithLabelValues(output.Symbol).Set(output.Confidence)
	totalScore.WithLabelValues(output.Symbol).Set(float64(output.TotalScore))
	atrValue.WithLabelValues(output.Symbol).Set(output.ATRValue)
}

// RecordProviderError counts a provider failure.
func RecordProviderError(op string) {
	providerErrors.WithLabelValues(op).Inc()
}
