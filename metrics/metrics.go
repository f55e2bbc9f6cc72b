// Package metrics exposes Prometheus counters for signal evaluation.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds only momentum metrics, so /metrics stays free of
	// whatever else the process registers globally.
	Registry = prometheus.NewRegistry()

	FramesEvaluated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "momentum_frames_evaluated_total",
			Help: "Frames run through the indicator and signal steps (by strategy).",
		},
		[]string{"strategy"},
	)

	Signals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "momentum_signals_total",
			Help: "Rows with a signal set, after warm-up (by signal).",
		},
		[]string{"signal"},
	)

	EvaluationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "momentum_evaluation_seconds",
			Help:    "Time to populate one frame.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		},
	)

	FrameErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "momentum_frame_errors_total",
			Help: "Frames whose evaluation returned an error.",
		},
	)
)

func init() {
	Registry.MustRegister(FramesEvaluated, Signals, EvaluationSeconds, FrameErrors)
}

// ObserveFrame records one successful evaluation.
func ObserveFrame(strategy string, took time.Duration, counts map[string]int) {
	FramesEvaluated.WithLabelValues(strategy).Inc()
	EvaluationSeconds.Observe(took.Seconds())
	for sig, n := range counts {
		Signals.WithLabelValues(sig).Add(float64(n))
	}
}

// Handler serves the momentum registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
