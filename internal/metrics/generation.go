package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Generation outcomes
const (
	GenerationSucceeded    = "success"
	GenerationMalformed    = "malformed"
	GenerationInvalidState = "invalid_state"
	GenerationFailed       = "error"
)

var (
	generationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "runs_total",
			Help:      "Code generation runs by outcome.",
		},
		[]string{"result"},
	)

	generationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "duration_seconds",
			Help:      "Code generation latency including lock wait and persistence.",
			Buckets:   prometheus.DefBuckets,
		},
	)

	generatedBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "output_bytes",
			Help:      "Size of generated output in bytes.",
			Buckets:   prometheus.ExponentialBuckets(64, 4, 8),
		},
	)
)

// ObserveGeneration records one generation run
func ObserveGeneration(result string, elapsed time.Duration, outputBytes int) {
	generationsTotal.WithLabelValues(result).Inc()
	generationDuration.Observe(elapsed.Seconds())
	if result == GenerationSucceeded {
		generatedBytes.Observe(float64(outputBytes))
	}
}
