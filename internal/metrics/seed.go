package metrics

import "github.com/prometheus/client_golang/prometheus"

// Seed load Prometheus metrics.
var (
	SeedShapesLoadedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "georef",
			Name:      "seed_shapes_loaded_total",
			Help:      "Total number of shapes loaded from the snapshot",
		},
	)

	SeedDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "georef",
			Name:      "seed_duration_seconds",
			Help:      "Snapshot load duration in seconds",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
	)
)

var seedMetricsRegistered bool

// RegisterSeedMetrics registers Prometheus seed metrics. Must be called once from main.
func RegisterSeedMetrics() {
	if seedMetricsRegistered {
		return
	}
	prometheus.MustRegister(SeedShapesLoadedTotal)
	prometheus.MustRegister(SeedDuration)
	seedMetricsRegistered = true
}
