package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for reindex runs.
type Metrics struct {
	// Runs by outcome ("success" or "error")
	RunsTotal *prometheus.CounterVec

	// Parties seeded by the most recent run
	SeededParties prometheus.Gauge

	// Full run duration, reset through last seed
	RunDuration prometheus.Histogram
}

// New creates a Metrics instance with all reindex metrics registered.
func New() *Metrics {
	return &Metrics{
		RunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "clawyer_reindex_runs_total",
			Help: "Total reindex runs by outcome",
		}, []string{"status"}),

		SeededParties: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "clawyer_reindex_seeded_parties",
			Help: "Parties seeded by the most recent reindex run",
		}),

		RunDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "clawyer_reindex_run_duration_seconds",
			Help:    "Duration of full reindex runs",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}
}

// ObserveRun records one completed run.
func (m *Metrics) ObserveRun(status string, seeded int, d time.Duration) {
	if m != nil {
		m.RunsTotal.WithLabelValues(status).Inc()
		m.SeededParties.Set(float64(seeded))
		m.RunDuration.Observe(d.Seconds())
	}
}
