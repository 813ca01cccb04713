package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the conflict check path.
type Metrics struct {
	// Checks by result source ("db" or "fallback")
	ChecksTotal *prometheus.CounterVec

	// Hits by match kind
	HitsTotal *prometheus.CounterVec

	// Full check latency including the store snapshot read
	CheckLatency prometheus.Histogram
}

// New creates a Metrics instance with all conflict check metrics registered.
func New() *Metrics {
	return &Metrics{
		ChecksTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "clawyer_conflict_checks_total",
			Help: "Total conflict checks by result source",
		}, []string{"source"}),

		HitsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "clawyer_conflict_hits_total",
			Help: "Total conflict hits by match kind",
		}, []string{"kind"}),

		CheckLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "clawyer_conflict_check_duration_seconds",
			Help:    "Duration of conflict checks including the snapshot read",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
	}
}

// IncrementCheck records a completed check and its source.
func (m *Metrics) IncrementCheck(source string) {
	if m != nil {
		m.ChecksTotal.WithLabelValues(source).Inc()
	}
}

// IncrementHit records one returned hit of the given kind.
func (m *Metrics) IncrementHit(kind string) {
	if m != nil {
		m.HitsTotal.WithLabelValues(kind).Inc()
	}
}

// ObserveCheckLatency records the total check duration.
func (m *Metrics) ObserveCheckLatency(d time.Duration) {
	if m != nil {
		m.CheckLatency.Observe(d.Seconds())
	}
}
