package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the matter intake gate.
type Metrics struct {
	// Matter creation attempts by outcome ("created", "blocked", "declined", "error")
	MattersTotal *prometheus.CounterVec

	// Recorded clearance decisions by disposition
	ClearancesTotal *prometheus.CounterVec
}

// New creates a Metrics instance with all intake metrics registered.
func New() *Metrics {
	return &Metrics{
		MattersTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "clawyer_matters_total",
			Help: "Total matter creation attempts by outcome",
		}, []string{"outcome"}),

		ClearancesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "clawyer_clearances_total",
			Help: "Total recorded clearance decisions by disposition",
		}, []string{"disposition"}),
	}
}

// IncrementMatter records one matter creation attempt and its outcome.
func (m *Metrics) IncrementMatter(outcome string) {
	if m != nil {
		m.MattersTotal.WithLabelValues(outcome).Inc()
	}
}

// IncrementClearance records one reviewer decision.
func (m *Metrics) IncrementClearance(disposition string) {
	if m != nil {
		m.ClearancesTotal.WithLabelValues(disposition).Inc()
	}
}
