// Package metrics holds the prometheus collectors for client operations.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"

	// The ledger mined the transaction but its status is not successful.
	OutcomeReverted = "reverted"
)

// Metrics provides observability for ledger client operations. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	// Operation outcomes by operation and outcome
	Calls *prometheus.CounterVec

	// Round trip latency of dispatched operations
	Latency *prometheus.HistogramVec

	// Mutating calls refused on a read-only client
	WriteRejections *prometheus.CounterVec
}

// New registers the client metrics with reg. A nil registerer disables
// metrics and returns nil.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return nil
	}
	factory := promauto.With(reg)
	return &Metrics{
		Calls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "j832_client_calls_total",
			Help: "Total ledger client operations by operation and outcome",
		}, []string{"operation", "outcome"}), // outcome: "success", "rejected", "failed", "reverted"

		Latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "j832_client_call_duration_seconds",
			Help:    "Duration of ledger operations including receipt waiting for writes",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"operation"}),

		WriteRejections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "j832_client_write_rejections_total",
			Help: "Mutating operations refused because the client has no signing key",
		}, []string{"operation"}),
	}
}

// IncrementOutcome records the outcome of one operation.
func (m *Metrics) IncrementOutcome(operation, outcome string) {
	if m != nil {
		m.Calls.WithLabelValues(operation, outcome).Inc()
	}
}

// ObserveLatency records how long a dispatched operation took.
func (m *Metrics) ObserveLatency(operation string, d time.Duration) {
	if m != nil {
		m.Latency.WithLabelValues(operation).Observe(d.Seconds())
	}
}

func (m *Metrics) IncrementWriteRejection(operation string) {
	if m != nil {
		m.WriteRejections.WithLabelValues(operation).Inc()
	}
}
