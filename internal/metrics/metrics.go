// Package metrics exposes Prometheus instruments for the payment lifecycle.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "carmarket"

// Metrics groups the payment instruments registered on one registry
type Metrics struct {
	PaymentsCreated     *prometheus.CounterVec
	Reconciliations     *prometheus.CounterVec
	GatewayDuration     *prometheus.HistogramVec
	ReferenceCollisions prometheus.Counter
}

// New registers the payment instruments on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		PaymentsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payments_created_total",
			Help:      "Payment create attempts by outcome.",
		}, []string{"outcome"}),
		Reconciliations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_reconciliations_total",
			Help:      "Payment verifications by resulting status.",
		}, []string{"result"}),
		GatewayDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "gateway_request_duration_seconds",
			Help:      "Latency of payment provider calls.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"operation", "outcome"}),
		ReferenceCollisions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transaction_reference_collisions_total",
			Help:      "Inserts rejected because the generated transaction reference already existed.",
		}),
	}
}

// ObserveGateway records one provider call that started at start.
func (m *Metrics) ObserveGateway(operation, outcome string, start time.Time) {
	m.GatewayDuration.WithLabelValues(operation, outcome).Observe(time.Since(start).Seconds())
}
