package allocation

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// ReservationsTotal counts reservation attempts by outcome and tier class.
	ReservationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "matchengine",
			Name:      "credit_reservations_total",
			Help:      "Total credit reservation attempts by outcome and tier class.",
		},
		[]string{"outcome", "tier_class"},
	)

	// OpsTotal counts ledger operations by type.
	OpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "matchengine",
			Name:      "ledger_operations_total",
			Help:      "Total credit ledger operations by type.",
		},
		[]string{"type"},
	)

	// OpDuration observes operation latency by type.
	OpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "matchengine",
			Name:      "ledger_operation_duration_seconds",
			Help:      "Credit ledger operation duration in seconds.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		},
		[]string{"type"},
	)
)

func init() {
	prometheus.MustRegister(ReservationsTotal, OpsTotal, OpDuration)
}

// observeOp records one ledger operation and returns a completion func
// that observes its duration.
func observeOp(op string) func() {
	start := time.Now()
	OpsTotal.WithLabelValues(op).Inc()
	return func() {
		OpDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}
}
