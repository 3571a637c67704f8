package metrics

import (
	"strings"
	"time"

	apperrors "github.com/nikolayk812/sessioncart/internal/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

const namespace = "cart"

// CartMetrics records cart operation outcomes. A nil *CartMetrics is a no-op.
type CartMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	checkouts  *prometheus.CounterVec
	revenue    *prometheus.CounterVec
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}

	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "operations_total",
		Help:      "Cart service operations by outcome.",
	}, []string{"operation", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "operation_duration_seconds",
		Help:      "Duration of cart service operations in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkouts_total",
		Help:      "Completed checkouts.",
	}, []string{"currency"})
	revenue := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkout_amount_total",
		Help:      "Sum of checked out totals in major currency units.",
	}, []string{"currency"})

	reg.MustRegister(operations, duration, checkouts, revenue)

	return &CartMetrics{
		operations: operations,
		duration:   duration,
		checkouts:  checkouts,
		revenue:    revenue,
	}
}

// ObserveOperation records one operation and labels its outcome with the
// error code, "ok" on success.
func (m *CartMetrics) ObserveOperation(operation string, took time.Duration, err error) {
	if m == nil || m.operations == nil {
		return
	}

	outcome := "ok"
	if err != nil {
		outcome = strings.ToLower(string(apperrors.CodeOf(err)))
	}

	m.operations.WithLabelValues(operation, outcome).Inc()
	m.duration.WithLabelValues(operation).Observe(took.Seconds())
}

func (m *CartMetrics) ObserveCheckout(cur string, amount decimal.Decimal) {
	if m == nil || m.checkouts == nil {
		return
	}

	m.checkouts.WithLabelValues(cur).Inc()
	m.revenue.WithLabelValues(cur).Add(amount.InexactFloat64())
}
