package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PaymentMetrics records confirmation outcomes and gateway latency.
type PaymentMetrics struct {
	gatewayDuration *prometheus.HistogramVec
	confirmations   *prometheus.CounterVec
	failures        *prometheus.CounterVec
	ordersCreated   *prometheus.CounterVec
}

// NewPaymentMetrics registers the payment metrics on the provided registerer.
func NewPaymentMetrics(reg prometheus.Registerer) *PaymentMetrics {
	if reg == nil {
		return &PaymentMetrics{}
	}
	gatewayDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "payment_gateway_duration_seconds",
		Help:    "Duration of payment gateway calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"gateway", "operation"})
	confirmations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_confirmations_total",
		Help: "Payment confirmations by gateway and outcome.",
	}, []string{"gateway", "outcome"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_failures_total",
		Help: "Recorded payment failures by gateway and error code.",
	}, []string{"gateway", "error_code"})
	ordersCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders created by payment method.",
	}, []string{"payment_method"})
	reg.MustRegister(gatewayDuration, confirmations, failures, ordersCreated)
	return &PaymentMetrics{
		gatewayDuration: gatewayDuration,
		confirmations:   confirmations,
		failures:        failures,
		ordersCreated:   ordersCreated,
	}
}

// ObserveGateway records the duration for a gateway call.
func (p *PaymentMetrics) ObserveGateway(gateway, operation string, duration time.Duration) {
	if p == nil || p.gatewayDuration == nil {
		return
	}
	p.gatewayDuration.WithLabelValues(normalizeLabel(gateway), normalizeLabel(operation)).Observe(duration.Seconds())
}

// IncConfirmation counts one confirmation outcome for the gateway.
func (p *PaymentMetrics) IncConfirmation(gateway, outcome string) {
	if p == nil || p.confirmations == nil {
		return
	}
	p.confirmations.WithLabelValues(normalizeLabel(gateway), normalizeLabel(outcome)).Inc()
}

// IncFailure counts one recorded payment failure.
func (p *PaymentMetrics) IncFailure(gateway, errorCode string) {
	if p == nil || p.failures == nil {
		return
	}
	p.failures.WithLabelValues(normalizeLabel(gateway), normalizeLabel(errorCode)).Inc()
}

// IncOrderCreated counts one created order for the payment method.
func (p *PaymentMetrics) IncOrderCreated(method string) {
	if p == nil || p.ordersCreated == nil {
		return
	}
	p.ordersCreated.WithLabelValues(normalizeLabel(method)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
