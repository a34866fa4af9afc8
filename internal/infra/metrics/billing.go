package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		checkoutsTotal,
		webhookOutcomesTotal,
		providerCallLatencyMs,
		reconciliationGapsTotal,
	)
}

var (
	checkoutsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "billing_checkouts_total",
			Help: "Checkout initiations by result (ok/invalid/upstream_error).",
		},
		[]string{"result"},
	)

	webhookOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "billing_webhook_outcomes_total",
			Help: "Payment webhook deliveries by provisioning outcome.",
		},
		[]string{"outcome"},
	)

	providerCallLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "billing_provider_call_latency_ms",
			Help:    "Payment provider call latency distribution in milliseconds.",
			Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000},
		},
		[]string{"op", "success"},
	)

	reconciliationGapsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "billing_reconciliation_gaps_total",
			Help: "Payments captured whose subscription creation failed; each needs manual follow-up.",
		},
	)
)

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func IncCheckout(result string) {
	checkoutsTotal.WithLabelValues(norm(result)).Inc()
}

func IncWebhookOutcome(outcome string) {
	webhookOutcomesTotal.WithLabelValues(norm(outcome)).Inc()
}

func ObserveProviderCall(op string, latencyMs int64, success bool) {
	s := "false"
	if success {
		s = "true"
	}
	providerCallLatencyMs.WithLabelValues(norm(op), s).Observe(float64(latencyMs))
}

func IncReconciliationGap() {
	reconciliationGapsTotal.Inc()
}
