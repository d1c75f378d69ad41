// Package metrics defines all custom Prometheus metrics for the
// SponsorFinder API. It is the single source of truth for metric names,
// labels, and help strings; the default registry is used, so import order is
// the only registration step.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "sponsorfinder"

// WebhookEventsTotal counts inbound payment-provider webhook deliveries.
// Labels:
//   - type: the provider event type (e.g. "checkout.session.completed")
//   - result: "processed", "duplicate", "ignored", or "error"
var WebhookEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "webhook_events_total",
		Help:      "Total number of payment webhook deliveries, by event type and result.",
	},
	[]string{"type", "result"},
)

// WebhookDedupTotal counts event-id deduplication decisions.
// Label:
//   - result: "hit" (duplicate, skipped), "miss" (new event, processed),
//     or "error" (lookup failed, processed anyway)
var WebhookDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "webhook_dedup_total",
		Help:      "Total number of webhook deduplication checks, labelled by result (hit/miss/error).",
	},
	[]string{"result"},
)

// PremiumActivationsTotal counts premium grants by reconciliation path.
// Label:
//   - path: "activated", "user_created", or "sweep"
var PremiumActivationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "premium_activations_total",
		Help:      "Total number of premium entitlement grants, by reconciliation path.",
	},
	[]string{"path"},
)

// PendingPaymentsCreatedTotal counts deferred activations: payments recorded
// before any matching account existed.
var PendingPaymentsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pending_payments_created_total",
		Help:      "Total number of pending premium payment rows created.",
	},
)

// CheckoutSessionsCreatedTotal counts checkout sessions handed to browsers.
var CheckoutSessionsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkout_sessions_created_total",
		Help:      "Total number of payment checkout sessions created.",
	},
)
