// Package metrics defines and registers all custom Prometheus metrics for the
// booking API. It is the single source of truth for metric names, labels and
// help strings.
//
// Metrics are registered with the default Prometheus registry on package
// init via promauto; /metrics exposes them alongside the echo request metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "booking"

// ── Appointment metrics ───────────────────────────────────────────────────────

// AppointmentsCreatedTotal counts newly booked appointments.
// Label:
//   - type: "consultation" or "test"
var AppointmentsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "appointments_created_total",
		Help:      "Total number of appointments created, by type.",
	},
	[]string{"type"},
)

// AppointmentsCancelledTotal counts cancellations.
var AppointmentsCancelledTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "appointments_cancelled_total",
		Help:      "Total number of appointments cancelled.",
	},
)

// SlotConflictsTotal counts bookings rejected because the doctor slot was
// already held.
var SlotConflictsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "slot_conflicts_total",
		Help:      "Total number of bookings rejected with a slot conflict.",
	},
)

// ── Payment metrics ───────────────────────────────────────────────────────────

// PaymentsTotal counts payment outcomes.
// Label:
//   - result: "completed", "failed", "refunded" or "order_created"
var PaymentsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payments_total",
		Help:      "Total number of payment operations, by result.",
	},
	[]string{"result"},
)

// GatewayRequestsTotal counts calls to the payment gateway.
// Labels:
//   - operation: "create_order" or "refund"
//   - outcome: "ok" or "error"
var GatewayRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gateway_requests_total",
		Help:      "Total number of payment gateway requests.",
	},
	[]string{"operation", "outcome"},
)

// GatewayRequestDuration measures payment gateway latency.
var GatewayRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "gateway_request_duration_seconds",
		Help:      "Duration of payment gateway requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation"},
)

// ── Webhook metrics ───────────────────────────────────────────────────────────

// WebhooksReceivedTotal counts webhook deliveries at the HTTP edge.
// Label:
//   - result: "accepted", "invalid_signature" or "invalid_payload"
var WebhooksReceivedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "webhooks_received_total",
		Help:      "Total number of gateway webhooks received, by result.",
	},
	[]string{"result"},
)

// WebhookQueueDepth tracks the number of events waiting in each dispatcher
// worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var WebhookQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "webhook_queue_depth",
		Help:      "Current number of webhook events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// WebhookProcessingDuration measures how long a single webhook event takes to
// process after dequeue.
// Label:
//   - outcome: "ok" or "error"
var WebhookProcessingDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "webhook_processing_duration_seconds",
		Help:      "Duration of webhook processing from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"outcome"},
)

// ── Event bus metrics ─────────────────────────────────────────────────────────

// EventsPublishedTotal counts domain events handed to the event bus.
// Labels:
//   - topic: event topic (e.g. "appointment.created")
//   - outcome: "ok" or "error"
var EventsPublishedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_published_total",
		Help:      "Total number of domain events published, by topic and outcome.",
	},
	[]string{"topic", "outcome"},
)

// Outcome maps an error to the "ok"/"error" label value.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
