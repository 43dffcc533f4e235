// Package metrics defines and registers all custom Prometheus metrics for the
// feedback portal. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation; /metrics serves them alongside echo's request metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// ── Backend metrics ───────────────────────────────────────────────────────────

// BackendRequestsTotal counts calls made to the feedback backend.
// Labels:
//   - endpoint: the route template (e.g. "/feedback/{id}")
//   - status: the HTTP status code, or "error" for transport failures
var BackendRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backend_requests_total",
		Help:      "Total number of requests sent to the feedback backend.",
	},
	[]string{"endpoint", "status"},
)

// BackendRequestDuration measures backend round trips.
var BackendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Duration of requests sent to the feedback backend.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"endpoint"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionInvalidationsTotal counts 401 responses that cleared a session.
var SessionInvalidationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_invalidations_total",
		Help:      "Total number of sessions cleared after an authorization failure.",
	},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ActiveSessions tracks sessions currently held by the registry.
var ActiveSessions = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_sessions",
		Help:      "Number of browser sessions held in memory.",
	},
)

// ── Feedback metrics ──────────────────────────────────────────────────────────

// FeedbackSubmissionsTotal counts feedback form submissions that reached the backend.
// Labels:
//   - sentiment: POSITIVE, NEUTRAL or NEGATIVE
//   - result: "success" or "failure"
var FeedbackSubmissionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feedback_submissions_total",
		Help:      "Total number of feedback submissions, by sentiment and result.",
	},
	[]string{"sentiment", "result"},
)

// AcknowledgementsTotal counts acknowledge actions.
// Label:
//   - result: "success" or "failure"
var AcknowledgementsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "acknowledgements_total",
		Help:      "Total number of feedback acknowledgements, by result.",
	},
	[]string{"result"},
)

// Result maps an error to the "result" label value.
func Result(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
