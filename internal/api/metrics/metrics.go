// Package metrics defines and registers all custom Prometheus metrics for the
// SalesTrack API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on package init
// (promauto) and scraped through GET /prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "salestrack"

// ── Auth metrics ──────────────────────────────────────────────────────────────

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

// AuthFailuresTotal counts requests rejected by the auth middleware.
// Label:
//   - reason: "missing_header", "malformed_header", "invalid_token", "invalidated", "error"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of requests rejected by token validation.",
	},
	[]string{"reason"},
)

// ── Analytics metrics ─────────────────────────────────────────────────────────

// AggregationDuration measures fetch plus aggregation time per request.
// Label:
//   - kind: "metrics", "period", or "charts"
var AggregationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "aggregation_duration_seconds",
		Help:      "Duration of sales fetch and aggregation.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"kind"},
)

// ── Sales metrics ─────────────────────────────────────────────────────────────

// SalesWrittenTotal counts successful writes to the sales ledger.
// Label:
//   - op: "create", "update", or "delete"
var SalesWrittenTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sales_written_total",
		Help:      "Total number of sales written, by operation.",
	},
	[]string{"op"},
)
