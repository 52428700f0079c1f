// Package metrics defines the custom Prometheus metrics of the shop API.
// HTTP request metrics come from echoprometheus; the ones here cover the
// authentication core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "shop"

// ── Authentication ────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts primary logins.
// Labels:
//   - result: "success" or the failure class ("bad_credentials", "user_not_found", "parse_error", "error")
//   - mode: "jwt" or "session"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of primary login attempts.",
	},
	[]string{"result", "mode"},
)

// TokenRefreshesTotal counts refresh flows by result.
var TokenRefreshesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refreshes_total",
		Help:      "Total number of access token refresh attempts.",
	},
	[]string{"result"},
)

// ServiceCookiesIssuedTotal counts swagger_id cookies handed to developers.
var ServiceCookiesIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "service_cookies_issued_total",
		Help:      "Total number of documentation service cookies issued.",
	},
)

// ── Authorization ─────────────────────────────────────────────────────────────

// PolicyDenialsTotal counts requests rejected by the access policy.
// Label:
//   - status: "401" (no principal) or "403" (insufficient role)
var PolicyDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "policy_denials_total",
		Help:      "Total number of requests denied by the access policy.",
	},
	[]string{"status"},
)

// ── Audit ─────────────────────────────────────────────────────────────────────

// AuditEventsDroppedTotal counts audit events lost to a full worker queue.
var AuditEventsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_dropped_total",
		Help:      "Total number of auth audit events dropped because the queue was full.",
	},
)

// ── Orders ────────────────────────────────────────────────────────────────────

// OrdersCreatedTotal counts placed orders by currency.
var OrdersCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Total number of orders placed, by currency.",
	},
	[]string{"currency"},
)
