// Package metrics defines and registers all custom Prometheus metrics for the
// space API. It is the single source of truth for metric names, labels and
// help strings. HTTP request metrics come from echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "space_api"

// ── Authorization metrics ─────────────────────────────────────────────────────

// AuthzDecisionsTotal counts authorization policy outcomes.
// Labels:
//   - operation: read, write, query, mutation or other
//   - resource: planets, moons, user or other
//   - decision: "allowed", "forbidden" or "unauthorized"
var AuthzDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_decisions_total",
		Help:      "Total number of authorization decisions, by operation, resource and outcome.",
	},
	[]string{"operation", "resource", "decision"},
)

// AuthFailuresTotal counts rejected credentials.
// Label:
//   - scheme: "basic", "bearer" or "none"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of requests rejected for missing or invalid credentials.",
	},
	[]string{"scheme"},
)

// ── Entity metrics ────────────────────────────────────────────────────────────

// EntityMutationsTotal counts successful writes.
// Labels:
//   - entity: "planet", "moon" or "user"
//   - action: "create", "update" or "delete"
var EntityMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "entity_mutations_total",
		Help:      "Total number of successful entity mutations.",
	},
	[]string{"entity", "action"},
)

// ── GraphQL metrics ───────────────────────────────────────────────────────────

// GraphQLFieldsTotal counts resolved root fields.
// Labels:
//   - field: root field name (e.g. "userById")
//   - outcome: "ok" or the error classification (e.g. "FORBIDDEN")
var GraphQLFieldsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "graphql_fields_total",
		Help:      "Total number of GraphQL root fields executed, by outcome.",
	},
	[]string{"field", "outcome"},
)

// ── Rate limiting ─────────────────────────────────────────────────────────────

// RateLimitedTotal counts requests rejected by the per-client limiter.
var RateLimitedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by the rate limiter.",
	},
)
