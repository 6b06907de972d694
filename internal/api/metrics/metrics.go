// Package metrics defines the custom Prometheus metrics of the diario API.
// It is the single source of truth for metric names, labels, and help
// strings; request-level metrics come from the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "diario"

// LoginsTotal counts authentication attempts.
// Label:
//   - result: "success" or "invalid"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenRejectionsTotal counts session tokens refused by the auth gate.
// Label:
//   - reason: "invalid", "expired", or "account_missing"
var TokenRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_rejections_total",
		Help:      "Total number of rejected session tokens, by reason.",
	},
	[]string{"reason"},
)

// DiariosCreatedTotal counts successfully persisted logbook records.
var DiariosCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "diarios_created_total",
		Help:      "Total number of diarios created.",
	},
)

// DiariosDeletedTotal counts removed logbook records.
var DiariosDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "diarios_deleted_total",
		Help:      "Total number of diarios deleted.",
	},
)
