// Package metrics defines and registers all custom Prometheus metrics for
// the ledger API. It is the single source of truth for metric names, labels,
// and help strings. Metrics register with the default registry at init and
// are exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ledger"

// MovementsTotal counts committed ledger movements.
// Label:
//   - kind: "DEPOSIT" or "WITHDRAWAL"
var MovementsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "movements_total",
		Help:      "Total number of committed ledger movements, by kind.",
	},
	[]string{"kind"},
)

// MovementErrorsTotal counts movements that were rejected or failed.
// Label:
//   - reason: "insufficient_funds" or "transaction_failed"
var MovementErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "movement_errors_total",
		Help:      "Total number of rejected or failed movements, by reason.",
	},
	[]string{"reason"},
)

// AccountsCreatedTotal counts successfully opened accounts.
var AccountsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "accounts_created_total",
		Help:      "Total number of accounts created.",
	},
)

// AccountsDeletedTotal counts deleted accounts.
var AccountsDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "accounts_deleted_total",
		Help:      "Total number of accounts deleted.",
	},
)

// AuthFailuresTotal counts requests that could not be authenticated.
// Label:
//   - reason: "invalid_token" or "unknown_user"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of failed credential resolutions, by reason.",
	},
	[]string{"reason"},
)
