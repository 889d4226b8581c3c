// Package metrics defines all custom Prometheus metrics for the expense
// tracker API. It is the single source of truth for metric names, labels,
// and help strings. Metrics register themselves with the default registry
// via promauto at package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "expense_tracker"

// UsersRegisteredTotal counts successfully created accounts.
var UsersRegisteredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_registered_total",
		Help:      "Total number of accounts registered.",
	},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// ExpensesCreatedTotal counts persisted expenses.
// Label:
//   - category: the trimmed expense category as supplied by the owner
var ExpensesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "expenses_created_total",
		Help:      "Total number of expenses created, by category.",
	},
	[]string{"category"},
)

// ExpensesDeletedTotal counts expenses removed by their owner.
var ExpensesDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "expenses_deleted_total",
		Help:      "Total number of expenses deleted.",
	},
)

// ListCacheTotal counts expense list cache lookups.
// Label:
//   - result: "hit" (served from Redis) or "miss" (fell through to the store)
var ListCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "list_cache_total",
		Help:      "Total number of expense list cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)
