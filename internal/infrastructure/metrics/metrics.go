package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Transaction metrics
	TransactionsCreated prometheus.Counter
	TransactionsEdited  prometheus.Counter
	TransactionsDeleted prometheus.Counter
	BalanceRejections   *prometheus.CounterVec
	ConflictRetries     *prometheus.CounterVec
	OperationDuration   *prometheus.HistogramVec
	OperationErrors     *prometheus.CounterVec

	// Account metrics
	AccountsCreated prometheus.Counter
	AccountsDeleted prometheus.Counter
	BalanceDrift    prometheus.Counter

	// Reconciliation metrics
	ReconciliationDiscrepancies prometheus.Gauge
}

// New creates all metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		TransactionsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "fintech_transactions_created_total",
			Help: "Total number of transactions created",
		}),
		TransactionsEdited: factory.NewCounter(prometheus.CounterOpts{
			Name: "fintech_transactions_edited_total",
			Help: "Total number of transactions edited",
		}),
		TransactionsDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "fintech_transactions_deleted_total",
			Help: "Total number of transactions deleted",
		}),
		BalanceRejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fintech_balance_rejections_total",
				Help: "Mutations rejected because the balance would go below zero",
			},
			[]string{"operation"},
		),
		ConflictRetries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fintech_conflict_retries_total",
				Help: "Units of work aborted by a concurrent write and retried",
			},
			[]string{"operation"},
		),
		OperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fintech_operation_duration_seconds",
				Help:    "Duration of ledger operations including retries",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		OperationErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fintech_operation_errors_total",
				Help: "Ledger operations that returned an error, by kind",
			},
			[]string{"operation", "kind"},
		),
		AccountsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "fintech_accounts_created_total",
			Help: "Total number of accounts created",
		}),
		AccountsDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "fintech_accounts_deleted_total",
			Help: "Total number of accounts deleted",
		}),
		BalanceDrift: factory.NewCounter(prometheus.CounterOpts{
			Name: "fintech_balance_drift_total",
			Help: "Cached balances found out of sync with their active transactions",
		}),
		ReconciliationDiscrepancies: factory.NewGauge(prometheus.GaugeOpts{
			Name: "fintech_reconciliation_discrepancies",
			Help: "Accounts with a discrepancy in the last reconciliation report",
		}),
	}
}
