package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TxStatusTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nexushub",
		Subsystem: "tx",
		Name:      "status_total",
		Help:      "Transaction status transitions by resulting status",
	}, []string{"status"})

	NotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nexushub",
		Name:      "notifications_total",
		Help:      "Notifications added to the queue by type",
	}, []string{"type"})

	BalanceChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nexushub",
		Subsystem: "balance",
		Name:      "checks_total",
		Help:      "Balance gate outcomes",
	}, []string{"result"})

	BalanceFetchErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "nexushub",
		Subsystem: "balance",
		Name:      "fetch_errors_total",
		Help:      "Failed balance refreshes",
	})
)

// Balance gate result labels.
const (
	CheckPassed        = "passed"
	CheckDisconnected  = "disconnected"
	CheckNotLoaded     = "not_loaded"
	CheckInvalidAmount = "invalid_amount"
	CheckInsufficient  = "insufficient"
)
