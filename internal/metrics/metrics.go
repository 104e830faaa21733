package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TransactionsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "txdash_transactions_processed_total",
		Help: "Total number of transactions fully processed by the event processor.",
	})

	TransactionsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "txdash_transactions_dropped_total",
		Help: "Total number of transactions dropped as duplicates or malformed.",
	})

	TransactionsBroadcast = promauto.NewCounter(prometheus.CounterOpts{
		Name: "txdash_transactions_broadcast_total",
		Help: "Total number of transaction messages written to WebSocket clients.",
	})

	TransactionsFlagged = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "txdash_transactions_flagged_total",
		Help: "Total number of transactions flagged by fraud rules, labelled by reason.",
	}, []string{"reason"})

	WebSocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "txdash_websocket_clients",
		Help: "Current number of connected WebSocket clients.",
	})

	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "txdash_login_attempts_total",
		Help: "Total number of login attempts, labelled by outcome.",
	}, []string{"outcome"})
)
