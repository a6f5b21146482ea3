package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StockCommandsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "store_stock_commands_applied_total",
		Help: "Stock commands applied to the ledger",
	}, []string{"command"})

	StockCommandsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "store_stock_commands_rejected_total",
		Help: "Stock commands rejected with insufficient stock",
	})

	PaymentsAuthorized = promauto.NewCounter(prometheus.CounterOpts{
		Name: "store_payments_authorized_total",
		Help: "Payment authorizations issued",
	})

	PaymentsDeclined = promauto.NewCounter(prometheus.CounterOpts{
		Name: "store_payments_declined_total",
		Help: "Payment authorizations declined",
	})

	OrderStatusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "store_order_status_transitions_total",
		Help: "Order status transitions observed by the coordinator",
	}, []string{"status"})

	MessagesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "store_messages_processed_total",
		Help: "Messages processed by the router, by result",
	}, []string{"result"})
)
