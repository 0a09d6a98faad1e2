package usecase

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ordersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders persisted in the unpaid state",
	})

	paymentsApplied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payments_applied_total",
		Help: "Payment confirmations that settled an order",
	})

	paymentsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_rejected_total",
		Help: "Payment confirmations rejected before settling",
	}, []string{"reason"})
)
