package usecase

import (
	"time"

	"github.com/shopspring/decimal"
)

// Published on RabbitMQ after an order is persisted.
type OrderCreatedMsg struct {
	OrderID       string          `json:"orderId"`
	UserID        string          `json:"userId"`
	Total         decimal.Decimal `json:"total"`
	NumberOfItems int             `json:"numberOfItems"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// Published on RabbitMQ after a confirmation settles an order.
type OrderPaidMsg struct {
	OrderID       string          `json:"orderId"`
	UserID        string          `json:"userId"`
	TransactionID string          `json:"transactionId"`
	Total         decimal.Decimal `json:"total"`
	PaidAt        time.Time       `json:"paidAt"`
}

// Consumed from Kafka: the payment processor's capture notification relayed
// by the webhook gateway.
type PaymentCapturedMsg struct {
	OrderID       string          `json:"orderId"`
	TransactionID string          `json:"transactionId"`
	Status        string          `json:"status"`
	Amount        decimal.Decimal `json:"amount"`
}
