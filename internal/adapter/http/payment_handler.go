package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/PabloIb21/teslo-orders-api/internal/logging"
	"github.com/PabloIb21/teslo-orders-api/internal/usecase"
)

type PaymentHandler struct {
	confirm *usecase.ConfirmPayment
}

func NewPaymentHandler(confirm *usecase.ConfirmPayment) *PaymentHandler {
	return &PaymentHandler{confirm: confirm}
}

type confirmPaymentReq struct {
	OrderID       string          `json:"orderId" binding:"required"`
	TransactionID string          `json:"transactionId" binding:"required"`
	Status        string          `json:"status" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
}

// ConfirmPayment handles the client-side confirmation posted after the
// processor's checkout flow reports a capture.
func (h *PaymentHandler) ConfirmPayment(c *gin.Context) {
	var req confirmPaymentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	order, err := h.confirm.Execute(ctx, usecase.PaymentCapturedMsg{
		OrderID:       req.OrderID,
		TransactionID: req.TransactionID,
		Status:        req.Status,
		Amount:        req.Amount,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// Webhook handles the processor's server-to-server capture notification.
// Signature verification happens in middleware before this runs; a repeated
// delivery for an already-applied transaction is answered 200.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	var msg usecase.PaymentCapturedMsg
	if err := c.ShouldBindJSON(&msg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	order, err := h.confirm.Execute(ctx, msg)
	if err != nil {
		logging.From(c).Warn("webhook confirmation rejected",
			"order_id", msg.OrderID, "transaction_id", msg.TransactionID, "err", err)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"orderId": order.ID, "isPaid": order.IsPaid})
}
