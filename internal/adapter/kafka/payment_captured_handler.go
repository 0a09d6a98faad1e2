package kafka

import (
	"context"
	"errors"
	"log/slog"

	"github.com/PabloIb21/teslo-orders-api/internal/usecase"
)

// PaymentCapturedHandler feeds processor capture notifications into the same
// reconciliation path the HTTP surface uses. The conditional write underneath
// makes redelivered notifications harmless.
type PaymentCapturedHandler struct {
	confirm *usecase.ConfirmPayment
	log     *slog.Logger
}

func NewPaymentCapturedHandler(confirm *usecase.ConfirmPayment, log *slog.Logger) *PaymentCapturedHandler {
	return &PaymentCapturedHandler{confirm: confirm, log: log}
}

func (h *PaymentCapturedHandler) Handle(ctx context.Context, msg usecase.PaymentCapturedMsg) error {
	_, err := h.confirm.Execute(ctx, msg)
	if err == nil {
		return nil
	}

	// Only transient failures should block the partition; a confirmation the
	// engine rejected will be rejected again on every retry.
	if errors.Is(err, usecase.ErrUpstreamUnavailable) {
		return err
	}

	h.log.Warn("capture notification rejected",
		"order_id", msg.OrderID,
		"transaction_id", msg.TransactionID,
		"status", msg.Status,
		"err", err)
	return nil
}
