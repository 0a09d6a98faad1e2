package usecase

import (
	"context"
	"time"

	domain "github.com/PabloIb21/teslo-orders-api/internal/entity"
)

// ConfirmPayment reconciles a processor confirmation against one order and
// flips it to paid at most once per distinct transaction id, even under
// concurrent duplicate confirmations. The atomicity lives in the repo's
// conditional write; this use case only classifies its outcome.
type ConfirmPayment struct {
	repo          OrderRepo
	events        OrderEvents
	cache         StatusCache // optional
	settledStatus string
	now           func() time.Time
}

func NewConfirmPayment(repo OrderRepo, events OrderEvents, cache StatusCache, settledStatus string) *ConfirmPayment {
	return &ConfirmPayment{
		repo:          repo,
		events:        events,
		cache:         cache,
		settledStatus: settledStatus,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (uc *ConfirmPayment) Execute(ctx context.Context, in PaymentCapturedMsg) (*domain.Order, error) {
	order, err := uc.repo.GetByID(ctx, in.OrderID)
	if err != nil {
		return nil, upstream(err)
	}

	if order.IsPaid {
		if order.TransactionID == in.TransactionID {
			// Harmless repeat of an already-applied confirmation.
			return order, nil
		}
		return nil, ErrAlreadyPaid
	}

	if in.Status != uc.settledStatus {
		paymentsRejected.WithLabelValues("not_completed").Inc()
		return nil, ErrPaymentNotCompleted
	}
	if !in.Amount.Round(2).Equal(order.Total) {
		paymentsRejected.WithLabelValues("amount_mismatch").Inc()
		return nil, ErrAmountMismatch
	}

	paidAt := uc.now()
	applied, err := uc.repo.MarkPaid(ctx, order.ID, in.TransactionID, paidAt)
	if err != nil {
		return nil, upstream(err)
	}
	if !applied {
		// Lost the race: another confirmation settled the order between our
		// read and the conditional write. Re-read and re-classify.
		current, err := uc.repo.GetByID(ctx, order.ID)
		if err != nil {
			return nil, upstream(err)
		}
		if current.IsPaid && current.TransactionID == in.TransactionID {
			return current, nil
		}
		return nil, ErrAlreadyPaid
	}

	order.IsPaid = true
	order.TransactionID = in.TransactionID
	order.PaidAt = &paidAt
	paymentsApplied.Inc()

	if uc.cache != nil {
		_ = uc.cache.SetStatus(ctx, order.ID, domain.StatusPaid)
	}
	_ = uc.events.PublishPaid(ctx, OrderPaidMsg{
		OrderID:       order.ID,
		UserID:        order.UserID,
		TransactionID: order.TransactionID,
		Total:         order.Total,
		PaidAt:        paidAt,
	})

	return order, nil
}
