package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	domain "github.com/PabloIb21/teslo-orders-api/internal/entity"
)

func newConfirmFixture(t *testing.T) (*ConfirmPayment, *memOrderRepo, *memEvents, *domain.Order) {
	t.Helper()
	repo := newMemOrderRepo()
	events := &memEvents{}
	uc := NewConfirmPayment(repo, events, nil, "COMPLETED")

	order := &domain.Order{
		ID:            "order-1",
		UserID:        "user-1",
		Items:         []domain.LineItem{{ProductID: "P1", Quantity: 3}},
		NumberOfItems: 3,
		Subtotal:      dec("30.00"),
		Tax:           dec("4.50"),
		Total:         dec("34.50"),
		CreatedAt:     time.Now().UTC(),
	}
	if err := repo.Create(context.Background(), order); err != nil {
		t.Fatalf("seeding order: %v", err)
	}
	return uc, repo, events, order
}

func TestConfirmPaymentSettlesOrder(t *testing.T) {
	uc, repo, events, order := newConfirmFixture(t)

	got, err := uc.Execute(context.Background(), PaymentCapturedMsg{
		OrderID:       order.ID,
		TransactionID: "tx-1",
		Status:        "COMPLETED",
		Amount:        dec("34.50"),
	})
	if err != nil {
		t.Fatalf("Execute returned unexpected error: %v", err)
	}
	if !got.IsPaid {
		t.Error("order not marked paid")
	}
	if got.TransactionID != "tx-1" {
		t.Errorf("transactionId = %q, want tx-1", got.TransactionID)
	}
	if got.PaidAt == nil {
		t.Error("paidAt not set")
	}

	stored, _ := repo.GetByID(context.Background(), order.ID)
	if !stored.IsPaid || stored.TransactionID != "tx-1" {
		t.Errorf("stored order not settled: paid=%v tx=%q", stored.IsPaid, stored.TransactionID)
	}
	if len(events.paid) != 1 || events.paid[0].TransactionID != "tx-1" {
		t.Errorf("expected one order.paid event, got %+v", events.paid)
	}
}

func TestConfirmPaymentIsIdempotentPerTransaction(t *testing.T) {
	uc, _, events, order := newConfirmFixture(t)

	msg := PaymentCapturedMsg{
		OrderID:       order.ID,
		TransactionID: "tx-1",
		Status:        "COMPLETED",
		Amount:        dec("34.50"),
	}
	first, err := uc.Execute(context.Background(), msg)
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	second, err := uc.Execute(context.Background(), msg)
	if err != nil {
		t.Fatalf("repeat confirmation must not error, got %v", err)
	}
	if !second.IsPaid || second.TransactionID != "tx-1" {
		t.Errorf("repeat returned wrong order state: %+v", second)
	}
	if !first.PaidAt.Equal(*second.PaidAt) {
		t.Errorf("paidAt changed on repeat: %v vs %v", first.PaidAt, second.PaidAt)
	}
	if len(events.paid) != 1 {
		t.Errorf("repeat must not publish again, got %d events", len(events.paid))
	}
}

func TestConfirmPaymentRejectsSecondTransaction(t *testing.T) {
	uc, repo, _, order := newConfirmFixture(t)

	if _, err := uc.Execute(context.Background(), PaymentCapturedMsg{
		OrderID: order.ID, TransactionID: "tx-1", Status: "COMPLETED", Amount: dec("34.50"),
	}); err != nil {
		t.Fatalf("first Execute: %v", err)
	}

	_, err := uc.Execute(context.Background(), PaymentCapturedMsg{
		OrderID: order.ID, TransactionID: "tx-2", Status: "COMPLETED", Amount: dec("34.50"),
	})
	if !errors.Is(err, ErrAlreadyPaid) {
		t.Fatalf("Execute error = %v, want ErrAlreadyPaid", err)
	}

	stored, _ := repo.GetByID(context.Background(), order.ID)
	if stored.TransactionID != "tx-1" {
		t.Errorf("applied transaction changed to %q", stored.TransactionID)
	}
}

func TestConfirmPaymentRejectsUnsettledStatus(t *testing.T) {
	uc, repo, _, order := newConfirmFixture(t)

	for _, status := range []string{"SAVED", "APPROVED", "VOIDED", "PAYER_ACTION_REQUIRED", "completed"} {
		_, err := uc.Execute(context.Background(), PaymentCapturedMsg{
			OrderID: order.ID, TransactionID: "tx-1", Status: status, Amount: dec("34.50"),
		})
		if !errors.Is(err, ErrPaymentNotCompleted) {
			t.Errorf("status %q: error = %v, want ErrPaymentNotCompleted", status, err)
		}
	}
	stored, _ := repo.GetByID(context.Background(), order.ID)
	if stored.IsPaid {
		t.Error("order settled by a non-completed status")
	}
}

func TestConfirmPaymentRejectsAmountMismatch(t *testing.T) {
	uc, _, _, order := newConfirmFixture(t)

	_, err := uc.Execute(context.Background(), PaymentCapturedMsg{
		OrderID: order.ID, TransactionID: "tx-1", Status: "COMPLETED", Amount: dec("34.49"),
	})
	if !errors.Is(err, ErrAmountMismatch) {
		t.Fatalf("Execute error = %v, want ErrAmountMismatch", err)
	}
}

func TestConfirmPaymentUnknownOrder(t *testing.T) {
	uc, _, _, _ := newConfirmFixture(t)

	_, err := uc.Execute(context.Background(), PaymentCapturedMsg{
		OrderID: "ghost", TransactionID: "tx-1", Status: "COMPLETED", Amount: dec("34.50"),
	})
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("Execute error = %v, want ErrOrderNotFound", err)
	}
}

func TestConcurrentConfirmationsExactlyOneWins(t *testing.T) {
	uc, repo, _, order := newConfirmFixture(t)

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	start := make(chan struct{})
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = uc.Execute(context.Background(), PaymentCapturedMsg{
				OrderID:       order.ID,
				TransactionID: "tx-" + string(rune('a'+i)),
				Status:        "COMPLETED",
				Amount:        dec("34.50"),
			})
		}(i)
	}
	close(start)
	wg.Wait()

	wins := 0
	for i, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrAlreadyPaid):
		default:
			t.Errorf("attempt %d: unexpected error %v", i, err)
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly one winning confirmation, got %d", wins)
	}

	stored, _ := repo.GetByID(context.Background(), order.ID)
	if !stored.IsPaid || stored.TransactionID == "" {
		t.Errorf("order not settled exactly once: %+v", stored)
	}
}
