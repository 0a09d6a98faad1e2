package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domain "github.com/PabloIb21/teslo-orders-api/internal/entity"
)

type CreateOrderInput struct {
	UserID          string
	Items           []domain.LineItem
	ClaimedTotal    decimal.Decimal
	ShippingAddress domain.ShippingAddress
}

// CreateOrder owns the Unpaid half of the order lifecycle: verify pricing,
// persist, announce. Creation is deliberately not idempotent; a resubmission
// creates a new order, and payment idempotence is enforced at confirmation.
type CreateOrder struct {
	repo     OrderRepo
	verifier *PriceVerifier
	events   OrderEvents
	taxRate  decimal.Decimal
}

func NewCreateOrder(repo OrderRepo, verifier *PriceVerifier, events OrderEvents, taxRate float64) *CreateOrder {
	return &CreateOrder{
		repo:     repo,
		verifier: verifier,
		events:   events,
		taxRate:  decimal.NewFromFloat(taxRate),
	}
}

func (uc *CreateOrder) Execute(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	if in.UserID == "" {
		return nil, ErrUnauthorized
	}
	if len(in.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	for _, it := range in.Items {
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("%s: %w", it.ProductID, domain.ErrInvalidQuantity)
		}
	}

	totals, err := uc.verifier.Verify(ctx, in.Items, in.ClaimedTotal, uc.taxRate)
	if err != nil {
		return nil, err
	}

	numItems := 0
	for _, it := range in.Items {
		numItems += it.Quantity
	}

	order := &domain.Order{
		ID:              uuid.NewString(),
		UserID:          in.UserID,
		Items:           in.Items,
		NumberOfItems:   numItems,
		Subtotal:        totals.Subtotal,
		Tax:             totals.Tax,
		Total:           totals.Total,
		IsPaid:          false,
		ShippingAddress: in.ShippingAddress,
		CreatedAt:       time.Now().UTC(),
	}

	if err := uc.repo.Create(ctx, order); err != nil {
		return nil, upstream(err)
	}
	ordersCreated.Inc()

	// Best-effort: the order stands even if the broker is down.
	_ = uc.events.PublishCreated(ctx, OrderCreatedMsg{
		OrderID:       order.ID,
		UserID:        order.UserID,
		Total:         order.Total,
		NumberOfItems: order.NumberOfItems,
		CreatedAt:     order.CreatedAt,
	})

	return order, nil
}
