package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusUnpaid Status = "UNPAID"
	StatusPaid   Status = "PAID"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrNegativeAmount  = errors.New("money amounts must be non-negative")
	ErrTotalInvariant  = errors.New("total must equal subtotal plus tax")
)

// LineItem is one entry in an order. UnitPrice is the client-claimed price,
// kept only for display reconciliation; totals are always computed from the
// catalog. Duplicate product ids are allowed and summed independently.
type LineItem struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	Size      string          `json:"size,omitempty"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// ShippingAddress is an opaque snapshot taken at checkout time.
type ShippingAddress struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address   string `json:"address"`
	Address2  string `json:"address2,omitempty"`
	Zip       string `json:"zip"`
	City      string `json:"city"`
	Country   string `json:"country"`
	Phone     string `json:"phone"`
}

type Order struct {
	ID              string          `json:"id"`
	UserID          string          `json:"userId"`
	Items           []LineItem      `json:"items"`
	NumberOfItems   int             `json:"numberOfItems"`
	Subtotal        decimal.Decimal `json:"subTotal"`
	Tax             decimal.Decimal `json:"tax"`
	Total           decimal.Decimal `json:"total"`
	IsPaid          bool            `json:"isPaid"`
	TransactionID   string          `json:"transactionId,omitempty"`
	PaidAt          *time.Time      `json:"paidAt,omitempty"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// Status derives the lifecycle state from the paid flag. UNPAID is the initial
// state; PAID is terminal and reached exactly once.
func (o *Order) Status() Status {
	if o.IsPaid {
		return StatusPaid
	}
	return StatusUnpaid
}

// Validate checks the money invariants that must hold for every stored order.
func (o *Order) Validate() error {
	for _, it := range o.Items {
		if it.Quantity <= 0 {
			return ErrInvalidQuantity
		}
	}
	if o.Subtotal.IsNegative() || o.Tax.IsNegative() || o.Total.IsNegative() {
		return ErrNegativeAmount
	}
	if !o.Total.Equal(o.Subtotal.Add(o.Tax).Round(2)) {
		return ErrTotalInvariant
	}
	return nil
}
