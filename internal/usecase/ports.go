package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	domain "github.com/PabloIb21/teslo-orders-api/internal/entity"
)

// OrderSummary is the flattened row for the admin maintenance listing.
type OrderSummary struct {
	ID            string          `json:"id"`
	UserEmail     string          `json:"email"`
	UserName      string          `json:"name"`
	Total         decimal.Decimal `json:"total"`
	IsPaid        bool            `json:"isPaid"`
	NumberOfItems int             `json:"noProducts"`
	CreatedAt     time.Time       `json:"createdAt"`
}

type OrderRepo interface {
	Create(ctx context.Context, o *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]OrderSummary, error)

	// MarkPaid applies the paid state iff the order is still unpaid.
	// Returns false when the conditional write matched no row, either because
	// the order is gone or because another confirmation won the race.
	MarkPaid(ctx context.Context, id, transactionID string, paidAt time.Time) (bool, error)
}

// PriceSource is the catalog price lookup. PricesByID resolves authoritative
// unit prices for a batch of distinct product ids; ids without a price record
// are simply absent from the result.
type PriceSource interface {
	PricesByID(ctx context.Context, ids []string) (map[string]decimal.Decimal, error)
}

type CatalogRepo interface {
	PriceSource
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
}

type UserRepo interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// OrderEvents publishes lifecycle events. Publishing is best-effort: a broker
// failure never rolls back the order.
type OrderEvents interface {
	PublishCreated(ctx context.Context, msg OrderCreatedMsg) error
	PublishPaid(ctx context.Context, msg OrderPaidMsg) error
}

// StatusCache mirrors the order's lifecycle state for cheap reads.
type StatusCache interface {
	SetStatus(ctx context.Context, orderID string, status domain.Status) error
}
