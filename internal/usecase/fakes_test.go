package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	domain "github.com/PabloIb21/teslo-orders-api/internal/entity"
)

// staticPrices is an in-memory catalog price lookup.
type staticPrices map[string]string

func (p staticPrices) PricesByID(_ context.Context, ids []string) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal, len(ids))
	for _, id := range ids {
		if s, ok := p[id]; ok {
			out[id] = decimal.RequireFromString(s)
		}
	}
	return out, nil
}

// memOrderRepo is an in-memory order store whose MarkPaid performs the same
// atomic conditional write the MySQL repo does.
type memOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*domain.Order
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{orders: make(map[string]*domain.Order)}
}

func (r *memOrderRepo) Create(_ context.Context, o *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *o
	r.orders[o.ID] = &cp
	return nil
}

func (r *memOrderRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *memOrderRepo) ListByUser(_ context.Context, userID string) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *memOrderRepo) ListAll(_ context.Context) ([]OrderSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []OrderSummary
	for _, o := range r.orders {
		out = append(out, OrderSummary{
			ID:            o.ID,
			Total:         o.Total,
			IsPaid:        o.IsPaid,
			NumberOfItems: o.NumberOfItems,
			CreatedAt:     o.CreatedAt,
		})
	}
	return out, nil
}

func (r *memOrderRepo) MarkPaid(_ context.Context, id, transactionID string, paidAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok || o.IsPaid {
		return false, nil
	}
	o.IsPaid = true
	o.TransactionID = transactionID
	t := paidAt
	o.PaidAt = &t
	return true, nil
}

// memEvents records published lifecycle events.
type memEvents struct {
	mu      sync.Mutex
	created []OrderCreatedMsg
	paid    []OrderPaidMsg
}

func (e *memEvents) PublishCreated(_ context.Context, msg OrderCreatedMsg) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.created = append(e.created, msg)
	return nil
}

func (e *memEvents) PublishPaid(_ context.Context, msg OrderPaidMsg) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.paid = append(e.paid, msg)
	return nil
}
