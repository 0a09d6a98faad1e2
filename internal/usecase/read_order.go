package usecase

import (
	"context"

	domain "github.com/PabloIb21/teslo-orders-api/internal/entity"
)

// OrderQueries serves order reads with ownership enforcement.
type OrderQueries struct {
	repo OrderRepo
}

func NewOrderQueries(repo OrderRepo) *OrderQueries {
	return &OrderQueries{repo: repo}
}

// GetOrder returns the order only to its owner. Admins may inspect any order
// (the maintenance dashboard links straight into order detail).
func (q *OrderQueries) GetOrder(ctx context.Context, orderID, requesterID string, requesterRole domain.Role) (*domain.Order, error) {
	if requesterID == "" {
		return nil, ErrUnauthorized
	}
	order, err := q.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, upstream(err)
	}
	if order.UserID != requesterID && requesterRole != domain.RoleAdmin {
		return nil, ErrForbidden
	}
	return order, nil
}

func (q *OrderQueries) ListUserOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	orders, err := q.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, upstream(err)
	}
	return orders, nil
}

// ListAllOrders backs the admin maintenance listing. Role checks happen at
// the transport layer; this query assumes an already-authorized caller.
func (q *OrderQueries) ListAllOrders(ctx context.Context) ([]OrderSummary, error) {
	summaries, err := q.repo.ListAll(ctx)
	if err != nil {
		return nil, upstream(err)
	}
	return summaries, nil
}
