package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "github.com/PabloIb21/teslo-orders-api/internal/entity"
	"github.com/PabloIb21/teslo-orders-api/internal/usecase"
)

type MySQLOrderRepo struct{ db *sql.DB }

func NewMySQLOrderRepo(db *sql.DB) *MySQLOrderRepo { return &MySQLOrderRepo{db: db} }

// Create persists the order and its line items in one transaction, so a
// cancelled request leaves no partial order behind.
func (r *MySQLOrderRepo) Create(ctx context.Context, o *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
INSERT INTO orders (id,user_id,number_of_items,subtotal,tax,total,is_paid,transaction_id,
                    ship_first_name,ship_last_name,ship_address,ship_address2,ship_zip,ship_city,ship_country,ship_phone,
                    created_at)
VALUES (?,?,?,?,?,?,0,'',?,?,?,?,?,?,?,?,?)`,
		o.ID, o.UserID, o.NumberOfItems, o.Subtotal, o.Tax, o.Total,
		o.ShippingAddress.FirstName, o.ShippingAddress.LastName, o.ShippingAddress.Address, o.ShippingAddress.Address2,
		o.ShippingAddress.Zip, o.ShippingAddress.City, o.ShippingAddress.Country, o.ShippingAddress.Phone,
		o.CreatedAt)
	if err != nil {
		return err
	}

	for i, it := range o.Items {
		_, err = tx.ExecContext(ctx, `
INSERT INTO order_items (order_id,position,product_id,quantity,size,unit_price)
VALUES (?,?,?,?,?,?)`,
			o.ID, i, it.ProductID, it.Quantity, it.Size, it.UnitPrice)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *MySQLOrderRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id,user_id,number_of_items,subtotal,tax,total,is_paid,transaction_id,paid_at,
       ship_first_name,ship_last_name,ship_address,ship_address2,ship_zip,ship_city,ship_country,ship_phone,
       created_at
FROM orders WHERE id=?`, id)

	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, usecase.ErrOrderNotFound
		}
		return nil, err
	}

	items, err := r.itemsByOrder(ctx, []string{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]
	return o, nil
}

func (r *MySQLOrderRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id,user_id,number_of_items,subtotal,tax,total,is_paid,transaction_id,paid_at,
       ship_first_name,ship_last_name,ship_address,ship_address2,ship_zip,ship_city,ship_country,ship_phone,
       created_at
FROM orders WHERE user_id=? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	var ids []string
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, nil
	}

	items, err := r.itemsByOrder(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}
	return orders, nil
}

func (r *MySQLOrderRepo) ListAll(ctx context.Context) ([]usecase.OrderSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT o.id,u.email,u.name,o.total,o.is_paid,o.number_of_items,o.created_at
FROM orders o JOIN users u ON u.id = o.user_id
ORDER BY o.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []usecase.OrderSummary
	for rows.Next() {
		var s usecase.OrderSummary
		if err := rows.Scan(&s.ID, &s.UserEmail, &s.UserName, &s.Total, &s.IsPaid, &s.NumberOfItems, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// MarkPaid is the per-order conditional write: the paid state is applied iff
// the order is still unpaid, so concurrent confirmations can never both win.
func (r *MySQLOrderRepo) MarkPaid(ctx context.Context, id, transactionID string, paidAt time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
UPDATE orders
SET is_paid = 1, transaction_id = ?, paid_at = ?
WHERE id = ? AND is_paid = 0`,
		transactionID, paidAt, id)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	// rows == 0 → nothing matched (either not found or already paid)
	return rows > 0, nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanOrder(row scannable) (*domain.Order, error) {
	var o domain.Order
	var paidAt sql.NullTime
	err := row.Scan(&o.ID, &o.UserID, &o.NumberOfItems, &o.Subtotal, &o.Tax, &o.Total, &o.IsPaid, &o.TransactionID, &paidAt,
		&o.ShippingAddress.FirstName, &o.ShippingAddress.LastName, &o.ShippingAddress.Address, &o.ShippingAddress.Address2,
		&o.ShippingAddress.Zip, &o.ShippingAddress.City, &o.ShippingAddress.Country, &o.ShippingAddress.Phone,
		&o.CreatedAt)
	if err != nil {
		return nil, err
	}
	if paidAt.Valid {
		t := paidAt.Time
		o.PaidAt = &t
	}
	return &o, nil
}

func (r *MySQLOrderRepo) itemsByOrder(ctx context.Context, orderIDs []string) (map[string][]domain.LineItem, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(orderIDs)), ",")
	args := make([]any, len(orderIDs))
	for i, id := range orderIDs {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`
SELECT order_id,product_id,quantity,size,unit_price
FROM order_items WHERE order_id IN (%s) ORDER BY order_id, position`, placeholders), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]domain.LineItem, len(orderIDs))
	for rows.Next() {
		var orderID string
		var it domain.LineItem
		if err := rows.Scan(&orderID, &it.ProductID, &it.Quantity, &it.Size, &it.UnitPrice); err != nil {
			return nil, err
		}
		out[orderID] = append(out[orderID], it)
	}
	return out, rows.Err()
}

var _ usecase.OrderRepo = (*MySQLOrderRepo)(nil)
