package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	domain "github.com/PabloIb21/teslo-orders-api/internal/entity"
	"github.com/PabloIb21/teslo-orders-api/internal/usecase"
)

var ErrProductNotFound = errors.New("product not found")

// MySQLCatalogRepo reads the product catalog. The order engine only ever
// reads from it; catalog maintenance lives elsewhere.
type MySQLCatalogRepo struct{ db *sql.DB }

func NewMySQLCatalogRepo(db *sql.DB) *MySQLCatalogRepo { return &MySQLCatalogRepo{db: db} }

// PricesByID resolves authoritative unit prices for a batch of product ids.
// Ids without a catalog record are left out of the result; the caller decides
// whether that is an error.
func (r *MySQLCatalogRepo) PricesByID(ctx context.Context, ids []string) (map[string]decimal.Decimal, error) {
	if len(ids) == 0 {
		return map[string]decimal.Decimal{}, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT id, price FROM products WHERE id IN (%s)`, placeholders), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prices := make(map[string]decimal.Decimal, len(ids))
	for rows.Next() {
		var id string
		var price decimal.Decimal
		if err := rows.Scan(&id, &price); err != nil {
			return nil, err
		}
		prices[id] = price
	}
	return prices, rows.Err()
}

func (r *MySQLCatalogRepo) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id,slug,title,description,price,in_stock,sizes,tags,created_at
FROM products WHERE slug=?`, slug)

	var p domain.Product
	var sizes, tags string
	err := row.Scan(&p.ID, &p.Slug, &p.Title, &p.Description, &p.Price, &p.InStock, &sizes, &tags, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	p.Sizes = splitCSV(sizes)
	p.Tags = splitCSV(tags)
	return &p, nil
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

var _ usecase.CatalogRepo = (*MySQLCatalogRepo)(nil)
