package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the catalog record. The price here is the authoritative one:
// order totals are always recomputed from it, never from client input.
type Product struct {
	ID          string          `json:"id"`
	Slug        string          `json:"slug"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	InStock     int             `json:"inStock"`
	Sizes       []string        `json:"sizes,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}
