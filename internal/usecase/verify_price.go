package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	domain "github.com/PabloIb21/teslo-orders-api/internal/entity"
)

// Totals is the server-side pricing result. All three values are rounded to
// the currency's two-decimal precision, half away from zero.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// PriceVerifier recomputes an order's money from authoritative catalog prices
// and rejects any client-claimed total that disagrees. It is pure apart from
// the catalog lookup.
type PriceVerifier struct {
	catalog PriceSource
}

func NewPriceVerifier(catalog PriceSource) *PriceVerifier {
	return &PriceVerifier{catalog: catalog}
}

// Verify prices every line item against the catalog and checks the claimed
// total bit-exactly against the rounded computed total. Duplicate product ids
// are priced independently, not merged.
func (v *PriceVerifier) Verify(ctx context.Context, items []domain.LineItem, claimedTotal, taxRate decimal.Decimal) (Totals, error) {
	ids := distinctProductIDs(items)
	prices, err := v.catalog.PricesByID(ctx, ids)
	if err != nil {
		return Totals{}, upstream(err)
	}

	subtotal := decimal.Zero
	for _, it := range items {
		unit, ok := prices[it.ProductID]
		if !ok {
			return Totals{}, fmt.Errorf("%w: %s", ErrUnknownProduct, it.ProductID)
		}
		subtotal = subtotal.Add(unit.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}

	subtotal = subtotal.Round(2)
	tax := subtotal.Mul(taxRate).Round(2)
	total := subtotal.Add(tax).Round(2)

	if !claimedTotal.Equal(total) {
		return Totals{}, fmt.Errorf("%w: claimed %s, computed %s",
			ErrTotalMismatch, claimedTotal.StringFixed(2), total.StringFixed(2))
	}
	return Totals{Subtotal: subtotal, Tax: tax, Total: total}, nil
}

func distinctProductIDs(items []domain.LineItem) []string {
	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.ProductID]; ok {
			continue
		}
		seen[it.ProductID] = struct{}{}
		ids = append(ids, it.ProductID)
	}
	return ids
}
