// Package cart implements the session cart ledger and its session
// storage adapters. The ledger has value semantics: every operation
// returns a new Ledger and leaves its receiver untouched, so callers
// can treat states as immutable values and the engine stays free of
// hidden shared mutation.
package cart

import (
	"github.com/shopspring/decimal"
)

// Line is one (product, variant) entry in a cart. The unit price is
// locked in when the line is created or merged; it is not re-derived
// from the catalog afterwards.
type Line struct {
	ProductID string          `json:"product_id"`
	VariantID string          `json:"variant_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Currency  string          `json:"currency"`
}

// Subtotal returns quantity × unit price for the line.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Ledger is the running cart for one session. Lines are keyed by
// (product, variant) and kept in insertion order. Currency is
// established by the first line; the ledger enforces single-currency
// carts.
type Ledger struct {
	Currency string `json:"currency"`
	Lines    []Line `json:"lines"`
}

// AddItem returns a ledger with the item added. An existing line for
// the same (product, variant) key has its quantity summed and its unit
// price replaced by the supplied one, so callers can reprice merged
// lines against tier breakpoints. Fails with ErrInvalidQuantity for a
// non-positive quantity and ErrCurrencyMismatch when the currency
// differs from the ledger's established one.
func (g Ledger) AddItem(productID, variantID string, quantity int, unitPrice decimal.Decimal, currency string) (Ledger, error) {
	if quantity <= 0 {
		return Ledger{}, ErrInvalidQuantity
	}
	if g.Currency != "" && currency != g.Currency {
		return Ledger{}, ErrCurrencyMismatch
	}

	next := g.clone()
	next.Currency = currency
	for i, line := range next.Lines {
		if line.ProductID == productID && line.VariantID == variantID {
			next.Lines[i].Quantity += quantity
			next.Lines[i].UnitPrice = unitPrice
			return next, nil
		}
	}

	next.Lines = append(next.Lines, Line{
		ProductID: productID,
		VariantID: variantID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Currency:  currency,
	})
	return next, nil
}

// RemoveItem returns a ledger without the given line. A missing key is
// a no-op, not an error. Removing the last line also resets the
// established currency, so add-then-remove round-trips back to the
// pre-add state.
func (g Ledger) RemoveItem(productID, variantID string) Ledger {
	next := g.clone()
	for i, line := range next.Lines {
		if line.ProductID == productID && line.VariantID == variantID {
			next.Lines = append(next.Lines[:i], next.Lines[i+1:]...)
			break
		}
	}
	if len(next.Lines) == 0 {
		next.Currency = ""
		next.Lines = nil
	}
	return next
}

// SetQuantity returns a ledger with the line's quantity replaced. The
// line keeps its locked unit price. Fails with ErrInvalidQuantity for
// a non-positive quantity (use RemoveItem to delete a line) and
// ErrLineNotFound when the key is absent.
func (g Ledger) SetQuantity(productID, variantID string, quantity int) (Ledger, error) {
	if quantity <= 0 {
		return Ledger{}, ErrInvalidQuantity
	}
	next := g.clone()
	for i, line := range next.Lines {
		if line.ProductID == productID && line.VariantID == variantID {
			next.Lines[i].Quantity = quantity
			return next, nil
		}
	}
	return Ledger{}, ErrLineNotFound
}

// Clear returns an empty ledger.
func (g Ledger) Clear() Ledger {
	return Ledger{}
}

// IsEmpty reports whether the ledger has no lines.
func (g Ledger) IsEmpty() bool {
	return len(g.Lines) == 0
}

// Total recomputes the grand total as the sum of quantity × unit price
// over all lines. It is never cached; an empty ledger totals zero.
func (g Ledger) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range g.Lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

func (g Ledger) clone() Ledger {
	next := Ledger{Currency: g.Currency}
	if len(g.Lines) > 0 {
		next.Lines = make([]Line, len(g.Lines))
		copy(next.Lines, g.Lines)
	}
	return next
}
