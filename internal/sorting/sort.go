// Package sorting orders a filtered catalog view by a single sort key.
package sorting

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/greenharvest/catalog/internal/domain"
)

// Apply returns a new slice ordered by the given key. The input slice
// is copied, never reordered in place. All comparators are stable:
// products with equal keys keep their original relative order, which
// also makes the sort idempotent.
//
// The language tag drives collation for name ordering so that accented
// names sort next to their unaccented forms ("Épinard" near "Endive").
// MOQ ordering compares the raw quantity and ignores the unit; mixed
// unit families (kg vs tons) are not normalized.
func Apply(products []domain.Product, key domain.SortKey, tag language.Tag) []domain.Product {
	out := make([]domain.Product, len(products))
	copy(out, products)

	switch key {
	case domain.SortByPrice:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Pricing.BasePrice().LessThan(out[j].Pricing.BasePrice())
		})
	case domain.SortByMOQ:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].MOQ.Quantity < out[j].MOQ.Quantity
		})
	default:
		c := collate.New(tag)
		sort.SliceStable(out, func(i, j int) bool {
			return c.CompareString(out[i].Name, out[j].Name) < 0
		})
	}

	return out
}
