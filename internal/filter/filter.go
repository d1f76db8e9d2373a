// Package filter narrows a catalog snapshot to the products matching a
// facet selection. It is a pure function over its inputs: no state, no
// I/O, and the original ordering of the snapshot is preserved.
package filter

import (
	"slices"

	"github.com/greenharvest/catalog/internal/domain"
)

// Apply returns the products that satisfy every constrained facet in
// the selection. Values within a facet are OR-combined, facets are
// AND-combined. Unknown facet keys are skipped, an empty value set
// leaves its facet unconstrained, and an empty product list yields an
// empty result. The input slice is never modified.
func Apply(products []domain.Product, sel domain.FacetSelection) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if matches(p, sel) {
			out = append(out, p)
		}
	}
	return out
}

func matches(p domain.Product, sel domain.FacetSelection) bool {
	if sel.OrganicOnly && !p.Organic {
		return false
	}
	for facet, values := range sel.Facets {
		if len(values) == 0 {
			continue
		}
		attr, known := facetValue(p, facet)
		if !known {
			continue
		}
		if !slices.Contains(values, attr) {
			return false
		}
	}
	return true
}

// facetValue resolves a facet key to the product attribute it filters
// on. The second return is false for keys this version does not match.
func facetValue(p domain.Product, facet string) (string, bool) {
	switch facet {
	case domain.FacetCategory:
		return p.Category, true
	case domain.FacetGrowingMethod:
		return string(p.GrowingMethod), true
	case domain.FacetAvailability:
		return string(p.Availability), true
	case domain.FacetRegion:
		return p.Origin, true
	default:
		return "", false
	}
}
