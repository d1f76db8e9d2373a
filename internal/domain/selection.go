package domain

// Facet names recognized by the filter engine. Selections may carry
// other keys; they are ignored rather than rejected so that newer
// storefront builds can send facets this version does not know about.
const (
	FacetCategory      = "category"
	FacetGrowingMethod = "growingMethod"
	FacetAvailability  = "availability"
	FacetRegion        = "region"
)

// KnownFacets lists the facet keys the engine matches on, in the order
// the storefront presents them.
var KnownFacets = []string{
	FacetCategory,
	FacetGrowingMethod,
	FacetAvailability,
	FacetRegion,
}

// FacetSelection is the set of active filter constraints for one
// catalog-viewing session. Values within one facet are OR-combined,
// facets are AND-combined. An empty (or absent) value set means the
// facet is unconstrained.
type FacetSelection struct {
	Facets      map[string][]string `json:"facets"`
	OrganicOnly bool                `json:"organic_only"`
}

// IsEmpty reports whether the selection constrains nothing.
func (s FacetSelection) IsEmpty() bool {
	if s.OrganicOnly {
		return false
	}
	for _, values := range s.Facets {
		if len(values) > 0 {
			return false
		}
	}
	return true
}
