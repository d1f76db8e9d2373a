package filter

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenharvest/catalog/internal/domain"
)

func fixtureProducts() []domain.Product {
	return []domain.Product{
		{
			ID:            "prd-1",
			Name:          "Tomatoes",
			Category:      "greenhouse-vegetables",
			GrowingMethod: domain.MethodGreenhouse,
			Organic:       true,
			Availability:  domain.AvailabilityAvailable,
			Origin:        "europe",
			MOQ:           domain.MOQ{Quantity: 500, Unit: "kg"},
			Pricing: domain.Pricing{Currency: "USD", Tiers: []domain.PricingTier{
				{MinQuantity: 1, Price: decimal.RequireFromString("2.5")},
			}},
		},
		{
			ID:            "prd-2",
			Name:          "Basil",
			Category:      "fresh-herbs",
			GrowingMethod: domain.MethodHydroponic,
			Organic:       false,
			Availability:  domain.AvailabilityAvailable,
			Origin:        "europe",
			MOQ:           domain.MOQ{Quantity: 50, Unit: "kg"},
			Pricing: domain.Pricing{Currency: "USD", Tiers: []domain.PricingTier{
				{MinQuantity: 1, Price: decimal.RequireFromString("8")},
			}},
		},
		{
			ID:            "prd-3",
			Name:          "Durum Wheat",
			Category:      "field-crops",
			GrowingMethod: domain.MethodField,
			Organic:       false,
			Availability:  domain.AvailabilityAvailable,
			Origin:        "north-america",
			MOQ:           domain.MOQ{Quantity: 5, Unit: "tons"},
		},
		{
			ID:            "prd-4",
			Name:          "Baby Spinach",
			Category:      "seasonal-produce",
			GrowingMethod: domain.MethodHydroponic,
			Organic:       true,
			Availability:  domain.AvailabilitySeasonal,
			Origin:        "asia",
			MOQ:           domain.MOQ{Quantity: 100, Unit: "kg"},
		},
	}
}

func ids(products []domain.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestApply_EmptySelectionIsIdentity(t *testing.T) {
	products := fixtureProducts()

	got := Apply(products, domain.FacetSelection{})

	assert.Equal(t, ids(products), ids(got))
}

func TestApply_EmptyInputYieldsEmptyOutput(t *testing.T) {
	got := Apply(nil, domain.FacetSelection{
		Facets: map[string][]string{domain.FacetRegion: {"europe"}},
	})

	assert.Empty(t, got)
}

func TestApply_SingleFacet(t *testing.T) {
	got := Apply(fixtureProducts(), domain.FacetSelection{
		Facets: map[string][]string{domain.FacetCategory: {"fresh-herbs"}},
	})

	assert.Equal(t, []string{"prd-2"}, ids(got))
}

func TestApply_ValuesWithinFacetAreORed(t *testing.T) {
	got := Apply(fixtureProducts(), domain.FacetSelection{
		Facets: map[string][]string{
			domain.FacetGrowingMethod: {"greenhouse", "hydroponic"},
		},
	})

	assert.Equal(t, []string{"prd-1", "prd-2", "prd-4"}, ids(got))
}

func TestApply_FacetsAreANDed(t *testing.T) {
	got := Apply(fixtureProducts(), domain.FacetSelection{
		Facets: map[string][]string{
			domain.FacetGrowingMethod: {"greenhouse", "hydroponic"},
			domain.FacetRegion:        {"europe"},
		},
	})

	assert.Equal(t, []string{"prd-1", "prd-2"}, ids(got))
}

func TestApply_OrganicOnly(t *testing.T) {
	got := Apply(fixtureProducts(), domain.FacetSelection{OrganicOnly: true})

	assert.Equal(t, []string{"prd-1", "prd-4"}, ids(got))
}

func TestApply_OrganicOnlyCombinesWithFacets(t *testing.T) {
	got := Apply(fixtureProducts(), domain.FacetSelection{
		Facets:      map[string][]string{domain.FacetRegion: {"europe"}},
		OrganicOnly: true,
	})

	assert.Equal(t, []string{"prd-1"}, ids(got))
}

func TestApply_UnknownFacetKeyIsIgnored(t *testing.T) {
	got := Apply(fixtureProducts(), domain.FacetSelection{
		Facets: map[string][]string{
			"certification":     {"global-gap"},
			domain.FacetRegion:  {"europe"},
		},
	})

	assert.Equal(t, []string{"prd-1", "prd-2"}, ids(got))
}

func TestApply_EmptyValueSetLeavesFacetUnconstrained(t *testing.T) {
	got := Apply(fixtureProducts(), domain.FacetSelection{
		Facets: map[string][]string{domain.FacetCategory: {}},
	})

	assert.Len(t, got, 4)
}

func TestApply_OutputIsSubsetInCatalogOrder(t *testing.T) {
	products := fixtureProducts()
	selections := []domain.FacetSelection{
		{},
		{OrganicOnly: true},
		{Facets: map[string][]string{domain.FacetAvailability: {"available"}}},
		{Facets: map[string][]string{
			domain.FacetCategory: {"field-crops", "fresh-herbs"},
			domain.FacetRegion:   {"europe", "asia", "north-america"},
		}},
	}

	for _, sel := range selections {
		got := Apply(products, sel)

		// Every result must come from the input, in input order.
		last := -1
		for _, p := range got {
			found := -1
			for i, orig := range products {
				if orig.ID == p.ID {
					found = i
					break
				}
			}
			require.GreaterOrEqual(t, found, 0, "result %s not in input", p.ID)
			require.Greater(t, found, last, "result order differs from catalog order")
			last = found
		}
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	products := fixtureProducts()

	Apply(products, domain.FacetSelection{OrganicOnly: true})

	assert.Equal(t, ids(fixtureProducts()), ids(products))
}
