package domain

import "github.com/shopspring/decimal"

// GrowingMethod is how a crop is cultivated.
type GrowingMethod string

const (
	MethodGreenhouse GrowingMethod = "greenhouse"
	MethodField      GrowingMethod = "field"
	MethodHydroponic GrowingMethod = "hydroponic"
)

// AvailabilityStatus represents the current supply state of a product.
type AvailabilityStatus string

const (
	AvailabilityAvailable  AvailabilityStatus = "available"
	AvailabilitySeasonal   AvailabilityStatus = "seasonal"
	AvailabilityLimited    AvailabilityStatus = "limited"
	AvailabilityOutOfStock AvailabilityStatus = "out-of-stock"
)

// MOQ is the minimum order quantity for a product.
type MOQ struct {
	Quantity int    `json:"quantity"`
	Unit     string `json:"unit"`
}

// PricingTier is one breakpoint in a quantity-tiered price schedule.
// Tiers are kept ascending by MinQuantity and do not overlap.
type PricingTier struct {
	MinQuantity int             `json:"min_quantity"`
	Price       decimal.Decimal `json:"price"`
}

// Pricing is a product's currency and tiered price schedule.
type Pricing struct {
	Currency string        `json:"currency"`
	Tiers    []PricingTier `json:"tiers"`
}

// BasePrice returns the lowest-tier price, or zero when no tiers exist.
func (p Pricing) BasePrice() decimal.Decimal {
	if len(p.Tiers) == 0 {
		return decimal.Zero
	}
	return p.Tiers[0].Price
}

// PriceFor returns the unit price for the given order quantity: the
// highest tier whose MinQuantity does not exceed it. Quantities below
// the first breakpoint fall back to the first tier.
func (p Pricing) PriceFor(quantity int) decimal.Decimal {
	if len(p.Tiers) == 0 {
		return decimal.Zero
	}
	price := p.Tiers[0].Price
	for _, tier := range p.Tiers {
		if quantity < tier.MinQuantity {
			break
		}
		price = tier.Price
	}
	return price
}

// Variant is a sellable packaging of a product.
type Variant struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	SKU      string `json:"sku"`
	PackSize string `json:"pack_size"`
	Unit     string `json:"unit"`
}

// Product is one catalog entry. Products are created when the catalog
// snapshot is loaded and never mutated afterwards.
type Product struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Slug          string             `json:"slug"`
	Description   string             `json:"description"`
	Category      string             `json:"category"`
	GrowingMethod GrowingMethod      `json:"growing_method"`
	Organic       bool               `json:"organic"`
	Availability  AvailabilityStatus `json:"availability"`
	MOQ           MOQ                `json:"moq"`
	Pricing       Pricing            `json:"pricing"`
	Origin        string             `json:"origin"`
	Variants      []Variant          `json:"variants"`
}

// VariantByID returns the named variant, if the product has it.
func (p Product) VariantByID(id string) (Variant, bool) {
	for _, v := range p.Variants {
		if v.ID == id {
			return v, true
		}
	}
	return Variant{}, false
}
