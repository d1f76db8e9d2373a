package domain

// SortKey selects the comparator for catalog ordering.
type SortKey string

const (
	SortByName  SortKey = "name"
	SortByPrice SortKey = "price"
	SortByMOQ   SortKey = "moq"
)

// ParseSortKey maps user input to a SortKey. Unrecognized input falls
// back to name ordering, matching the storefront's default dropdown
// state.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortByPrice:
		return SortByPrice
	case SortByMOQ:
		return SortByMOQ
	default:
		return SortByName
	}
}
