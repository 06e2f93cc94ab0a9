package domain

type FilterType string

const (
	FilterAll       FilterType = "all"
	FilterYear      FilterType = "year"
	FilterYearMonth FilterType = "yearMonth"
	FilterPrice     FilterType = "price"
	FilterLocation  FilterType = "location"
	FilterName      FilterType = "name"
)

const (
	PriceGreaterThan = "gt"
	PriceLessThan    = "lt"
)

// ListFilter selects exactly one filter mode; parameters of the other
// modes are ignored. Missing parameters degrade to no predicate rather
// than erroring.
type ListFilter struct {
	Type FilterType

	Year  string
	Month string

	PriceComparison string
	PriceValue      *float64

	LocationType string
	LocationName string
	District     string

	Name string
}
