package models

import (
	"github.com/shopspring/decimal"
)

// PageSize is the number of products shown per catalog page.
const PageSize = 12

type SortBy string

const (
	SortByName      SortBy = "name"
	SortByPriceAsc  SortBy = "price-asc"
	SortByPriceDesc SortBy = "price-desc"
	SortByRating    SortBy = "rating"
)

func (s SortBy) Valid() bool {
	switch s {
	case SortByName, SortByPriceAsc, SortByPriceDesc, SortByRating:
		return true
	default:
		return false
	}
}

var (
	DefaultMinPrice = decimal.Zero
	DefaultMaxPrice = decimal.NewFromInt(1000)
)

// FilterSpec controls which products are visible and in what order.
// An empty Category matches every category. Price bounds are inclusive.
type FilterSpec struct {
	Category string          `json:"category"`
	MinPrice decimal.Decimal `json:"min_price"`
	MaxPrice decimal.Decimal `json:"max_price"`
	SortBy   SortBy          `json:"sort_by"`
}

func DefaultFilterSpec() FilterSpec {
	return FilterSpec{
		MinPrice: DefaultMinPrice,
		MaxPrice: DefaultMaxPrice,
		SortBy:   SortByName,
	}
}

// Equal compares prices numerically, so 10 and 10.00 are the same bound.
func (f FilterSpec) Equal(other FilterSpec) bool {
	return f.Category == other.Category &&
		f.MinPrice.Equal(other.MinPrice) &&
		f.MaxPrice.Equal(other.MaxPrice) &&
		f.SortBy == other.SortBy
}

// ProductPage is one page of a filtered and sorted product list.
// From and To are the 1-based positions of the first and last product on the
// page, both zero when the page is empty.
type ProductPage struct {
	Products    []Product `json:"products"`
	Page        int       `json:"page"`
	Limit       int       `json:"limit"`
	TotalPages  int       `json:"total_pages"`
	TotalCount  int       `json:"total_count"`
	From        int       `json:"from"`
	To          int       `json:"to"`
	HasNext     bool      `json:"has_next"`
	HasPrevious bool      `json:"has_previous"`
}
