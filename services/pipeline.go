package services

import (
	"cmp"
	"slices"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"shophub/models"
)

// FilterProducts returns the products matching spec, ordered by spec.SortBy.
// The input slice is left untouched. Products with equal sort keys keep the
// order they had in products.
func FilterProducts(products []models.Product, spec models.FilterSpec) []models.Product {
	filtered := make([]models.Product, 0, len(products))
	for _, product := range products {
		if spec.Category != "" && product.Category != spec.Category {
			continue
		}
		if product.Price.LessThan(spec.MinPrice) || product.Price.GreaterThan(spec.MaxPrice) {
			continue
		}
		filtered = append(filtered, product)
	}

	switch spec.SortBy {
	case models.SortByName:
		// Collators keep scratch buffers and are not safe for concurrent use.
		collator := collate.New(language.English)
		slices.SortStableFunc(filtered, func(a, b models.Product) int {
			return collator.CompareString(a.Title, b.Title)
		})
	case models.SortByPriceAsc:
		slices.SortStableFunc(filtered, func(a, b models.Product) int {
			return a.Price.Cmp(b.Price)
		})
	case models.SortByPriceDesc:
		slices.SortStableFunc(filtered, func(a, b models.Product) int {
			return b.Price.Cmp(a.Price)
		})
	case models.SortByRating:
		slices.SortStableFunc(filtered, func(a, b models.Product) int {
			return cmp.Compare(b.Rating.Rate, a.Rating.Rate)
		})
	}

	return filtered
}

// TotalPages is ceil(count / pageSize).
func TotalPages(count, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return (count + pageSize - 1) / pageSize
}

// Paginate returns the 1-based page of products. Pages past the end are
// empty; pages below 1 are treated as page 1.
func Paginate(products []models.Product, page, pageSize int) models.ProductPage {
	if page < 1 {
		page = 1
	}
	totalPages := TotalPages(len(products), pageSize)

	start := min((page-1)*pageSize, len(products))
	end := min(start+pageSize, len(products))

	result := models.ProductPage{
		Products:    slices.Clone(products[start:end]),
		Page:        page,
		Limit:       pageSize,
		TotalPages:  totalPages,
		TotalCount:  len(products),
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}
	if result.Products == nil {
		result.Products = []models.Product{}
	}
	if end > start {
		result.From = start + 1
		result.To = end
	}
	return result
}

// Browser is the product listing state of one shopper: the catalog, the
// active filter and the current page. Replacing the catalog or the filter
// always sends the shopper back to page 1.
type Browser struct {
	mu       sync.Mutex
	products []models.Product
	filter   models.FilterSpec
	filtered []models.Product
	page     int
	pageSize int
}

func NewBrowser() *Browser {
	return &Browser{
		filter:   models.DefaultFilterSpec(),
		filtered: []models.Product{},
		page:     1,
		pageSize: models.PageSize,
	}
}

func (b *Browser) SetProducts(products []models.Product) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.products = slices.Clone(products)
	b.refresh()
}

func (b *Browser) SetFilter(spec models.FilterSpec) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.filter = spec
	b.refresh()
}

// ResetFilter restores the default filter.
func (b *Browser) ResetFilter() {
	b.SetFilter(models.DefaultFilterSpec())
}

// SetPage moves to page, clamped to the available pages.
func (b *Browser) SetPage(page int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	last := max(TotalPages(len(b.filtered), b.pageSize), 1)
	b.page = min(max(page, 1), last)
}

func (b *Browser) Filter() models.FilterSpec {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.filter
}

func (b *Browser) Page() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.page
}

// View returns the currently visible page.
func (b *Browser) View() models.ProductPage {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Paginate(b.filtered, b.page, b.pageSize)
}

func (b *Browser) refresh() {
	b.filtered = FilterProducts(b.products, b.filter)
	b.page = 1
}
