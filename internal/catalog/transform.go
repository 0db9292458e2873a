package catalog

import (
	"sort"
	"strings"

	"github.com/salesmatrix/sales-matrix/internal/model"
)

// Sort modes over a resolved catalog.
const (
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
	SortRating    = "rating"
	SortNewest    = "newest"
)

// FilterByPrice keeps products with min <= price <= max. A negative max means
// no upper bound. The input is not mutated.
func FilterByPrice(products []model.Product, min, max float64) []model.Product {
	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		if p.Price < min {
			continue
		}
		if max >= 0 && p.Price > max {
			continue
		}
		out = append(out, p)
	}
	return out
}

// FilterByRating keeps products rated at least min.
func FilterByRating(products []model.Product, min int) []model.Product {
	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		if p.Rating >= min {
			out = append(out, p)
		}
	}
	return out
}

// Search keeps products whose name or description contains q,
// case-insensitively. An empty query returns the input unchanged.
func Search(products []model.Product, q string) []model.Product {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return products
	}
	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Description), q) {
			out = append(out, p)
		}
	}
	return out
}

// SortBy returns a sorted copy of products; an unknown mode returns the copy
// in original order. Newest sorts by descending ID.
func SortBy(products []model.Product, mode string) []model.Product {
	out := append([]model.Product(nil), products...)
	switch mode {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case SortRating:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	case SortNewest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	}
	return out
}

// FindByID returns the product with the given ID from a resolved catalog.
func FindByID(products []model.Product, id int) (model.Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return model.Product{}, false
}
