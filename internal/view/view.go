// Package view derives what the console shows from store snapshots. Nothing
// here mutates its input.
package view

import (
	"sort"
	"strings"

	"github.com/mookkammal/storefront/internal/models"
	"github.com/mookkammal/storefront/internal/seed"
	"golang.org/x/text/cases"
)

// AllCategories disables category filtering
const AllCategories = "All"

// SortKey orders a product listing
type SortKey string

const (
	SortNewest    SortKey = "newest"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortRating    SortKey = "rating"
)

// ParseSortKey maps user input to a SortKey; anything unknown sorts newest first
func ParseSortKey(s string) SortKey {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortPriceLow, SortPriceHigh, SortRating:
		return k
	}
	return SortNewest
}

// Query selects and orders products of one vertical
type Query struct {
	Vertical    models.Vertical
	Category    string
	SubCategory string
	Text        string
	Sort        SortKey
}

// Filter returns the products matching q. Products of any other vertical are
// never returned.
func Filter(products []models.Product, q Query) []models.Product {
	needle := fold(strings.TrimSpace(q.Text))
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if p.Vertical != q.Vertical {
			continue
		}
		if q.Category != "" && q.Category != AllCategories && p.Category != q.Category {
			continue
		}
		if q.SubCategory != "" && p.SubCategory != q.SubCategory {
			continue
		}
		if needle != "" && !strings.Contains(fold(p.Name), needle) {
			continue
		}
		out = append(out, p)
	}

	switch q.Sort {
	case SortPriceLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case SortRating:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	}
	return out
}

// Featured returns the first n products of vertical v in catalog order
func Featured(products []models.Product, v models.Vertical, n int) []models.Product {
	out := Filter(products, Query{Vertical: v})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Categories returns the category menu of v, led by "All"
func Categories(v models.Vertical) []string {
	tax := seed.TaxonomyFor(v)
	return append([]string{AllCategories}, tax.Categories...)
}

// SubCategories returns the sub-categories of a category in v
func SubCategories(v models.Vertical, category string) []string {
	subs := seed.TaxonomyFor(v).SubCategories[category]
	out := make([]string, len(subs))
	copy(out, subs)
	return out
}

// AdminSearch matches product names case-insensitively across both verticals
func AdminSearch(products []models.Product, text string) []models.Product {
	needle := fold(strings.TrimSpace(text))
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if needle == "" || strings.Contains(fold(p.Name), needle) {
			out = append(out, p)
		}
	}
	return out
}

// fold builds a new Caser per call since Casers are not safe for concurrent use
func fold(s string) string {
	return cases.Fold().String(s)
}
