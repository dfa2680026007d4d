// Package catalog implements the public product query engine: active
// filtering, category and free-text search, and promotional sorting.
package catalog

import (
	"sort"
	"strings"

	"storefront/internal/model"
)

// AllCategories is the sentinel category that disables filtering
const AllCategories = "All"

// Filter returns the publicly visible products matching the optional
// category and search terms. Inactive products never appear. The result
// is sorted hot-first, then newest (highest ID) first.
func Filter(products []model.Product, category, search string) []model.Product {
	out := []model.Product{}
	needle := strings.ToLower(search)

	for _, p := range products {
		if !p.Active {
			continue
		}
		// Category match is exact and case-sensitive
		if category != "" && category != AllCategories && p.Category != category {
			continue
		}
		if needle != "" && !matches(p, needle) {
			continue
		}
		out = append(out, p)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Hot != out[j].Hot {
			return out[i].Hot
		}
		return out[i].ID > out[j].ID
	})
	return out
}

// matches reports whether the lowercased needle occurs in the product's
// name, description or category
func matches(p model.Product, needle string) bool {
	return strings.Contains(strings.ToLower(p.Name), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle) ||
		strings.Contains(strings.ToLower(p.Category), needle)
}

// Categories returns the distinct categories of active products,
// prefixed with the "All" sentinel.
func Categories(products []model.Product) []string {
	cats := []string{AllCategories}
	seen := map[string]bool{}
	for _, p := range products {
		if !p.Active || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		cats = append(cats, p.Category)
	}
	return cats
}
