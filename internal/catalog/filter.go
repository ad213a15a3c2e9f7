// internal/catalog/filter.go
package catalog

import "strings"

// ByCategory returns the products whose category equals category.
func ByCategory(products []Product, category string) []Product {
	return filter(products, func(p Product) bool {
		return p.Category == category
	})
}

// BySearchTerm returns the products whose title or description contains term,
// ignoring case. An empty term matches everything.
func BySearchTerm(products []Product, term string) []Product {
	term = strings.ToLower(term)
	return filter(products, func(p Product) bool {
		return strings.Contains(strings.ToLower(p.Title), term) ||
			strings.Contains(strings.ToLower(p.Description), term)
	})
}

// ByOfferTag returns the products an offer applies to. Matching is by
// substring so that a tag like "clothing" covers every clothing category.
func ByOfferTag(products []Product, offer Offer) []Product {
	if offer.Category == OfferAll {
		return filter(products, func(Product) bool { return true })
	}
	return filter(products, func(p Product) bool {
		return strings.Contains(p.Category, offer.Category)
	})
}

// DistinctCategories returns each category once, in first-seen order.
func DistinctCategories(products []Product) []string {
	seen := make(map[string]struct{}, len(products))
	categories := make([]string, 0)
	for _, p := range products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}
	return categories
}

func filter(products []Product, keep func(Product) bool) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
