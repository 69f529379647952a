package catalog

import (
	"strings"

	"github.com/hatbazar/hatbazar/internal/domain"
)

// Filter narrows candidates to the products matching every predicate in the
// query (logical AND). The input slice is not mutated; filtering the result
// again with the same query yields the same result.
func Filter(products []domain.Product, q Query) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if Matches(p, q) {
			out = append(out, p)
		}
	}
	return out
}

// Matches reports whether a single product satisfies all predicates of q.
func Matches(p domain.Product, q Query) bool {
	// Category: case-insensitive exact match. Substring/fuzzy matching
	// belongs to the search parameter, not here.
	if q.Category != "" && !strings.EqualFold(p.Category, q.Category) {
		return false
	}

	if q.Condition != "" && string(p.Condition) != q.Condition {
		return false
	}

	// Inclusive bounds; a lone minPrice means no upper bound.
	if q.MinPriceCents != nil && p.PriceCents < *q.MinPriceCents {
		return false
	}
	if q.MaxPriceCents != nil && p.PriceCents > *q.MaxPriceCents {
		return false
	}

	if q.Featured != nil && p.IsFeatured != *q.Featured {
		return false
	}

	if q.Search != "" && !matchesSearch(p, q.Search) {
		return false
	}

	return true
}

// matchesSearch is the one OR-combined predicate: a case-insensitive
// substring hit on name, description, or any feature tag counts.
func matchesSearch(p domain.Product, term string) bool {
	needle := strings.ToLower(term)

	if strings.Contains(strings.ToLower(p.Name), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Description), needle) {
		return true
	}
	for _, f := range p.Features {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
