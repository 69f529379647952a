package catalog

import (
	"sort"

	"github.com/hatbazar/hatbazar/internal/domain"
)

// Run executes the full pipeline over a candidate set: filter, sort, window.
// Candidates arrive unordered from a store adapter; the caller has already
// applied the visibility scope.
func Run(candidates []domain.Product, q Query) Page {
	filtered := Filter(candidates, q)
	Sort(filtered, q)
	return Window(filtered, q)
}

// Facets derives the distinct filter values present in a candidate set, for
// UI facet rendering. Values are sorted for stable output.
func Facets(candidates []domain.Product) domain.FilterOptions {
	categories := map[string]struct{}{}
	brands := map[string]struct{}{}

	for _, p := range candidates {
		if p.Category != "" {
			categories[p.Category] = struct{}{}
		}
		if p.Brand != "" {
			brands[p.Brand] = struct{}{}
		}
	}

	opts := domain.FilterOptions{
		Categories: keys(categories),
		Brands:     keys(brands),
		Conditions: []string{
			string(domain.ConditionNew),
			string(domain.ConditionLikeNew),
			string(domain.ConditionGood),
			string(domain.ConditionFair),
			string(domain.ConditionPoor),
		},
	}
	return opts
}

func keys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
